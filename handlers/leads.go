package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"codcrm/models"

	"github.com/gorilla/mux"
)

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	lead, err := h.ls.GetLeadById(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, lead)
}

func (h *Handler) SearchLeads(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	source := r.URL.Query().Get("source")
	city := r.URL.Query().Get("city")
	phone := r.URL.Query().Get("phone")

	searchData := models.LeadSearchData{}
	if status != "" {
		searchData.Status = &status
	}
	if source != "" {
		searchData.Source = &source
	}
	if city != "" {
		searchData.City = &city
	}
	if phone != "" {
		searchData.Phone = &phone
	}

	leads, err := h.ls.SearchLeads(searchData)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, leads)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req models.LeadRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	newLeadId, err := h.ls.CreateLead(req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newLeadId)))
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req models.LeadRequest
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = h.ls.UpdateLead(id, req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetDueCallbacks lists the leads whose callback is due, the agent's
// morning queue.
func (h *Handler) GetDueCallbacks(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ls.GetDueCallbacks()
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, leads)
}
