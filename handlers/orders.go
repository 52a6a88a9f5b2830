package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"codcrm/models"

	"github.com/gorilla/mux"
)

func (h *Handler) GetOrderById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	order, err := h.ors.GetOrderById(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	timeStart := r.URL.Query().Get("timestart")
	timeEnd := r.URL.Query().Get("timeend")
	leadId := r.URL.Query().Get("leadid")
	agentId := r.URL.Query().Get("agentid")
	status := r.URL.Query().Get("status")
	prodId := r.URL.Query().Get("productid")

	searchData := models.OrderSearchData{}
	var err error
	if timeStart == "" || timeEnd == "" {
		searchData.DateStart = nil
		searchData.DateEnd = nil
	} else {
		timeStart_, err := time.Parse("2006-01-02 15:04:05", timeStart)
		timeEnd_, err2 := time.Parse("2006-01-02 15:04:05", timeEnd)
		if err != nil || err2 != nil || !timeStart_.Before(timeEnd_) {
			http.Error(w, "date is wrong", http.StatusBadRequest)
			return
		}
		searchData.DateStart = &timeStart_
		searchData.DateEnd = &timeEnd_
	}

	if leadId != "" {
		leadId_, e := strconv.Atoi(leadId)
		if e != nil {
			http.Error(w, "lead id is wrong", http.StatusBadRequest)
			return
		}
		searchData.LeadId = &leadId_
	}

	if agentId != "" {
		agentId_, e := strconv.Atoi(agentId)
		if e != nil {
			http.Error(w, "agent id is wrong", http.StatusBadRequest)
			return
		}
		searchData.AgentId = &agentId_
	}

	if status != "" {
		if !(status == "created" || status == "confirmed" || status == "shipped" || status == "delivered" || status == "cancelled") {
			http.Error(w, "status is wrong", http.StatusBadRequest)
			return
		}
		searchData.Status = &status
	}

	if prodId != "" {
		prodId_, e := strconv.Atoi(prodId)
		if e != nil {
			http.Error(w, "product id is wrong", http.StatusBadRequest)
			return
		}
		searchData.ProdId = &prodId_
	}

	orders, err := h.ors.SearchOrders(searchData)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, orders)
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var status struct {
		Status string `json:"status"`
	}
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = json.NewDecoder(r.Body).Decode(&status)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err = h.ors.SetOrderStatus(id, status.Status)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CreateOrderWithItems is the manager-side order form, no live call needed.
func (h *Handler) CreateOrderWithItems(w http.ResponseWriter, r *http.Request) {
	var req models.OrderWithItemsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	orderId, err := h.ors.CreateOrderWithItems(agentId, req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(orderId)))
}

func (h *Handler) BulkSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req models.BulkOrderStatus
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	updated, err := h.ors.BulkSetStatus(req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte("Updated " + strconv.Itoa(updated) + " order(s)"))
}

func (h *Handler) BulkDeleteOrders(w http.ResponseWriter, r *http.Request) {
	var req models.BulkOrderDelete
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	removed, err := h.ors.BulkDelete(req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte("Removed " + strconv.Itoa(removed) + " order(s)"))
}

// analytics

func parsePeriod(r *http.Request) (dateStart time.Time, dateEnd time.Time, err error) {
	timeStart := r.URL.Query().Get("timestart")
	timeEnd := r.URL.Query().Get("timeend")
	if timeStart == "" || timeEnd == "" {
		// default to the current month
		now := time.Now().UTC()
		dateStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		dateEnd = now
		return
	}
	dateStart, err = time.Parse("2006-01-02", timeStart)
	if err != nil {
		return
	}
	dateEnd, err = time.Parse("2006-01-02", timeEnd)
	if err != nil {
		return
	}
	dateEnd = dateEnd.AddDate(0, 0, 1)
	if !dateStart.Before(dateEnd) {
		err = models.ErrBadRequest
	}
	return
}

func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	dateStart, dateEnd, err := parsePeriod(r)
	if err != nil {
		http.Error(w, "date is wrong", http.StatusBadRequest)
		return
	}
	summary, err := h.ans.Summary(dateStart, dateEnd)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, summary)
}

// ad spend

func (h *Handler) CreateAdSpend(w http.ResponseWriter, r *http.Request) {
	var req models.AdSpendRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	newSpendId, err := h.ads.CreateAdSpend(req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newSpendId)))
}

func (h *Handler) UpdateAdSpend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req models.AdSpendRequest
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = h.ads.UpdateAdSpend(id, req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteAdSpend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = h.ads.DeleteAdSpend(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SearchAdSpends(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	searchData := models.AdSpendSearchData{}
	if platform != "" {
		searchData.Platform = &platform
	}
	timeStart := r.URL.Query().Get("timestart")
	timeEnd := r.URL.Query().Get("timeend")
	if timeStart != "" && timeEnd != "" {
		dateStart, err := time.Parse("2006-01-02", timeStart)
		dateEnd, err2 := time.Parse("2006-01-02", timeEnd)
		if err != nil || err2 != nil || dateEnd.Before(dateStart) {
			http.Error(w, "date is wrong", http.StatusBadRequest)
			return
		}
		searchData.DateStart = &dateStart
		searchData.DateEnd = &dateEnd
	}
	spends, err := h.ads.SearchAdSpends(searchData)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, spends)
}

func (h *Handler) AdSpendSummary(w http.ResponseWriter, r *http.Request) {
	dateStart, dateEnd, err := parsePeriod(r)
	if err != nil {
		http.Error(w, "date is wrong", http.StatusBadRequest)
		return
	}
	summary, err := h.ads.Summary(dateStart, dateEnd)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, summary)
}
