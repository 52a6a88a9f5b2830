package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"codcrm/models"

	"github.com/gorilla/mux"
)

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	prod, err := h.ps.GetProductById(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, prod)
}

func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	prods, err := h.ps.GetAllProducts()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, prods)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var pModel models.Product
	err := json.NewDecoder(r.Body).Decode(&pModel)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	newId, err := h.ps.CreateProduct(pModel)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newId)))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var pModel models.Product

	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = json.NewDecoder(r.Body).Decode(&pModel)
	if err != nil {
		log.Printf("Unmarshal err: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	pModel.Id = id
	updatedProd, err2 := h.ps.UpdateProductById(pModel)
	if err2 != nil {
		WriteErrorResponse(w, err2)
		return
	}
	writeJSON(w, updatedProd)
}

// options

func (h *Handler) GetProductOptions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	options, err := h.vs.GetProductOptions(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, options)
}

func (h *Handler) AddProductOption(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Type string `json:"type"`
	}
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
	newOptId, err := h.vs.AddOption(id, req.Type)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newOptId)))
}

func (h *Handler) AddProductOptionValue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
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
	err = h.vs.AddOptionValue(id, req.Type, req.Value)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) RemoveProductOptionValue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
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
	if req.Value == "" {
		err = h.vs.RemoveOption(id, req.Type)
	} else {
		err = h.vs.RemoveOptionValue(id, req.Type, req.Value)
	}
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// variants

func (h *Handler) PreviewVariants(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	variants, err := h.vs.PreviewVariants(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, variants)
}

func (h *Handler) RegenerateVariants(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	variants, err := h.vs.RegenerateVariants(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, variants)
}

func (h *Handler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var upd models.VariantUpdate
	id, err := strconv.Atoi(vars["variantId"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = json.NewDecoder(r.Body).Decode(&upd)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = h.ps.UpdateVariant(id, upd)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// cross-sells

func (h *Handler) GetCrossSells(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	prods, err := h.ps.GetCrossSells(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, prods)
}

func (h *Handler) SetCrossSells(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		SuggestedIds []int `json:"suggested_ids"`
	}
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
	err = h.ps.SetCrossSells(id, req.SuggestedIds)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
