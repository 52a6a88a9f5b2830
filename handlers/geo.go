package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func (h *Handler) GetAllCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.crs.GetAllCities()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, cities)
}

func (h *Handler) GetCityZones(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	zones, err := h.crs.GetCityZones(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, zones)
}

func (h *Handler) GetCouriers(w http.ResponseWriter, r *http.Request) {
	couriers, err := h.crs.GetCouriers()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, couriers)
}

func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		ShippingCost float64 `json:"shipping_cost"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	newCityId, err := h.crs.CreateCity(req.Name, req.ShippingCost)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newCityId)))
}

func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Name         string  `json:"name"`
		ShippingCost float64 `json:"shipping_cost"`
	}
	cityId, err := strconv.Atoi(vars["id"])
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
	newZoneId, err := h.crs.CreateZone(cityId, req.Name, req.ShippingCost)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newZoneId)))
}

func (h *Handler) CreateCourier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	newCourierId, err := h.crs.CreateCourier(req.Name, req.Phone)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(newCourierId)))
}
