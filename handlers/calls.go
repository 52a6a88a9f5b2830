package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"codcrm/entities"

	"github.com/gorilla/mux"
)

// call session

func (h *Handler) StartCall(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leadId, err := strconv.Atoi(vars["leadId"])
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
	session, err := h.cls.StartCall(agentId, leadId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, session)
}

func (h *Handler) GetActiveCall(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	session, err := h.cls.GetActiveCall(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, session)
}

func (h *Handler) SetCallNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
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
	err = h.cls.SetNotes(agentId, req.Notes)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// cart

func (h *Handler) GetCallCart(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	cart, totals, err := h.crs.GetCart(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	resp := struct {
		Cart   entities.CallCart   `json:"cart"`
		Totals entities.CartTotals `json:"totals"`
	}{cart, totals}
	writeJSON(w, resp)
}

func (h *Handler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductId int `json:"product_id"`
		VariantId int `json:"variant_id,omitempty"`
	}
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
	err = h.crs.SelectProduct(agentId, req.ProductId, req.VariantId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) StageOption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
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
	err = h.crs.StageOption(agentId, req.Type, req.Value)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SetPendingQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
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
	err = h.crs.SetPendingQuantity(agentId, req.Quantity)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.crs.AddToCart(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Quantity int `json:"quantity"`
	}
	lineIndex, err := strconv.Atoi(vars["line"])
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
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.crs.UpdateQuantity(agentId, lineIndex, req.Quantity)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lineIndex, err := strconv.Atoi(vars["line"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.crs.RemoveItem(agentId, lineIndex)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CityId    *int `json:"city_id,omitempty"`
		ZoneId    *int `json:"zone_id,omitempty"`
		CourierId *int `json:"courier_id,omitempty"`
	}
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
	if req.CityId != nil {
		err = h.crs.SetCity(agentId, *req.CityId)
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	if req.ZoneId != nil {
		err = h.crs.SetZone(agentId, *req.ZoneId)
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	if req.CourierId != nil {
		err = h.crs.SetCourier(agentId, *req.CourierId)
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SetSaleType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SaleType   string `json:"sale_type"`
		IsExchange *bool  `json:"is_exchange,omitempty"`
	}
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
	if req.IsExchange != nil {
		err = h.crs.SetExchange(agentId, *req.IsExchange)
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	if req.SaleType != "" {
		err = h.crs.SetSaleType(agentId, req.SaleType)
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// suggestions

func (h *Handler) RefreshSuggestions(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	suggestions, err := h.sgs.Refresh(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []entities.Suggestion{}
	}
	writeJSON(w, suggestions)
}

func (h *Handler) DismissSuggestions(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.sgs.Dismiss(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productId, err := strconv.Atoi(vars["productId"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.sgs.Accept(agentId, productId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// dispositions

func (h *Handler) ConfirmCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
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
	orderId, err := h.cls.Confirm(agentId, req.Address)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(orderId)))
}

func (h *Handler) OpenCancelMenu(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.cls.OpenCancelMenu(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CloseCancelMenu(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.cls.CloseCancelMenu(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CancelCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
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
	err = h.cls.Cancel(agentId, req.Reason)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CallbackCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CallbackAt string `json:"callback_at"`
		Notes      string `json:"notes,omitempty"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	callbackAt, err := time.Parse("2006-01-02 15:04:05", req.CallbackAt)
	if err != nil {
		http.Error(w, "date is wrong", http.StatusBadRequest)
		return
	}
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.cls.Callback(agentId, callbackAt, req.Notes)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) NoAnswerCall(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.cls.NoAnswer(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) WrongNumberCall(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.cls.WrongNumber(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SkipCall(w http.ResponseWriter, r *http.Request) {
	agentId, err := h.agentId(r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	err = h.cls.Skip(agentId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
