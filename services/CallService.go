package services

import (
	"database/sql"
	"log"
	"time"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"

	"github.com/google/uuid"
)

type CallService struct {
	cs repository.CallSessionRepository
	lr repository.LeadRepository
	or repository.OrderRepository
	gr repository.GeoRepository
}

func NewCallService(callSessionRepo repository.CallSessionRepository, leadRepo repository.LeadRepository, orderRepo repository.OrderRepository, geoRepo repository.GeoRepository) CallService {
	return CallService{
		cs: callSessionRepo,
		lr: leadRepo,
		or: orderRepo,
		gr: geoRepo,
	}
}

// StartCall opens a call session for the lead. One active call per agent:
// a second start is rejected until the current call gets a disposition.
func (cls *CallService) StartCall(agentId int, leadId int) (session entities.CallSession, err error) {
	_, active, err := cls.cs.GetSession(agentId)
	if err != nil {
		return
	}
	if active {
		log.Printf("agent %v already has an active call", agentId)
		err = models.ErrNotAllowed
		return
	}

	lead, ex, err := cls.lr.GetLeadById(leadId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}

	session = entities.CallSession{
		Id:        uuid.NewString(),
		AgentId:   agentId,
		LeadId:    lead.Id,
		LeadName:  lead.Name,
		LeadPhone: lead.Phone,
		StartedAt: time.Now().UTC(),
		Stage:     models.StageIdle,
		Cart: entities.CallCart{
			Items:    []entities.OrderItem{},
			SaleType: "normal",
		},
	}

	// seed the destination from the lead when its city is known
	if lead.City.Valid && lead.City.String != "" {
		city, cEx, e := cls.gr.GetCityByName(lead.City.String)
		if e == nil && cEx {
			session.Cart.CityId = city.Id
			session.Cart.ShippingCost = city.ShippingCost
		}
	}

	err = cls.cs.SetSession(agentId, session)
	return
}

func (cls *CallService) GetActiveCall(agentId int) (session entities.CallSession, err error) {
	session, exists, err := cls.cs.GetSession(agentId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
	}
	return
}

func (cls *CallService) SetNotes(agentId int, notes string) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	session.Notes = notes
	err = cls.cs.SetSession(agentId, session)
	return
}

// OpenCancelMenu moves the action bar from the primary actions to the
// cancel-reason submenu.
func (cls *CallService) OpenCancelMenu(agentId int) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageIdle || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	session.Stage = models.StageReasonSelection
	err = cls.cs.SetSession(agentId, session)
	return
}

// CloseCancelMenu backs out of the submenu without recording anything.
func (cls *CallService) CloseCancelMenu(agentId int) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageReasonSelection {
		err = models.ErrNotAllowed
		return
	}
	session.Stage = models.StageIdle
	err = cls.cs.SetSession(agentId, session)
	return
}

// Confirm turns the call into an order. Blocked on an empty cart, a missing
// destination or while another disposition is in flight. The session is kept
// on failure so the agent retries without losing the cart.
func (cls *CallService) Confirm(agentId int, address string) (orderId int, err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageIdle || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	if len(session.Cart.Items) == 0 {
		log.Printf("confirm rejected: cart is empty")
		err = models.ErrNotAllowed
		return
	}
	if address == "" {
		log.Printf("confirm rejected: address is empty")
		err = models.ErrBadRequest
		return
	}
	if session.Cart.CityId == 0 {
		log.Printf("confirm rejected: no city selected")
		err = models.ErrBadRequest
		return
	}

	err = cls.beginProcessing(&session)
	if err != nil {
		return
	}

	totals := ComputeTotals(session.Cart)
	order := models.Order_db{
		LeadId:       session.LeadId,
		AgentId:      agentId,
		Date:         time.Now().UTC(),
		Status:       "created",
		SaleType:     session.Cart.SaleType,
		CityId:       sql.NullInt64{Int64: int64(session.Cart.CityId), Valid: true},
		Address:      sql.NullString{String: address, Valid: true},
		ShippingCost: totals.ShippingCost,
		IsExchange:   session.Cart.IsExchange,
		TotalPrice:   totals.Total,
	}
	if session.Cart.ZoneId > 0 {
		order.ZoneId = sql.NullInt64{Int64: int64(session.Cart.ZoneId), Valid: true}
	}
	if session.Cart.CourierId > 0 {
		order.CourierId = sql.NullInt64{Int64: int64(session.Cart.CourierId), Valid: true}
	}

	orderId, err = cls.or.CreateOrder(order)
	if err != nil {
		cls.endProcessing(agentId)
		return
	}

	items := make([]models.OrdersItems_db, 0, len(session.Cart.Items))
	for _, it := range session.Cart.Items {
		row := models.OrdersItems_db{
			ProductId:  it.ProductId,
			Label:      it.ProductName,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
		if it.VariantId > 0 {
			row.VariantId = sql.NullInt64{Int64: int64(it.VariantId), Valid: true}
		}
		items = append(items, row)
	}
	err = cls.or.SetOrderItems(orderId, items)
	if err != nil {
		cls.discardOrder(orderId)
		cls.endProcessing(agentId)
		orderId = 0
		return
	}

	// confirmation commits the stock; insufficient stock keeps the session
	err = cls.or.SetOrderStatus(orderId, "confirmed")
	if err != nil {
		cls.discardOrder(orderId)
		cls.endProcessing(agentId)
		orderId = 0
		return
	}

	err = cls.lr.SetDisposition(session.LeadId, "confirmed", nil, "", true)
	if err != nil {
		cls.endProcessing(agentId)
		return
	}
	err = cls.cs.DeleteSession(agentId)
	return
}

// Cancel records the chosen reason. Only reachable through the submenu.
func (cls *CallService) Cancel(agentId int, reason string) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageReasonSelection || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	if !models.CancelReasons[reason] {
		log.Printf("unknown cancel reason: %v", reason)
		err = models.ErrBadRequest
		return
	}
	err = cls.closeWith(session, "cancelled", nil, reason, true)
	return
}

func (cls *CallService) Callback(agentId int, callbackAt time.Time, notes string) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageIdle || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	if callbackAt.Before(time.Now().UTC()) {
		log.Printf("callback time is in the past")
		err = models.ErrBadRequest
		return
	}
	err = cls.closeWith(session, "callback", &callbackAt, notes, true)
	return
}

func (cls *CallService) NoAnswer(agentId int) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageIdle || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	err = cls.closeWith(session, "no_answer", nil, "", true)
	return
}

func (cls *CallService) WrongNumber(agentId int) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageIdle || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	err = cls.closeWith(session, "wrong_number", nil, "", true)
	return
}

// Skip releases the lead without counting a call attempt.
func (cls *CallService) Skip(agentId int) (err error) {
	session, err := cls.GetActiveCall(agentId)
	if err != nil {
		return
	}
	if session.Stage != models.StageIdle || session.Processing {
		err = models.ErrNotAllowed
		return
	}
	err = cls.closeWith(session, "skipped", nil, "", false)
	return
}

func (cls *CallService) closeWith(session entities.CallSession, status string, callbackAt *time.Time, notes string, countCall bool) (err error) {
	err = cls.beginProcessing(&session)
	if err != nil {
		return
	}
	err = cls.lr.SetDisposition(session.LeadId, status, callbackAt, notes, countCall)
	if err != nil {
		cls.endProcessing(session.AgentId)
		return
	}
	err = cls.cs.DeleteSession(session.AgentId)
	return
}

// discardOrder drops a half-built order so the retry does not leave a
// duplicate "created" row behind.
func (cls *CallService) discardOrder(orderId int) {
	if _, e := cls.or.BulkDelete([]int{orderId}); e != nil {
		log.Printf("discardOrder: %v", e)
	}
}

// beginProcessing latches the session against a second submission racing
// the one in flight.
func (cls *CallService) beginProcessing(session *entities.CallSession) (err error) {
	session.Processing = true
	err = cls.cs.SetSession(session.AgentId, *session)
	return
}

func (cls *CallService) endProcessing(agentId int) {
	session, exists, e := cls.cs.GetSession(agentId)
	if e != nil || !exists {
		return
	}
	session.Processing = false
	if e := cls.cs.SetSession(agentId, session); e != nil {
		log.Printf("endProcessing: %v", e)
	}
}
