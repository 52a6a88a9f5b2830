package services

import (
	"database/sql"
	"testing"
	"time"

	"codcrm/entities"
	"codcrm/models"

	"github.com/stretchr/testify/assert"
)

func callFixture() (*MockCallSessions, *MockLeadRepo, *MockOrderRepo, CallService) {
	cs := NewMockCallSessions()
	lr := &MockLeadRepo{
		Leads: map[int]models.Lead_db{
			10: {Id: 10, Name: "Omar", Phone: "0100000000",
				City: sql.NullString{String: "Cairo", Valid: true}, Status: "new", TrustTier: "standard"},
			11: {Id: 11, Name: "Sara", Phone: "0100000001", Status: "new", TrustTier: "standard"},
		},
	}
	or := NewMockOrderRepo()
	gr := &MockGeoRepo{
		Cities: map[int]entities.City{1: {Id: 1, Name: "Cairo", ShippingCost: 30}},
		Zones:  map[int]entities.Zone{},
	}
	return cs, lr, or, NewCallService(cs, lr, or, gr)
}

func withCart(cs *MockCallSessions, agentId int) {
	session := cs.sessions[agentId]
	session.Cart.Items = []entities.OrderItem{
		{ProductId: 1, ProductName: "Hoodie", Quantity: 2, UnitPrice: 250, TotalPrice: 500},
	}
	cs.sessions[agentId] = session
}

func TestStartCall(t *testing.T) {
	cs, _, _, svc := callFixture()

	session, err := svc.StartCall(1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 10, session.LeadId)
	assert.Equal(t, "Omar", session.LeadName)
	assert.Equal(t, models.StageIdle, session.Stage)
	assert.Equal(t, "normal", session.Cart.SaleType)
	assert.Equal(t, 1, session.Cart.CityId, "lead city seeds the destination")
	assert.Equal(t, 30.0, session.Cart.ShippingCost)
	assert.NotEmpty(t, session.Id)
	_, exists, _ := cs.GetSession(1)
	assert.True(t, exists)
}

func TestStartCallOneActivePerAgent(t *testing.T) {
	_, _, _, svc := callFixture()

	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)
	_, err = svc.StartCall(1, 11)
	assert.ErrorIs(t, err, models.ErrNotAllowed, "the current call needs a disposition first")

	// another agent is unaffected
	_, err = svc.StartCall(2, 11)
	assert.NoError(t, err)
}

func TestStartCallUnknownLead(t *testing.T) {
	_, _, _, svc := callFixture()
	_, err := svc.StartCall(1, 99)
	assert.ErrorIs(t, err, models.ErrNotFoundError)
}

func TestCancelMenuTransitions(t *testing.T) {
	cs, _, _, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)

	// cancel without opening the menu first
	err = svc.Cancel(1, "changed_mind")
	assert.ErrorIs(t, err, models.ErrNotAllowed)

	assert.NoError(t, svc.OpenCancelMenu(1))
	assert.Equal(t, models.StageReasonSelection, cs.sessions[1].Stage)

	// opening again from the submenu is not a valid transition
	err = svc.OpenCancelMenu(1)
	assert.ErrorIs(t, err, models.ErrNotAllowed)

	assert.NoError(t, svc.CloseCancelMenu(1))
	assert.Equal(t, models.StageIdle, cs.sessions[1].Stage)

	err = svc.CloseCancelMenu(1)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}

func TestCancelRecordsReason(t *testing.T) {
	cs, lr, _, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)
	assert.NoError(t, svc.OpenCancelMenu(1))

	err = svc.Cancel(1, "no_such_reason")
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Empty(t, lr.dispositions)

	assert.NoError(t, svc.Cancel(1, "price_too_high"))
	assert.Len(t, lr.dispositions, 1)
	d := lr.dispositions[0]
	assert.Equal(t, 10, d.leadId)
	assert.Equal(t, "cancelled", d.status)
	assert.Equal(t, "price_too_high", d.notes)
	assert.True(t, d.countCall)

	_, exists, _ := cs.GetSession(1)
	assert.False(t, exists, "a disposition releases the agent")
}

func TestConfirmBlockedOnEmptyCart(t *testing.T) {
	cs, lr, ordRepo, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)

	_, err = svc.Confirm(1, "12 Tahrir St")
	assert.ErrorIs(t, err, models.ErrNotAllowed)
	assert.Empty(t, ordRepo.Orders)
	assert.Empty(t, lr.dispositions)
	_, exists, _ := cs.GetSession(1)
	assert.True(t, exists, "the session survives a rejected confirm")
}

func TestConfirmRequiresAddressAndCity(t *testing.T) {
	cs, _, _, svc := callFixture()
	_, err := svc.StartCall(1, 11) // lead without a known city
	assert.NoError(t, err)
	withCart(cs, 1)

	_, err = svc.Confirm(1, "")
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = svc.Confirm(1, "12 Tahrir St")
	assert.ErrorIs(t, err, models.ErrBadRequest, "no city selected")
}

func TestConfirmCreatesOrder(t *testing.T) {
	cs, lr, or, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)
	withCart(cs, 1)

	orderId, err := svc.Confirm(1, "12 Tahrir St")
	assert.NoError(t, err)
	assert.Equal(t, 1, orderId)

	order := or.Orders[orderId]
	assert.Equal(t, "confirmed", order.Status)
	assert.Equal(t, 10, order.LeadId)
	assert.Equal(t, 1, order.AgentId)
	assert.Equal(t, 530.0, order.TotalPrice, "subtotal plus shipping")
	assert.Len(t, or.Items[orderId], 1)

	assert.Len(t, lr.dispositions, 1)
	assert.Equal(t, "confirmed", lr.dispositions[0].status)
	assert.True(t, lr.dispositions[0].countCall)

	_, exists, _ := cs.GetSession(1)
	assert.False(t, exists)
}

func TestConfirmFailureKeepsSession(t *testing.T) {
	cs, lr, or, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)
	withCart(cs, 1)

	or.statusErr = models.ErrNotAllowed // stock commit refuses

	_, err = svc.Confirm(1, "12 Tahrir St")
	assert.ErrorIs(t, err, models.ErrNotAllowed)

	session, exists, _ := cs.GetSession(1)
	assert.True(t, exists, "the agent keeps the cart to retry")
	assert.False(t, session.Processing, "the latch is released")
	assert.Empty(t, lr.dispositions)
	assert.Empty(t, or.Orders, "the half-built order is discarded, a retry starts clean")
}

func TestConfirmProcessingLatch(t *testing.T) {
	cs, _, or, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)
	withCart(cs, 1)

	session := cs.sessions[1]
	session.Processing = true
	cs.sessions[1] = session

	_, err = svc.Confirm(1, "12 Tahrir St")
	assert.ErrorIs(t, err, models.ErrNotAllowed, "a submission is already in flight")
	assert.Empty(t, or.Orders)
}

func TestSkipDoesNotCountCall(t *testing.T) {
	cs, lr, _, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)

	assert.NoError(t, svc.Skip(1))
	assert.Len(t, lr.dispositions, 1)
	assert.Equal(t, "skipped", lr.dispositions[0].status)
	assert.False(t, lr.dispositions[0].countCall)

	_, exists, _ := cs.GetSession(1)
	assert.False(t, exists)
}

func TestNoAnswerCountsCall(t *testing.T) {
	_, lr, _, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)

	assert.NoError(t, svc.NoAnswer(1))
	assert.Equal(t, "no_answer", lr.dispositions[0].status)
	assert.True(t, lr.dispositions[0].countCall)
}

func TestCallbackRejectsPastTime(t *testing.T) {
	_, lr, _, svc := callFixture()
	_, err := svc.StartCall(1, 10)
	assert.NoError(t, err)

	err = svc.Callback(1, time.Now().UTC().Add(-time.Hour), "call after lunch")
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Empty(t, lr.dispositions)

	assert.NoError(t, svc.Callback(1, time.Now().UTC().Add(2*time.Hour), "call after lunch"))
	assert.Equal(t, "callback", lr.dispositions[0].status)
	assert.Equal(t, "call after lunch", lr.dispositions[0].notes)
}
