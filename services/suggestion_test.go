package services

import (
	"testing"

	"codcrm/entities"
	"codcrm/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildSuggestions(t *testing.T) {
	crossSells := map[int][]models.Product_db{
		1: {
			{Id: 3, Name: "Cap", SellingPrice: 80, StockQuantity: 5},
			{Id: 4, Name: "Socks", SellingPrice: 40, StockQuantity: 9},
		},
		2: {
			{Id: 4, Name: "Socks", SellingPrice: 40, StockQuantity: 9},   // duplicate
			{Id: 1, Name: "Hoodie", SellingPrice: 250, StockQuantity: 3}, // already in cart
			{Id: 5, Name: "Scarf", SellingPrice: 60, StockQuantity: 2},
		},
	}
	items := []entities.OrderItem{
		{ProductId: 1, Quantity: 1},
		{ProductId: 2, Quantity: 1},
	}

	suggestions := BuildSuggestions(items, crossSells)
	ids := make([]int, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.ProductId)
	}
	assert.Equal(t, []int{3, 4, 5}, ids, "first appearance order, deduped, cart products excluded")
}

func TestBuildSuggestionsSkipsOutOfStock(t *testing.T) {
	crossSells := map[int][]models.Product_db{
		1: {
			{Id: 3, Name: "Cap", StockQuantity: 0},
			{Id: 4, Name: "Socks", StockQuantity: 0, VariantTracked: true},
			{Id: 5, Name: "Scarf", StockQuantity: 2},
		},
	}
	items := []entities.OrderItem{{ProductId: 1}}

	suggestions := BuildSuggestions(items, crossSells)
	ids := make([]int, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.ProductId)
	}
	// variant tracked products manage stock on the variants, they stay in
	assert.Equal(t, []int{4, 5}, ids)
}

func TestBuildSuggestionsCap(t *testing.T) {
	var many []models.Product_db
	for i := 10; i < 20; i++ {
		many = append(many, models.Product_db{Id: i, Name: "P", StockQuantity: 1})
	}
	suggestions := BuildSuggestions([]entities.OrderItem{{ProductId: 1}}, map[int][]models.Product_db{1: many})
	assert.Len(t, suggestions, 4)
}

func suggestionFixture() (*MockCallSessions, *MockProductRepo, SuggestionService) {
	cs := NewMockCallSessions()
	cs.sessions[1] = entities.CallSession{
		Id:      "abc",
		AgentId: 1,
		Stage:   models.StageIdle,
		Cart: entities.CallCart{
			Items:   []entities.OrderItem{{ProductId: 1, Quantity: 1, UnitPrice: 250}},
			Version: 3,
		},
	}
	pr := &MockProductRepo{
		Products: map[int]models.Product_db{
			1: {Id: 1, Name: "Hoodie", SellingPrice: 250, StockQuantity: 3},
			3: {Id: 3, Name: "Cap", SellingPrice: 80, StockQuantity: 5},
		},
		CrossSells: map[int][]models.Product_db{
			1: {{Id: 3, Name: "Cap", SellingPrice: 80, StockQuantity: 5}},
		},
	}
	return cs, pr, NewSuggestionService(cs, pr)
}

func TestRefreshPublishesSuggestions(t *testing.T) {
	cs, _, svc := suggestionFixture()

	suggestions, err := svc.Refresh(1)
	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, 3, suggestions[0].ProductId)
	assert.Equal(t, suggestions, cs.sessions[1].Suggestions)
}

func TestRefreshStaleFetchIsDiscarded(t *testing.T) {
	cs, pr, svc := suggestionFixture()

	// the cart moves while the cross-sell fetch is in flight
	pr.onCrossSell = func(int) {
		session := cs.sessions[1]
		session.Cart.Version = session.Cart.Version + 1
		session.Suggestions = []entities.Suggestion{{ProductId: 99, Name: "Newer"}}
		cs.sessions[1] = session
	}

	suggestions, err := svc.Refresh(1)
	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, 99, suggestions[0].ProductId, "stale result must not overwrite the newer state")
	assert.Equal(t, 99, cs.sessions[1].Suggestions[0].ProductId)
}

func TestRefreshDismissDuringFetchWins(t *testing.T) {
	cs, pr, svc := suggestionFixture()

	// the agent dismisses the panel while the fetch is in flight
	pr.onCrossSell = func(int) {
		session := cs.sessions[1]
		session.SuggestionsDismissed = true
		session.Suggestions = nil
		cs.sessions[1] = session
	}

	suggestions, err := svc.Refresh(1)
	assert.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.True(t, cs.sessions[1].SuggestionsDismissed)
	assert.Nil(t, cs.sessions[1].Suggestions, "a stale fetch must not resurface a dismissed panel")
}

func TestRefreshEmptyCartClears(t *testing.T) {
	cs, _, svc := suggestionFixture()
	session := cs.sessions[1]
	session.Cart.Items = nil
	session.Suggestions = []entities.Suggestion{{ProductId: 3}}
	session.SuggestionsDismissed = true
	cs.sessions[1] = session

	suggestions, err := svc.Refresh(1)
	assert.NoError(t, err)
	assert.Nil(t, suggestions)
	assert.Nil(t, cs.sessions[1].Suggestions)
	assert.False(t, cs.sessions[1].SuggestionsDismissed)
}

func TestRefreshDismissedStaysHidden(t *testing.T) {
	cs, _, svc := suggestionFixture()
	session := cs.sessions[1]
	session.SuggestionsDismissed = true
	cs.sessions[1] = session

	suggestions, err := svc.Refresh(1)
	assert.NoError(t, err)
	assert.Nil(t, suggestions)
}

func TestRefreshFetchFailureDegrades(t *testing.T) {
	cs, pr, svc := suggestionFixture()
	pr.crossErr = models.ErrServerError

	suggestions, err := svc.Refresh(1)
	assert.NoError(t, err, "a failed fetch degrades to an empty panel, not an error")
	assert.Empty(t, suggestions)
	assert.Empty(t, cs.sessions[1].Suggestions)
}

func TestDismiss(t *testing.T) {
	cs, _, svc := suggestionFixture()
	_, err := svc.Refresh(1)
	assert.NoError(t, err)

	assert.NoError(t, svc.Dismiss(1))
	assert.True(t, cs.sessions[1].SuggestionsDismissed)
	assert.Nil(t, cs.sessions[1].Suggestions)
}

func TestAcceptSuggestion(t *testing.T) {
	cs, _, svc := suggestionFixture()
	_, err := svc.Refresh(1)
	assert.NoError(t, err)

	assert.NoError(t, svc.Accept(1, 3))
	session := cs.sessions[1]
	assert.Len(t, session.Cart.Items, 2)
	added := session.Cart.Items[1]
	assert.Equal(t, 3, added.ProductId)
	assert.Equal(t, 1, added.Quantity)
	assert.Equal(t, 80.0, added.UnitPrice)
	assert.Empty(t, session.Suggestions, "accepted product leaves the panel")
}

func TestAcceptRejectsUnlistedProduct(t *testing.T) {
	_, _, svc := suggestionFixture()
	err := svc.Accept(1, 42)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}
