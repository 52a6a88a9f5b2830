package services

import (
	"database/sql"
	"testing"

	"codcrm/entities"
	"codcrm/models"

	"github.com/stretchr/testify/assert"
)

func cartFixture() (*MockCallSessions, *MockProductRepo, *MockOptionRepo, *MockGeoRepo, CartService) {
	cs := NewMockCallSessions()
	cs.sessions[1] = entities.CallSession{
		Id:      "abc",
		AgentId: 1,
		LeadId:  10,
		Stage:   models.StageIdle,
		Cart:    entities.CallCart{Items: []entities.OrderItem{}, SaleType: "normal"},
	}
	pr := &MockProductRepo{
		Products: map[int]models.Product_db{
			1: {Id: 1, Name: "Hoodie", SellingPrice: 250, StockQuantity: 10},
			2: {Id: 2, Name: "Cap", SellingPrice: 80, StockQuantity: 5},
		},
		Variants: map[int]models.Variant_db{
			11: {Id: 11, ProductId: 1, Sku: "P1-V1", Name: "Black / M", Attributes: `{"Color":"Black","Size":"M"}`},
			12: {Id: 12, ProductId: 1, Sku: "P1-V2", Name: "Black / L", Attributes: `{"Color":"Black","Size":"L"}`,
				PriceOverride: sql.NullFloat64{Float64: 280, Valid: true}},
		},
	}
	or := &MockOptionRepo{
		Options: map[int][]entities.VariantOption{
			1: {
				{Type: "Color", Values: []string{"Black", "Gray"}},
				{Type: "Size", Values: []string{"M", "L"}},
			},
		},
	}
	gr := &MockGeoRepo{
		Cities: map[int]entities.City{
			1: {Id: 1, Name: "Cairo", ShippingCost: 30},
			2: {Id: 2, Name: "Alexandria", ShippingCost: 45},
		},
		Zones: map[int]entities.Zone{
			5: {Id: 5, CityId: 1, Name: "Nasr City", ShippingCost: 25},
			6: {Id: 6, CityId: 2, Name: "Montaza"},
		},
	}
	return cs, pr, or, gr, NewCartService(cs, pr, or, gr)
}

func TestComputeTotals(t *testing.T) {
	cart := entities.CallCart{
		Items: []entities.OrderItem{
			{ProductId: 1, Quantity: 2, UnitPrice: 250, TotalPrice: 500},
			{ProductId: 2, Quantity: 1, UnitPrice: 80, TotalPrice: 80},
		},
		ShippingCost: 30,
	}
	totals := ComputeTotals(cart)
	assert.Equal(t, 580.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.ShippingCost)
	assert.Equal(t, 610.0, totals.Total)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.True(t, totals.IsUpsell)
}

func TestComputeTotalsShippingScenario(t *testing.T) {
	cart := entities.CallCart{
		Items: []entities.OrderItem{
			{ProductId: 1, Quantity: 2, UnitPrice: 100},
			{ProductId: 2, Quantity: 1, UnitPrice: 50},
		},
		ShippingCost: 30,
	}
	totals := ComputeTotals(cart)
	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 280.0, totals.Total)

	cart.IsExchange = true
	totals = ComputeTotals(cart)
	assert.Equal(t, 250.0, totals.Total)
}

func TestComputeTotalsExchangeWaivesShipping(t *testing.T) {
	cart := entities.CallCart{
		Items:        []entities.OrderItem{{ProductId: 1, Quantity: 1, UnitPrice: 250}},
		ShippingCost: 30,
		IsExchange:   true,
	}
	totals := ComputeTotals(cart)
	assert.Equal(t, 0.0, totals.ShippingCost)
	assert.Equal(t, 250.0, totals.Total)
	assert.False(t, totals.IsUpsell)
}

func TestAddToCartVariantPriceOverride(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SelectProduct(1, 1, 12))
	assert.NoError(t, svc.AddToCart(1))

	session := cs.sessions[1]
	assert.Len(t, session.Cart.Items, 1)
	item := session.Cart.Items[0]
	assert.Equal(t, "Hoodie - Black / L", item.ProductName)
	assert.Equal(t, 280.0, item.UnitPrice, "override beats the product price")
	assert.Equal(t, 12, item.VariantId)
	assert.Nil(t, session.Cart.Pending, "staged selection is consumed")
}

func TestAddToCartOptionsAllOrNothing(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SelectProduct(1, 1, 0))
	assert.NoError(t, svc.StageOption(1, "Color", "Black"))

	// Size not chosen yet
	err := svc.AddToCart(1)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
	assert.Empty(t, cs.sessions[1].Cart.Items)

	assert.NoError(t, svc.StageOption(1, "Size", "M"))
	assert.NoError(t, svc.AddToCart(1))
	assert.Len(t, cs.sessions[1].Cart.Items, 1)
	assert.Equal(t, "Hoodie - Black / M", cs.sessions[1].Cart.Items[0].ProductName)
}

func TestAddToCartOptionsResolveTrackedVariant(t *testing.T) {
	cs, pr, _, _, svc := cartFixture()
	product := pr.Products[1]
	product.VariantTracked = true
	product.StockQuantity = 0 // a tracked product keeps its stock on the variants
	pr.Products[1] = product

	assert.NoError(t, svc.SelectProduct(1, 1, 0))
	assert.NoError(t, svc.StageOption(1, "Color", "Black"))
	assert.NoError(t, svc.StageOption(1, "Size", "L"))
	assert.NoError(t, svc.AddToCart(1))

	item := cs.sessions[1].Cart.Items[0]
	assert.Equal(t, 12, item.VariantId, "chosen options land on the concrete variant")
	assert.Equal(t, "Hoodie - Black / L", item.ProductName)
	assert.Equal(t, 280.0, item.UnitPrice, "the variant override applies")
}

func TestAddToCartTrackedNoMatchingVariant(t *testing.T) {
	cs, pr, _, _, svc := cartFixture()
	product := pr.Products[1]
	product.VariantTracked = true
	pr.Products[1] = product

	assert.NoError(t, svc.SelectProduct(1, 1, 0))
	assert.NoError(t, svc.StageOption(1, "Color", "Gray"))
	assert.NoError(t, svc.StageOption(1, "Size", "M"))

	err := svc.AddToCart(1)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
	assert.Empty(t, cs.sessions[1].Cart.Items)
}

func TestStageOptionRejectsUnknownValue(t *testing.T) {
	_, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SelectProduct(1, 1, 0))
	err := svc.StageOption(1, "Color", "Pink")
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}

func TestAddToCartNeverMergesLines(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SelectProduct(1, 1, 11))
	assert.NoError(t, svc.AddToCart(1))
	assert.NoError(t, svc.SelectProduct(1, 1, 11))
	assert.NoError(t, svc.AddToCart(1))

	assert.Len(t, cs.sessions[1].Cart.Items, 2, "identical selections stay separate lines")
}

func TestUpdateQuantity(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SelectProduct(1, 1, 11))
	assert.NoError(t, svc.AddToCart(1))

	assert.NoError(t, svc.UpdateQuantity(1, 0, 3))
	item := cs.sessions[1].Cart.Items[0]
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 750.0, item.TotalPrice)

	// below 1 is rejected and the line stays as it was
	err := svc.UpdateQuantity(1, 0, 0)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
	assert.Equal(t, 3, cs.sessions[1].Cart.Items[0].Quantity)

	err = svc.UpdateQuantity(1, 5, 2)
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestSetCityClearsZone(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SetCity(1, 1))
	assert.NoError(t, svc.SetZone(1, 5))
	assert.Equal(t, 5, cs.sessions[1].Cart.ZoneId)
	assert.Equal(t, 25.0, cs.sessions[1].Cart.ShippingCost, "zone cost overrides the city cost")

	assert.NoError(t, svc.SetCity(1, 2))
	assert.Equal(t, 0, cs.sessions[1].Cart.ZoneId, "zone is only valid within its city")
	assert.Equal(t, 45.0, cs.sessions[1].Cart.ShippingCost)
}

func TestSetZoneRequiresMatchingCity(t *testing.T) {
	_, _, _, _, svc := cartFixture()

	err := svc.SetZone(1, 5)
	assert.ErrorIs(t, err, models.ErrNotAllowed, "no city selected yet")

	assert.NoError(t, svc.SetCity(1, 2))
	err = svc.SetZone(1, 5)
	assert.ErrorIs(t, err, models.ErrNotAllowed, "zone belongs to another city")
}

func TestSetZoneZeroCostKeepsCityCost(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SetCity(1, 2))
	assert.NoError(t, svc.SetZone(1, 6))
	assert.Equal(t, 45.0, cs.sessions[1].Cart.ShippingCost)
}

func TestSetSaleType(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SetSaleType(1, "cross_sell"))
	assert.Equal(t, "cross_sell", cs.sessions[1].Cart.SaleType)

	err := svc.SetSaleType(1, "bogus")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestCartVersionBumpsOnEveryWrite(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	before := cs.sessions[1].Cart.Version
	assert.NoError(t, svc.SelectProduct(1, 1, 11))
	assert.NoError(t, svc.AddToCart(1))
	assert.NoError(t, svc.UpdateQuantity(1, 0, 2))
	assert.Equal(t, before+3, cs.sessions[1].Cart.Version)
}

func TestEmptyCartReArmsSuggestions(t *testing.T) {
	cs, _, _, _, svc := cartFixture()

	assert.NoError(t, svc.SelectProduct(1, 1, 11))
	assert.NoError(t, svc.AddToCart(1))

	session := cs.sessions[1]
	session.SuggestionsDismissed = true
	session.Suggestions = []entities.Suggestion{{ProductId: 2}}
	cs.sessions[1] = session

	assert.NoError(t, svc.RemoveItem(1, 0))
	assert.False(t, cs.sessions[1].SuggestionsDismissed)
	assert.Nil(t, cs.sessions[1].Suggestions)
}

func TestCartNoActiveCall(t *testing.T) {
	_, _, _, _, svc := cartFixture()
	err := svc.SelectProduct(99, 1, 0)
	assert.ErrorIs(t, err, models.ErrNotFoundError)
}
