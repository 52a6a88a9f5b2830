package services

import (
	"time"

	"codcrm/entities"
	"codcrm/models"
)

// in-memory fakes for the repository interfaces

type MockCallSessions struct {
	sessions map[int]entities.CallSession
	setErr   error
}

func NewMockCallSessions() *MockCallSessions {
	return &MockCallSessions{sessions: map[int]entities.CallSession{}}
}

func (m *MockCallSessions) SetSession(agentId int, session entities.CallSession) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sessions[agentId] = session
	return nil
}

func (m *MockCallSessions) GetSession(agentId int) (entities.CallSession, bool, error) {
	s, ok := m.sessions[agentId]
	return s, ok, nil
}

func (m *MockCallSessions) DeleteSession(agentId int) error {
	delete(m.sessions, agentId)
	return nil
}

type MockProductRepo struct {
	Products    map[int]models.Product_db
	Variants    map[int]models.Variant_db
	CrossSells  map[int][]models.Product_db
	crossErr    error
	onCrossSell func(prodId int)
	savedRows   []models.Variant_db
	trackedProd int
}

func (m *MockProductRepo) GetProductById(id int) (models.Product_db, bool, error) {
	p, ok := m.Products[id]
	return p, ok, nil
}

func (m *MockProductRepo) GetAllProducts() ([]entities.ProductPreview, error) {
	return nil, nil
}

func (m *MockProductRepo) CreateProduct(pModel models.Product) (int, error) {
	return 0, nil
}

func (m *MockProductRepo) UpdateProductById(pModel models.Product) (models.Product_db, error) {
	return models.Product_db{}, nil
}

func (m *MockProductRepo) SetVariantTracked(prodId int, tracked bool) error {
	m.trackedProd = prodId
	return nil
}

func (m *MockProductRepo) GetProductVariants(prodId int) (variants []models.Variant_db, err error) {
	if len(m.savedRows) > 0 {
		for i, v := range m.savedRows {
			v.Id = i + 1
			v.ProductId = prodId
			variants = append(variants, v)
		}
		return
	}
	for _, v := range m.Variants {
		if v.ProductId == prodId {
			variants = append(variants, v)
		}
	}
	return
}

func (m *MockProductRepo) GetVariantById(variantId int) (models.Variant_db, bool, error) {
	v, ok := m.Variants[variantId]
	return v, ok, nil
}

func (m *MockProductRepo) CreateProductVariants(prodId int, variants []models.Variant_db) error {
	m.savedRows = append(m.savedRows, variants...)
	return nil
}

func (m *MockProductRepo) DeleteProductVariants(prodId int) error {
	m.savedRows = nil
	return nil
}

func (m *MockProductRepo) UpdateVariant(variantId int, upd models.VariantUpdate) error {
	return nil
}

func (m *MockProductRepo) GetCrossSells(prodId int) ([]models.Product_db, error) {
	if m.onCrossSell != nil {
		m.onCrossSell(prodId)
	}
	if m.crossErr != nil {
		return nil, m.crossErr
	}
	return m.CrossSells[prodId], nil
}

func (m *MockProductRepo) SetCrossSells(prodId int, suggestedIds []int) error {
	return nil
}

type MockOptionRepo struct {
	Options map[int][]entities.VariantOption
}

func (m *MockOptionRepo) GetProductOptions(prodId int) ([]entities.VariantOption, error) {
	return m.Options[prodId], nil
}

func (m *MockOptionRepo) CreateOption(prodId int, name string) (int, error) {
	m.Options[prodId] = append(m.Options[prodId], entities.VariantOption{Type: name})
	return len(m.Options[prodId]), nil
}

func (m *MockOptionRepo) AddOptionValue(prodId int, optionName string, value string) error {
	for i, opt := range m.Options[prodId] {
		if opt.Type == optionName {
			m.Options[prodId][i].Values = append(opt.Values, value)
		}
	}
	return nil
}

func (m *MockOptionRepo) RemoveOptionValue(prodId int, optionName string, value string) error {
	return nil
}

func (m *MockOptionRepo) RemoveOption(prodId int, optionName string) error {
	return nil
}

type MockGeoRepo struct {
	Cities map[int]entities.City
	Zones  map[int]entities.Zone
}

func (m *MockGeoRepo) GetAllCities() ([]entities.City, error) { return nil, nil }

func (m *MockGeoRepo) CityExist(cityId int) (bool, error) {
	_, ok := m.Cities[cityId]
	return ok, nil
}

func (m *MockGeoRepo) GetCityByName(name string) (entities.City, bool, error) {
	for _, c := range m.Cities {
		if c.Name == name {
			return c, true, nil
		}
	}
	return entities.City{}, false, nil
}

func (m *MockGeoRepo) GetCityZones(cityId int) ([]entities.Zone, error) { return nil, nil }

func (m *MockGeoRepo) GetZone(zoneId int) (entities.Zone, bool, error) {
	z, ok := m.Zones[zoneId]
	return z, ok, nil
}

func (m *MockGeoRepo) GetCityShippingCost(cityId int) (float64, error) {
	return m.Cities[cityId].ShippingCost, nil
}

func (m *MockGeoRepo) GetCouriers() ([]entities.Courier, error) { return nil, nil }

func (m *MockGeoRepo) CreateCity(name string, shippingCost float64) (int, error) { return 0, nil }

func (m *MockGeoRepo) CreateZone(cityId int, name string, shippingCost float64) (int, error) {
	return 0, nil
}

func (m *MockGeoRepo) CreateCourier(name string, phone string) (int, error) { return 0, nil }

type dispositionCall struct {
	leadId    int
	status    string
	notes     string
	countCall bool
}

type MockLeadRepo struct {
	Leads        map[int]models.Lead_db
	dispositions []dispositionCall
}

func (m *MockLeadRepo) GetLeadById(id int) (models.Lead_db, bool, error) {
	l, ok := m.Leads[id]
	return l, ok, nil
}

func (m *MockLeadRepo) SearchLeads(data models.LeadSearchData) ([]entities.Lead, error) {
	return nil, nil
}

func (m *MockLeadRepo) CreateLead(req models.LeadRequest) (int, error) { return 0, nil }

func (m *MockLeadRepo) UpdateLead(leadId int, req models.LeadRequest) error { return nil }

func (m *MockLeadRepo) SetDisposition(leadId int, status string, callbackAt *time.Time, callbackNotes string, countCall bool) error {
	m.dispositions = append(m.dispositions, dispositionCall{
		leadId:    leadId,
		status:    status,
		notes:     callbackNotes,
		countCall: countCall,
	})
	return nil
}

func (m *MockLeadRepo) GetDueCallbacks(now time.Time) ([]entities.Lead, error) { return nil, nil }

type MockOrderRepo struct {
	nextId    int
	Orders    map[int]models.Order_db
	Items     map[int][]models.OrdersItems_db
	statusErr error
	bulkIds   []int
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		Orders: map[int]models.Order_db{},
		Items:  map[int][]models.OrdersItems_db{},
	}
}

func (m *MockOrderRepo) CreateOrder(order models.Order_db) (int, error) {
	m.nextId++
	order.Id = m.nextId
	m.Orders[order.Id] = order
	return order.Id, nil
}

func (m *MockOrderRepo) SetOrderItems(orderId int, items []models.OrdersItems_db) error {
	m.Items[orderId] = items
	return nil
}

func (m *MockOrderRepo) GetOrderItems(orderId int) ([]entities.OrderItemFormat, error) {
	return nil, nil
}

func (m *MockOrderRepo) GetOrderById(orderId int) (entities.Order, error) {
	o, ok := m.Orders[orderId]
	if !ok {
		return entities.Order{}, models.ErrNotFoundError
	}
	return entities.Order{OrderId: o.Id, Status: o.Status, TotalPrice: o.TotalPrice}, nil
}

func (m *MockOrderRepo) SearchOrders(data models.OrderSearchData) ([]entities.Order, error) {
	return nil, nil
}

func (m *MockOrderRepo) SetOrderStatus(orderId int, status string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	o, ok := m.Orders[orderId]
	if !ok {
		return models.ErrNotFoundError
	}
	o.Status = status
	m.Orders[orderId] = o
	return nil
}

func (m *MockOrderRepo) BulkSetStatus(orderIds []int, status string) (int, error) {
	m.bulkIds = append([]int(nil), orderIds...)
	updated := 0
	for _, id := range orderIds {
		o, ok := m.Orders[id]
		if !ok || o.Status == "cancelled" || o.Status == "delivered" {
			continue
		}
		o.Status = status
		m.Orders[id] = o
		updated++
	}
	return updated, nil
}

func (m *MockOrderRepo) BulkDelete(orderIds []int) (int, error) {
	m.bulkIds = append([]int(nil), orderIds...)
	removed := 0
	for _, id := range orderIds {
		if _, ok := m.Orders[id]; !ok {
			continue
		}
		delete(m.Orders, id)
		delete(m.Items, id)
		removed++
	}
	return removed, nil
}
