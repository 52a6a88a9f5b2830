package services

import (
	"database/sql"
	"log"
	"time"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"
)

var orderStatuses = map[string]bool{
	"created":   true,
	"confirmed": true,
	"shipped":   true,
	"delivered": true,
	"cancelled": true,
}

type OrderService struct {
	or repository.OrderRepository
	pr repository.ProductRepository
	gr repository.GeoRepository
	lr repository.LeadRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, geoRepo repository.GeoRepository, leadRepo repository.LeadRepository) OrderService {
	return OrderService{
		or: orderRepo,
		pr: productRepo,
		gr: geoRepo,
		lr: leadRepo,
	}
}

func (os *OrderService) GetOrderById(orderId int) (order entities.Order, err error) {
	order, err = os.or.GetOrderById(orderId)
	return
}

func (os *OrderService) SearchOrders(data models.OrderSearchData) (orders []entities.Order, err error) {
	orders, err = os.or.SearchOrders(data)
	return
}

func (os *OrderService) SetOrderStatus(orderId int, status string) (err error) {
	if !orderStatuses[status] {
		log.Printf("unknown order status: %v", status)
		err = models.ErrBadRequest
		return
	}
	err = os.or.SetOrderStatus(orderId, status)
	return
}

// CreateOrderWithItems is the manager-side entry: the order is assembled from
// product ids instead of a live call cart. Prices and labels are resolved from
// the catalog, never trusted from the request.
func (os *OrderService) CreateOrderWithItems(agentId int, req models.OrderWithItemsRequest) (orderId int, err error) {
	if len(req.Items) == 0 {
		log.Printf("order needs at least one item")
		err = models.ErrNotAllowed
		return
	}
	saleType := req.SaleType
	if saleType == "" {
		saleType = "normal"
	}
	if !(saleType == "normal" || saleType == "upsell" || saleType == "cross_sell" || saleType == "exchange") {
		err = models.ErrBadRequest
		return
	}
	_, ex, err := os.lr.GetLeadById(req.LeadId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}

	var shipping float64
	if req.CityId > 0 {
		cityEx, e := os.gr.CityExist(req.CityId)
		if e != nil {
			err = e
			return
		}
		if !cityEx {
			log.Printf("City does not exist")
			err = models.ErrNotAllowed
			return
		}
		shipping, err = os.gr.GetCityShippingCost(req.CityId)
		if err != nil {
			return
		}
		if req.ZoneId > 0 {
			zone, zEx, e2 := os.gr.GetZone(req.ZoneId)
			if e2 != nil {
				err = e2
				return
			}
			if !zEx || zone.CityId != req.CityId {
				log.Printf("zone does not belong to the city")
				err = models.ErrNotAllowed
				return
			}
			if zone.ShippingCost > 0 {
				shipping = zone.ShippingCost
			}
		}
	}
	if req.IsExchange {
		shipping = 0
	}

	var rows []models.OrdersItems_db
	var subtotal float64
	for _, it := range req.Items {
		if it.Quantity < 1 {
			log.Printf("item quantity below 1 rejected")
			err = models.ErrNotAllowed
			return
		}
		product, pEx, e := os.pr.GetProductById(it.ProductId)
		if e != nil {
			err = e
			return
		}
		if !pEx {
			log.Printf("product %v does not exist", it.ProductId)
			err = models.ErrNotAllowed
			return
		}
		row := models.OrdersItems_db{
			ProductId: it.ProductId,
			Label:     product.Name,
			Quantity:  it.Quantity,
			UnitPrice: product.SellingPrice,
		}
		if it.VariantId > 0 {
			variant, vEx, e2 := os.pr.GetVariantById(it.VariantId)
			if e2 != nil {
				err = e2
				return
			}
			if !vEx || variant.ProductId != it.ProductId {
				log.Printf("variant %v does not belong to product %v", it.VariantId, it.ProductId)
				err = models.ErrNotAllowed
				return
			}
			row.VariantId = sql.NullInt64{Int64: int64(variant.Id), Valid: true}
			row.Label = product.Name + " - " + variant.Name
			if variant.PriceOverride.Valid {
				row.UnitPrice = variant.PriceOverride.Float64
			}
		}
		row.TotalPrice = row.UnitPrice * float64(row.Quantity)
		subtotal = subtotal + row.TotalPrice
		rows = append(rows, row)
	}

	order := models.Order_db{
		LeadId:       req.LeadId,
		AgentId:      agentId,
		Date:         time.Now().UTC(),
		Status:       "created",
		SaleType:     saleType,
		ShippingCost: shipping,
		IsExchange:   req.IsExchange,
		TotalPrice:   subtotal + shipping,
	}
	if req.CityId > 0 {
		order.CityId = sql.NullInt64{Int64: int64(req.CityId), Valid: true}
	}
	if req.ZoneId > 0 {
		order.ZoneId = sql.NullInt64{Int64: int64(req.ZoneId), Valid: true}
	}
	if req.CourierId > 0 {
		order.CourierId = sql.NullInt64{Int64: int64(req.CourierId), Valid: true}
	}
	if req.Address != "" {
		order.Address = sql.NullString{String: req.Address, Valid: true}
	}

	orderId, err = os.or.CreateOrder(order)
	if err != nil {
		return
	}
	err = os.or.SetOrderItems(orderId, rows)
	return
}

func (os *OrderService) BulkSetStatus(req models.BulkOrderStatus) (updated int, err error) {
	if len(req.Ids) == 0 || !orderStatuses[req.Status] {
		err = models.ErrBadRequest
		return
	}
	updated, err = os.or.BulkSetStatus(req.Ids, req.Status)
	return
}

func (os *OrderService) BulkDelete(req models.BulkOrderDelete) (removed int, err error) {
	if len(req.Ids) == 0 {
		err = models.ErrBadRequest
		return
	}
	removed, err = os.or.BulkDelete(req.Ids)
	return
}
