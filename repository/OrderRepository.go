package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"codcrm/entities"
	"codcrm/models"
)

type OrderRepository interface {
	CreateOrder(order models.Order_db) (orderId int, err error)
	SetOrderItems(orderId int, items []models.OrdersItems_db) (err error)
	GetOrderItems(orderId int) (items []entities.OrderItemFormat, err error)
	GetOrderById(orderId int) (order entities.Order, err error)
	SearchOrders(data models.OrderSearchData) (orders []entities.Order, err error)
	SetOrderStatus(orderId int, status string) (err error)
	BulkSetStatus(orderIds []int, status string) (updated int, err error)
	BulkDelete(orderIds []int) (removed int, err error)
}

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepository(conn *sql.DB) (OrderRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &OrderRepo{
		db: conn,
	}, nil
}

func (o *OrderRepo) CreateOrder(order models.Order_db) (orderId int, err error) {
	e := o.db.QueryRow("INSERT INTO Orders (LeadId, AgentId, Date, Status, SaleType, CityId, ZoneId, CourierId, Address, ShippingCost, IsExchange, TotalPrice) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING Id",
		order.LeadId, order.AgentId, order.Date, order.Status, order.SaleType,
		order.CityId, order.ZoneId, order.CourierId, order.Address,
		order.ShippingCost, order.IsExchange, order.TotalPrice).Scan(&orderId)
	if e != nil {
		log.Printf("CreateOrder: %v", e)
		err = models.ErrServerError
	}
	return
}

func (o *OrderRepo) SetOrderItems(orderId int, items []models.OrdersItems_db) (err error) {
	for _, v := range items {
		_, err = o.db.Exec("INSERT INTO OrdersItems (OrderId, ProductId, VariantId, Label, Quantity, UnitPrice, TotalPrice) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			orderId, v.ProductId, v.VariantId, v.Label, v.Quantity, v.UnitPrice, v.TotalPrice)
		if err != nil {
			log.Printf("SetOrderItems: %v", err)
			err = models.ErrServerError
			return
		}
	}
	return
}

func (o *OrderRepo) GetOrderItems(orderId int) (items []entities.OrderItemFormat, err error) {
	rows, e := o.db.Query("SELECT ProductId, VariantId, Label, Quantity, UnitPrice, TotalPrice FROM OrdersItems WHERE OrderId = $1 ORDER BY Id", orderId)
	if e != nil {
		log.Printf("GetOrderItems[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		item := entities.OrderItemFormat{}
		var variantId sql.NullInt64
		err = rows.Scan(&item.ProductId, &variantId, &item.Label, &item.Quantity, &item.UnitPrice, &item.TotalPrice)
		if err != nil {
			log.Printf("GetOrderItems[2]: %v", err)
			err = models.ErrServerError
			return
		}
		item.VariantId = int(variantId.Int64)
		items = append(items, item)
	}
	return
}

func (o *OrderRepo) GetOrderById(orderId int) (order entities.Order, err error) {
	row := o.db.QueryRow("SELECT Id, LeadId, AgentId, Date, Status, SaleType, CityId, Address, ShippingCost, IsExchange, TotalPrice FROM Orders WHERE Id = $1", orderId)
	var or models.Order_db
	err = row.Scan(&or.Id, &or.LeadId, &or.AgentId, &or.Date, &or.Status, &or.SaleType,
		&or.CityId, &or.Address, &or.ShippingCost, &or.IsExchange, &or.TotalPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			err = models.ErrNotFoundError
		} else {
			log.Printf("GetOrderById[1]: %v", err)
			err = models.ErrServerError
		}
		return
	}

	order = entities.Order{
		OrderId:      or.Id,
		Date:         or.Date,
		Status:       or.Status,
		SaleType:     or.SaleType,
		LeadId:       or.LeadId,
		Address:      or.Address.String,
		ShippingCost: or.ShippingCost,
		IsExchange:   or.IsExchange,
		TotalPrice:   or.TotalPrice,
	}

	row = o.db.QueryRow("SELECT Name, Phone FROM Leads WHERE Id = $1", or.LeadId)
	err = row.Scan(&order.LeadName, &order.LeadPhone)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("GetOrderById[2]: %v", err)
		err = models.ErrServerError
		return
	}

	row = o.db.QueryRow("SELECT Id, Nickname, Role FROM Users WHERE Id = $1", or.AgentId)
	err = row.Scan(&order.Agent.Id, &order.Agent.Nickname, &order.Agent.Role)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("GetOrderById[3]: %v", err)
		err = models.ErrServerError
		return
	}

	if or.CityId.Valid {
		row = o.db.QueryRow("SELECT Name FROM Cities WHERE Id = $1", or.CityId.Int64)
		e := row.Scan(&order.CityName)
		if e != nil && e != sql.ErrNoRows {
			log.Printf("GetOrderById[4]: %v", e)
			err = models.ErrServerError
			return
		}
	}

	order.Items, err = o.GetOrderItems(orderId)
	return
}

func (o *OrderRepo) SearchOrders(data models.OrderSearchData) (orders []entities.Order, err error) {
	var queryParams []any
	var count int

	query := "SELECT Orders.Id FROM Orders "
	if data.ProdId != nil {
		query = query + "JOIN OrdersItems ON Orders.Id = OrdersItems.OrderId "
	}
	query = query + "WHERE "

	if data.DateStart != nil && data.DateEnd != nil {
		query = query + "Date BETWEEN $1 AND $2 AND "
		count = count + 2
		queryParams = append(queryParams, data.DateStart, data.DateEnd)
	}
	if data.LeadId != nil {
		count = count + 1
		query = query + "LeadId=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.LeadId)
	}
	if data.AgentId != nil {
		count = count + 1
		query = query + "AgentId=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.AgentId)
	}
	if data.Status != nil {
		count = count + 1
		query = query + "Status=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.Status)
	}
	if data.ProdId != nil {
		count = count + 1
		query = query + "OrdersItems.ProductId=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.ProdId)
	}
	if count > 0 {
		query = query[0 : len(query)-4] //AND
	} else {
		query = query[0 : len(query)-6] //WHERE
	}
	query = query + "ORDER BY Orders.Id"

	rows, e := o.db.Query(query, queryParams...)
	if e != nil {
		log.Printf("SearchOrders: %v", e)
		err = models.ErrServerError
		return
	}
	var ids []int
	for rows.Next() {
		var id int
		err = rows.Scan(&id)
		if err != nil {
			log.Printf("SearchOrders: %v", err)
			err = models.ErrServerError
			return
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		ord, e2 := o.GetOrderById(id)
		if e2 != nil {
			err = e2
			return
		}
		orders = append(orders, ord)
	}
	if len(orders) == 0 {
		err = models.ErrNotFoundError
	}
	return
}

func (o *OrderRepo) SetOrderStatus(orderId int, status string) (err error) {
	row := o.db.QueryRow("SELECT Status FROM Orders WHERE Id = $1", orderId)
	var current string
	err = row.Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			err = models.ErrNotFoundError
		} else {
			log.Printf("SetOrderStatus[1]: %v", err)
			err = models.ErrServerError
		}
		return
	}
	if current == "cancelled" || current == "delivered" {
		log.Printf("you can not set status to this order. Current status is %v", current)
		err = models.ErrNotAllowed
		return
	}

	// stock is committed when the order is confirmed
	if status == "confirmed" && current != "confirmed" {
		err = o.commitStock(orderId)
		if err != nil {
			return
		}
	}

	_, err = o.db.Exec("UPDATE Orders SET Status = $1 WHERE Id = $2", status, orderId)
	if err != nil {
		log.Printf("SetOrderStatus[2]: %v", err)
		err = models.ErrServerError
	}
	return
}

// commitStock decrements the variant's stock when the line references one,
// the product's own stock otherwise.
func (o *OrderRepo) commitStock(orderId int) (err error) {
	rows, e := o.db.Query("SELECT ProductId, VariantId, Quantity FROM OrdersItems WHERE OrderId = $1", orderId)
	if e != nil {
		log.Printf("commitStock[1]: %v", e)
		err = models.ErrServerError
		return
	}
	type line struct {
		prodId    int
		variantId sql.NullInt64
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var ln line
		err = rows.Scan(&ln.prodId, &ln.variantId, &ln.quantity)
		if err != nil {
			log.Printf("commitStock[2]: %v", err)
			err = models.ErrServerError
			return
		}
		lines = append(lines, ln)
	}

	for _, ln := range lines {
		if ln.variantId.Valid && ln.variantId.Int64 > 0 {
			var dbQuantity int
			err = o.db.QueryRow("SELECT StockQuantity FROM ProductVariants WHERE Id = $1", ln.variantId.Int64).Scan(&dbQuantity)
			if err != nil {
				log.Printf("commitStock[3]: %v", err)
				err = models.ErrServerError
				return
			}
			if ln.quantity > dbQuantity {
				log.Printf("required variant quantity unavailable in db")
				err = models.ErrNotAllowed
				return
			}
			_, err = o.db.Exec("UPDATE ProductVariants SET StockQuantity = StockQuantity - $1 WHERE Id = $2", ln.quantity, ln.variantId.Int64)
		} else {
			var dbQuantity int
			err = o.db.QueryRow("SELECT StockQuantity FROM Products WHERE Id = $1", ln.prodId).Scan(&dbQuantity)
			if err != nil {
				log.Printf("commitStock[4]: %v", err)
				err = models.ErrServerError
				return
			}
			if ln.quantity > dbQuantity {
				log.Printf("required product quantity unavailable in db")
				err = models.ErrNotAllowed
				return
			}
			_, err = o.db.Exec("UPDATE Products SET StockQuantity = StockQuantity - $1 WHERE Id = $2", ln.quantity, ln.prodId)
		}
		if err != nil {
			log.Printf("commitStock[5]: %v", err)
			err = models.ErrServerError
			return
		}
	}
	return
}

func (o *OrderRepo) BulkSetStatus(orderIds []int, status string) (updated int, err error) {
	for _, id := range orderIds {
		e := o.SetOrderStatus(id, status)
		if e != nil {
			if e == models.ErrNotFoundError || e == models.ErrNotAllowed {
				continue
			}
			err = e
			return
		}
		updated = updated + 1
	}
	return
}

func (o *OrderRepo) BulkDelete(orderIds []int) (removed int, err error) {
	query, queryParams := buildIdList(orderIds)
	_, err = o.db.Exec(fmt.Sprintf("DELETE FROM OrdersItems WHERE OrderId IN %v", query), queryParams...)
	if err != nil {
		log.Printf("BulkDelete[1]: %v", err)
		err = models.ErrServerError
		return
	}
	res, e := o.db.Exec(fmt.Sprintf("DELETE FROM Orders WHERE Id IN %v", query), queryParams...)
	if e != nil {
		log.Printf("BulkDelete[2]: %v", e)
		err = models.ErrServerError
		return
	}
	r, _ := res.RowsAffected()
	removed = int(r)
	return
}

func buildIdList(ids []int) (query string, queryParams []any) {
	query = "( "
	for i, id := range ids {
		query = query + fmt.Sprintf("$%d, ", i+1)
		queryParams = append(queryParams, id)
	}
	query = query[0 : len(query)-2]
	query = query + " )"
	return
}
