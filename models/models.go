package models

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrUnautorized = errors.New("unautorized")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")

const (
	StageIdle            = "idle"
	StageReasonSelection = "reason_selection"
)

// CancelReasons is the fixed reason set offered in the cancel submenu.
var CancelReasons = map[string]bool{
	"price_too_high":  true,
	"changed_mind":    true,
	"duplicate_order": true,
	"not_interested":  true,
	"other":           true,
}

type Credentials struct {
	Password string `json:"password" db:"Password"`
	Username string `json:"username" db:"Nickname"`
	Role     string `json:"role" db:"Role"`
}

type PasswordData struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type UserData struct {
	Id       int
	Nickname string `json:"username" db:"Nickname"`
	Role     string `json:"role" db:"Role"`
}

type User_db struct {
	Id       int
	Nickname string `json:"username" db:"Nickname"`
	Password string `json:"password" db:"Password"`
	Role     string `json:"role" db:"Role"`
}

type Lead_db struct {
	Id              int
	Name            string
	Phone           string
	City            sql.NullString
	ProductInterest sql.NullString
	Source          sql.NullString
	Status          string
	CallCount       int
	TrustTier       string
	CallbackAt      sql.NullTime
	CallbackNotes   sql.NullString
}

type LeadRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
	ProductInterest string `json:"product_interest"`
	Source          string `json:"source"`
	TrustTier       string `json:"trust_tier"`
}

type LeadSearchData struct {
	Status *string
	Source *string
	City   *string
	Phone  *string
}

type Product struct {
	Id             int     `json:"id"`
	Name           string  `json:"name"`
	CostPrice      float64 `json:"cost_price"`
	SellingPrice   float64 `json:"selling_price"`
	StockQuantity  int     `json:"stock_quantity"`
	VariantTracked *bool   `json:"variant_tracked,omitempty"`
}

type Product_db struct {
	Id             int
	Name           string
	CostPrice      float64
	SellingPrice   float64
	StockQuantity  int
	VariantTracked bool
}

type Variant_db struct {
	Id            int
	ProductId     int
	Sku           string
	Name          string
	Attributes    string // JSON object, option type -> value
	StockQuantity int
	PriceOverride sql.NullFloat64
}

type VariantUpdate struct {
	StockQuantity *int     `json:"stock_quantity,omitempty"`
	PriceOverride *float64 `json:"price_override,omitempty"`
}

type Option_db struct {
	Id        int
	ProductId int
	Name      string
	Position  int
}

type Order_db struct {
	Id           int
	LeadId       int
	AgentId      int
	Date         time.Time
	Status       string
	SaleType     string
	CityId       sql.NullInt64
	ZoneId       sql.NullInt64
	CourierId    sql.NullInt64
	Address      sql.NullString
	ShippingCost float64
	IsExchange   bool
	TotalPrice   float64
}

type OrdersItems_db struct {
	Id         int
	OrderId    int
	ProductId  int
	VariantId  sql.NullInt64
	Label      string
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
}

type OrderSearchData struct {
	DateStart *time.Time
	DateEnd   *time.Time
	LeadId    *int
	AgentId   *int
	Status    *string
	ProdId    *int
}

type OrderItemRequest struct {
	ProductId int `json:"product_id"`
	VariantId int `json:"variant_id,omitempty"`
	Quantity  int `json:"quantity"`
}

type OrderWithItemsRequest struct {
	LeadId     int                `json:"lead_id"`
	SaleType   string             `json:"sale_type"`
	CityId     int                `json:"city_id,omitempty"`
	ZoneId     int                `json:"zone_id,omitempty"`
	CourierId  int                `json:"courier_id,omitempty"`
	Address    string             `json:"address"`
	IsExchange bool               `json:"is_exchange"`
	Items      []OrderItemRequest `json:"items"`
}

type BulkOrderStatus struct {
	Ids    []int  `json:"ids"`
	Status string `json:"status"`
}

type BulkOrderDelete struct {
	Ids []int `json:"ids"`
}

type AdSpend_db struct {
	Id        int
	Platform  string
	Campaign  string
	Amount    decimal.Decimal
	SpendDate time.Time
	Notes     sql.NullString
}

type AdSpendRequest struct {
	Platform  string          `json:"platform"`
	Campaign  string          `json:"campaign"`
	Amount    decimal.Decimal `json:"amount"`
	SpendDate string          `json:"spend_date"`
	Notes     string          `json:"notes,omitempty"`
}

type AdSpendSearchData struct {
	DateStart *time.Time
	DateEnd   *time.Time
	Platform  *string
}

type AdSpendSummary struct {
	TotalSpend       decimal.Decimal            `json:"total_spend"`
	ByPlatform       map[string]decimal.Decimal `json:"by_platform"`
	ConfirmedOrders  int                        `json:"confirmed_orders"`
	ConfirmedRevenue decimal.Decimal            `json:"confirmed_revenue"`
	CostPerOrder     decimal.Decimal            `json:"cost_per_order"`
	Roi              decimal.Decimal            `json:"roi"`
}
