package entities

import (
	"time"

	"codcrm/models"
)

type Lead struct {
	Id              int        `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	City            string     `json:"city"`
	ProductInterest string     `json:"product_interest"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	CallCount       int        `json:"call_count"`
	TrustTier       string     `json:"trust_tier"`
	CallbackAt      *time.Time `json:"callback_at,omitempty"`
	CallbackNotes   string     `json:"callback_notes,omitempty"`
}

type Product struct {
	Id             int              `json:"id"`
	Name           string           `json:"name"`
	CostPrice      float64          `json:"cost_price"`
	SellingPrice   float64          `json:"selling_price"`
	StockQuantity  int              `json:"stock_quantity"`
	VariantTracked bool             `json:"variant_tracked"`
	Options        []VariantOption  `json:"options,omitempty"`
	Variants       []ProductVariant `json:"variants,omitempty"`
}

type ProductPreview struct {
	Id             int     `json:"id"`
	Name           string  `json:"name"`
	SellingPrice   float64 `json:"selling_price"`
	StockQuantity  int     `json:"stock_quantity"`
	VariantTracked bool    `json:"variant_tracked"`
}

type ProductVariant struct {
	Id            int               `json:"id"`
	ProductId     int               `json:"product_id"`
	Sku           string            `json:"sku"`
	Name          string            `json:"name"`
	Attributes    map[string]string `json:"attributes"`
	StockQuantity int               `json:"stock_quantity"`
	PriceOverride *float64          `json:"price_override,omitempty"`
}

type VariantOption struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

type GeneratedVariant struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes"`
}

type OrderItem struct {
	ProductId   int               `json:"product_id"`
	VariantId   int               `json:"variant_id,omitempty"`
	ProductName string            `json:"product_name"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   float64           `json:"unit_price"`
	TotalPrice  float64           `json:"total_price"`
}

type PendingSelection struct {
	ProductId int               `json:"product_id"`
	VariantId int               `json:"variant_id,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Quantity  int               `json:"quantity"`
}

type CallCart struct {
	Items        []OrderItem       `json:"items"`
	Pending      *PendingSelection `json:"pending,omitempty"`
	CityId       int               `json:"city_id,omitempty"`
	ZoneId       int               `json:"zone_id,omitempty"`
	CourierId    int               `json:"courier_id,omitempty"`
	ShippingCost float64           `json:"shipping_cost"`
	IsExchange   bool              `json:"is_exchange"`
	SaleType     string            `json:"sale_type"`
	Version      int               `json:"version"`
}

type CartTotals struct {
	Subtotal      float64 `json:"subtotal"`
	ShippingCost  float64 `json:"shipping_cost"`
	Total         float64 `json:"total"`
	TotalQuantity int     `json:"total_quantity"`
	IsUpsell      bool    `json:"is_upsell"`
}

type Suggestion struct {
	ProductId     int     `json:"product_id"`
	Name          string  `json:"name"`
	SellingPrice  float64 `json:"selling_price"`
	StockQuantity int     `json:"stock_quantity"`
}

type CallSession struct {
	Id                   string       `json:"id"`
	AgentId              int          `json:"agent_id"`
	LeadId               int          `json:"lead_id"`
	LeadName             string       `json:"lead_name"`
	LeadPhone            string       `json:"lead_phone"`
	StartedAt            time.Time    `json:"started_at"`
	Notes                string       `json:"notes"`
	Stage                string       `json:"stage"`
	Processing           bool         `json:"processing"`
	Cart                 CallCart     `json:"cart"`
	Suggestions          []Suggestion `json:"suggestions"`
	SuggestionsDismissed bool         `json:"suggestions_dismissed"`
}

type City struct {
	Id           int     `json:"id"`
	Name         string  `json:"name"`
	ShippingCost float64 `json:"shipping_cost"`
	Zones        []Zone  `json:"zones,omitempty"`
}

type Zone struct {
	Id           int     `json:"id"`
	CityId       int     `json:"city_id"`
	Name         string  `json:"name"`
	ShippingCost float64 `json:"shipping_cost"`
}

type Courier struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type OrderItemFormat struct {
	ProductId  int     `json:"product_id"`
	VariantId  int     `json:"variant_id,omitempty"`
	Label      string  `json:"label"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type Order struct {
	OrderId      int               `json:"order_id"`
	Date         time.Time         `json:"date"`
	Status       string            `json:"status"`
	SaleType     string            `json:"sale_type"`
	LeadId       int               `json:"lead_id"`
	LeadName     string            `json:"lead_name"`
	LeadPhone    string            `json:"lead_phone"`
	Address      string            `json:"address"`
	CityName     string            `json:"city_name"`
	ShippingCost float64           `json:"shipping_cost"`
	IsExchange   bool              `json:"is_exchange"`
	TotalPrice   float64           `json:"total_price"`
	Agent        models.UserData   `json:"agent"`
	Items        []OrderItemFormat `json:"items"`
}

type AgentPerformance struct {
	AgentId  int     `json:"agent_id"`
	Nickname string  `json:"nickname"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

type SalesSummary struct {
	TotalOrders int                `json:"total_orders"`
	ByStatus    map[string]int     `json:"by_status"`
	Revenue     float64            `json:"revenue"`
	Agents      []AgentPerformance `json:"agents"`
}
