package services

import (
	"log"
	"strings"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"
)

type CartService struct {
	cs repository.CallSessionRepository
	pr repository.ProductRepository
	or repository.OptionRepository
	gr repository.GeoRepository
}

func NewCartService(callSessionRepo repository.CallSessionRepository, productRepo repository.ProductRepository, optionRepo repository.OptionRepository, geoRepo repository.GeoRepository) CartService {
	return CartService{
		cs: callSessionRepo,
		pr: productRepo,
		or: optionRepo,
		gr: geoRepo,
	}
}

// ComputeTotals derives the cart figures on every read, nothing is cached.
// An exchange waives the shipping cost.
func ComputeTotals(cart entities.CallCart) entities.CartTotals {
	totals := entities.CartTotals{}
	for _, item := range cart.Items {
		totals.Subtotal = totals.Subtotal + item.UnitPrice*float64(item.Quantity)
		totals.TotalQuantity = totals.TotalQuantity + item.Quantity
	}
	if !cart.IsExchange {
		totals.ShippingCost = cart.ShippingCost
	}
	totals.Total = totals.Subtotal + totals.ShippingCost
	totals.IsUpsell = totals.TotalQuantity > 1
	return totals
}

func (cs *CartService) getActive(agentId int) (session entities.CallSession, err error) {
	session, exists, err := cs.cs.GetSession(agentId)
	if err != nil {
		return
	}
	if !exists {
		log.Printf("agent %v has no active call", agentId)
		err = models.ErrNotFoundError
	}
	return
}

// save bumps the cart version so that in-flight suggestion fetches for an
// older cart state are recognized as stale. An empty cart also re-arms a
// dismissed suggestion panel.
func (cs *CartService) save(session entities.CallSession) (err error) {
	session.Cart.Version = session.Cart.Version + 1
	if len(session.Cart.Items) == 0 {
		session.Suggestions = nil
		session.SuggestionsDismissed = false
	}
	err = cs.cs.SetSession(session.AgentId, session)
	return
}

func (cs *CartService) SelectProduct(agentId int, productId int, variantId int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	_, ex, err := cs.pr.GetProductById(productId)
	if err != nil {
		return
	}
	if !ex {
		log.Printf("Product does not exist")
		err = models.ErrNotAllowed
		return
	}
	if variantId > 0 {
		variant, vEx, e := cs.pr.GetVariantById(variantId)
		if e != nil {
			err = e
			return
		}
		if !vEx || variant.ProductId != productId {
			log.Printf("Variant does not belong to the product")
			err = models.ErrNotAllowed
			return
		}
	}
	session.Cart.Pending = &entities.PendingSelection{
		ProductId: productId,
		VariantId: variantId,
		Options:   map[string]string{},
		Quantity:  1,
	}
	err = cs.save(session)
	return
}

func (cs *CartService) StageOption(agentId int, optionType string, value string) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	if session.Cart.Pending == nil {
		log.Printf("no product selected")
		err = models.ErrNotAllowed
		return
	}
	options, err := cs.or.GetProductOptions(session.Cart.Pending.ProductId)
	if err != nil {
		return
	}
	valid := false
	for _, opt := range options {
		if opt.Type != optionType {
			continue
		}
		for _, v := range opt.Values {
			if v == value {
				valid = true
			}
		}
	}
	if !valid {
		log.Printf("option choice %v=%v is not offered by the product", optionType, value)
		err = models.ErrNotAllowed
		return
	}
	session.Cart.Pending.Options[optionType] = value
	err = cs.save(session)
	return
}

func (cs *CartService) SetPendingQuantity(agentId int, quantity int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	if session.Cart.Pending == nil {
		err = models.ErrNotAllowed
		return
	}
	if quantity < 1 {
		log.Printf("quantity below 1 rejected")
		err = models.ErrNotAllowed
		return
	}
	session.Cart.Pending.Quantity = quantity
	err = cs.save(session)
	return
}

func (cs *CartService) AddToCart(agentId int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	pending := session.Cart.Pending
	if pending == nil {
		log.Printf("no product selected")
		err = models.ErrNotAllowed
		return
	}

	product, ex, err := cs.pr.GetProductById(pending.ProductId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotAllowed
		return
	}

	item := entities.OrderItem{
		ProductId: pending.ProductId,
		Quantity:  pending.Quantity,
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if pending.VariantId > 0 {
		variant, vEx, e := cs.pr.GetVariantById(pending.VariantId)
		if e != nil {
			err = e
			return
		}
		if !vEx {
			err = models.ErrNotAllowed
			return
		}
		item.VariantId = variant.Id
		item.Attributes = repository.AttributesFromJSON(variant.Attributes)
		item.ProductName = product.Name + " - " + variant.Name
		if variant.PriceOverride.Valid {
			item.UnitPrice = variant.PriceOverride.Float64
		} else {
			item.UnitPrice = product.SellingPrice
		}
	} else {
		options, e := cs.or.GetProductOptions(pending.ProductId)
		if e != nil {
			err = e
			return
		}
		// all-or-nothing: a line may not carry a partial variant choice
		values := make([]string, 0, len(options))
		for _, opt := range options {
			v, chosen := pending.Options[opt.Type]
			if !chosen {
				log.Printf("option %v has no chosen value", opt.Type)
				err = models.ErrNotAllowed
				return
			}
			values = append(values, v)
		}
		if product.VariantTracked {
			// a tracked product keeps its stock on the variants, so the
			// chosen combination must land on a concrete variant
			variant, found, e2 := cs.matchVariant(pending.ProductId, pending.Options)
			if e2 != nil {
				err = e2
				return
			}
			if !found {
				log.Printf("no variant matches the chosen options")
				err = models.ErrNotAllowed
				return
			}
			item.VariantId = variant.Id
			item.Attributes = repository.AttributesFromJSON(variant.Attributes)
			item.ProductName = product.Name + " - " + variant.Name
			item.UnitPrice = product.SellingPrice
			if variant.PriceOverride.Valid {
				item.UnitPrice = variant.PriceOverride.Float64
			}
		} else {
			item.UnitPrice = product.SellingPrice
			item.ProductName = product.Name
			if len(values) > 0 {
				item.Attributes = pending.Options
				item.ProductName = product.Name + " - " + strings.Join(values, " / ")
			}
		}
	}

	item.TotalPrice = item.UnitPrice * float64(item.Quantity)
	// always a new line, identical selections are not merged
	session.Cart.Items = append(session.Cart.Items, item)
	session.Cart.Pending = nil
	err = cs.save(session)
	return
}

// matchVariant finds the variant whose attributes equal the staged option
// choices.
func (cs *CartService) matchVariant(productId int, chosen map[string]string) (variant models.Variant_db, found bool, err error) {
	variants, err := cs.pr.GetProductVariants(productId)
	if err != nil {
		return
	}
	for _, v := range variants {
		attrs := repository.AttributesFromJSON(v.Attributes)
		if len(attrs) != len(chosen) {
			continue
		}
		match := true
		for key, value := range chosen {
			if attrs[key] != value {
				match = false
			}
		}
		if match {
			variant = v
			found = true
			return
		}
	}
	return
}

func (cs *CartService) UpdateQuantity(agentId int, lineIndex int, quantity int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	if lineIndex < 0 || lineIndex >= len(session.Cart.Items) {
		err = models.ErrBadRequest
		return
	}
	if quantity < 1 {
		log.Printf("quantity below 1 rejected, cart unchanged")
		err = models.ErrNotAllowed
		return
	}
	session.Cart.Items[lineIndex].Quantity = quantity
	session.Cart.Items[lineIndex].TotalPrice = session.Cart.Items[lineIndex].UnitPrice * float64(quantity)
	err = cs.save(session)
	return
}

func (cs *CartService) RemoveItem(agentId int, lineIndex int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	if lineIndex < 0 || lineIndex >= len(session.Cart.Items) {
		err = models.ErrBadRequest
		return
	}
	session.Cart.Items = append(session.Cart.Items[:lineIndex], session.Cart.Items[lineIndex+1:]...)
	err = cs.save(session)
	return
}

// SetCity always clears the zone: a zone is only meaningful within the
// currently selected city.
func (cs *CartService) SetCity(agentId int, cityId int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	ex, err := cs.gr.CityExist(cityId)
	if err != nil {
		return
	}
	if !ex {
		log.Printf("City does not exist")
		err = models.ErrNotAllowed
		return
	}
	cost, err := cs.gr.GetCityShippingCost(cityId)
	if err != nil {
		return
	}
	session.Cart.CityId = cityId
	session.Cart.ZoneId = 0
	session.Cart.ShippingCost = cost
	err = cs.save(session)
	return
}

func (cs *CartService) SetZone(agentId int, zoneId int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	if session.Cart.CityId == 0 {
		log.Printf("zone requires a selected city")
		err = models.ErrNotAllowed
		return
	}
	zone, ex, err := cs.gr.GetZone(zoneId)
	if err != nil {
		return
	}
	if !ex || zone.CityId != session.Cart.CityId {
		log.Printf("zone does not belong to the selected city")
		err = models.ErrNotAllowed
		return
	}
	session.Cart.ZoneId = zoneId
	if zone.ShippingCost > 0 {
		session.Cart.ShippingCost = zone.ShippingCost
	}
	err = cs.save(session)
	return
}

func (cs *CartService) SetCourier(agentId int, courierId int) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	session.Cart.CourierId = courierId
	err = cs.save(session)
	return
}

func (cs *CartService) SetExchange(agentId int, isExchange bool) (err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	session.Cart.IsExchange = isExchange
	err = cs.save(session)
	return
}

// SetSaleType records the agent's explicit classification. It is the
// authoritative signal for the stored order; the quantity-derived upsell
// flag in the totals is a hint only.
func (cs *CartService) SetSaleType(agentId int, saleType string) (err error) {
	if !(saleType == "normal" || saleType == "upsell" || saleType == "cross_sell" || saleType == "exchange") {
		err = models.ErrBadRequest
		return
	}
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	session.Cart.SaleType = saleType
	err = cs.save(session)
	return
}

// directory reads for the call console selectors

func (cs *CartService) GetAllCities() (cities []entities.City, err error) {
	cities, err = cs.gr.GetAllCities()
	return
}

func (cs *CartService) GetCityZones(cityId int) (zones []entities.Zone, err error) {
	ex, err := cs.gr.CityExist(cityId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}
	zones, err = cs.gr.GetCityZones(cityId)
	return
}

func (cs *CartService) GetCouriers() (couriers []entities.Courier, err error) {
	couriers, err = cs.gr.GetCouriers()
	return
}

func (cs *CartService) CreateCity(name string, shippingCost float64) (newCityId int, err error) {
	if name == "" || shippingCost < 0 {
		err = models.ErrNotAllowed
		return
	}
	newCityId, err = cs.gr.CreateCity(name, shippingCost)
	return
}

func (cs *CartService) CreateZone(cityId int, name string, shippingCost float64) (newZoneId int, err error) {
	ex, err := cs.gr.CityExist(cityId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}
	if name == "" || shippingCost < 0 {
		err = models.ErrNotAllowed
		return
	}
	newZoneId, err = cs.gr.CreateZone(cityId, name, shippingCost)
	return
}

func (cs *CartService) CreateCourier(name string, phone string) (newCourierId int, err error) {
	if name == "" {
		err = models.ErrNotAllowed
		return
	}
	newCourierId, err = cs.gr.CreateCourier(name, phone)
	return
}

func (cs *CartService) GetCart(agentId int) (cart entities.CallCart, totals entities.CartTotals, err error) {
	session, err := cs.getActive(agentId)
	if err != nil {
		return
	}
	cart = session.Cart
	totals = ComputeTotals(cart)
	return
}
