package services

import (
	"log"
	"sync"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"
)

// maxSuggestions caps the cross-sell panel.
const maxSuggestions = 4

type SuggestionService struct {
	cs repository.CallSessionRepository
	pr repository.ProductRepository
}

func NewSuggestionService(callSessionRepo repository.CallSessionRepository, productRepo repository.ProductRepository) SuggestionService {
	return SuggestionService{
		cs: callSessionRepo,
		pr: productRepo,
	}
}

// BuildSuggestions merges the per-line cross-sell lists into the published
// set: first appearance order, no duplicates, nothing already in the cart,
// nothing out of stock, at most maxSuggestions entries.
func BuildSuggestions(items []entities.OrderItem, crossSells map[int][]models.Product_db) []entities.Suggestion {
	inCart := map[int]bool{}
	var productOrder []int
	for _, item := range items {
		inCart[item.ProductId] = true
	}
	seenLine := map[int]bool{}
	for _, item := range items {
		if !seenLine[item.ProductId] {
			seenLine[item.ProductId] = true
			productOrder = append(productOrder, item.ProductId)
		}
	}

	suggestions := []entities.Suggestion{}
	seen := map[int]bool{}
	for _, prodId := range productOrder {
		for _, p := range crossSells[prodId] {
			if seen[p.Id] || inCart[p.Id] {
				continue
			}
			seen[p.Id] = true
			if !p.VariantTracked && p.StockQuantity <= 0 {
				continue
			}
			suggestions = append(suggestions, entities.Suggestion{
				ProductId:     p.Id,
				Name:          p.Name,
				SellingPrice:  p.SellingPrice,
				StockQuantity: p.StockQuantity,
			})
			if len(suggestions) == maxSuggestions {
				return suggestions
			}
		}
	}
	return suggestions
}

// Refresh recomputes the suggestion set for the agent's current cart. The
// cart version is snapshotted before fetching; if the cart moved while the
// cross-sell lists were being fetched the result is discarded so a slow
// fetch can never overwrite a newer state.
func (ss *SuggestionService) Refresh(agentId int) (suggestions []entities.Suggestion, err error) {
	session, exists, err := ss.cs.GetSession(agentId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
		return
	}

	if len(session.Cart.Items) == 0 {
		session.Suggestions = nil
		session.SuggestionsDismissed = false
		err = ss.cs.SetSession(agentId, session)
		return
	}
	if session.SuggestionsDismissed {
		return
	}

	version := session.Cart.Version
	items := session.Cart.Items

	var productIds []int
	seen := map[int]bool{}
	for _, item := range items {
		if !seen[item.ProductId] {
			seen[item.ProductId] = true
			productIds = append(productIds, item.ProductId)
		}
	}

	// one fetch per distinct cart line product; failures degrade to an
	// empty list, the panel is best effort
	crossSells := make(map[int][]models.Product_db, len(productIds))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, prodId := range productIds {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			prods, e := ss.pr.GetCrossSells(id)
			if e != nil {
				log.Printf("Refresh: cross-sell fetch for product %v failed: %v", id, e)
				return
			}
			mu.Lock()
			crossSells[id] = prods
			mu.Unlock()
		}(prodId)
	}
	wg.Wait()

	computed := BuildSuggestions(items, crossSells)

	session, exists, err = ss.cs.GetSession(agentId)
	if err != nil || !exists {
		return
	}
	if session.Cart.Version != version || session.SuggestionsDismissed {
		// stale: the cart moved or the panel was dismissed under the fetch,
		// keep what is published
		suggestions = session.Suggestions
		return
	}
	session.Suggestions = computed
	err = ss.cs.SetSession(agentId, session)
	if err != nil {
		return
	}
	suggestions = computed
	return
}

// Dismiss hides the panel until the cart next becomes empty.
func (ss *SuggestionService) Dismiss(agentId int) (err error) {
	session, exists, err := ss.cs.GetSession(agentId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
		return
	}
	session.SuggestionsDismissed = true
	session.Suggestions = nil
	err = ss.cs.SetSession(agentId, session)
	return
}

// Accept moves a suggested product into the cart as a quantity-1 line and
// drops it from the published list without refetching.
func (ss *SuggestionService) Accept(agentId int, productId int) (err error) {
	session, exists, err := ss.cs.GetSession(agentId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
		return
	}

	idx := -1
	for i, s := range session.Suggestions {
		if s.ProductId == productId {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Printf("product %v is not among the current suggestions", productId)
		err = models.ErrNotAllowed
		return
	}

	product, ex, err := ss.pr.GetProductById(productId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotAllowed
		return
	}

	session.Cart.Items = append(session.Cart.Items, entities.OrderItem{
		ProductId:   product.Id,
		ProductName: product.Name,
		Quantity:    1,
		UnitPrice:   product.SellingPrice,
		TotalPrice:  product.SellingPrice,
	})
	session.Cart.Version = session.Cart.Version + 1
	session.Suggestions = append(session.Suggestions[:idx], session.Suggestions[idx+1:]...)
	err = ss.cs.SetSession(agentId, session)
	return
}
