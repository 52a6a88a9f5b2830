package services

import (
	"database/sql"
	"log"
	"time"

	"codcrm/models"
	"codcrm/repository"

	"github.com/shopspring/decimal"
)

type AdSpendService struct {
	ar  repository.AdSpendRepository
	anr repository.AnalyticsRepository
}

func NewAdSpendService(adSpendRepo repository.AdSpendRepository, analyticsRepo repository.AnalyticsRepository) AdSpendService {
	return AdSpendService{
		ar:  adSpendRepo,
		anr: analyticsRepo,
	}
}

func adSpendFromRequest(req models.AdSpendRequest) (spend models.AdSpend_db, err error) {
	if req.Platform == "" || req.Amount.IsNegative() || req.Amount.IsZero() {
		log.Printf("platform and a positive amount are required")
		err = models.ErrNotAllowed
		return
	}
	date, e := time.Parse("2006-01-02", req.SpendDate)
	if e != nil {
		log.Printf("bad spend date: %v", e)
		err = models.ErrBadRequest
		return
	}
	spend = models.AdSpend_db{
		Platform:  req.Platform,
		Campaign:  req.Campaign,
		Amount:    req.Amount,
		SpendDate: date,
	}
	if req.Notes != "" {
		spend.Notes = sql.NullString{String: req.Notes, Valid: true}
	}
	return
}

func (as *AdSpendService) CreateAdSpend(req models.AdSpendRequest) (newSpendId int, err error) {
	spend, err := adSpendFromRequest(req)
	if err != nil {
		return
	}
	newSpendId, err = as.ar.CreateAdSpend(spend)
	return
}

func (as *AdSpendService) UpdateAdSpend(spendId int, req models.AdSpendRequest) (err error) {
	spend, err := adSpendFromRequest(req)
	if err != nil {
		return
	}
	spend.Id = spendId
	err = as.ar.UpdateAdSpend(spend)
	return
}

func (as *AdSpendService) DeleteAdSpend(spendId int) (err error) {
	err = as.ar.DeleteAdSpend(spendId)
	return
}

func (as *AdSpendService) SearchAdSpends(data models.AdSpendSearchData) (spends []models.AdSpend_db, err error) {
	spends, err = as.ar.SearchAdSpends(data)
	return
}

// Summary sets marketing spend against confirmed revenue for the period.
// Cost per order and ROI stay zero while their denominator is zero.
func (as *AdSpendService) Summary(dateStart time.Time, dateEnd time.Time) (summary models.AdSpendSummary, err error) {
	byPlatform, err := as.ar.SpendByPlatform(models.AdSpendSearchData{DateStart: &dateStart, DateEnd: &dateEnd})
	if err != nil {
		return
	}
	total := decimal.Zero
	for _, amount := range byPlatform {
		total = total.Add(amount)
	}

	revenue, count, err := as.anr.Revenue(dateStart, dateEnd, "confirmed")
	if err != nil {
		return
	}

	summary = models.AdSpendSummary{
		TotalSpend:       total,
		ByPlatform:       byPlatform,
		ConfirmedOrders:  count,
		ConfirmedRevenue: decimal.NewFromFloat(revenue),
	}
	if count > 0 {
		summary.CostPerOrder = total.DivRound(decimal.NewFromInt(int64(count)), 2)
	}
	if !total.IsZero() {
		summary.Roi = summary.ConfirmedRevenue.Sub(total).DivRound(total, 4)
	}
	return
}
