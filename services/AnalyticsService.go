package services

import (
	"time"

	"codcrm/entities"
	"codcrm/repository"
)

type AnalyticsService struct {
	anr repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return AnalyticsService{
		anr: analyticsRepo,
	}
}

// Summary is the manager dashboard payload: status breakdown, confirmed
// revenue and per-agent figures for the period.
func (as *AnalyticsService) Summary(dateStart time.Time, dateEnd time.Time) (summary entities.SalesSummary, err error) {
	byStatus, err := as.anr.OrdersByStatus(dateStart, dateEnd)
	if err != nil {
		return
	}
	revenue, _, err := as.anr.Revenue(dateStart, dateEnd, "confirmed")
	if err != nil {
		return
	}
	agents, err := as.anr.AgentPerformance(dateStart, dateEnd)
	if err != nil {
		return
	}

	summary = entities.SalesSummary{
		ByStatus: byStatus,
		Revenue:  revenue,
		Agents:   agents,
	}
	for _, count := range byStatus {
		summary.TotalOrders = summary.TotalOrders + count
	}
	return
}
