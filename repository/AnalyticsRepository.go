package repository

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"codcrm/entities"
	"codcrm/models"
)

type AnalyticsRepository interface {
	OrdersByStatus(dateStart time.Time, dateEnd time.Time) (byStatus map[string]int, err error)
	Revenue(dateStart time.Time, dateEnd time.Time, status string) (revenue float64, count int, err error)
	AgentPerformance(dateStart time.Time, dateEnd time.Time) (agents []entities.AgentPerformance, err error)
}

type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepository(conn *sql.DB) (AnalyticsRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &AnalyticsRepo{
		db: conn,
	}, nil
}

func (a *AnalyticsRepo) OrdersByStatus(dateStart time.Time, dateEnd time.Time) (byStatus map[string]int, err error) {
	rows, e := a.db.Query("SELECT Status, COUNT(*) FROM Orders WHERE Date BETWEEN $1 AND $2 GROUP BY Status", dateStart, dateEnd)
	if e != nil {
		log.Printf("OrdersByStatus[1]: %v", e)
		err = models.ErrServerError
		return
	}
	byStatus = map[string]int{}
	for rows.Next() {
		var status string
		var count int
		err = rows.Scan(&status, &count)
		if err != nil {
			log.Printf("OrdersByStatus[2]: %v", err)
			err = models.ErrServerError
			return
		}
		byStatus[status] = count
	}
	return
}

func (a *AnalyticsRepo) Revenue(dateStart time.Time, dateEnd time.Time, status string) (revenue float64, count int, err error) {
	row := a.db.QueryRow("SELECT COALESCE(SUM(TotalPrice), 0), COUNT(*) FROM Orders WHERE Date BETWEEN $1 AND $2 AND Status = $3", dateStart, dateEnd, status)
	err = row.Scan(&revenue, &count)
	if err != nil {
		log.Printf("Revenue: %v", err)
		err = models.ErrServerError
	}
	return
}

func (a *AnalyticsRepo) AgentPerformance(dateStart time.Time, dateEnd time.Time) (agents []entities.AgentPerformance, err error) {
	rows, e := a.db.Query("SELECT Orders.AgentId, Users.Nickname, COUNT(*), COALESCE(SUM(Orders.TotalPrice), 0) FROM Orders JOIN Users ON Orders.AgentId = Users.Id WHERE Orders.Date BETWEEN $1 AND $2 AND Orders.Status = 'confirmed' GROUP BY Orders.AgentId, Users.Nickname ORDER BY COUNT(*) DESC", dateStart, dateEnd)
	if e != nil {
		log.Printf("AgentPerformance[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		var ag entities.AgentPerformance
		err = rows.Scan(&ag.AgentId, &ag.Nickname, &ag.Orders, &ag.Revenue)
		if err != nil {
			log.Printf("AgentPerformance[2]: %v", err)
			err = models.ErrServerError
			return
		}
		agents = append(agents, ag)
	}
	return
}
