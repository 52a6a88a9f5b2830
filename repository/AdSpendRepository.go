package repository

import (
	"database/sql"
	"errors"
	"log"
	"strconv"

	"codcrm/models"

	"github.com/shopspring/decimal"
)

type AdSpendRepository interface {
	CreateAdSpend(spend models.AdSpend_db) (newSpendId int, err error)
	UpdateAdSpend(spend models.AdSpend_db) (err error)
	DeleteAdSpend(spendId int) (err error)
	SearchAdSpends(data models.AdSpendSearchData) (spends []models.AdSpend_db, err error)
	SpendByPlatform(data models.AdSpendSearchData) (byPlatform map[string]decimal.Decimal, err error)
}

type AdSpendRepo struct {
	db *sql.DB
}

func NewAdSpendRepository(conn *sql.DB) (AdSpendRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &AdSpendRepo{
		db: conn,
	}, nil
}

func (a *AdSpendRepo) CreateAdSpend(spend models.AdSpend_db) (newSpendId int, err error) {
	err = a.db.QueryRow("INSERT INTO AdSpends (Platform, Campaign, Amount, SpendDate, Notes) VALUES ($1, $2, $3, $4, $5) RETURNING Id",
		spend.Platform, spend.Campaign, spend.Amount.String(), spend.SpendDate, spend.Notes).Scan(&newSpendId)
	if err != nil {
		log.Printf("CreateAdSpend: %v", err)
		err = models.ErrServerError
	}
	return
}

func (a *AdSpendRepo) UpdateAdSpend(spend models.AdSpend_db) (err error) {
	res, e := a.db.Exec("UPDATE AdSpends SET Platform = $1, Campaign = $2, Amount = $3, SpendDate = $4, Notes = $5 WHERE Id = $6",
		spend.Platform, spend.Campaign, spend.Amount.String(), spend.SpendDate, spend.Notes, spend.Id)
	if e != nil {
		log.Printf("UpdateAdSpend: %v", e)
		err = models.ErrServerError
		return
	}
	r, _ := res.RowsAffected()
	if r == 0 {
		err = models.ErrNotFoundError
	}
	return
}

func (a *AdSpendRepo) DeleteAdSpend(spendId int) (err error) {
	_, err = a.db.Exec("DELETE FROM AdSpends WHERE Id = $1", spendId)
	if err != nil {
		log.Printf("DeleteAdSpend: %v", err)
		err = models.ErrServerError
	}
	return
}

func (a *AdSpendRepo) SearchAdSpends(data models.AdSpendSearchData) (spends []models.AdSpend_db, err error) {
	query, queryParams := buildAdSpendFilter(data)
	rows, e := a.db.Query("SELECT Id, Platform, Campaign, Amount, SpendDate, Notes FROM AdSpends"+query+" ORDER BY SpendDate DESC", queryParams...)
	if e != nil {
		log.Printf("SearchAdSpends[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		var s models.AdSpend_db
		var amount string
		err = rows.Scan(&s.Id, &s.Platform, &s.Campaign, &amount, &s.SpendDate, &s.Notes)
		if err != nil {
			log.Printf("SearchAdSpends[2]: %v", err)
			err = models.ErrServerError
			return
		}
		s.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			log.Printf("SearchAdSpends[3]: %v", err)
			err = models.ErrServerError
			return
		}
		spends = append(spends, s)
	}
	return
}

func (a *AdSpendRepo) SpendByPlatform(data models.AdSpendSearchData) (byPlatform map[string]decimal.Decimal, err error) {
	query, queryParams := buildAdSpendFilter(data)
	rows, e := a.db.Query("SELECT Platform, SUM(Amount) FROM AdSpends"+query+" GROUP BY Platform", queryParams...)
	if e != nil {
		log.Printf("SpendByPlatform[1]: %v", e)
		err = models.ErrServerError
		return
	}
	byPlatform = map[string]decimal.Decimal{}
	for rows.Next() {
		var platform, amount string
		err = rows.Scan(&platform, &amount)
		if err != nil {
			log.Printf("SpendByPlatform[2]: %v", err)
			err = models.ErrServerError
			return
		}
		d, e2 := decimal.NewFromString(amount)
		if e2 != nil {
			log.Printf("SpendByPlatform[3]: %v", e2)
			err = models.ErrServerError
			return
		}
		byPlatform[platform] = d
	}
	return
}

func buildAdSpendFilter(data models.AdSpendSearchData) (query string, queryParams []any) {
	count := 0
	query = " WHERE "
	if data.DateStart != nil && data.DateEnd != nil {
		query = query + "SpendDate BETWEEN $1 AND $2 AND "
		count = count + 2
		queryParams = append(queryParams, data.DateStart, data.DateEnd)
	}
	if data.Platform != nil {
		count = count + 1
		query = query + "Platform=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.Platform)
	}
	if count > 0 {
		query = query[0 : len(query)-5] //AND
	} else {
		query = "" //no filters
	}
	return
}
