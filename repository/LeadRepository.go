package repository

import (
	"database/sql"
	"errors"
	"log"
	"strconv"
	"time"

	"codcrm/entities"
	"codcrm/models"
)

type LeadRepository interface {
	GetLeadById(id int) (lead models.Lead_db, exists bool, err error)
	SearchLeads(data models.LeadSearchData) (leads []entities.Lead, err error)
	CreateLead(req models.LeadRequest) (newLeadId int, err error)
	UpdateLead(leadId int, req models.LeadRequest) (err error)
	SetDisposition(leadId int, status string, callbackAt *time.Time, callbackNotes string, countCall bool) (err error)
	GetDueCallbacks(now time.Time) (leads []entities.Lead, err error)
}

type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepository(conn *sql.DB) (LeadRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &LeadRepo{
		db: conn,
	}, nil
}

func (l *LeadRepo) GetLeadById(id int) (lead models.Lead_db, exists bool, err error) {
	row := l.db.QueryRow("SELECT Id, Name, Phone, City, ProductInterest, Source, Status, CallCount, TrustTier, CallbackAt, CallbackNotes FROM Leads WHERE Id = $1", id)
	err = row.Scan(&lead.Id, &lead.Name, &lead.Phone, &lead.City, &lead.ProductInterest,
		&lead.Source, &lead.Status, &lead.CallCount, &lead.TrustTier, &lead.CallbackAt, &lead.CallbackNotes)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.Printf("GetLeadById: %v", err)
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (l *LeadRepo) SearchLeads(data models.LeadSearchData) (leads []entities.Lead, err error) {
	var queryParams []any
	var count int
	query := "SELECT Id, Name, Phone, City, ProductInterest, Source, Status, CallCount, TrustTier, CallbackAt, CallbackNotes FROM Leads WHERE "

	if data.Status != nil {
		count = count + 1
		query = query + "Status=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.Status)
	}
	if data.Source != nil {
		count = count + 1
		query = query + "Source=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.Source)
	}
	if data.City != nil {
		count = count + 1
		query = query + "City=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.City)
	}
	if data.Phone != nil {
		count = count + 1
		query = query + "Phone=$" + strconv.Itoa(count) + " AND "
		queryParams = append(queryParams, data.Phone)
	}
	if count > 0 {
		query = query[0 : len(query)-4] //AND
	} else {
		query = query[0 : len(query)-6] //WHERE
	}
	query = query + "ORDER BY Id"

	rows, e := l.db.Query(query, queryParams...)
	if e != nil {
		log.Printf("SearchLeads: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		var lm models.Lead_db
		err = rows.Scan(&lm.Id, &lm.Name, &lm.Phone, &lm.City, &lm.ProductInterest,
			&lm.Source, &lm.Status, &lm.CallCount, &lm.TrustTier, &lm.CallbackAt, &lm.CallbackNotes)
		if err != nil {
			log.Printf("SearchLeads: %v", err)
			err = models.ErrServerError
			return
		}
		leads = append(leads, LeadView(lm))
	}
	return
}

func (l *LeadRepo) CreateLead(req models.LeadRequest) (newLeadId int, err error) {
	tier := req.TrustTier
	if tier == "" {
		tier = "standard"
	}
	err = l.db.QueryRow("INSERT INTO Leads (Name, Phone, City, ProductInterest, Source, Status, CallCount, TrustTier) VALUES ($1, $2, $3, $4, $5, 'new', 0, $6) RETURNING Id",
		req.Name, req.Phone, req.City, req.ProductInterest, req.Source, tier).Scan(&newLeadId)
	if err != nil {
		log.Printf("CreateLead: %v", err)
		err = models.ErrServerError
	}
	return
}

func (l *LeadRepo) UpdateLead(leadId int, req models.LeadRequest) (err error) {
	var ex bool
	_, ex, err = l.GetLeadById(leadId)
	if err != nil {
		return
	}
	if !ex {
		log.Printf("Lead does not exist")
		err = models.ErrNotAllowed
		return
	}
	_, err = l.db.Exec("UPDATE Leads SET Name = $1, Phone = $2, City = $3, ProductInterest = $4, Source = $5, TrustTier = $6 WHERE Id = $7",
		req.Name, req.Phone, req.City, req.ProductInterest, req.Source, req.TrustTier, leadId)
	if err != nil {
		log.Printf("UpdateLead: %v", err)
		err = models.ErrServerError
	}
	return
}

func (l *LeadRepo) SetDisposition(leadId int, status string, callbackAt *time.Time, callbackNotes string, countCall bool) (err error) {
	if callbackAt != nil {
		_, err = l.db.Exec("UPDATE Leads SET Status = $1, CallbackAt = $2, CallbackNotes = $3 WHERE Id = $4", status, callbackAt, callbackNotes, leadId)
	} else {
		_, err = l.db.Exec("UPDATE Leads SET Status = $1, CallbackAt = NULL, CallbackNotes = $2 WHERE Id = $3", status, callbackNotes, leadId)
	}
	if err != nil {
		log.Printf("SetDisposition[1]: %v", err)
		err = models.ErrServerError
		return
	}
	if countCall {
		_, err = l.db.Exec("UPDATE Leads SET CallCount = CallCount + 1 WHERE Id = $1", leadId)
		if err != nil {
			log.Printf("SetDisposition[2]: %v", err)
			err = models.ErrServerError
		}
	}
	return
}

func (l *LeadRepo) GetDueCallbacks(now time.Time) (leads []entities.Lead, err error) {
	rows, e := l.db.Query("SELECT Id, Name, Phone, City, ProductInterest, Source, Status, CallCount, TrustTier, CallbackAt, CallbackNotes FROM Leads WHERE Status = 'callback' AND CallbackAt <= $1 ORDER BY CallbackAt", now)
	if e != nil {
		log.Printf("GetDueCallbacks[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		var lm models.Lead_db
		err = rows.Scan(&lm.Id, &lm.Name, &lm.Phone, &lm.City, &lm.ProductInterest,
			&lm.Source, &lm.Status, &lm.CallCount, &lm.TrustTier, &lm.CallbackAt, &lm.CallbackNotes)
		if err != nil {
			log.Printf("GetDueCallbacks[2]: %v", err)
			err = models.ErrServerError
			return
		}
		leads = append(leads, LeadView(lm))
	}
	return
}

func LeadView(lm models.Lead_db) entities.Lead {
	lead := entities.Lead{
		Id:              lm.Id,
		Name:            lm.Name,
		Phone:           lm.Phone,
		City:            lm.City.String,
		ProductInterest: lm.ProductInterest.String,
		Source:          lm.Source.String,
		Status:          lm.Status,
		CallCount:       lm.CallCount,
		TrustTier:       lm.TrustTier,
		CallbackNotes:   lm.CallbackNotes.String,
	}
	if lm.CallbackAt.Valid {
		t := lm.CallbackAt.Time
		lead.CallbackAt = &t
	}
	return lead
}
