package services

import (
	"log"
	"strings"
	"time"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"
)

type LeadService struct {
	lr repository.LeadRepository
}

func NewLeadService(leadRepo repository.LeadRepository) LeadService {
	return LeadService{
		lr: leadRepo,
	}
}

func (ls *LeadService) GetLeadById(leadId int) (lead entities.Lead, err error) {
	lm, ex, err := ls.lr.GetLeadById(leadId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}
	lead = repository.LeadView(lm)
	return
}

func (ls *LeadService) SearchLeads(data models.LeadSearchData) (leads []entities.Lead, err error) {
	leads, err = ls.lr.SearchLeads(data)
	return
}

func (ls *LeadService) CreateLead(req models.LeadRequest) (newLeadId int, err error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" {
		log.Printf("lead name and phone are required")
		err = models.ErrNotAllowed
		return
	}
	newLeadId, err = ls.lr.CreateLead(req)
	return
}

func (ls *LeadService) UpdateLead(leadId int, req models.LeadRequest) (err error) {
	err = ls.lr.UpdateLead(leadId, req)
	return
}

// GetDueCallbacks lists leads whose scheduled callback time has passed.
func (ls *LeadService) GetDueCallbacks() (leads []entities.Lead, err error) {
	leads, err = ls.lr.GetDueCallbacks(time.Now().UTC())
	return
}
