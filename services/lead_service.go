package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"storefront-api/models"
	"storefront-api/repository"

	"go.uber.org/zap"
)

// Indian mobile numbers in E.164 form, the market the storefront serves.
var phonePattern = regexp.MustCompile(`^\+91[6-9]\d{9}$`)

type LeadService interface {
	// Capture records the visitor contact once per phone number. Submitting
	// the same phone again returns the existing lead unchanged.
	Capture(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, *ServiceError)
	List(ctx context.Context) ([]models.Lead, *ServiceError)
}

type leadServiceImpl struct {
	leads  repository.LeadRepository
	logger *zap.Logger
}

func NewLeadService(leads repository.LeadRepository, logger *zap.Logger) LeadService {
	return &leadServiceImpl{leads: leads, logger: logger}
}

func (s *leadServiceImpl) Capture(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, *ServiceError) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || !phonePattern.MatchString(phone) {
		return nil, &ServiceError{StatusCode: 400, Message: "Name and a valid +91 mobile number are required"}
	}

	existing, err := s.leads.FindByPhone(ctx, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("lead lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not save your details"}
	}

	lead := &models.Lead{Name: name, Phone: phone}
	if err := s.leads.Create(ctx, lead); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race to a concurrent submit with the same phone.
			if existing, ferr := s.leads.FindByPhone(ctx, phone); ferr == nil {
				return existing, nil
			}
		}
		s.logger.Error("lead create failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not save your details"}
	}
	return lead, nil
}

func (s *leadServiceImpl) List(ctx context.Context) ([]models.Lead, *ServiceError) {
	leads, err := s.leads.FindAll(ctx)
	if err != nil {
		s.logger.Error("lead list failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not load leads"}
	}
	return leads, nil
}
