package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"leaseadmin/internal/common"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/models"
	"leaseadmin/internal/repositories"
)

type propertyAPI interface {
	Properties(ctx context.Context, q leaseapi.PropertyQuery) (*leaseapi.Page, error)
	Property(ctx context.Context, id int64) (map[string]any, error)
	CreateProperty(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateProperty(ctx context.Context, id int64, payload map[string]any) (map[string]any, error)
	UpdatePropertyRate(ctx context.Context, id int64, rate float64) error
	PropertyAnnualRates(ctx context.Context, id int64) ([]map[string]any, error)
	AnnualRates(ctx context.Context, page, perPage int) (*leaseapi.Page, error)
	CreateAnnualRate(ctx context.Context, payload map[string]any) (map[string]any, error)
	ApproveAnnualRate(ctx context.Context, id int64) error
	RejectAnnualRate(ctx context.Context, id int64) error
}

// PropertyService manages market properties and their rates against the
// upstream, with input validation and an audit entry per write.
type PropertyService interface {
	List(ctx context.Context, q leaseapi.PropertyQuery) (*leaseapi.Page, error)
	Get(ctx context.Context, id int64) (map[string]any, error)
	Create(ctx context.Context, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, id int64, payload map[string]any) (map[string]any, error)
	UpdateRate(ctx context.Context, id int64, rate float64) error
	AnnualRates(ctx context.Context, propertyID int64) ([]map[string]any, error)
	ListAnnualRates(ctx context.Context, page, perPage int) (*leaseapi.Page, error)
	CreateAnnualRate(ctx context.Context, in models.AnnualRateInput) (map[string]any, error)
	ApproveAnnualRate(ctx context.Context, id int64) error
	RejectAnnualRate(ctx context.Context, id int64) error
}

type propertyService struct {
	api    propertyAPI
	audit  repositories.AuditLogsRepository
	logger *zap.Logger
}

func NewPropertyService(api propertyAPI, audit repositories.AuditLogsRepository, logger *zap.Logger) PropertyService {
	return &propertyService{api: api, audit: audit, logger: logger}
}

func (s *propertyService) List(ctx context.Context, q leaseapi.PropertyQuery) (*leaseapi.Page, error) {
	return s.api.Properties(ctx, q)
}

func (s *propertyService) Get(ctx context.Context, id int64) (map[string]any, error) {
	return s.api.Property(ctx, id)
}

func (s *propertyService) Create(ctx context.Context, payload map[string]any) (map[string]any, error) {
	created, err := s.api.CreateProperty(ctx, payload)
	if err != nil {
		return nil, err
	}
	id := ""
	if created != nil {
		if n, ok := recordID(created); ok {
			id = strconv.FormatInt(n, 10)
		}
	}
	s.record(ctx, models.ActionPropertyCreate, "property", id, payload)
	return created, nil
}

func (s *propertyService) Update(ctx context.Context, id int64, payload map[string]any) (map[string]any, error) {
	updated, err := s.api.UpdateProperty(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.record(ctx, models.ActionPropertyUpdate, "property", strconv.FormatInt(id, 10), payload)
	return updated, nil
}

func (s *propertyService) UpdateRate(ctx context.Context, id int64, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("%w: rate must be positive", ErrValidation)
	}
	if err := s.api.UpdatePropertyRate(ctx, id, rate); err != nil {
		return err
	}
	s.record(ctx, models.ActionPropertyRateUpdate, "property", strconv.FormatInt(id, 10), map[string]any{"rate": rate})
	return nil
}

func (s *propertyService) AnnualRates(ctx context.Context, propertyID int64) ([]map[string]any, error) {
	return s.api.PropertyAnnualRates(ctx, propertyID)
}

func (s *propertyService) ListAnnualRates(ctx context.Context, page, perPage int) (*leaseapi.Page, error) {
	return s.api.AnnualRates(ctx, page, perPage)
}

func (s *propertyService) CreateAnnualRate(ctx context.Context, in models.AnnualRateInput) (map[string]any, error) {
	if in.PropertyID <= 0 {
		return nil, fmt.Errorf("%w: property_id is required", ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	year := time.Now().Year()
	if in.Year < year-1 || in.Year > year+5 {
		return nil, fmt.Errorf("%w: year %d is out of range", ErrValidation, in.Year)
	}

	payload := map[string]any{
		"property_id": in.PropertyID,
		"year":        in.Year,
		"amount":      in.Amount,
	}
	if in.Note != "" {
		payload["note"] = in.Note
	}
	created, err := s.api.CreateAnnualRate(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.record(ctx, models.ActionAnnualRateCreate, "annual_rate", "", payload)
	return created, nil
}

func (s *propertyService) ApproveAnnualRate(ctx context.Context, id int64) error {
	if err := s.api.ApproveAnnualRate(ctx, id); err != nil {
		return err
	}
	s.record(ctx, models.ActionAnnualRateApprove, "annual_rate", strconv.FormatInt(id, 10), nil)
	return nil
}

// RejectAnnualRate maps the missing-route 404 of older upstream builds to
// ErrNotSupported so the dashboard can disable the button instead of
// showing a not-found error.
func (s *propertyService) RejectAnnualRate(ctx context.Context, id int64) error {
	if err := s.api.RejectAnnualRate(ctx, id); err != nil {
		if leaseapi.IsNotFound(err) {
			return fmt.Errorf("%w: annual rate rejection", ErrNotSupported)
		}
		return err
	}
	s.record(ctx, models.ActionAnnualRateReject, "annual_rate", strconv.FormatInt(id, 10), nil)
	return nil
}

func (s *propertyService) record(ctx context.Context, action, entity, entityID string, detail map[string]any) {
	entry := &models.AuditLog{
		Actor:    common.Actor(ctx),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
