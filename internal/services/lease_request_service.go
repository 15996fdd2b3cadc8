package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"leaseadmin/internal/caching"
	"leaseadmin/internal/common"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/mapper"
	"leaseadmin/internal/models"
	"leaseadmin/internal/repositories"
	"leaseadmin/internal/status"
)

// guardTTL bounds how long a crashed request can block its action.
const guardTTL = 10 * time.Second

type leaseRequestAPI interface {
	ListLeaseRequests(ctx context.Context, page, perPage int) (*leaseapi.Page, error)
	GetLeaseRequest(ctx context.Context, id int64) (map[string]any, error)
	ApproveLeaseRequest(ctx context.Context, id int64) error
	RejectLeaseRequest(ctx context.Context, id int64) error
	SetLeaseRequestStatus(ctx context.Context, id int64, target string) error
}

// LeaseRequestService drives the lease-request workflow: listing with
// bucket counts, and the dashboard-issued transitions. State is never
// mutated locally; every successful transition refetches from upstream.
type LeaseRequestService interface {
	List(ctx context.Context, screen status.Screen, tab status.Status, page, perPage int) (*models.TenantPage, error)
	Get(ctx context.Context, id int64) (models.Tenant, map[string]any, error)
	Approve(ctx context.Context, id int64) (map[string]any, error)
	Reject(ctx context.Context, id int64) (map[string]any, error)
	SetStatus(ctx context.Context, id int64, target status.Status) (map[string]any, error)
}

type leaseRequestService struct {
	api     leaseRequestAPI
	lookups LookupService
	cache   caching.CacheService
	audit   repositories.AuditLogsRepository
	logger  *zap.Logger
}

func NewLeaseRequestService(api leaseRequestAPI, lookups LookupService, cache caching.CacheService, audit repositories.AuditLogsRepository, logger *zap.Logger) LeaseRequestService {
	return &leaseRequestService{
		api:     api,
		lookups: lookups,
		cache:   cache,
		audit:   audit,
		logger:  logger,
	}
}

func (s *leaseRequestService) List(ctx context.Context, screen status.Screen, tab status.Status, page, perPage int) (*models.TenantPage, error) {
	upstream, err := s.api.ListLeaseRequests(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	tenants := mapper.MapTenants(upstream.Records, s.lookups.Lookups(ctx))
	c := status.Classify(tenants, screen, tab)

	return &models.TenantPage{
		Tenants:       c.Filtered,
		Counts:        c.Counts,
		CurrentPage:   upstream.CurrentPage,
		TotalPages:    upstream.TotalPages,
		Total:         upstream.Total,
		StatusOptions: upstream.StatusOptions,
	}, nil
}

func (s *leaseRequestService) Get(ctx context.Context, id int64) (models.Tenant, map[string]any, error) {
	raw, err := s.api.GetLeaseRequest(ctx, id)
	if err != nil {
		return models.Tenant{}, nil, err
	}
	return mapper.MapTenant(raw, s.lookups.Lookups(ctx)), raw, nil
}

func (s *leaseRequestService) Approve(ctx context.Context, id int64) (map[string]any, error) {
	return s.transition(ctx, id, status.Approved, "approve", func() error {
		return s.api.ApproveLeaseRequest(ctx, id)
	})
}

func (s *leaseRequestService) Reject(ctx context.Context, id int64) (map[string]any, error) {
	return s.transition(ctx, id, status.Rejected, "reject", func() error {
		return s.api.RejectLeaseRequest(ctx, id)
	})
}

func (s *leaseRequestService) SetStatus(ctx context.Context, id int64, target status.Status) (map[string]any, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	return s.transition(ctx, id, target, "status:"+string(target), func() error {
		return s.api.SetLeaseRequestStatus(ctx, id, string(target))
	})
}

// transition runs one dashboard-issued status change: legality check
// against the current upstream status, duplicate guard, the upstream call,
// an audit entry and a refetch.
func (s *leaseRequestService) transition(ctx context.Context, id int64, target status.Status, action string, call func() error) (map[string]any, error) {
	raw, err := s.api.GetLeaseRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	from, _ := raw["status"].(string)
	current := status.Status(from)

	if !status.CanTransition(current, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
	}

	release, err := s.acquireGuard(ctx, action, id)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := call(); err != nil {
		return nil, err
	}

	auditAction := auditActionFor(current, target)
	s.record(ctx, auditAction, id, map[string]any{
		"from": string(current),
		"to":   string(target),
	})

	return s.api.GetLeaseRequest(ctx, id)
}

// acquireGuard claims the per-record action slot. A second identical action
// while the first is in flight gets ErrDuplicateAction.
func (s *leaseRequestService) acquireGuard(ctx context.Context, action string, id int64) (func(), error) {
	key := caching.Key("guard", action, strconv.FormatInt(id, 10))
	ok, err := s.cache.SetNX(ctx, key, "1", guardTTL)
	if err != nil {
		// redis being down must not freeze the workflow
		s.logger.Warn("action guard unavailable", zap.String("key", key), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrDuplicateAction
	}
	return func() {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("action guard release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *leaseRequestService) record(ctx context.Context, action string, id int64, detail map[string]any) {
	entry := &models.AuditLog{
		Actor:    common.Actor(ctx),
		Action:   action,
		Entity:   "lease_request",
		EntityID: strconv.FormatInt(id, 10),
		Detail:   detail,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// auditActionFor keeps under_review decisions distinguishable from plain
// checking ones in the trail.
func auditActionFor(from, to status.Status) string {
	if from == status.UnderReview {
		return models.ActionReviewSetStatus
	}
	switch to {
	case status.Approved:
		return models.ActionApprove
	case status.Rejected:
		return models.ActionReject
	default:
		return models.ActionSetStatus
	}
}
