package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/mapper"
	"leaseadmin/internal/models"
)

type MockLeaseAPI struct {
	mock.Mock
}

func (m *MockLeaseAPI) ListLeaseRequests(ctx context.Context, page, perPage int) (*leaseapi.Page, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leaseapi.Page), args.Error(1)
}

func (m *MockLeaseAPI) GetLeaseRequest(ctx context.Context, id int64) (map[string]any, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockLeaseAPI) ApproveLeaseRequest(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeaseAPI) RejectLeaseRequest(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeaseAPI) SetLeaseRequestStatus(ctx context.Context, id int64, target string) error {
	return m.Called(ctx, id, target).Error(0)
}

func (m *MockLeaseAPI) GetCheckingRequest(ctx context.Context, id int64) (map[string]any, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockLeaseAPI) UpdateCheckingAttachments(ctx context.Context, id int64, decisions []leaseapi.AttachmentDecision) error {
	return m.Called(ctx, id, decisions).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditRepo) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, entity, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// stubLookups serves empty tables; mapper fallbacks are exercised in their
// own package.
type stubLookups struct{}

func (stubLookups) Lookups(ctx context.Context) mapper.Lookups { return mapper.Lookups{} }

func (stubLookups) ProductTypes(ctx context.Context) ([]map[string]any, error) { return nil, nil }

func (stubLookups) ServiceCategories(ctx context.Context) ([]map[string]any, error) {
	return nil, nil
}

func (stubLookups) Blocks(ctx context.Context) ([]map[string]any, error) { return nil, nil }

func (stubLookups) RefreshAll(ctx context.Context) error { return nil }

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveGroup(ctx context.Context, requestID int64, group models.AttachmentGroup) error {
	return m.Called(ctx, requestID, group).Error(0)
}
