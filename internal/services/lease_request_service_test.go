package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/models"
	"leaseadmin/internal/status"
)

type LeaseRequestServiceTestSuite struct {
	suite.Suite
	api     *MockLeaseAPI
	cache   *MockCache
	audit   *MockAuditRepo
	service LeaseRequestService
	ctx     context.Context
}

func (s *LeaseRequestServiceTestSuite) SetupTest() {
	s.api = new(MockLeaseAPI)
	s.cache = new(MockCache)
	s.audit = new(MockAuditRepo)
	s.service = NewLeaseRequestService(s.api, stubLookups{}, s.cache, s.audit, zap.NewNop())
	s.ctx = context.Background()
}

func (s *LeaseRequestServiceTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
	s.audit.AssertExpectations(s.T())
}

func (s *LeaseRequestServiceTestSuite) TestApproveRefetchesOnSuccess() {
	pending := map[string]any{"id": float64(41), "status": "pending"}
	approved := map[string]any{"id": float64(41), "status": "approved"}

	s.api.On("GetLeaseRequest", s.ctx, int64(41)).Return(pending, nil).Once()
	s.cache.On("SetNX", s.ctx, mock.Anything, "1", guardTTL).Return(true, nil).Once()
	s.api.On("ApproveLeaseRequest", s.ctx, int64(41)).Return(nil).Once()
	s.audit.On("Create", s.ctx, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.Action == models.ActionApprove && e.EntityID == "41"
	})).Return(nil).Once()
	s.cache.On("Delete", s.ctx, mock.Anything).Return(nil).Once()
	s.api.On("GetLeaseRequest", s.ctx, int64(41)).Return(approved, nil).Once()

	raw, err := s.service.Approve(s.ctx, 41)
	s.NoError(err)
	s.Equal("approved", raw["status"])
}

func (s *LeaseRequestServiceTestSuite) TestApproveRefusedFromChecking() {
	s.api.On("GetLeaseRequest", s.ctx, int64(7)).
		Return(map[string]any{"id": float64(7), "status": "checking"}, nil).Once()

	_, err := s.service.Approve(s.ctx, 7)
	s.ErrorIs(err, ErrIllegalTransition)
	s.api.AssertNotCalled(s.T(), "ApproveLeaseRequest", mock.Anything, mock.Anything)
}

func (s *LeaseRequestServiceTestSuite) TestDuplicateActionConflicts() {
	s.api.On("GetLeaseRequest", s.ctx, int64(9)).
		Return(map[string]any{"id": float64(9), "status": "pending"}, nil).Once()
	s.cache.On("SetNX", s.ctx, mock.Anything, "1", guardTTL).Return(false, nil).Once()

	_, err := s.service.Reject(s.ctx, 9)
	s.ErrorIs(err, ErrDuplicateAction)
	s.api.AssertNotCalled(s.T(), "RejectLeaseRequest", mock.Anything, mock.Anything)
}

func (s *LeaseRequestServiceTestSuite) TestSetStatusFromChecking() {
	checking := map[string]any{"id": float64(5), "status": "checking"}
	moved := map[string]any{"id": float64(5), "status": "in_contract_process"}

	s.api.On("GetLeaseRequest", s.ctx, int64(5)).Return(checking, nil).Once()
	s.cache.On("SetNX", s.ctx, mock.Anything, "1", guardTTL).Return(true, nil).Once()
	s.api.On("SetLeaseRequestStatus", s.ctx, int64(5), "in_contract_process").Return(nil).Once()
	s.audit.On("Create", s.ctx, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.Action == models.ActionSetStatus && e.Detail["to"] == "in_contract_process"
	})).Return(nil).Once()
	s.cache.On("Delete", s.ctx, mock.Anything).Return(nil).Once()
	s.api.On("GetLeaseRequest", s.ctx, int64(5)).Return(moved, nil).Once()

	raw, err := s.service.SetStatus(s.ctx, 5, status.InContractProcess)
	s.NoError(err)
	s.Equal("in_contract_process", raw["status"])
}

func (s *LeaseRequestServiceTestSuite) TestSetStatusUnderReviewGetsOwnAuditAction() {
	underReview := map[string]any{"id": float64(6), "status": "under_review"}

	s.api.On("GetLeaseRequest", s.ctx, int64(6)).Return(underReview, nil).Once()
	s.cache.On("SetNX", s.ctx, mock.Anything, "1", guardTTL).Return(true, nil).Once()
	s.api.On("SetLeaseRequestStatus", s.ctx, int64(6), "incomplete").Return(nil).Once()
	s.audit.On("Create", s.ctx, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.Action == models.ActionReviewSetStatus
	})).Return(nil).Once()
	s.cache.On("Delete", s.ctx, mock.Anything).Return(nil).Once()
	s.api.On("GetLeaseRequest", s.ctx, int64(6)).Return(underReview, nil).Once()

	_, err := s.service.SetStatus(s.ctx, 6, status.Incomplete)
	s.NoError(err)
}

func (s *LeaseRequestServiceTestSuite) TestSetStatusRejectsUnknownTarget() {
	_, err := s.service.SetStatus(s.ctx, 5, status.Status("halfway_done"))
	s.ErrorIs(err, ErrValidation)
	s.api.AssertNotCalled(s.T(), "GetLeaseRequest", mock.Anything, mock.Anything)
}

func (s *LeaseRequestServiceTestSuite) TestSetStatusRejectsSyntheticAll() {
	_, err := s.service.SetStatus(s.ctx, 5, status.All)
	s.ErrorIs(err, ErrValidation)
}

func (s *LeaseRequestServiceTestSuite) TestListClassifiesScreen() {
	page := &leaseapi.Page{
		Records: []map[string]any{
			{"id": float64(1), "status": "pending"},
			{"id": float64(2), "status": "pending"},
			{"id": float64(3), "status": "property_selected"},
			{"id": float64(4), "status": "approved"},
		},
		CurrentPage: 1,
		TotalPages:  3,
		Total:       34,
		StatusOptions: map[string]string{
			"pending": "Pending",
		},
	}
	s.api.On("ListLeaseRequests", s.ctx, 1, 10).Return(page, nil).Once()

	result, err := s.service.List(s.ctx, status.ScreenMain, status.Pending, 1, 10)
	s.NoError(err)

	s.Equal(3, result.Counts[status.All])
	s.Equal(2, result.Counts[status.Pending])
	s.Equal(1, result.Counts[status.PropertySelected])
	s.Len(result.Tenants, 2)
	s.Equal(1, result.CurrentPage)
	s.Equal(3, result.TotalPages)
	s.Equal(34, result.Total)
	s.Equal("Pending", result.StatusOptions["pending"])
}

func (s *LeaseRequestServiceTestSuite) TestListPassesUpstreamErrorThrough() {
	apiErr := &leaseapi.APIError{Status: 0, Message: "cannot reach server"}
	s.api.On("ListLeaseRequests", s.ctx, 1, 10).Return(nil, apiErr).Once()

	_, err := s.service.List(s.ctx, status.ScreenMain, status.All, 1, 10)
	s.Error(err)
	s.True(leaseapi.IsUnreachable(err))
}

func (s *LeaseRequestServiceTestSuite) TestGuardSkippedWhenRedisDown() {
	pending := map[string]any{"id": float64(3), "status": "pending"}

	s.api.On("GetLeaseRequest", s.ctx, int64(3)).Return(pending, nil).Twice()
	s.cache.On("SetNX", s.ctx, mock.Anything, "1", guardTTL).
		Return(false, assert.AnError).Once()
	s.api.On("ApproveLeaseRequest", s.ctx, int64(3)).Return(nil).Once()
	s.audit.On("Create", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.Approve(s.ctx, 3)
	s.NoError(err)
}

func TestLeaseRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeaseRequestServiceTestSuite))
}
