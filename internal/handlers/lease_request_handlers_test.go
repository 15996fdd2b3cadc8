package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/models"
	"leaseadmin/internal/services"
	"leaseadmin/internal/status"
)

type stubRequests struct {
	listFn      func(ctx context.Context, screen status.Screen, tab status.Status, page, perPage int) (*models.TenantPage, error)
	approveFn   func(ctx context.Context, id int64) (map[string]any, error)
	rejectFn    func(ctx context.Context, id int64) (map[string]any, error)
	setStatusFn func(ctx context.Context, id int64, target status.Status) (map[string]any, error)
}

func (s *stubRequests) List(ctx context.Context, screen status.Screen, tab status.Status, page, perPage int) (*models.TenantPage, error) {
	return s.listFn(ctx, screen, tab, page, perPage)
}

func (s *stubRequests) Get(ctx context.Context, id int64) (models.Tenant, map[string]any, error) {
	return models.Tenant{ID: id}, map[string]any{"id": float64(id)}, nil
}

func (s *stubRequests) Approve(ctx context.Context, id int64) (map[string]any, error) {
	return s.approveFn(ctx, id)
}

func (s *stubRequests) Reject(ctx context.Context, id int64) (map[string]any, error) {
	return s.rejectFn(ctx, id)
}

func (s *stubRequests) SetStatus(ctx context.Context, id int64, target status.Status) (map[string]any, error) {
	return s.setStatusFn(ctx, id, target)
}

type stubAttachments struct {
	rejectFn func(ctx context.Context, id int64, name, note string) (*models.ContractDetail, error)
}

func (s *stubAttachments) Detail(ctx context.Context, id int64) (*models.ContractDetail, error) {
	return &models.ContractDetail{}, nil
}

func (s *stubAttachments) ApproveGroup(ctx context.Context, id int64, name string) (*models.ContractDetail, error) {
	return &models.ContractDetail{}, nil
}

func (s *stubAttachments) RejectGroup(ctx context.Context, id int64, name, note string) (*models.ContractDetail, error) {
	return s.rejectFn(ctx, id, name, note)
}

func doRequest(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for k, v := range params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	err := h(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestListRejectsUnknownScreen(t *testing.T) {
	h := NewLeaseRequestHandler(&stubRequests{}, &stubAttachments{})

	rec := doRequest(t, h.List, http.MethodGet, "/v1/lease-requests?screen=archive", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPassesScreenAndTab(t *testing.T) {
	var gotScreen status.Screen
	var gotTab status.Status
	h := NewLeaseRequestHandler(&stubRequests{
		listFn: func(ctx context.Context, screen status.Screen, tab status.Status, page, perPage int) (*models.TenantPage, error) {
			gotScreen, gotTab = screen, tab
			return &models.TenantPage{Tenants: []models.Tenant{}}, nil
		},
	}, &stubAttachments{})

	rec := doRequest(t, h.List, http.MethodGet, "/v1/lease-requests?screen=contract&tab=under_review", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, status.ScreenContract, gotScreen)
	assert.Equal(t, status.UnderReview, gotTab)
}

func TestApproveErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"illegal transition", fmt.Errorf("%w: checking -> approved", services.ErrIllegalTransition), http.StatusUnprocessableEntity},
		{"duplicate action", services.ErrDuplicateAction, http.StatusConflict},
		{"unreachable upstream", &leaseapi.APIError{Status: 0, Message: "cannot reach server"}, http.StatusBadGateway},
		{"upstream keeps status", &leaseapi.APIError{Status: 422, Message: "name: is required"}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewLeaseRequestHandler(&stubRequests{
				approveFn: func(ctx context.Context, id int64) (map[string]any, error) {
					return nil, tc.err
				},
			}, &stubAttachments{})

			rec := doRequest(t, h.Approve, http.MethodPut, "/v1/lease-requests/41/approve", "", map[string]string{"id": "41"})
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestApproveReturnsRefetchedRecord(t *testing.T) {
	h := NewLeaseRequestHandler(&stubRequests{
		approveFn: func(ctx context.Context, id int64) (map[string]any, error) {
			return map[string]any{"id": float64(id), "status": "approved"}, nil
		},
	}, &stubAttachments{})

	rec := doRequest(t, h.Approve, http.MethodPut, "/v1/lease-requests/41/approve", "", map[string]string{"id": "41"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "approved", body["status"])
}

func TestSetStatusRequiresBody(t *testing.T) {
	h := NewLeaseRequestHandler(&stubRequests{}, &stubAttachments{})

	rec := doRequest(t, h.SetStatus, http.MethodPut, "/v1/lease-requests/41/status", `{}`, map[string]string{"id": "41"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectAttachmentEmptyNote(t *testing.T) {
	h := NewLeaseRequestHandler(&stubRequests{}, &stubAttachments{
		rejectFn: func(ctx context.Context, id int64, name, note string) (*models.ContractDetail, error) {
			return nil, services.ErrEmptyNote
		},
	})

	rec := doRequest(t, h.RejectAttachment, http.MethodPut,
		"/v1/lease-requests/41/attachments/passport/reject", `{"note":""}`,
		map[string]string{"id": "41", "name": "passport"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidIDRejected(t *testing.T) {
	h := NewLeaseRequestHandler(&stubRequests{}, &stubAttachments{})

	rec := doRequest(t, h.Get, http.MethodGet, "/v1/lease-requests/abc", "", map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
