package leaseapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leaseadmin/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		ServiceToken: "service-token",
		Timeout:      5 * time.Second,
	}, zap.NewNop())
	return c, srv
}

func TestListLeaseRequestsEnvelope(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{"id": 1, "status": "pending"}, {"id": 2, "status": "checking"}],
			"current_page": 2,
			"last_page": 7,
			"total": 65,
			"status_options": {"pending": "Pending", "checking": "Checking"}
		}`))
	})

	p, err := c.ListLeaseRequests(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Equal(t, "/v1/lease-requests?page=2&per_page=10", gotPath)
	assert.Equal(t, "Bearer service-token", gotAuth)
	assert.Equal(t, "test-key", gotKey)
	assert.Len(t, p.Records, 2)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 7, p.TotalPages)
	assert.Equal(t, 65, p.Total)
	assert.Equal(t, "Checking", p.StatusOptions["checking"])
}

func TestListDerivesTotalPagesFromTotal(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 1}], "total": 41}`))
	})

	p, err := c.ListLeaseRequests(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, p.TotalPages)
}

func TestNestedPaginatorEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"data": [{"id": 3}], "current_page": 1, "last_page": 4}}`))
	})

	p, err := c.ListLeaseRequests(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, p.Records, 1)
	assert.Equal(t, 4, p.TotalPages)
}

func TestContextTokenOverridesServiceToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data": []}`))
	})

	ctx := common.WithAccessToken(context.Background(), "admin-token")
	_, err := c.ListLeaseRequests(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer admin-token", gotAuth)
}

func TestValidationErrorsMapFormatting(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors": {"name": ["is required"], "email": ["is invalid", "is taken"]}}`))
	})

	_, err := c.GetLeaseRequest(context.Background(), 1)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "email: is invalid, is taken\nname: is required", apiErr.Message)
	assert.Equal(t, []string{"is required"}, apiErr.Fields["name"])
}

func TestMessageFieldFallbacks(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message": "request not found"}`, "request not found"},
		{`{"error": "forbidden"}`, "forbidden"},
		{`{"msg": "bad input"}`, "bad input"},
		{`{"exception": "RuntimeException"}`, "RuntimeException"},
		{`{"unrelated": true}`, "HTTP 400"},
		{`not even json`, "HTTP 400"},
	}
	for _, tc := range cases {
		body := tc.body
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(body))
		})
		_, err := c.GetLeaseRequest(context.Background(), 1)
		apiErr, ok := AsAPIError(err)
		require.True(t, ok, body)
		assert.Equal(t, tc.want, apiErr.Message, body)
	}
}

func TestHTMLErrorExtraction(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{
			"debug comment",
			"<!DOCTYPE html><html><body><!-- SQLSTATE[HY000] connection refused --></body></html>",
			"SQLSTATE[HY000] connection refused",
		},
		{
			"fatal error marker",
			"<html><body>Fatal error: allowed memory exhausted in index.php</body></html>",
			"Fatal error: allowed memory exhausted in index.php",
		},
		{
			"entities unescaped and first line only",
			"<!DOCTYPE html><!-- Class &quot;App\\Lease&quot; not found\nstack trace follows -->",
			`Class "App\Lease" not found`,
		},
		{
			"no marker falls back to generic",
			"<html><body><h1>503</h1></body></html>",
			"server error (HTTP 500)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := tc.body
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(body))
			})
			_, err := c.GetLeaseRequest(context.Background(), 1)
			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestUnreachableServer(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zap.NewNop())

	_, err := c.GetLeaseRequest(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))

	apiErr, _ := AsAPIError(err)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, "cannot reach server", apiErr.Message)
}

func TestTrailingGarbageRepair(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 5, "status": "checking"}}<br /><b>Warning</b>: undefined index`))
	})

	rec, err := c.GetLeaseRequest(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, float64(5), rec["id"])
	assert.Equal(t, "checking", rec["status"])
}

func TestBalancedSpanHonorsStrings(t *testing.T) {
	v, ok := decodeLenient(`{"note": "odd } brace"} trailing`)
	require.True(t, ok)
	m := v.(map[string]any)
	assert.Equal(t, "odd } brace", m["note"])

	_, ok = decodeLenient("no json here")
	assert.False(t, ok)
}

func TestGetCheckingRequestPath(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data": {"id": 9}}`))
	})

	_, err := c.GetCheckingRequest(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "/v1/lease-requests/checking/requests/9", gotPath)
}

func TestUpdateCheckingAttachmentsSingleObject(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/lease-requests/checking/requests/9", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	})

	err := c.UpdateCheckingAttachments(context.Background(), 9, []AttachmentDecision{
		{Name: "passport", Status: "approved"},
	})
	require.NoError(t, err)

	assert.Equal(t, "passport", got["name"])
	assert.Equal(t, "approved", got["status"])
	_, hasID := got["id"]
	assert.False(t, hasID)
	_, hasNote := got["note"]
	assert.False(t, hasNote)
	_, hasArray := got["attachments"]
	assert.False(t, hasArray)
}

func TestUpdateCheckingAttachmentsArrayWithNote(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	})

	err := c.UpdateCheckingAttachments(context.Background(), 9, []AttachmentDecision{
		{Name: "passport", Status: "rejected", Note: "blurry scan"},
		{Name: "trade license", Status: "rejected", Note: "blurry scan"},
	})
	require.NoError(t, err)

	items := got["attachments"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "passport", first["name"])
	assert.Equal(t, "rejected", first["status"])
	assert.Equal(t, "blurry scan", first["note"])
}

func TestSetLeaseRequestStatusUsesApproveRoute(t *testing.T) {
	var gotPath string
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	})

	err := c.SetLeaseRequestStatus(context.Background(), 5, "in_contract_process")
	require.NoError(t, err)
	assert.Equal(t, "/v1/lease-requests/5/approve", gotPath)
	assert.Equal(t, "in_contract_process", got["status"])
}

func TestPropertiesQueryDefaultsAndOmissions(t *testing.T) {
	var query map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"data": []}`))
	})

	_, err := c.Properties(context.Background(), PropertyQuery{Page: 1, PerPage: 20})
	require.NoError(t, err)

	assert.Equal(t, []string{"created_at"}, query["orderby"])
	assert.Equal(t, []string{"desc"}, query["order"])
	assert.Equal(t, []string{"20"}, query["per_page"])
	assert.NotContains(t, query, "q")
	assert.NotContains(t, query, "type_id")
	assert.NotContains(t, query, "product_type_id")
	assert.NotContains(t, query, "relationship")
	assert.NotContains(t, query, "relationship_id")
}

func TestPropertiesQueryCarriesFilters(t *testing.T) {
	var query map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"data": []}`))
	})

	_, err := c.Properties(context.Background(), PropertyQuery{
		Page:           2,
		PerPage:        10,
		OrderBy:        "number",
		Order:          "asc",
		Search:         "hall",
		TypeID:         4,
		ProductTypeID:  7,
		Relationship:   "lease_request",
		RelationshipID: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"number"}, query["orderby"])
	assert.Equal(t, []string{"asc"}, query["order"])
	assert.Equal(t, []string{"hall"}, query["q"])
	assert.Equal(t, []string{"4"}, query["type_id"])
	assert.Equal(t, []string{"7"}, query["product_type_id"])
	assert.Equal(t, []string{"lease_request"}, query["relationship"])
	assert.Equal(t, []string{"12"}, query["relationship_id"])
}

func TestBaseURLNormalization(t *testing.T) {
	assert.Equal(t, "https://api.example.com", normalizeBaseURL("api.example.com/"))
	assert.Equal(t, "https://api.example.com", normalizeBaseURL("https://api.example.com"))
	assert.Equal(t, "http://localhost:8081", normalizeBaseURL("http://localhost:8081/"))
}
