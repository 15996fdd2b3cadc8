package leaseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"leaseadmin/internal/common"
)

// Config carries the upstream endpoint settings.
type Config struct {
	BaseURL string
	APIKey  string
	// ServiceToken authenticates background work (catalog refresh) that
	// runs outside any admin session.
	ServiceToken string
	Timeout      time.Duration
}

// Client talks to the upstream lease API. All methods return *APIError on
// failure; there are no automatic retries.
type Client struct {
	baseURL      string
	apiKey       string
	serviceToken string
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      normalizeBaseURL(cfg.BaseURL),
		apiKey:       cfg.APIKey,
		serviceToken: cfg.ServiceToken,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// normalizeBaseURL pins https unless the operator explicitly configured
// plain http (local development), and drops any trailing slash.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/")
	if strings.HasPrefix(raw, "http://") {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "https://")
}

// do performs one upstream call and returns the decoded payload. The bearer
// token comes from the request context when an admin session is bound,
// otherwise the service token is used.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	endpoint := c.baseURL + "/v1" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, unreachable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unreachable(err)
	}
	text := string(raw)

	if resp.StatusCode >= 400 {
		apiErr := errorFromBody(resp.StatusCode, text)
		c.logger.Debug("upstream error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if v, ok := decodeLenient(text); ok {
		return v, nil
	}
	// unrecoverable body, hand the raw text through
	return text, nil
}

func (c *Client) token(ctx context.Context) string {
	if token := common.AccessToken(ctx); token != "" {
		return token
	}
	return c.serviceToken
}

// Page is one page of upstream records plus its pagination envelope.
type Page struct {
	Records       []map[string]any
	CurrentPage   int
	TotalPages    int
	Total         int
	StatusOptions map[string]string
}

// records unwraps the list shapes the upstream uses: a bare array, {data:
// [...]}, or the paginator nested as {data: {data: [...]}}.
func records(v any) []map[string]any {
	switch val := v.(type) {
	case []any:
		return toMaps(val)
	case map[string]any:
		switch inner := val["data"].(type) {
		case []any:
			return toMaps(inner)
		case map[string]any:
			if list, ok := inner["data"].([]any); ok {
				return toMaps(list)
			}
		}
	}
	return nil
}

func toMaps(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// record unwraps a single-object response, which may or may not be wrapped
// in a data envelope.
func record(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := m["data"].(map[string]any); ok {
		return inner
	}
	return m
}

// page assembles the pagination envelope, tolerating the several shapes the
// paginator shows up in.
func page(v any, requestedPage, perPage int) *Page {
	p := &Page{
		Records:     records(v),
		CurrentPage: requestedPage,
		TotalPages:  1,
	}
	m, ok := v.(map[string]any)
	if !ok {
		p.Total = len(p.Records)
		return p
	}

	envelopes := []map[string]any{m}
	if inner, ok := m["data"].(map[string]any); ok {
		envelopes = append(envelopes, inner)
	}
	if meta, ok := m["meta"].(map[string]any); ok {
		envelopes = append(envelopes, meta)
	}

	total := -1
	last := -1
	for _, env := range envelopes {
		if n, ok := intField(env, "current_page"); ok {
			p.CurrentPage = n
		}
		if n, ok := intField(env, "total"); ok {
			total = n
		}
		if n, ok := intField(env, "last_page"); ok {
			last = n
		} else if n, ok := intField(env, "total_pages"); ok {
			last = n
		}
		if opts := statusOptions(env["status_options"]); opts != nil {
			p.StatusOptions = opts
		}
	}

	if total >= 0 {
		p.Total = total
	} else {
		p.Total = len(p.Records)
	}
	switch {
	case last > 0:
		p.TotalPages = last
	case total >= 0 && perPage > 0:
		p.TotalPages = int(math.Ceil(float64(total) / float64(perPage)))
		if p.TotalPages < 1 {
			p.TotalPages = 1
		}
	}
	return p
}

func intField(m map[string]any, key string) (int, bool) {
	switch n := m[key].(type) {
	case float64:
		return int(n), true
	case string:
		var v int
		if _, err := fmt.Sscanf(n, "%d", &v); err == nil {
			return v, true
		}
	}
	return 0, false
}

func statusOptions(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
