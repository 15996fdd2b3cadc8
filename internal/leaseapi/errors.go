package leaseapi

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
)

// APIError is every failure the upstream lease API can produce, normalized.
// Status 0 means the server was never reached.
type APIError struct {
	Status  int
	Message string
	// Fields holds per-field validation messages when the upstream
	// returned an errors map (typically with HTTP 422).
	Fields map[string][]string
	cause  error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("lease api: %s (HTTP %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error { return e.cause }

// AsAPIError unwraps err into an *APIError when there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnreachable reports whether err is a transport-level failure.
func IsUnreachable(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == 0
}

// IsNotFound reports whether the upstream answered 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == 404
}

func unreachable(cause error) *APIError {
	return &APIError{Status: 0, Message: "cannot reach server", cause: cause}
}

// errorFromBody builds the APIError for a non-2xx response body. JSON
// bodies are mined for validation maps and message fields; HTML bodies get
// a best-effort marker extraction; anything else falls back to the HTTP
// status.
func errorFromBody(statusCode int, body string) *APIError {
	if looksHTML(body) {
		msg := extractHTMLError(body)
		if msg == "" {
			msg = fmt.Sprintf("server error (HTTP %d)", statusCode)
		}
		return &APIError{Status: statusCode, Message: msg}
	}

	if v, ok := decodeLenient(body); ok {
		if m, ok := v.(map[string]any); ok {
			if fields, ok := validationFields(m["errors"]); ok {
				return &APIError{
					Status:  statusCode,
					Message: formatFields(fields),
					Fields:  fields,
				}
			}
			for _, key := range []string{"message", "error", "msg", "exception"} {
				if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
					return &APIError{Status: statusCode, Message: s}
				}
			}
		}
	}

	return &APIError{Status: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode)}
}

// validationFields converts an upstream errors value into field -> messages.
// Values arrive as arrays of strings or as single strings.
func validationFields(v any) (map[string][]string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	fields := make(map[string][]string, len(m))
	for field, raw := range m {
		switch msgs := raw.(type) {
		case []any:
			for _, item := range msgs {
				if s, ok := item.(string); ok {
					fields[field] = append(fields[field], s)
				}
			}
		case string:
			fields[field] = append(fields[field], msgs)
		}
	}
	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// formatFields renders "field: msg1, msg2" lines in stable field order.
func formatFields(fields map[string][]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(fields[name], ", ")))
	}
	return strings.Join(lines, "\n")
}

func looksHTML(body string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}

var htmlErrorMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<!--\s*(.+?)\s*-->`),
	regexp.MustCompile(`ParseError[^<]+`),
	regexp.MustCompile(`Error[^<]+`),
	regexp.MustCompile(`(?i)exception[^<]+`),
	regexp.MustCompile(`(?i)Fatal error[^<]+`),
}

const htmlErrorLimit = 300

// extractHTMLError digs a human-readable message out of an HTML error page:
// debug comments first, then well-known failure markers. The result is
// entity-unescaped, cut at the first line break and capped.
func extractHTMLError(body string) string {
	for _, re := range htmlErrorMarkers {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		msg := m[0]
		if len(m) > 1 {
			msg = m[1]
		}
		msg = strings.TrimSpace(html.UnescapeString(msg))
		if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
			msg = strings.TrimSpace(msg[:i])
		}
		if msg == "" {
			continue
		}
		if len(msg) > htmlErrorLimit {
			msg = msg[:htmlErrorLimit]
		}
		return msg
	}
	return ""
}
