package leaseapi

import (
	"encoding/json"
	"strings"
)

// decodeLenient parses a response body that should be JSON but may carry
// trailing garbage (stray PHP warnings, BOMs, debug output). A straight
// parse is tried first, then the first balanced object or array span.
func decodeLenient(body string) (any, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		return v, true
	}

	if span, ok := balancedSpan(body); ok {
		if err := json.Unmarshal([]byte(span), &v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// balancedSpan finds the first balanced {...} or [...] region, honoring
// string literals and escapes.
func balancedSpan(body string) (string, bool) {
	start := strings.IndexAny(body, "{[")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return body[start : i+1], true
			}
		}
	}
	return "", false
}
