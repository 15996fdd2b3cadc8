package common

import (
	"context"
	"strconv"
)

type contextKey string

const (
	AccessTokenKey contextKey = "access_token"
	ActorKey       contextKey = "actor"
	SessionIDKey   contextKey = "session_id"
)

// WithAccessToken binds the caller's upstream bearer token to the context.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, AccessTokenKey, token)
}

// AccessToken returns the upstream bearer token bound to the context, empty
// when the request is unauthenticated.
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(AccessTokenKey).(string)
	return token
}

// WithActor binds the acting admin's identity for audit trails.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// Actor returns the acting admin's identity, "system" when none is bound.
func Actor(ctx context.Context) string {
	if actor, ok := ctx.Value(ActorKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}

func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sid)
}

func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(SessionIDKey).(string)
	return sid
}

// ErrorResponse is the uniform error body handlers return.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Details string              `json:"details,omitempty"`
}

// ParsePage normalizes pagination query values, clamping to sane bounds.
func ParsePage(pageStr, perPageStr string) (page, perPage int) {
	page = 1
	perPage = 10
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(perPageStr); err == nil && v > 0 {
		perPage = v
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// ParseID parses a numeric path parameter.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
