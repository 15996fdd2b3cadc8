package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"leaseadmin/internal/caching"
)

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
)

// Session is the server-side record of one signed-in admin. The upstream
// bearer token and the permission snapshot live here, never in the JWT the
// browser holds.
type Session struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasPermission checks the snapshot case-insensitively. An empty snapshot
// allows everything: bootstrap accounts predate the permission catalog.
func (s *Session) HasPermission(title string) bool {
	if len(s.Permissions) == 0 {
		return true
	}
	title = normalize(title)
	for _, p := range s.Permissions {
		if normalize(p) == title {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type loginAPI interface {
	Login(ctx context.Context, email, password string) (map[string]any, error)
}

type Config struct {
	Secret  string
	JWKSURL string
	TTL     time.Duration
}

// Manager owns session storage and the JWT the dashboard presents. The JWT
// carries only the session id and user id; everything else stays in redis.
type Manager struct {
	api    loginAPI
	cache  caching.CacheService
	secret []byte
	jwks   *keyfunc.JWKS
	ttl    time.Duration
	logger *zap.Logger
}

func NewManager(api loginAPI, cache caching.CacheService, cfg Config, logger *zap.Logger) (*Manager, error) {
	if cfg.Secret == "" && cfg.JWKSURL == "" {
		return nil, errors.New("session: either a secret or a JWKS URL is required")
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}

	m := &Manager{
		api:    api,
		cache:  cache,
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		logger: logger,
	}
	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval: time.Hour,
			RefreshErrorHandler: func(err error) {
				logger.Warn("jwks refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("session: load jwks: %w", err)
		}
		m.jwks = jwks
	}
	return m, nil
}

// Login authenticates against the upstream, snapshots the user's roles and
// permissions into a new session and returns it with a signed JWT.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	sess, err := sessionFromLogin(resp)
	if err != nil {
		return nil, "", err
	}
	sess.ID = uuid.NewString()
	sess.CreatedAt = time.Now()
	if sess.Email == "" {
		sess.Email = email
	}

	if err := m.cache.SetJSON(ctx, sessionKey(sess.ID), sess, m.ttl); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	signed, err := m.issueJWT(sess)
	if err != nil {
		return nil, "", err
	}
	return sess, signed, nil
}

// Verify resolves a presented JWT back to its stored session.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, m.keyfunc, jwt.WithValidMethods(m.validMethods()))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrInvalidToken
	}

	var sess Session
	found, err := m.cache.GetJSON(ctx, sessionKey(sid), &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Logout drops the stored session; the JWT is worthless afterwards.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.cache.Delete(ctx, sessionKey(sessionID))
}

func (m *Manager) issueJWT(sess *Session) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("session: jwt signing requires a secret")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sess.ID,
		"sub": fmt.Sprintf("%d", sess.UserID),
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) keyfunc(token *jwt.Token) (any, error) {
	if m.jwks != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return m.jwks.Keyfunc(token)
		}
	}
	if len(m.secret) > 0 {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
			return m.secret, nil
		}
	}
	return nil, ErrInvalidToken
}

func (m *Manager) validMethods() []string {
	methods := []string{}
	if len(m.secret) > 0 {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	if m.jwks != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	return methods
}

func sessionKey(id string) string {
	return caching.Key("session", id)
}
