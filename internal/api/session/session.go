// Package session issues and verifies the signed, time-limited identity token
// carried in the "token" cookie. No session state is kept on the server:
// every request is re-validated from the signature and the expiry.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie that carries the session token
	CookieName = "token"

	// DefaultTTL is the session lifetime when none is configured
	DefaultTTL = 365 * 24 * time.Hour
)

var (
	// ErrInvalidSession covers absent, malformed, expired and forged tokens
	ErrInvalidSession = errors.New("invalid session")

	// ErrMissingSecret is returned when the issuer has no signing key
	ErrMissingSecret = errors.New("session secret is empty")
)

// Identity is a verified session
type Identity struct {
	Email     string
	ExpiresAt time.Time
}

// Claims is the signed payload
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config controls token signing and cookie attributes
type Config struct {
	Secret string
	TTL    time.Duration
	// Production switches the cookie to Secure with SameSite=None for a
	// cross-site TLS frontend; otherwise the cookie is SameSite=Lax
	// without Secure so it works on plain-HTTP localhost.
	Production bool
	Domain     string
}

// Manager issues, verifies and clears session tokens
type Manager struct {
	secret     []byte
	ttl        time.Duration
	production bool
	domain     string
	now        func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		secret:     []byte(cfg.Secret),
		ttl:        ttl,
		production: cfg.Production,
		domain:     cfg.Domain,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for email expiring TTL from now.
func (m *Manager) Issue(email string) (string, Identity, error) {
	if email == "" {
		return "", Identity{}, fmt.Errorf("%w: email is required", ErrInvalidSession)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Identity{}, fmt.Errorf("failed to sign session: %w", err)
	}

	return token, Identity{Email: email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks the signature and expiry and returns the embedded identity.
func (m *Manager) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("%w: token is missing", ErrInvalidSession)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !parsed.Valid || claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: token has no identity", ErrInvalidSession)
	}

	return Identity{Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (m *Manager) sameSite() http.SameSite {
	if m.production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the session cookie
func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(CookieName, token, int(m.ttl/time.Second), "/", m.domain, m.production, true)
}

// ClearCookie tells the client to drop the session cookie. The token itself
// stays valid until it expires.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(CookieName, "", -1, "/", m.domain, m.production, true)
}

// TokenFromRequest reads the session cookie, falling back to a bearer
// Authorization header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	return ""
}
