package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sareehouse/storefront/internal/catalog"
	"github.com/sareehouse/storefront/internal/kvstore"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
)

// Session store keys. adminAuth holds the boolean admin flag, adminKey the
// shared secret attached to privileged catalog calls.
const (
	keyAdminAuth = "adminAuth"
	keyAdminKey  = "adminKey"
)

// LoginAPI verifies admin credentials against the catalog API.
type LoginAPI interface {
	Login(ctx context.Context, username, password string) (catalog.LoginResult, error)
}

// SessionClaims are the JWT claims of an admin session token.
type SessionClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Session manages the admin session: remote credential verification,
// durable session state in the key-value store and signed session tokens.
//
// The admin key is a static shared secret issued by the catalog API; the
// boolean gate plus that key on privileged calls is the whole authorization
// model of the upstream.
type Session struct {
	api       LoginAPI
	kv        kvstore.Store
	secret    []byte
	staticKey string
	tokenTTL  time.Duration
	logger    *slog.Logger
	nowFunc   func() time.Time
}

var _ catalog.KeySource = (*Session)(nil)

// NewSession creates the session service. staticKey is the fallback admin
// key for catalog deployments whose login response does not issue one.
func NewSession(api LoginAPI, kv kvstore.Store, secret []byte, staticKey string, tokenTTL time.Duration, logger *slog.Logger) *Session {
	return &Session{
		api:       api,
		kv:        kv,
		secret:    secret,
		staticKey: staticKey,
		tokenTTL:  tokenTTL,
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// Login verifies the credentials remotely, persists the admin flag and
// admin key, and returns a signed session token.
func (s *Session) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.InvalidInput("username and password are required")
	}

	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		return "", err
	}

	adminKey := result.AdminKey
	if adminKey == "" {
		adminKey = s.staticKey
	}

	if err := s.kv.Set(ctx, keyAdminAuth, []byte("true")); err != nil {
		return "", fmt.Errorf("persist admin flag: %w", err)
	}
	if err := s.kv.Set(ctx, keyAdminKey, []byte(adminKey)); err != nil {
		return "", fmt.Errorf("persist admin key: %w", err)
	}

	token, err := s.issueToken(username)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in", slog.String("username", username))
	return token, nil
}

// Logout removes the persisted session state. Tokens already issued simply
// expire; the admin key they would authorize with is gone.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyAdminAuth); err != nil {
		return fmt.Errorf("clear admin flag: %w", err)
	}
	if err := s.kv.Delete(ctx, keyAdminKey); err != nil {
		return fmt.Errorf("clear admin key: %w", err)
	}
	s.logger.InfoContext(ctx, "admin logged out")
	return nil
}

// IsAdmin reports whether an admin session is currently persisted.
func (s *Session) IsAdmin(ctx context.Context) (bool, error) {
	data, err := s.kv.Get(ctx, keyAdminAuth)
	if err != nil {
		if goerrors.Is(err, kvstore.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read admin flag: %w", err)
	}
	return string(data) == "true", nil
}

// AdminKey returns the stored shared secret, or empty when no session
// exists.
func (s *Session) AdminKey(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, keyAdminKey)
	if err != nil {
		if goerrors.Is(err, kvstore.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read admin key: %w", err)
	}
	return string(data), nil
}

// VerifyToken parses and validates a session token, returning its claims.
func (s *Session) VerifyToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired session token")
	}
	if !claims.Admin {
		return nil, apperrors.Forbidden("not an admin session")
	}
	return claims, nil
}

func (s *Session) issueToken(username string) (string, error) {
	now := s.nowFunc()
	claims := SessionClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    "storefront",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
