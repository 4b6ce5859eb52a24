package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	visitorIssuer = "aviorie-web"
	VisitorTTL    = 365 * 24 * time.Hour
)

var ErrInvalidVisitor = errors.New("invalid visitor token")

// Visitors issues and verifies the signed cookie that identifies a browser.
// The visitor id keys the browser's session and in-progress auth flow.
type Visitors struct {
	key    []byte
	secure bool
	now    func() time.Time
}

// NewVisitors derives the cookie signing key from secret.
func NewVisitors(secret string, secure bool) (*Visitors, error) {
	if secret == "" {
		return nil, errors.New("visitor secret is empty")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("aviorie-web visitor cookie v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive visitor key: %w", err)
	}

	return &Visitors{key: key, secure: secure, now: time.Now}, nil
}

// Issue creates a new visitor id and the cookie carrying it.
func (v *Visitors) Issue() (string, *http.Cookie, error) {
	id := uuid.New().String()
	now := v.now()

	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    visitorIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(VisitorTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign visitor token: %w", err)
	}

	return id, v.cookie(signed, now.Add(VisitorTTL)), nil
}

// Parse verifies a visitor token and returns its visitor id.
func (v *Visitors) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return v.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(visitorIssuer),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidVisitor
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", ErrInvalidVisitor
	}
	return claims.ID, nil
}

func (v *Visitors) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   v.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type ctxKey string

const visitorKey ctxKey = "visitor_id"

func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey, id)
}

// VisitorFrom returns the visitor id set by the visitor middleware.
func VisitorFrom(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey).(string)
	return id
}
