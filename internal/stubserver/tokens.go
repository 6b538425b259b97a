package stubserver

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenInvalid = errors.New("token invalid")

// TokenPair replica la respuesta de POST /auth/login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// tokenIssuer firma tokens HS256 con sub = email.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func newTokenIssuer(secret string, accessTTL time.Duration) *tokenIssuer {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	return &tokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: 7 * 24 * time.Hour,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (t *tokenIssuer) Issue(email string) (TokenPair, error) {
	if len(t.secret) == 0 {
		return TokenPair{}, ErrTokenInvalid
	}
	now := t.now()
	access, err := t.sign(email, "access", now, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(email, "refresh", now, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// ParseAccess valida firma, expiracion y tipo; devuelve el email.
func (t *tokenIssuer) ParseAccess(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrTokenInvalid
	}
	var c claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if _, err := parser.ParseWithClaims(token, &c, func(_ *jwt.Token) (any, error) {
		return t.secret, nil
	}); err != nil {
		return "", ErrTokenInvalid
	}
	if c.TokenType != "access" || strings.TrimSpace(c.Subject) == "" {
		return "", ErrTokenInvalid
	}
	return c.Subject, nil
}

func (t *tokenIssuer) sign(email, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	c := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}
