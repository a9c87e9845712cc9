// Package jwtauth implementa as portas Issuer/Verifier com JWT HS256.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

const DefaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Provider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	TwoFactorPending    bool   `json:"tfa_pending,omitempty"`
	TwoFactorVerifiedAt int64  `json:"tfa_verified_at,omitempty"` // unix
	TwoFactorMethod     string `json:"tfa_method,omitempty"`
	TwoFactorEveryLogin bool   `json:"tfa_every_login,omitempty"`
}

func (p *Provider) Issue(_ context.Context, c auth.Claims) (string, error) {
	now := p.now()

	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Email:               c.Email,
		Role:                string(c.Role),
		TwoFactorPending:    c.TwoFactorPending,
		TwoFactorMethod:     c.TwoFactorMethod,
		TwoFactorEveryLogin: c.TwoFactorEveryLogin,
	}
	if c.TwoFactorVerifiedAt != nil {
		tc.TwoFactorVerifiedAt = c.TwoFactorVerifiedAt.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("jwtauth: %w", err)
	}
	return signed, nil
}

func (p *Provider) Verify(_ context.Context, raw string) (auth.Claims, error) {
	var tc tokenClaims

	token, err := jwt.ParseWithClaims(raw, &tc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	claims := auth.Claims{
		UserID:              tc.Subject,
		Email:               tc.Email,
		Role:                auth.Role(tc.Role),
		TwoFactorPending:    tc.TwoFactorPending,
		TwoFactorMethod:     tc.TwoFactorMethod,
		TwoFactorEveryLogin: tc.TwoFactorEveryLogin,
	}
	if tc.TwoFactorVerifiedAt > 0 {
		t := time.Unix(tc.TwoFactorVerifiedAt, 0)
		claims.TwoFactorVerifiedAt = &t
	}
	return claims, nil
}
