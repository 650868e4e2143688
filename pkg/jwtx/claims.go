// Package jwtx verifies the fleet-issued bearer tokens that protect the
// registry's administrative API. The registry never mints tokens; that is
// the authorization runtime's job.
package jwtx

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Claims are the access-token claims shared across fleet services.
type Claims struct {
	jwt.RegisteredClaims

	// Permission scopes, e.g. "registry:read registry:write".
	Scopes []string `json:"scopes,omitempty"`

	// Username of the authenticated principal, informational only.
	Username string `json:"username,omitempty"`
}

// ValidateIssuer checks the issuer when an expectation is configured.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp and nbf against the current time.
func (c *Claims) ValidateExpiry() error {
	now := time.Now()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// HasScope reports whether the token carries the given scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
