package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and returns the claims if it is legitimate.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// EdDSAVerifier validates JWTs signed with the fleet's Ed25519 key. The
// public key is distributed out of band (service configuration), so there
// is no key-set or rotation machinery here.
type EdDSAVerifier struct {
	pub    ed25519.PublicKey
	issuer string
}

// NewEdDSAVerifier creates a verifier for tokens signed by the given key.
func NewEdDSAVerifier(pub ed25519.PublicKey, issuer string) *EdDSAVerifier {
	return &EdDSAVerifier{pub: pub, issuer: issuer}
}

// NewEdDSAVerifierFromBase64 decodes a standard-base64 Ed25519 public key,
// the form it takes in environment configuration.
func NewEdDSAVerifierFromBase64(encoded, issuer string) (*EdDSAVerifier, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("jwtx: decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("jwtx: public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return NewEdDSAVerifier(ed25519.PublicKey(raw), issuer), nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.pub, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("jwtx: invalid token claims")
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
