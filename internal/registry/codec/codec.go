// Package codec converts between the flat comma-joined strings the record
// store persists and the typed sets the rest of the system works with. The
// flat representation never leaks past this package and the store driver.
package codec

import (
	"strings"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
)

// DecodeSet splits a comma-joined value into its tokens. Empty tokens are
// dropped; nil and "" decode to nil. No trimming is performed beyond that.
func DecodeSet(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// EncodeSet joins values with commas. Ordering across an encode/decode round
// trip is not guaranteed; callers must treat the result as a set.
func EncodeSet(values []string) string {
	return strings.Join(values, ",")
}

// DecodeList decodes redirect targets. Same comma split as DecodeSet, with
// no deduplication and no URI validation; that is deliberate, validation
// lives with whoever writes the record.
func DecodeList(raw string) []string {
	return DecodeSet(raw)
}

// GrantTypes maps raw grant tokens to the typed descriptors the
// authorization runtime consumes. Only authorization_code, refresh_token and
// client_credentials are recognised; anything else is silently dropped.
func GrantTypes(tokens []string) []domain.GrantType {
	out := make([]domain.GrantType, 0, len(tokens))
	for _, t := range tokens {
		switch domain.GrantType(t) {
		case domain.GrantAuthorizationCode, domain.GrantRefreshToken, domain.GrantClientCredentials:
			out = append(out, domain.GrantType(t))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
