package service

import "errors"

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrValidation wraps malformed draft input; the detail is in the
	// wrapping message.
	ErrValidation = errors.New("invalid input")
)
