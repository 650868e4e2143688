package domain

import "time"

// Credential is a stored username/password-hash pair tied to an external
// subject identity (the user record owned by another fleet service).
type Credential struct {
	ID           string
	SubjectID    string
	Username     string
	PasswordHash string // one-way hash, never plaintext
	Role         string

	Status  Status
	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// Active reports whether the credential may be used for authentication.
func (c Credential) Active() bool {
	return c.Status == StatusActive && !c.Deleted
}

// CredentialDescriptor is what the authentication provider receives: enough
// to verify a password and assign authorities, nothing more.
type CredentialDescriptor struct {
	Username     string
	PasswordHash string
	Roles        []string
}
