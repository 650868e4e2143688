package registrysdk

// ErrorResponse is the standard error body returned by every registry
// endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Client Types
// ============================================================================

// ClientRecord is the admin view of a registered client. The secret never
// appears here in any form; records only ever hold a one-way hash and the
// API does not expose it.
type ClientRecord struct {
	// ID is the surrogate identifier (ULID) assigned at creation
	ID string `json:"id"`

	// ClientID is the natural key presented during token requests
	ClientID string `json:"client_id"`

	// Name is the human-readable display name
	Name string `json:"name,omitempty"`

	RedirectURIs []string `json:"redirect_uris"`
	Scopes       []string `json:"scopes,omitempty"`
	GrantTypes   []string `json:"grant_types,omitempty"`

	// AccessTokenValidity is the access token lifetime in seconds
	AccessTokenValidity int `json:"access_token_validity"`

	// RefreshTokenValidity is the refresh token lifetime in seconds
	RefreshTokenValidity int `json:"refresh_token_validity"`

	AutoApprove bool `json:"auto_approve"`

	// Status is "active" or "disabled"
	Status string `json:"status"`

	Deleted bool `json:"deleted"`

	// Version is the optimistic concurrency counter, bumped on every save
	Version int64 `json:"version"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateClientRequest registers a new client. Secret is plaintext in
// transit only; the service hashes it before anything touches storage.
type CreateClientRequest struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
	Name     string `json:"name,omitempty"`

	RedirectURIs []string `json:"redirect_uris"`
	Scopes       []string `json:"scopes,omitempty"`
	GrantTypes   []string `json:"grant_types,omitempty"`

	AccessTokenValidity  int  `json:"access_token_validity,omitempty"`
	RefreshTokenValidity int  `json:"refresh_token_validity,omitempty"`
	AutoApprove          bool `json:"auto_approve,omitempty"`
}

// UpdateClientRequest replaces the mutable fields of a client. An empty
// Secret keeps the stored hash; any non-empty Secret rotates it.
type UpdateClientRequest struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret,omitempty"`
	Name     string `json:"name,omitempty"`

	RedirectURIs []string `json:"redirect_uris"`
	Scopes       []string `json:"scopes,omitempty"`
	GrantTypes   []string `json:"grant_types,omitempty"`

	AccessTokenValidity  int  `json:"access_token_validity,omitempty"`
	RefreshTokenValidity int  `json:"refresh_token_validity,omitempty"`
	AutoApprove          bool `json:"auto_approve,omitempty"`
}

// ListClientsResponse is one page of non-deleted clients.
type ListClientsResponse struct {
	Clients []ClientRecord `json:"clients"`

	// Total is the total number of non-deleted clients, not the page length
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Size  int64 `json:"size"`
}

// ============================================================================
// Credential Types
// ============================================================================

// CredentialRecord is the admin view of a user credential. The password
// hash is write-only: it goes in via CreateCredentialRequest and never
// comes back out.
type CredentialRecord struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`

	// Status is "active" or "disabled"
	Status string `json:"status"`

	Deleted bool  `json:"deleted"`
	Version int64 `json:"version"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateCredentialRequest registers a login credential for an externally
// managed subject. PasswordHash is an already-hashed value produced by the
// identity provider; the registry never accepts plaintext passwords.
type CreateCredentialRequest struct {
	SubjectID    string `json:"subject_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`

	// Role defaults to "user" when omitted
	Role string `json:"role,omitempty"`
}

// UpdateCredentialStatusRequest enables or disables a credential.
type UpdateCredentialStatusRequest struct {
	// Status must be "active" or "disabled"
	Status string `json:"status"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports the state of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
