package domain

import "time"

// Client is a registered consumer of the authorization service. The natural
// key is ClientID, unique among non-deleted records; ID is the surrogate key.
type Client struct {
	ID         string
	ClientID   string
	SecretHash string // one-way hash, never plaintext
	Name       string

	RedirectURIs []string
	Scopes       []string
	GrantTypes   []string // raw grant tokens as persisted; see codec.GrantTypes

	AccessTokenValidity  int // seconds
	RefreshTokenValidity int // seconds
	AutoApprove          bool

	Status  Status
	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version increases by exactly one on every successful save; a save
	// presenting a stale version fails with a version conflict.
	Version int64
}

// Active reports whether the record may be served to the authorization
// runtime.
func (c Client) Active() bool {
	return c.Status == StatusActive && !c.Deleted
}

// GrantType is a grant token recognised by the authorization runtime.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
	GrantClientCredentials GrantType = "client_credentials"
)

// AuthMethodClientSecretBasic is the only client authentication scheme the
// registry hands to the runtime.
const AuthMethodClientSecretBasic = "client_secret_basic"

// ClientDescriptor is the typed view of a client consumed by the
// authorization runtime's lookup contract.
type ClientDescriptor struct {
	ID           string
	ClientID     string
	SecretHash   string
	Name         string
	GrantTypes   []GrantType
	Scopes       []string
	RedirectURIs []string
	AuthMethod   string

	AccessTokenValidity  int
	RefreshTokenValidity int
	AutoApprove          bool
}

// ClientPage is one page of active clients plus the total active count.
type ClientPage struct {
	Clients []Client
	Total   int64
	Page    int64
	Size    int64
}
