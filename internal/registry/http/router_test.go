package http

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cloudfleet/clientregistry/internal/registry/service"
	"github.com/cloudfleet/clientregistry/internal/registry/store/drivers/sqlite"
	"github.com/cloudfleet/clientregistry/pkg/cryptox"
	"github.com/cloudfleet/clientregistry/pkg/jwtx"
	"github.com/cloudfleet/clientregistry/pkg/registrysdk"
)

type testEnv struct {
	server *httptest.Server
	priv   ed25519.PrivateKey
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	st, err := sqlite.NewStore(":memory:", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	router := NewRouter(
		jwtx.NewEdDSAVerifier(pub, "test-issuer"),
		"test",
		st,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	router.ClientService = &service.ClientService{Store: st, Hasher: cryptox.Argon2Hasher{}}
	router.CredentialService = &service.CredentialService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, priv: priv}
}

func (e *testEnv) token(t *testing.T, scopes ...string) string {
	t.Helper()

	claims := jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Scopes:   scopes,
		Username: "admin",
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(e.priv)
	require.NoError(t, err)
	return signed
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestClientLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	write := env.token(t, "registry:write")
	read := env.token(t, "registry:read")

	// Create
	resp := env.do(t, http.MethodPost, "/v1/clients", write, registrysdk.CreateClientRequest{
		ClientID:            "svc-orders",
		Secret:              "s3cret",
		Name:                "orders",
		RedirectURIs:        []string{"https://app.example/cb"},
		Scopes:              []string{"read"},
		GrantTypes:          []string{"client_credentials"},
		AccessTokenValidity: 3600,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[registrysdk.ClientRecord](t, resp)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "active", created.Status)
	require.EqualValues(t, 1, created.Version)

	// Duplicate client_id conflicts
	resp = env.do(t, http.MethodPost, "/v1/clients", write, registrysdk.CreateClientRequest{
		ClientID:     "svc-orders",
		Secret:       "other",
		Name:         "orders again",
		RedirectURIs: []string{"https://app.example/cb"},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Update
	resp = env.do(t, http.MethodPut, "/v1/clients/"+created.ID, write, registrysdk.UpdateClientRequest{
		ClientID:     "svc-orders",
		Name:         "orders service",
		RedirectURIs: []string{"https://app.example/cb"},
		GrantTypes:   []string{"client_credentials"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[registrysdk.ClientRecord](t, resp)
	require.Equal(t, "orders service", updated.Name)
	require.EqualValues(t, 2, updated.Version)

	// List
	resp = env.do(t, http.MethodGet, "/v1/clients?page=1&size=10", read, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody[registrysdk.ListClientsResponse](t, resp)
	require.EqualValues(t, 1, page.Total)
	require.Len(t, page.Clients, 1)

	// Delete, then the record is gone from listings but still fetchable
	resp = env.do(t, http.MethodDelete, "/v1/clients/"+created.ID, write, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/v1/clients?page=1&size=10", read, nil)
	page = decodeBody[registrysdk.ListClientsResponse](t, resp)
	require.EqualValues(t, 0, page.Total)

	resp = env.do(t, http.MethodGet, "/v1/clients/"+created.ID, read, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[registrysdk.ClientRecord](t, resp)
	require.True(t, got.Deleted)
}

func TestClientEndpointsRequireScopes(t *testing.T) {
	env := newTestEnv(t)

	// No token
	resp := env.do(t, http.MethodGet, "/v1/clients", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Wrong scope: read token cannot write
	resp = env.do(t, http.MethodPost, "/v1/clients", env.token(t, "registry:read"), registrysdk.CreateClientRequest{
		ClientID:     "svc-x",
		Secret:       "s3cret",
		RedirectURIs: []string{"https://app.example/cb"},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCredentialLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	write := env.token(t, "registry:write")
	read := env.token(t, "registry:read")

	resp := env.do(t, http.MethodPost, "/v1/credentials", write, registrysdk.CreateCredentialRequest{
		SubjectID:    "subj-1",
		Username:     "alice",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[registrysdk.CredentialRecord](t, resp)
	require.Equal(t, "user", created.Role)
	require.Equal(t, "active", created.Status)

	// A second credential for the same subject conflicts.
	resp = env.do(t, http.MethodPost, "/v1/credentials", write, registrysdk.CreateCredentialRequest{
		SubjectID:    "subj-1",
		Username:     "alice-again",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The password hash is write-only.
	raw := env.do(t, http.MethodGet, "/v1/credentials/subj-1", read, nil)
	require.Equal(t, http.StatusOK, raw.StatusCode)
	body, err := io.ReadAll(raw.Body)
	raw.Body.Close()
	require.NoError(t, err)
	require.NotContains(t, string(body), "argon2id")
	require.NotContains(t, string(body), "password")

	resp = env.do(t, http.MethodPut, "/v1/credentials/subj-1/status", write, registrysdk.UpdateCredentialStatusRequest{
		Status: "disabled",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[registrysdk.CredentialRecord](t, resp)
	require.Equal(t, "disabled", updated.Status)

	resp = env.do(t, http.MethodPut, "/v1/credentials/subj-1/status", write, registrysdk.UpdateCredentialStatusRequest{
		Status: "bogus",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthProbes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decodeBody[registrysdk.HealthResponse](t, resp)
	require.Equal(t, "ok", health.Status)

	resp = env.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ready := decodeBody[registrysdk.HealthResponse](t, resp)
	require.Equal(t, "ok", ready.Checks.Database)
}
