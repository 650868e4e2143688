// Package registrysdk is a typed HTTP client for the client registry's
// admin API. It carries a static bearer token; token acquisition is the
// caller's problem.
package registrysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient talks to a single registry instance.
type SDKClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewSDKClient creates a registry client with a 10 second request timeout.
func NewSDKClient(baseURL, token string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx response decoded into the registry's error shape.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry: %s (%d): %s", e.Code, e.StatusCode, e.Description)
}

func (c *SDKClient) do(ctx context.Context, method, path string, body, target any, expected int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		var apiErr ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &apiErr)
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        apiErr.Error,
			Description: apiErr.ErrorDescription,
		}
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateClient registers a new client and returns its stored record.
func (c *SDKClient) CreateClient(ctx context.Context, req CreateClientRequest) (ClientRecord, error) {
	var out ClientRecord
	err := c.do(ctx, http.MethodPost, "/v1/clients", req, &out, http.StatusCreated)
	return out, err
}

// UpdateClient replaces the mutable fields of an existing client.
func (c *SDKClient) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientRecord, error) {
	var out ClientRecord
	err := c.do(ctx, http.MethodPut, "/v1/clients/"+url.PathEscape(id), req, &out, http.StatusOK)
	return out, err
}

// GetClient fetches a single client by surrogate id, including disabled and
// soft-deleted records.
func (c *SDKClient) GetClient(ctx context.Context, id string) (ClientRecord, error) {
	var out ClientRecord
	err := c.do(ctx, http.MethodGet, "/v1/clients/"+url.PathEscape(id), nil, &out, http.StatusOK)
	return out, err
}

// DeleteClient soft-deletes a client.
func (c *SDKClient) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/clients/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// ListClients fetches one page of non-deleted clients. Page is 1-based.
func (c *SDKClient) ListClients(ctx context.Context, page, size int64) (ListClientsResponse, error) {
	var out ListClientsResponse
	path := fmt.Sprintf("/v1/clients?page=%d&size=%d", page, size)
	err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

// CreateCredential registers a login credential.
func (c *SDKClient) CreateCredential(ctx context.Context, req CreateCredentialRequest) (CredentialRecord, error) {
	var out CredentialRecord
	err := c.do(ctx, http.MethodPost, "/v1/credentials", req, &out, http.StatusCreated)
	return out, err
}

// GetCredential fetches a credential by subject reference.
func (c *SDKClient) GetCredential(ctx context.Context, subjectID string) (CredentialRecord, error) {
	var out CredentialRecord
	err := c.do(ctx, http.MethodGet, "/v1/credentials/"+url.PathEscape(subjectID), nil, &out, http.StatusOK)
	return out, err
}

// SetCredentialStatus enables or disables a credential.
func (c *SDKClient) SetCredentialStatus(ctx context.Context, subjectID string, req UpdateCredentialStatusRequest) (CredentialRecord, error) {
	var out CredentialRecord
	err := c.do(ctx, http.MethodPut, "/v1/credentials/"+url.PathEscape(subjectID)+"/status", req, &out, http.StatusOK)
	return out, err
}

// Livez checks the liveness probe.
func (c *SDKClient) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK)
	return out, err
}

// Readyz checks the readiness probe. A degraded service returns an APIError
// with status 503.
func (c *SDKClient) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK)
	return out, err
}
