package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/service"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/httpx"
	"github.com/cloudfleet/clientregistry/pkg/registrysdk"
	"github.com/cloudfleet/clientregistry/pkg/slogx"
)

// ClientsHandler handles all client management endpoints.
type ClientsHandler struct {
	ClientService *service.ClientService
}

func clientRecord(c domain.Client) registrysdk.ClientRecord {
	return registrysdk.ClientRecord{
		ID:                   c.ID,
		ClientID:             c.ClientID,
		Name:                 c.Name,
		RedirectURIs:         c.RedirectURIs,
		Scopes:               c.Scopes,
		GrantTypes:           c.GrantTypes,
		AccessTokenValidity:  c.AccessTokenValidity,
		RefreshTokenValidity: c.RefreshTokenValidity,
		AutoApprove:          c.AutoApprove,
		Status:               c.Status.String(),
		Deleted:              c.Deleted,
		Version:              c.Version,
		CreatedAt:            c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            c.UpdatedAt.Format(time.RFC3339),
	}
}

func writeClientError(w http.ResponseWriter, log *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrClientNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, registrysdk.ErrorResponse{
			Error:            "client_not_found",
			ErrorDescription: "Client not found",
		})
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteJSON(w, http.StatusConflict, registrysdk.ErrorResponse{
			Error:            "client_id_taken",
			ErrorDescription: "A live client with this client_id already exists",
		})
	case errors.Is(err, store.ErrVersionConflict):
		httpx.WriteJSON(w, http.StatusConflict, registrysdk.ErrorResponse{
			Error:            "conflict",
			ErrorDescription: "The record was modified concurrently; retry with fresh data",
		})
	default:
		log.Error("failed to "+action+" client", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, registrysdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to " + action + " client",
		})
	}
}

// HandleCreate handles POST /v1/clients
//
//	@Summary		Register Client
//	@Description	Registers a new OAuth2 client. The secret is hashed before storage and never returned.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with registry:write scope"
//	@Param			request			body		registrysdk.CreateClientRequest	true	"Client registration request"
//	@Success		201				{object}	registrysdk.ClientRecord		"Stored record with assigned id and version"
//	@Failure		400				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		401				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		409				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registrysdk.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	created, err := h.ClientService.Create(ctx, service.ClientDraft{
		ClientID:             req.ClientID,
		Secret:               req.Secret,
		Name:                 req.Name,
		RedirectURIs:         req.RedirectURIs,
		Scopes:               req.Scopes,
		GrantTypes:           req.GrantTypes,
		AccessTokenValidity:  req.AccessTokenValidity,
		RefreshTokenValidity: req.RefreshTokenValidity,
		AutoApprove:          req.AutoApprove,
	})
	if err != nil {
		writeClientError(w, log, err, "create")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, clientRecord(created))
}

// HandleUpdate handles PUT /v1/clients/{id}
//
//	@Summary		Update Client
//	@Description	Replaces the mutable fields of a client. An empty secret keeps the stored hash; any non-empty secret rotates it.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with registry:write scope"
//	@Param			id				path		string							true	"Record ID (ULID)"
//	@Param			request			body		registrysdk.UpdateClientRequest	true	"Client update request"
//	@Success		200				{object}	registrysdk.ClientRecord		"Updated record with bumped version"
//	@Failure		400				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		401				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		404				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		409				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Router			/v1/clients/{id} [put].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registrysdk.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	updated, err := h.ClientService.Update(ctx, service.ClientDraft{
		ID:                   r.PathValue("id"),
		ClientID:             req.ClientID,
		Secret:               req.Secret,
		Name:                 req.Name,
		RedirectURIs:         req.RedirectURIs,
		Scopes:               req.Scopes,
		GrantTypes:           req.GrantTypes,
		AccessTokenValidity:  req.AccessTokenValidity,
		RefreshTokenValidity: req.RefreshTokenValidity,
		AutoApprove:          req.AutoApprove,
	})
	if err != nil {
		writeClientError(w, log, err, "update")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientRecord(updated))
}

// HandleGet handles GET /v1/clients/{id}
//
//	@Summary		Get Client
//	@Description	Fetches a single client by record ID, including disabled and soft-deleted records.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string						true	"Bearer token with registry:read scope"
//	@Param			id				path		string						true	"Record ID (ULID)"
//	@Success		200				{object}	registrysdk.ClientRecord	"Stored record"
//	@Failure		401				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Failure		404				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	client, err := h.ClientService.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeClientError(w, log, err, "fetch")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientRecord(client))
}

// HandleList handles GET /v1/clients
//
//	@Summary		List Clients
//	@Description	Returns one page of non-deleted clients plus the total count. Page is 1-based.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with registry:read scope"
//	@Param			page			query		int								false	"Page number (default 1)"
//	@Param			size			query		int								false	"Page size (default 20)"
//	@Success		200				{object}	registrysdk.ListClientsResponse	"Page of clients"
//	@Failure		400				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		401				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	page := queryInt64(r, "page", 1)
	size := queryInt64(r, "size", 20)

	result, err := h.ClientService.ListActive(ctx, page, size)
	if err != nil {
		writeClientError(w, log, err, "list")
		return
	}

	records := make([]registrysdk.ClientRecord, len(result.Clients))
	for i, c := range result.Clients {
		records[i] = clientRecord(c)
	}

	httpx.WriteJSON(w, http.StatusOK, registrysdk.ListClientsResponse{
		Clients: records,
		Total:   result.Total,
		Page:    result.Page,
		Size:    result.Size,
	})
}

// HandleDelete handles DELETE /v1/clients/{id}
//
//	@Summary		Delete Client
//	@Description	Soft-deletes a client. The record stays queryable by ID for audit but disappears from lookups and listings.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header	string	true	"Bearer token with registry:write scope"
//	@Param			id				path	string	true	"Record ID (ULID)"
//	@Success		204				"Client deleted"
//	@Failure		401				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Failure		404				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.ClientService.Delete(ctx, r.PathValue("id")); err != nil {
		writeClientError(w, log, err, "delete")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
