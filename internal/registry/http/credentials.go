package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/domain"
	"github.com/cloudfleet/clientregistry/internal/registry/service"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/httpx"
	"github.com/cloudfleet/clientregistry/pkg/registrysdk"
	"github.com/cloudfleet/clientregistry/pkg/slogx"
)

// CredentialsHandler handles the credential management endpoints.
type CredentialsHandler struct {
	CredentialService *service.CredentialService
}

func credentialRecord(c domain.Credential) registrysdk.CredentialRecord {
	return registrysdk.CredentialRecord{
		ID:        c.ID,
		SubjectID: c.SubjectID,
		Username:  c.Username,
		Role:      c.Role,
		Status:    c.Status.String(),
		Deleted:   c.Deleted,
		Version:   c.Version,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func writeCredentialError(w http.ResponseWriter, log *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrCredentialNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, registrysdk.ErrorResponse{
			Error:            "credential_not_found",
			ErrorDescription: "Credential not found",
		})
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteJSON(w, http.StatusConflict, registrysdk.ErrorResponse{
			Error:            "credential_exists",
			ErrorDescription: "A credential for this subject already exists",
		})
	case errors.Is(err, store.ErrVersionConflict):
		httpx.WriteJSON(w, http.StatusConflict, registrysdk.ErrorResponse{
			Error:            "conflict",
			ErrorDescription: "The record was modified concurrently; retry with fresh data",
		})
	default:
		log.Error("failed to "+action+" credential", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, registrysdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to " + action + " credential",
		})
	}
}

// HandleCreate handles POST /v1/credentials
//
//	@Summary		Register Credential
//	@Description	Registers a login credential for an externally managed subject. Accepts only pre-hashed passwords.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string								true	"Bearer token with registry:write scope"
//	@Param			request			body		registrysdk.CreateCredentialRequest	true	"Credential registration request"
//	@Success		201				{object}	registrysdk.CredentialRecord		"Stored record"
//	@Failure		400				{object}	registrysdk.ErrorResponse			"error, error_description"
//	@Failure		401				{object}	registrysdk.ErrorResponse			"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse			"error, error_description"
//	@Failure		409				{object}	registrysdk.ErrorResponse			"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse			"error, error_description"
//	@Router			/v1/credentials [post].
func (h *CredentialsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registrysdk.CreateCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	created, err := h.CredentialService.Create(ctx, req.SubjectID, req.Username, req.PasswordHash, req.Role)
	if err != nil {
		writeCredentialError(w, log, err, "create")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, credentialRecord(created))
}

// HandleGet handles GET /v1/credentials/{subject}
//
//	@Summary		Get Credential
//	@Description	Fetches a credential by subject reference, regardless of status.
//	@Tags			Credentials
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with registry:read scope"
//	@Param			subject			path		string							true	"Subject reference"
//	@Success		200				{object}	registrysdk.CredentialRecord	"Stored record"
//	@Failure		401				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		404				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse		"error, error_description"
//	@Router			/v1/credentials/{subject} [get].
func (h *CredentialsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cred, err := h.CredentialService.FindBySubject(ctx, r.PathValue("subject"))
	if err != nil {
		writeCredentialError(w, log, err, "fetch")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, credentialRecord(cred))
}

// HandleUpdateStatus handles PUT /v1/credentials/{subject}/status
//
//	@Summary		Update Credential Status
//	@Description	Enables or disables a credential. Disabled credentials disappear from the login lookup.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string										true	"Bearer token with registry:write scope"
//	@Param			subject			path		string										true	"Subject reference"
//	@Param			request			body		registrysdk.UpdateCredentialStatusRequest	true	"New status"
//	@Success		200				{object}	registrysdk.CredentialRecord				"Updated record"
//	@Failure		400				{object}	registrysdk.ErrorResponse					"error, error_description"
//	@Failure		401				{object}	registrysdk.ErrorResponse					"error, error_description"
//	@Failure		403				{object}	registrysdk.ErrorResponse					"error, error_description"
//	@Failure		404				{object}	registrysdk.ErrorResponse					"error, error_description"
//	@Failure		409				{object}	registrysdk.ErrorResponse					"error, error_description"
//	@Failure		500				{object}	registrysdk.ErrorResponse					"error, error_description"
//	@Router			/v1/credentials/{subject}/status [put].
func (h *CredentialsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registrysdk.UpdateCredentialStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		httpx.WriteJSON(w, http.StatusBadRequest, registrysdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Status must be \"active\" or \"disabled\"",
		})
		return
	}

	updated, err := h.CredentialService.UpdateStatus(ctx, r.PathValue("subject"), status)
	if err != nil {
		writeCredentialError(w, log, err, "update")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, credentialRecord(updated))
}
