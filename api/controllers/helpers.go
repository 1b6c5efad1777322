package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/api/middleware"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// requestIdentity carries the authenticated actor parsed out of the context.
type requestIdentity struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	ProviderID *uuid.UUID
}

func identityFromRequest(r *http.Request) (*requestIdentity, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	identity := &requestIdentity{UserID: userID}
	if role := middleware.RoleFromContext(r.Context()); role != "" {
		parsed, err := enums.ParseUserRole(role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
		}
		identity.Role = parsed
	}
	if raw := middleware.ProviderIDFromContext(r.Context()); raw != "" {
		providerID, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid provider id")
		}
		identity.ProviderID = &providerID
	}
	return identity, nil
}

func providerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ProviderIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "provider context missing")
	}
	providerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid provider id")
	}
	return providerID, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{}
	if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
		value, err := strconv.Atoi(limitStr)
		if err != nil || value <= 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		params.Limit = value
	}
	if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
		params.Cursor = cursor
	}
	return params, nil
}
