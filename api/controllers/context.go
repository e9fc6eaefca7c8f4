package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/anandkrishnan/mealdash-backend/api/middleware"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
)

// actorUUID resolves the authenticated user's id from the request context.
func actorUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// hotelUUID resolves the operator's hotel id from the request context.
func hotelUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.HotelIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "hotel context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid hotel id")
	}
	return id, nil
}
