package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mgilberte/opsdeck-backend/api/middleware"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
)

// actorFromRequest reads the authenticated tenant and user out of the
// request context seeded by the auth middleware.
func actorFromRequest(r *http.Request) (tenantID, userID uuid.UUID, err error) {
	rawTenant := middleware.TenantIDFromContext(r.Context())
	if rawTenant == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant context missing")
	}
	rawUser := middleware.UserIDFromContext(r.Context())
	if rawUser == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	tenantID, err = uuid.Parse(rawTenant)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id")
	}
	userID, err = uuid.Parse(rawUser)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return tenantID, userID, nil
}
