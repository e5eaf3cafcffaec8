package controllers

import (
	"net/http"

	"github.com/mgilberte/opsdeck-backend/api/responses"
	"github.com/mgilberte/opsdeck-backend/pkg/capabilities"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
)

// ModuleList exposes the resolved capability registry for introspection.
func ModuleList(registry *capabilities.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "capability registry unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"modules": registry.List()})
	}
}
