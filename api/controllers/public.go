package controllers

import (
	"net/http"

	"github.com/mgilberte/opsdeck-backend/api/responses"
	"github.com/mgilberte/opsdeck-backend/api/validators"
	"github.com/mgilberte/opsdeck-backend/internal/offers"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
)

type offerAcceptRequest struct {
	Token string `json:"token" validate:"required"`
}

// OfferAccept is the unauthenticated acceptance endpoint. The token is the
// only credential; everything else is resolved from the offer it names.
func OfferAccept(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload offerAcceptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Accept(r.Context(), payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"success":    result.Success,
			"clientName": result.ClientName,
			"amount":     result.Amount.StringFixed(2),
		})
	}
}
