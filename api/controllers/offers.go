package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mgilberte/opsdeck-backend/api/responses"
	"github.com/mgilberte/opsdeck-backend/api/validators"
	"github.com/mgilberte/opsdeck-backend/internal/offers"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
)

type offerCreateRequest struct {
	ClientID string                   `json:"clientId" validate:"required"`
	Items    []offerItemCreateRequest `json:"items" validate:"required,min=1,dive"`
}

type offerItemCreateRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"qty" validate:"required,gt=0"`
}

func (r offerCreateRequest) toInput() (offers.CreateDraftInput, error) {
	clientID, err := uuid.Parse(strings.TrimSpace(r.ClientID))
	if err != nil {
		return offers.CreateDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid clientId")
	}

	items := make([]offers.DraftItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		itemID, err := uuid.Parse(strings.TrimSpace(item.ItemID))
		if err != nil {
			return offers.CreateDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid itemId")
		}
		items = append(items, offers.DraftItemInput{ItemID: itemID, Quantity: item.Quantity})
	}

	return offers.CreateDraftInput{ClientID: clientID, Items: items}, nil
}

// OfferCreate builds a draft offer with prices snapshotted from the catalog.
func OfferCreate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, userID, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload offerCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateDraft(r.Context(), tenantID, userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"offerId": created.ID.String()})
	}
}

// OfferSend transitions a draft to sent and returns the acceptance link.
func OfferSend(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, userID, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offerID, err := validators.ParseUUIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Send(r.Context(), tenantID, userID, offerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"token":    result.Token,
			"offerUrl": result.OfferURL,
		})
	}
}

// OfferList returns the tenant's offers, newest first.
func OfferList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"offers": rows})
	}
}

// OfferDetail returns one offer with its snapshotted lines.
func OfferDetail(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offerID, err := validators.ParseUUIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.Get(r.Context(), tenantID, offerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, offer)
	}
}
