package controllers

import (
	"net/http"
	"strings"

	"github.com/mgilberte/opsdeck-backend/api/responses"
	"github.com/mgilberte/opsdeck-backend/api/validators"
	"github.com/mgilberte/opsdeck-backend/internal/catalog"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type catalogItemCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	UnitPrice   string  `json:"unitPrice" validate:"required"`
}

func (r catalogItemCreateRequest) toInput() (catalog.CreateItemInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.UnitPrice))
	if err != nil {
		return catalog.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unitPrice")
	}

	return catalog.CreateItemInput{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		UnitPrice:   price,
	}, nil
}

// CatalogItemList returns the tenant's sellable items.
func CatalogItemList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListItems(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// CatalogItemCreate adds a sellable item with its current unit price.
func CatalogItemCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload catalogItemCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateItem(r.Context(), tenantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
