package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mgilberte/opsdeck-backend/api/middleware"
	"github.com/mgilberte/opsdeck-backend/internal/offers"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
)

type testOffersService struct {
	createDraftFn func(ctx context.Context, tenantID, userID uuid.UUID, input offers.CreateDraftInput) (*models.Offer, error)
	sendFn        func(ctx context.Context, tenantID, userID, offerID uuid.UUID) (*offers.SendResult, error)
	acceptFn      func(ctx context.Context, token string) (*offers.AcceptResult, error)
	listFn        func(ctx context.Context, tenantID uuid.UUID) ([]models.Offer, error)
	getFn         func(ctx context.Context, tenantID, offerID uuid.UUID) (*models.Offer, error)
}

func (s *testOffersService) CreateDraft(ctx context.Context, tenantID, userID uuid.UUID, input offers.CreateDraftInput) (*models.Offer, error) {
	if s.createDraftFn != nil {
		return s.createDraftFn(ctx, tenantID, userID, input)
	}
	return nil, nil
}

func (s *testOffersService) Send(ctx context.Context, tenantID, userID, offerID uuid.UUID) (*offers.SendResult, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, tenantID, userID, offerID)
	}
	return nil, nil
}

func (s *testOffersService) Accept(ctx context.Context, token string) (*offers.AcceptResult, error) {
	if s.acceptFn != nil {
		return s.acceptFn(ctx, token)
	}
	return nil, nil
}

func (s *testOffersService) List(ctx context.Context, tenantID uuid.UUID) ([]models.Offer, error) {
	if s.listFn != nil {
		return s.listFn(ctx, tenantID)
	}
	return nil, nil
}

func (s *testOffersService) Get(ctx context.Context, tenantID, offerID uuid.UUID) (*models.Offer, error) {
	if s.getFn != nil {
		return s.getFn(ctx, tenantID, offerID)
	}
	return nil, nil
}

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withActor(req *http.Request, tenantID, userID uuid.UUID) *http.Request {
	ctx := middleware.WithTenantID(req.Context(), tenantID.String())
	ctx = middleware.WithUserID(ctx, userID.String())
	return req.WithContext(ctx)
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestOfferCreateSuccess(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	clientID := uuid.New()
	itemID := uuid.New()
	offerID := uuid.New()

	svc := &testOffersService{
		createDraftFn: func(ctx context.Context, tid, uid uuid.UUID, input offers.CreateDraftInput) (*models.Offer, error) {
			if tid != tenantID || uid != userID {
				t.Fatalf("unexpected actor %s/%s", tid, uid)
			}
			if input.ClientID != clientID {
				t.Fatalf("unexpected client %s", input.ClientID)
			}
			if len(input.Items) != 1 || input.Items[0].ItemID != itemID || input.Items[0].Quantity != 2 {
				t.Fatalf("unexpected items %+v", input.Items)
			}
			return &models.Offer{ID: offerID}, nil
		},
	}

	body := `{"clientId":"` + clientID.String() + `","items":[{"itemId":"` + itemID.String() + `","qty":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req = withActor(req, tenantID, userID)
	resp := httptest.NewRecorder()
	OfferCreate(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["offerId"] != offerID.String() {
		t.Fatalf("expected offerId %s got %s", offerID, envelope.Data["offerId"])
	}
}

func TestOfferCreateMissingTenant(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	OfferCreate(&testOffersService{}, testControllerLogger())(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestOfferCreateRejectsEmptyItems(t *testing.T) {
	body := `{"clientId":"` + uuid.NewString() + `","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req = withActor(req, uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	OfferCreate(&testOffersService{}, testControllerLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOfferCreateRejectsUnknownFields(t *testing.T) {
	body := `{"clientId":"` + uuid.NewString() + `","items":[{"itemId":"` + uuid.NewString() + `","qty":1}],"bogus":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(body))
	req = withActor(req, uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	OfferCreate(&testOffersService{}, testControllerLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOfferSendReturnsTokenAndURL(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	offerID := uuid.New()

	svc := &testOffersService{
		sendFn: func(ctx context.Context, tid, uid, oid uuid.UUID) (*offers.SendResult, error) {
			if oid != offerID {
				t.Fatalf("unexpected offer %s", oid)
			}
			return &offers.SendResult{
				Token:    "abc123",
				OfferURL: "https://app.example.com/offers/accept/abc123",
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/"+offerID.String()+"/send", nil)
	req = withActor(req, tenantID, userID)
	req = addRouteParam(req, "offerId", offerID.String())
	resp := httptest.NewRecorder()
	OfferSend(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["token"] != "abc123" {
		t.Fatalf("unexpected token %s", envelope.Data["token"])
	}
	if !strings.Contains(envelope.Data["offerUrl"], "abc123") {
		t.Fatalf("offerUrl missing token: %s", envelope.Data["offerUrl"])
	}
}

func TestOfferSendConflictWhenNotDraft(t *testing.T) {
	offerID := uuid.New()
	svc := &testOffersService{
		sendFn: func(ctx context.Context, tid, uid, oid uuid.UUID) (*offers.SendResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer not in draft")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/"+offerID.String()+"/send", nil)
	req = withActor(req, uuid.New(), uuid.New())
	req = addRouteParam(req, "offerId", offerID.String())
	resp := httptest.NewRecorder()
	OfferSend(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestOfferSendRejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/bad/send", nil)
	req = withActor(req, uuid.New(), uuid.New())
	req = addRouteParam(req, "offerId", "bad")
	resp := httptest.NewRecorder()
	OfferSend(&testOffersService{}, testControllerLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
