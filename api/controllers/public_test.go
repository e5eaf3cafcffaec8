package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mgilberte/opsdeck-backend/internal/offers"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestOfferAcceptSuccess(t *testing.T) {
	svc := &testOffersService{
		acceptFn: func(ctx context.Context, token string) (*offers.AcceptResult, error) {
			if token != "tok-1" {
				t.Fatalf("unexpected token %s", token)
			}
			return &offers.AcceptResult{
				Success:    true,
				ClientName: "Acme GmbH",
				Amount:     decimal.RequireFromString("20.00"),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/public/offers/accept", strings.NewReader(`{"token":"tok-1"}`))
	resp := httptest.NewRecorder()
	OfferAccept(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Success    bool   `json:"success"`
			ClientName string `json:"clientName"`
			Amount     string `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.Success {
		t.Fatal("expected success flag")
	}
	if envelope.Data.ClientName != "Acme GmbH" {
		t.Fatalf("unexpected client name %s", envelope.Data.ClientName)
	}
	if envelope.Data.Amount != "20.00" {
		t.Fatalf("unexpected amount %s", envelope.Data.Amount)
	}
}

func TestOfferAcceptUnknownToken(t *testing.T) {
	svc := &testOffersService{
		acceptFn: func(ctx context.Context, token string) (*offers.AcceptResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/public/offers/accept", strings.NewReader(`{"token":"does-not-exist"}`))
	resp := httptest.NewRecorder()
	OfferAccept(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOfferAcceptAlreadyAccepted(t *testing.T) {
	svc := &testOffersService{
		acceptFn: func(ctx context.Context, token string) (*offers.AcceptResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer already accepted")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/public/offers/accept", strings.NewReader(`{"token":"tok-1"}`))
	resp := httptest.NewRecorder()
	OfferAccept(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "already accepted") {
		t.Fatalf("expected reason in body: %s", resp.Body.String())
	}
}

func TestOfferAcceptRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/public/offers/accept", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	OfferAccept(&testOffersService{}, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
