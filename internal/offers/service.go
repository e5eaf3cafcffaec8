package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/internal/activity"
	"github.com/mgilberte/opsdeck-backend/internal/catalog"
	"github.com/mgilberte/opsdeck-backend/internal/onboarding"
	"github.com/mgilberte/opsdeck-backend/pkg/config"
	"github.com/mgilberte/opsdeck-backend/pkg/db"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	"github.com/mgilberte/opsdeck-backend/pkg/enums"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"github.com/mgilberte/opsdeck-backend/pkg/metrics"
	"github.com/mgilberte/opsdeck-backend/pkg/security"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service drives the offer lifecycle: draft assembly, the send transition
// that mints the acceptance token, and the public accept path.
type Service interface {
	CreateDraft(ctx context.Context, tenantID, userID uuid.UUID, input CreateDraftInput) (*models.Offer, error)
	Send(ctx context.Context, tenantID, userID, offerID uuid.UUID) (*SendResult, error)
	Accept(ctx context.Context, token string) (*AcceptResult, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Offer, error)
	Get(ctx context.Context, tenantID, offerID uuid.UUID) (*models.Offer, error)
}

// CreateDraftInput holds the validated payload to create a draft offer.
type CreateDraftInput struct {
	ClientID uuid.UUID
	Items    []DraftItemInput
}

// DraftItemInput is one requested line on a draft.
type DraftItemInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// SendResult carries the minted token and the public link built from it.
type SendResult struct {
	Token    string
	OfferURL string
}

// AcceptResult is the public acceptance response data.
type AcceptResult struct {
	Success    bool
	ClientName string
	Amount     decimal.Decimal
}

type offerStore interface {
	CreateDraft(ctx context.Context, offer *models.Offer) error
	FindByID(ctx context.Context, tenantID, offerID uuid.UUID) (*models.Offer, error)
	FindByToken(ctx context.Context, token string) (*models.Offer, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Offer, error)
	MarkSent(ctx context.Context, tenantID, offerID uuid.UUID, token string, sentAt, validUntil time.Time) (int64, error)
	AcceptByToken(ctx context.Context, token string, acceptedAt time.Time) (int64, error)
}

type snapshotResolver interface {
	ResolveSnapshot(ctx context.Context, tenantID uuid.UUID, lines []catalog.LineInput) (*catalog.Snapshot, error)
}

type clientChecker interface {
	Exists(ctx context.Context, tenantID, clientID uuid.UUID) (bool, error)
}

type service struct {
	repo       offerStore
	resolver   snapshotResolver
	clients    clientChecker
	dispatcher onboarding.Dispatcher
	recorder   activity.Recorder
	metrics    *metrics.OfferMetrics
	cfg        config.OffersConfig
	logg       *logger.Logger
	now        func() time.Time
	newToken   func() (string, error)
}

// NewService constructs the offer service.
func NewService(
	repo *Repository,
	resolver snapshotResolver,
	clients clientChecker,
	dispatcher onboarding.Dispatcher,
	recorder activity.Recorder,
	offerMetrics *metrics.OfferMetrics,
	cfg config.OffersConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("snapshot resolver required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("onboarding dispatcher required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("public base url required")
	}
	return &service{
		repo:       repo,
		resolver:   resolver,
		clients:    clients,
		dispatcher: dispatcher,
		recorder:   recorder,
		metrics:    offerMetrics,
		cfg:        cfg,
		logg:       logg,
		now:        time.Now,
		newToken:   security.NewOfferToken,
	}, nil
}

// CreateDraft resolves prices and persists the offer plus its snapshotted
// items atomically. Repeated identical calls create distinct offers.
func (s *service) CreateDraft(ctx context.Context, tenantID, userID uuid.UUID, input CreateDraftInput) (*models.Offer, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}

	ok, err := s.clients.Exists(ctx, tenantID, input.ClientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking client")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}

	lines := make([]catalog.LineInput, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, catalog.LineInput{
			CatalogItemID: item.ItemID,
			Quantity:      item.Quantity,
		})
	}
	snapshot, err := s.resolver.ResolveSnapshot(ctx, tenantID, lines)
	if err != nil {
		return nil, err
	}

	offer := &models.Offer{
		TenantID:  tenantID,
		ClientID:  input.ClientID,
		CreatedBy: userID,
		Status:    enums.OfferStatusDraft,
		NetTotal:  snapshot.NetTotal,
	}
	for _, line := range snapshot.Lines {
		offer.Items = append(offer.Items, models.OfferItem{
			CatalogItemID: line.CatalogItemID,
			Name:          line.Name,
			Description:   line.Description,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			LineTotal:     line.LineTotal,
		})
	}

	if err := s.repo.CreateDraft(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting draft offer")
	}

	s.metrics.IncTransition(enums.OfferStatusDraft.String())
	s.recorder.Record(ctx, activity.Event{
		TenantID: tenantID,
		OfferID:  &offer.ID,
		ActorID:  &userID,
		Action:   enums.ActivityOfferDrafted,
		Payload:  map[string]any{"net_total": offer.NetTotal.StringFixed(2)},
	})

	return offer, nil
}

// Send mints the acceptance token and performs the draft→sent transition.
// The update is guarded by the current status, so a concurrent send loses
// cleanly; a token uniqueness collision triggers a bounded regenerate loop.
func (s *service) Send(ctx context.Context, tenantID, userID, offerID uuid.UUID) (*SendResult, error) {
	offer, err := s.repo.FindByID(ctx, tenantID, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer")
	}
	if offer.Status != enums.OfferStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer not in draft")
	}

	attempts := s.cfg.TokenRetryLimit
	if attempts <= 0 {
		attempts = 5
	}

	sentAt := s.now().UTC()
	validUntil := sentAt.Add(s.cfg.SentValidity)

	for attempt := 0; attempt < attempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating token")
		}

		rows, err := s.repo.MarkSent(ctx, tenantID, offerID, token, sentAt, validUntil)
		if err != nil {
			if db.IsUniqueViolation(err, tokenUniqueIndex) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking offer sent")
		}
		if rows == 0 {
			// Lost a race: the row left draft between our read and write.
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer not in draft")
		}

		s.metrics.IncTransition(enums.OfferStatusSent.String())
		s.recorder.Record(ctx, activity.Event{
			TenantID: tenantID,
			OfferID:  &offerID,
			ActorID:  &userID,
			Action:   enums.ActivityOfferSent,
		})

		return &SendResult{
			Token:    token,
			OfferURL: s.buildOfferURL(token),
		}, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeDependency, "could not mint a unique token")
}

// Accept validates the token and performs the sent→accepted transition as a
// single conditional write. Exactly one concurrent caller succeeds; everyone
// else observes the accepted state. Side effects run only after the write.
func (s *service) Accept(ctx context.Context, token string) (*AcceptResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	offer, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncAcceptAttempt("not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer by token")
	}
	if offer.Status != enums.OfferStatusSent {
		s.metrics.IncAcceptAttempt("conflict")
		return nil, s.acceptConflict(offer.Status)
	}

	acceptedAt := s.now().UTC()
	// The validity window is enforced here too, so acceptance does not
	// depend on the expiry sweep having already run.
	if offer.ValidUntil != nil && acceptedAt.After(*offer.ValidUntil) {
		s.metrics.IncAcceptAttempt("expired")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer not available")
	}

	rows, err := s.repo.AcceptByToken(ctx, token, acceptedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "accepting offer")
	}
	if rows == 0 {
		// Someone else won the race; report the post-condition state.
		s.metrics.IncAcceptAttempt("conflict")
		current, err := s.repo.FindByToken(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading offer")
		}
		return nil, s.acceptConflict(current.Status)
	}

	s.metrics.IncTransition(enums.OfferStatusAccepted.String())
	s.metrics.IncAcceptAttempt("accepted")
	s.recorder.Record(ctx, activity.Event{
		TenantID: offer.TenantID,
		OfferID:  &offer.ID,
		Action:   enums.ActivityOfferAccepted,
		Payload:  map[string]any{"amount": offer.NetTotal.StringFixed(2)},
	})

	clientName := ""
	if offer.Client != nil {
		clientName = offer.Client.DisplayName
	}

	s.dispatcher.Dispatch(ctx, onboarding.AcceptedOffer{
		TenantID:   offer.TenantID,
		ClientID:   offer.ClientID,
		OfferID:    offer.ID,
		ClientName: clientName,
		Amount:     offer.NetTotal,
		AcceptedAt: acceptedAt,
	})

	return &AcceptResult{
		Success:    true,
		ClientName: clientName,
		Amount:     offer.NetTotal,
	}, nil
}

// List returns the tenant's offers.
func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Offer, error) {
	out, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing offers")
	}
	return out, nil
}

// Get returns one offer with its items.
func (s *service) Get(ctx context.Context, tenantID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.FindByID(ctx, tenantID, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer")
	}
	return offer, nil
}

func (s *service) acceptConflict(status enums.OfferStatus) error {
	if status == enums.OfferStatusAccepted {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "offer already accepted")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "offer not available")
}

func (s *service) buildOfferURL(token string) string {
	base := strings.TrimSuffix(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/offers/accept/%s", base, token)
}
