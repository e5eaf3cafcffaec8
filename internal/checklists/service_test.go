package checklists

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeEntryStore struct {
	entries map[uuid.UUID]*models.ChecklistEntry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[uuid.UUID]*models.ChecklistEntry)}
}

func (f *fakeEntryStore) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]models.ChecklistEntry, error) {
	var out []models.ChecklistEntry
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.ClientID == clientID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) FindByID(ctx context.Context, tenantID, clientID, entryID uuid.UUID) (*models.ChecklistEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.TenantID != tenantID || e.ClientID != clientID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEntryStore) Create(ctx context.Context, entry *models.ChecklistEntry) (*models.ChecklistEntry, error) {
	entry.ID = uuid.New()
	clone := *entry
	f.entries[entry.ID] = &clone
	return entry, nil
}

func (f *fakeEntryStore) Update(ctx context.Context, entry *models.ChecklistEntry) (*models.ChecklistEntry, error) {
	clone := *entry
	f.entries[entry.ID] = &clone
	return entry, nil
}

type fakeClientChecker struct {
	known map[uuid.UUID]uuid.UUID // clientID -> tenantID
}

func (f *fakeClientChecker) Exists(ctx context.Context, tenantID, clientID uuid.UUID) (bool, error) {
	owner, ok := f.known[clientID]
	return ok && owner == tenantID, nil
}

func TestAddRequiresTitle(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()
	svc := &service{
		repo:       newFakeEntryStore(),
		clientRepo: &fakeClientChecker{known: map[uuid.UUID]uuid.UUID{clientID: tenantID}},
		now:        time.Now,
	}

	_, err := svc.Add(context.Background(), tenantID, clientID, AddEntryInput{Title: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddUnknownClient(t *testing.T) {
	svc := &service{
		repo:       newFakeEntryStore(),
		clientRepo: &fakeClientChecker{known: map[uuid.UUID]uuid.UUID{}},
		now:        time.Now,
	}

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), AddEntryInput{Title: "Send contract"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCompleteSetsTimestampAndActor(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()
	actorID := uuid.New()
	store := newFakeEntryStore()
	fixed := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := &service{
		repo:       store,
		clientRepo: &fakeClientChecker{known: map[uuid.UUID]uuid.UUID{clientID: tenantID}},
		now:        func() time.Time { return fixed },
	}

	created, err := svc.Add(context.Background(), tenantID, clientID, AddEntryInput{Title: "Collect documents"})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}

	updated, err := svc.Complete(context.Background(), tenantID, clientID, created.ID, actorID)
	if err != nil {
		t.Fatalf("complete entry: %v", err)
	}
	if !updated.Done {
		t.Fatal("expected entry marked done")
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(fixed) {
		t.Fatalf("unexpected completed_at %v", updated.CompletedAt)
	}
	if updated.CompletedBy == nil || *updated.CompletedBy != actorID {
		t.Fatalf("unexpected completed_by %v", updated.CompletedBy)
	}

	// Completing again is a no-op, not an error.
	again, err := svc.Complete(context.Background(), tenantID, clientID, created.ID, uuid.New())
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if again.CompletedBy == nil || *again.CompletedBy != actorID {
		t.Fatal("second complete should not overwrite the original actor")
	}
}
