package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service exposes catalog reads plus the price snapshot resolver that the
// offer draft builder depends on.
type Service interface {
	ResolveSnapshot(ctx context.Context, tenantID uuid.UUID, lines []LineInput) (*Snapshot, error)
	ListItems(ctx context.Context, tenantID uuid.UUID) ([]models.CatalogItem, error)
	CreateItem(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*models.CatalogItem, error)
}

// LineInput is one requested (catalog item, quantity) pair.
type LineInput struct {
	CatalogItemID uuid.UUID
	Quantity      int
}

// SnapshotLine is a resolved line with the price frozen at resolution time.
type SnapshotLine struct {
	CatalogItemID uuid.UUID
	Name          string
	Description   *string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
}

// Snapshot is the full resolved set plus the derived net total.
type Snapshot struct {
	Lines    []SnapshotLine
	NetTotal decimal.Decimal
}

// CreateItemInput holds the validated payload to create a catalog item.
type CreateItemInput struct {
	Name        string
	Description *string
	UnitPrice   decimal.Decimal
}

type itemStore interface {
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.CatalogItem, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.CatalogItem, error)
	Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error)
}

type service struct {
	repo itemStore
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ResolveSnapshot resolves the requested lines against the tenant's catalog
// and computes line totals. Pure read + computation, no writes.
func (s *service) ResolveSnapshot(ctx context.Context, tenantID uuid.UUID, lines []LineInput) (*Snapshot, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if line.CatalogItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog item id is required")
		}
		ids = append(ids, line.CatalogItemID)
	}

	items, err := s.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog items")
	}

	byID := make(map[uuid.UUID]models.CatalogItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var missing []string
	for _, line := range lines {
		if _, ok := byID[line.CatalogItemID]; !ok {
			missing = append(missing, line.CatalogItemID.String())
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("unknown catalog item(s): %s", strings.Join(missing, ", ")))
	}

	snapshot := &Snapshot{
		Lines:    make([]SnapshotLine, 0, len(lines)),
		NetTotal: decimal.Zero,
	}
	for _, line := range lines {
		item := byID[line.CatalogItemID]
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		snapshot.Lines = append(snapshot.Lines, SnapshotLine{
			CatalogItemID: item.ID,
			Name:          item.Name,
			Description:   item.Description,
			Quantity:      line.Quantity,
			UnitPrice:     item.UnitPrice,
			LineTotal:     lineTotal,
		})
		snapshot.NetTotal = snapshot.NetTotal.Add(lineTotal)
	}

	return snapshot, nil
}

// ListItems returns the tenant's catalog.
func (s *service) ListItems(ctx context.Context, tenantID uuid.UUID) ([]models.CatalogItem, error) {
	items, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing catalog items")
	}
	return items, nil
}

// CreateItem inserts a new catalog item for the tenant.
func (s *service) CreateItem(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*models.CatalogItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	item := &models.CatalogItem{
		TenantID:    tenantID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		Active:      true,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating catalog item")
	}
	return created, nil
}
