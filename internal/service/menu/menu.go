// internal/service/menu/menu.go
package menu

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dealdesk-service/internal/domain/menu"
	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateItem(ctx context.Context, item *menu.MenuItem) error
	FindItemByID(ctx context.Context, merchantID int64, id string) (*menu.MenuItem, error)
	UpdateItem(ctx context.Context, item *menu.MenuItem) error
	ListItems(ctx context.Context, merchantID int64, filters *menu.MenuItemFilters) ([]menu.MenuItem, error)
	FindItemsByIDs(ctx context.Context, merchantID int64, ids []string) ([]menu.MenuItem, error)
	CreateCollection(ctx context.Context, col *menu.MenuCollection) error
	FindCollection(ctx context.Context, merchantID int64, id string) (*menu.MenuCollection, error)
	ListCollections(ctx context.Context, merchantID int64) ([]menu.MenuCollection, error)
}

// MenuService manages a merchant's menu catalog and collections.
type MenuService struct {
	repo   Repository
	logger *zap.Logger
}

func NewMenuService(repo Repository, logger *zap.Logger) *MenuService {
	return &MenuService{repo: repo, logger: logger}
}

func (s *MenuService) CreateItem(ctx context.Context, merchantID int64, req *menu.CreateMenuItemRequest) (*menu.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", xerrors.ErrInvalidInput)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", xerrors.ErrInvalidInput)
	}

	item := &menu.MenuItem{
		ID:          uuid.NewString(),
		MerchantID:  merchantID,
		Name:        name,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		Price:       req.Price,
		Category:    sql.NullString{String: req.Category, Valid: req.Category != ""},
		ImageURL:    sql.NullString{String: req.ImageURL, Valid: req.ImageURL != ""},
		IsAvailable: true,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.Error("failed to create menu item", zap.Error(err), zap.Int64("merchant_id", merchantID))
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info("menu item created",
		zap.String("menu_item_id", item.ID),
		zap.Int64("merchant_id", merchantID),
	)
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, merchantID int64, itemID string, req *menu.UpdateMenuItemRequest) (*menu.MenuItem, error) {
	if !validID(itemID) {
		return nil, xerrors.ErrNotFound
	}
	item, err := s.repo.FindItemByID(ctx, merchantID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", xerrors.ErrInvalidInput)
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", xerrors.ErrInvalidInput)
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = sql.NullString{String: *req.Category, Valid: *req.Category != ""}
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) ListItems(ctx context.Context, merchantID int64, filters *menu.MenuItemFilters) ([]menu.MenuItem, error) {
	items, err := s.repo.ListItems(ctx, merchantID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// FindItemsByIDs returns the merchant's items among ids. Malformed ids are
// treated as unknown.
func (s *MenuService) FindItemsByIDs(ctx context.Context, merchantID int64, ids []string) ([]menu.MenuItem, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	return s.repo.FindItemsByIDs(ctx, merchantID, valid)
}

// CreateCollection groups existing menu items. Every item must belong to
// the merchant.
func (s *MenuService) CreateCollection(ctx context.Context, merchantID int64, req *menu.CreateCollectionRequest) (*menu.MenuCollection, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", xerrors.ErrInvalidInput)
	}

	ids := dedupe(req.MenuItemIDs)
	items, err := s.FindItemsByIDs(ctx, merchantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	if len(items) != len(ids) {
		return nil, fmt.Errorf("%w: collection references unknown menu items", xerrors.ErrInvalidInput)
	}

	col := &menu.MenuCollection{
		ID:          uuid.NewString(),
		MerchantID:  merchantID,
		Name:        name,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		ItemIDs:     pq.StringArray(ids),
	}
	if err := s.repo.CreateCollection(ctx, col); err != nil {
		s.logger.Error("failed to create menu collection", zap.Error(err), zap.Int64("merchant_id", merchantID))
		return nil, fmt.Errorf("failed to create menu collection: %w", err)
	}
	col.Items = items

	s.logger.Info("menu collection created",
		zap.String("collection_id", col.ID),
		zap.Int64("merchant_id", merchantID),
		zap.Int("items", len(ids)),
	)
	return col, nil
}

// GetCollection returns a collection with its items resolved.
func (s *MenuService) GetCollection(ctx context.Context, merchantID int64, collectionID string) (*menu.MenuCollection, error) {
	if !validID(collectionID) {
		return nil, xerrors.ErrNotFound
	}
	col, err := s.repo.FindCollection(ctx, merchantID, collectionID)
	if err != nil {
		return nil, err
	}
	items, err := s.FindItemsByIDs(ctx, merchantID, col.ItemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection items: %w", err)
	}
	col.Items = items
	return col, nil
}

func (s *MenuService) ListCollections(ctx context.Context, merchantID int64) ([]menu.MenuCollection, error) {
	cols, err := s.repo.ListCollections(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu collections: %w", err)
	}
	return cols, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
