// internal/repository/postgres/menu_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/menu"
	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

type MenuRepository struct {
	db *DB
}

func NewMenuRepository(db *DB) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuItemColumns = `
	id, merchant_id, name, description, price, category, image_url,
	is_available, created_at, updated_at`

// CreateItem inserts a menu item. The id is assigned by the caller.
func (r *MenuRepository) CreateItem(ctx context.Context, item *menu.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, merchant_id, name, description, price, category, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		item.ID, item.MerchantID, item.Name, item.Description, item.Price,
		item.Category, item.ImageURL, item.IsAvailable,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// FindItemByID retrieves a merchant's menu item
func (r *MenuRepository) FindItemByID(ctx context.Context, merchantID int64, id string) (*menu.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1 AND merchant_id = $2`

	item, err := scanMenuItem(r.db.Pool().QueryRow(ctx, query, id, merchantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu item: %w", err)
	}
	return item, nil
}

// UpdateItem saves the mutable fields of a menu item
func (r *MenuRepository) UpdateItem(ctx context.Context, item *menu.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4,
		    is_available = $5, updated_at = $6
		WHERE id = $7 AND merchant_id = $8
	`

	item.UpdatedAt = time.Now()
	result, err := r.db.Pool().Exec(ctx, query,
		item.Name, item.Description, item.Price, item.Category,
		item.IsAvailable, item.UpdatedAt, item.ID, item.MerchantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ListItems retrieves a merchant's menu with filters
func (r *MenuRepository) ListItems(ctx context.Context, merchantID int64, filters *menu.MenuItemFilters) ([]menu.MenuItem, error) {
	conditions := []string{"merchant_id = $1"}
	args := []interface{}{merchantID}
	argPos := 2

	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filters.Category)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	if filters.AvailableOnly {
		conditions = append(conditions, "is_available = TRUE")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM menu_items
		WHERE %s
		ORDER BY category NULLS LAST, name
	`, menuItemColumns, strings.Join(conditions, " AND "))

	return r.queryItems(ctx, query, args...)
}

// FindItemsByIDs returns the merchant's items among ids. Unknown ids are
// skipped; callers compare lengths to detect them.
func (r *MenuRepository) FindItemsByIDs(ctx context.Context, merchantID int64, ids []string) ([]menu.MenuItem, error) {
	if len(ids) == 0 {
		return []menu.MenuItem{}, nil
	}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE merchant_id = $1 AND id::text = ANY($2)`
	return r.queryItems(ctx, query, merchantID, pq.Array(ids))
}

func (r *MenuRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]menu.MenuItem, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []menu.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanMenuItem(row pgx.Row) (*menu.MenuItem, error) {
	var item menu.MenuItem
	err := row.Scan(
		&item.ID, &item.MerchantID, &item.Name, &item.Description, &item.Price,
		&item.Category, &item.ImageURL, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCollection inserts a menu collection. The id is assigned by the caller.
func (r *MenuRepository) CreateCollection(ctx context.Context, col *menu.MenuCollection) error {
	query := `
		INSERT INTO menu_collections (id, merchant_id, name, description, menu_item_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		col.ID, col.MerchantID, col.Name, col.Description, col.ItemIDs,
	).Scan(&col.CreatedAt, &col.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create menu collection: %w", err)
	}
	return nil
}

// FindCollection retrieves a merchant's menu collection
func (r *MenuRepository) FindCollection(ctx context.Context, merchantID int64, id string) (*menu.MenuCollection, error) {
	query := `
		SELECT id, merchant_id, name, description, menu_item_ids, created_at, updated_at
		FROM menu_collections
		WHERE id = $1 AND merchant_id = $2
	`

	var col menu.MenuCollection
	err := r.db.Pool().QueryRow(ctx, query, id, merchantID).Scan(
		&col.ID, &col.MerchantID, &col.Name, &col.Description, &col.ItemIDs, &col.CreatedAt, &col.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu collection: %w", err)
	}
	return &col, nil
}

// ListCollections retrieves a merchant's menu collections
func (r *MenuRepository) ListCollections(ctx context.Context, merchantID int64) ([]menu.MenuCollection, error) {
	query := `
		SELECT id, merchant_id, name, description, menu_item_ids, created_at, updated_at
		FROM menu_collections
		WHERE merchant_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool().Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu collections: %w", err)
	}
	defer rows.Close()

	cols := []menu.MenuCollection{}
	for rows.Next() {
		var col menu.MenuCollection
		if err := rows.Scan(
			&col.ID, &col.MerchantID, &col.Name, &col.Description, &col.ItemIDs, &col.CreatedAt, &col.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan menu collection: %w", err)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}
