// internal/repository/postgres/merchant_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/merchant"
	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type MerchantRepository struct {
	db *DB
}

func NewMerchantRepository(db *DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

const merchantColumns = `
	id, email, password_hash, role, status, business_name, category, phone, description,
	address, city, latitude, longitude, last_login, approved_at, suspended_at,
	created_at, updated_at`

// Create inserts a merchant account
func (r *MerchantRepository) Create(ctx context.Context, m *merchant.Merchant) error {
	query := `
		INSERT INTO merchants (email, password_hash, role, status, business_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		m.Email, m.PasswordHash, m.Role, m.Status, m.BusinessName,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolationOf(err); ok {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create merchant: %w", err)
	}
	return nil
}

// FindByID retrieves a merchant by ID
func (r *MerchantRepository) FindByID(ctx context.Context, id int64) (*merchant.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByEmail retrieves a merchant by email
func (r *MerchantRepository) FindByEmail(ctx context.Context, email string) (*merchant.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE LOWER(email) = LOWER($1)`
	return r.findOne(ctx, query, email)
}

func (r *MerchantRepository) findOne(ctx context.Context, query string, arg interface{}) (*merchant.Merchant, error) {
	m, err := scanMerchant(r.db.Pool().QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find merchant: %w", err)
	}
	return m, nil
}

// UpdateProfile saves the business profile and location fields
func (r *MerchantRepository) UpdateProfile(ctx context.Context, m *merchant.Merchant) error {
	query := `
		UPDATE merchants
		SET business_name = $1, category = $2, phone = $3, description = $4,
		    address = $5, city = $6, latitude = $7, longitude = $8, updated_at = $9
		WHERE id = $10
	`

	m.UpdatedAt = time.Now()
	result, err := r.db.Pool().Exec(ctx, query,
		m.BusinessName, m.Category, m.Phone, m.Description,
		m.Address, m.City, m.Latitude, m.Longitude, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update merchant profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus moves a merchant to status and stamps the matching timestamp
func (r *MerchantRepository) UpdateStatus(ctx context.Context, id int64, status merchant.Status) error {
	query := `
		UPDATE merchants
		SET status = $1,
		    approved_at = CASE WHEN $1 = 'active' THEN $2 ELSE approved_at END,
		    suspended_at = CASE WHEN $1 = 'suspended' THEN $2 ELSE NULL END,
		    updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Pool().Exec(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update merchant status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful login
func (r *MerchantRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE merchants SET last_login = $1 WHERE id = $2`
	if _, err := r.db.Pool().Exec(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// List retrieves merchants with filters
func (r *MerchantRepository) List(ctx context.Context, filters *merchant.MerchantListFilters) ([]merchant.Merchant, int64, error) {
	conditions := []string{"role = 'merchant'"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*filters.Status))
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(business_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM merchants WHERE %s", whereClause)
	var total int64
	if err := r.db.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count merchants: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM merchants
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, merchantColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	merchants := []merchant.Merchant{}
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, *m)
	}
	return merchants, total, rows.Err()
}

func scanMerchant(row pgx.Row) (*merchant.Merchant, error) {
	var m merchant.Merchant
	err := row.Scan(
		&m.ID, &m.Email, &m.PasswordHash, &m.Role, &m.Status, &m.BusinessName, &m.Category, &m.Phone, &m.Description,
		&m.Address, &m.City, &m.Latitude, &m.Longitude, &m.LastLogin, &m.ApprovedAt, &m.SuspendedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
