// internal/repository/postgres/deal_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/deal"
	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type DealRepository struct {
	db *DB
}

func NewDealRepository(db *DB) *DealRepository {
	return &DealRepository{db: db}
}

const dealColumns = `
	id, merchant_id, deal_code, title, description, deal_type, category,
	discount_percentage, discount_amount, custom_offer_display,
	start_time, end_time, redemption_instructions, image_urls,
	menu_collection_id, max_redemptions,
	min_order_amount, bounty_reward_amount, min_referrals_required,
	kickback_enabled, access_code, recurring_days, recurring_frequency,
	recurring_occurrences, original_value, final_value, status, created_at, updated_at`

// Create inserts the deal and its menu items in one transaction.
func (r *DealRepository) Create(ctx context.Context, d *deal.Deal) error {
	cols := deal.ColumnsOf(d.Terms)

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO deals (
				merchant_id, deal_code, title, description, deal_type, category,
				discount_percentage, discount_amount, custom_offer_display,
				start_time, end_time, redemption_instructions, image_urls,
				menu_collection_id, max_redemptions,
				min_order_amount, bounty_reward_amount, min_referrals_required,
				kickback_enabled, access_code, recurring_days, recurring_frequency,
				recurring_occurrences, original_value, final_value, status
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
			)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			d.MerchantID, d.DealCode, d.Title, d.Description, d.DealType, d.Category,
			d.DiscountPercentage, d.DiscountAmount, d.CustomOfferDisplay,
			d.StartTime, d.EndTime, d.RedemptionInstructions, d.ImageURLs,
			d.MenuCollectionID, d.MaxRedemptions,
			cols.MinOrderAmount, cols.BountyRewardAmount, cols.MinReferralsRequired,
			cols.KickbackEnabled, cols.AccessCode, cols.RecurringDays, cols.RecurringFrequency,
			cols.RecurringOccurrences, d.OriginalValue, d.FinalValue, d.Status,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return insertDealError(err)
		}

		if len(d.MenuItems) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, item := range d.MenuItems {
			batch.Queue(`
				INSERT INTO deal_menu_items (
					deal_id, menu_item_id, name, base_price, is_hidden,
					custom_price, custom_discount, discount_amount, final_price, position
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				d.ID, item.MenuItemID, item.Name, item.BasePrice, item.IsHidden,
				item.CustomPrice, item.CustomDiscount, item.DiscountAmount, item.FinalPrice, item.Position,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert deal menu items: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a deal with its menu items
func (r *DealRepository) FindByID(ctx context.Context, id int64) (*deal.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	d, err := scanDeal(r.db.Pool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find deal: %w", err)
	}

	items, err := r.loadMenuItems(ctx, []int64{d.ID})
	if err != nil {
		return nil, err
	}
	d.MenuItems = items[d.ID]
	if d.MenuItems == nil {
		d.MenuItems = []deal.DealMenuItem{}
	}
	return d, nil
}

// statusConditions mirrors the read-time status derivation: schedule
// boundaries are applied against NOW() rather than the stored status alone.
var statusConditions = map[deal.DealStatus]string{
	deal.DealStatusActive:    "status IN ('active', 'scheduled') AND start_time <= NOW() AND end_time > NOW()",
	deal.DealStatusScheduled: "status IN ('active', 'scheduled') AND start_time > NOW()",
	deal.DealStatusPaused:    "status = 'paused' AND end_time > NOW()",
	deal.DealStatusExpired:   "(status = 'expired' OR (status <> 'cancelled' AND end_time <= NOW()))",
	deal.DealStatusCancelled: "status = 'cancelled'",
}

// insertDealError maps a failed deal insert. A clash on the access code
// index is the merchant's to fix; anything else is internal.
func insertDealError(err error) error {
	if pgErr, ok := uniqueViolationOf(err); ok && strings.Contains(pgErr.ConstraintName, "access_code") {
		return fmt.Errorf("%w: access_code already in use", xerrors.ErrConflict)
	}
	return fmt.Errorf("failed to insert deal: %w", err)
}

func uniqueViolationOf(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr, true
	}
	return nil, false
}

// dealListWhere builds the WHERE clause of a merchant's deal listing. It
// returns the clause, its arguments and the next free placeholder number.
func dealListWhere(merchantID int64, filters *deal.DealListFilters) (string, []interface{}, int, error) {
	conditions := []string{"merchant_id = $1"}
	args := []interface{}{merchantID}
	argPos := 2

	if filters.Status != nil {
		cond, ok := statusConditions[*filters.Status]
		if !ok {
			return "", nil, 0, fmt.Errorf("%w: unknown status %q", xerrors.ErrInvalidInput, *filters.Status)
		}
		conditions = append(conditions, cond)
	}

	if filters.DealType != nil {
		conditions = append(conditions, fmt.Sprintf("deal_type = $%d", argPos))
		args = append(args, *filters.DealType)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	return strings.Join(conditions, " AND "), args, argPos, nil
}

// ListByMerchant retrieves a merchant's deals with filters
func (r *DealRepository) ListByMerchant(ctx context.Context, merchantID int64, filters *deal.DealListFilters) ([]deal.Deal, int64, error) {
	whereClause, args, argPos, err := dealListWhere(merchantID, filters)
	if err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM deals WHERE %s", whereClause)
	var total int64
	if err := r.db.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deals: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM deals
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, dealColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	deals := []deal.Deal{}
	ids := []int64{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, *d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate deals: %w", err)
	}

	items, err := r.loadMenuItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range deals {
		deals[i].MenuItems = items[deals[i].ID]
		if deals[i].MenuItems == nil {
			deals[i].MenuItems = []deal.DealMenuItem{}
		}
	}

	return deals, total, nil
}

// UpdateStatus updates the stored deal status
func (r *DealRepository) UpdateStatus(ctx context.Context, id int64, status deal.DealStatus) error {
	query := `UPDATE deals SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Pool().Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update deal status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// GetStats aggregates platform-wide deal analytics
func (r *DealRepository) GetStats(ctx context.Context) (*deal.DealStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE ` + statusConditions[deal.DealStatusActive] + `),
			COUNT(*) FILTER (WHERE ` + statusConditions[deal.DealStatusScheduled] + `),
			COUNT(*) FILTER (WHERE ` + statusConditions[deal.DealStatusExpired] + `),
			COUNT(DISTINCT merchant_id),
			COALESCE(AVG(discount_percentage), 0),
			COALESCE(SUM(original_value), 0),
			COALESCE(SUM(original_value - final_value), 0)
		FROM deals
	`

	stats := &deal.DealStats{ByType: map[deal.DealType]int64{}}
	err := r.db.Pool().QueryRow(ctx, query).Scan(
		&stats.TotalDeals, &stats.ActiveDeals, &stats.ScheduledDeals, &stats.ExpiredDeals,
		&stats.MerchantsWithDeal, &stats.AvgDiscountPct, &stats.TotalOfferedValue, &stats.TotalSavings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get deal stats: %w", err)
	}

	rows, err := r.db.Pool().Query(ctx, `SELECT deal_type, COUNT(*) FROM deals GROUP BY deal_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to get deal type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t deal.DealType
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("failed to scan deal type stats: %w", err)
		}
		stats.ByType[t] = n
	}
	return stats, rows.Err()
}

func (r *DealRepository) loadMenuItems(ctx context.Context, dealIDs []int64) (map[int64][]deal.DealMenuItem, error) {
	out := make(map[int64][]deal.DealMenuItem, len(dealIDs))
	if len(dealIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT deal_id, menu_item_id, name, base_price, is_hidden,
		       custom_price, custom_discount, discount_amount, final_price, position
		FROM deal_menu_items
		WHERE deal_id = ANY($1)
		ORDER BY deal_id, position
	`
	rows, err := r.db.Pool().Query(ctx, query, pq.Array(dealIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load deal menu items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dealID int64
		var item deal.DealMenuItem
		if err := rows.Scan(
			&dealID, &item.MenuItemID, &item.Name, &item.BasePrice, &item.IsHidden,
			&item.CustomPrice, &item.CustomDiscount, &item.DiscountAmount, &item.FinalPrice, &item.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deal menu item: %w", err)
		}
		out[dealID] = append(out[dealID], item)
	}
	return out, rows.Err()
}

func scanDeal(row pgx.Row) (*deal.Deal, error) {
	var d deal.Deal
	var cols deal.TermColumns
	err := row.Scan(
		&d.ID, &d.MerchantID, &d.DealCode, &d.Title, &d.Description, &d.DealType, &d.Category,
		&d.DiscountPercentage, &d.DiscountAmount, &d.CustomOfferDisplay,
		&d.StartTime, &d.EndTime, &d.RedemptionInstructions, &d.ImageURLs,
		&d.MenuCollectionID, &d.MaxRedemptions,
		&cols.MinOrderAmount, &cols.BountyRewardAmount, &cols.MinReferralsRequired,
		&cols.KickbackEnabled, &cols.AccessCode, &cols.RecurringDays, &cols.RecurringFrequency,
		&cols.RecurringOccurrences, &d.OriginalValue, &d.FinalValue, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Terms = cols.TermsFor(d.DealType)
	return &d, nil
}
