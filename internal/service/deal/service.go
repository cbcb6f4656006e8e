// internal/service/deal/service.go
package deal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/deal"
	"dealdesk-service/internal/domain/menu"
	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// DraftStore keeps unpublished drafts per merchant.
type DraftStore interface {
	Save(ctx context.Context, d *deal.DealDraft) error
	Get(ctx context.Context, merchantID int64, draftID string) (*deal.DealDraft, error)
	List(ctx context.Context, merchantID int64) ([]deal.DealDraft, error)
	Delete(ctx context.Context, merchantID int64, draftID string) error
	// Claim removes the draft and returns it. Only one caller can claim a
	// given draft.
	Claim(ctx context.Context, merchantID int64, draftID string) (*deal.DealDraft, error)
}

type DealRepository interface {
	Create(ctx context.Context, d *deal.Deal) error
	FindByID(ctx context.Context, id int64) (*deal.Deal, error)
	ListByMerchant(ctx context.Context, merchantID int64, filters *deal.DealListFilters) ([]deal.Deal, int64, error)
	UpdateStatus(ctx context.Context, id int64, status deal.DealStatus) error
	GetStats(ctx context.Context) (*deal.DealStats, error)
}

// MenuCatalog resolves menu items and collections owned by a merchant.
type MenuCatalog interface {
	FindItemsByIDs(ctx context.Context, merchantID int64, ids []string) ([]menu.MenuItem, error)
	GetCollection(ctx context.Context, merchantID int64, collectionID string) (*menu.MenuCollection, error)
}

// PublishGate decides whether a merchant account may publish deals.
type PublishGate interface {
	EnsureCanPublish(ctx context.Context, merchantID int64) error
}

type DealService struct {
	drafts  DraftStore
	deals   DealRepository
	catalog MenuCatalog
	gate    PublishGate
	logger  *zap.Logger
	now     func() time.Time
}

func NewDealService(drafts DraftStore, deals DealRepository, catalog MenuCatalog, gate PublishGate, logger *zap.Logger) *DealService {
	return &DealService{
		drafts:  drafts,
		deals:   deals,
		catalog: catalog,
		gate:    gate,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for validation and status.
func (s *DealService) WithClock(now func() time.Time) *DealService {
	s.now = now
	return s
}

// ---------------------------------------------------------------------
// Drafts
// ---------------------------------------------------------------------

func (s *DealService) CreateDraft(ctx context.Context, merchantID int64, req *deal.CreateDraftRequest) (*deal.DealDraft, error) {
	if req.DealType != "" && !req.DealType.Valid() {
		return nil, fmt.Errorf("%w: unknown deal type %q", xerrors.ErrInvalidInput, req.DealType)
	}

	d := NewDraft(merchantID, req.DealType, s.now())
	d.Title = req.Title

	if err := s.drafts.Save(ctx, d); err != nil {
		s.logger.Error("failed to save draft", zap.Error(err), zap.Int64("merchant_id", merchantID))
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	s.logger.Info("draft created",
		zap.String("draft_id", d.ID),
		zap.Int64("merchant_id", merchantID),
		zap.String("deal_type", string(d.DealType)),
	)
	return d, nil
}

func (s *DealService) GetDraft(ctx context.Context, merchantID int64, draftID string) (*deal.DealDraft, error) {
	return s.drafts.Get(ctx, merchantID, draftID)
}

func (s *DealService) ListDrafts(ctx context.Context, merchantID int64) ([]deal.DealDraft, error) {
	drafts, err := s.drafts.List(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

func (s *DealService) UpdateDraft(ctx context.Context, merchantID int64, draftID string, req *deal.UpdateDraftRequest) (*deal.DealDraft, error) {
	return s.mutateDraft(ctx, merchantID, draftID, func(d *deal.DealDraft, now time.Time) error {
		return ApplyUpdate(d, req, now)
	})
}

// AddItems selects catalog items for the draft. Unknown or unavailable items
// fail the whole request.
func (s *DealService) AddItems(ctx context.Context, merchantID int64, draftID string, req *deal.AddItemsRequest) (*deal.DealDraft, error) {
	items, err := s.availableItems(ctx, merchantID, req.MenuItemIDs)
	if err != nil {
		return nil, err
	}
	return s.mutateDraft(ctx, merchantID, draftID, func(d *deal.DealDraft, now time.Time) error {
		AddItems(d, items, now)
		return nil
	})
}

// AddCollection selects every available item of a menu collection.
func (s *DealService) AddCollection(ctx context.Context, merchantID int64, draftID, collectionID string) (*deal.DealDraft, error) {
	col, err := s.catalog.GetCollection(ctx, merchantID, collectionID)
	if err != nil {
		return nil, err
	}

	items, err := s.catalog.FindItemsByIDs(ctx, merchantID, col.ItemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection items: %w", err)
	}
	available := items[:0]
	for _, item := range items {
		if item.IsAvailable {
			available = append(available, item)
		}
	}

	return s.mutateDraft(ctx, merchantID, draftID, func(d *deal.DealDraft, now time.Time) error {
		AddItems(d, orderLike(available, col.ItemIDs), now)
		id := col.ID
		d.MenuCollectionID = &id
		return nil
	})
}

func (s *DealService) RemoveItem(ctx context.Context, merchantID int64, draftID, itemID string) (*deal.DealDraft, error) {
	return s.mutateDraft(ctx, merchantID, draftID, func(d *deal.DealDraft, now time.Time) error {
		return RemoveItem(d, itemID, now)
	})
}

func (s *DealService) SetItemPricing(ctx context.Context, merchantID int64, draftID, itemID string, req *deal.ItemPricingRequest) (*deal.DealDraft, error) {
	return s.mutateDraft(ctx, merchantID, draftID, func(d *deal.DealDraft, now time.Time) error {
		return SetItemPricing(d, itemID, req, now)
	})
}

func (s *DealService) ClearItemPricing(ctx context.Context, merchantID int64, draftID, itemID string) (*deal.DealDraft, error) {
	return s.mutateDraft(ctx, merchantID, draftID, func(d *deal.DealDraft, now time.Time) error {
		return ClearItemPricing(d, itemID, now)
	})
}

func (s *DealService) DeleteDraft(ctx context.Context, merchantID int64, draftID string) error {
	if err := s.drafts.Delete(ctx, merchantID, draftID); err != nil {
		return err
	}
	s.logger.Info("draft deleted", zap.String("draft_id", draftID), zap.Int64("merchant_id", merchantID))
	return nil
}

// Summary is the review step of the wizard: pricing totals and the
// validation outcome of the draft as it stands.
func (s *DealService) Summary(ctx context.Context, merchantID int64, draftID string) (*deal.DraftSummary, error) {
	d, err := s.drafts.Get(ctx, merchantID, draftID)
	if err != nil {
		return nil, err
	}
	return s.summarize(d), nil
}

func (s *DealService) mutateDraft(ctx context.Context, merchantID int64, draftID string, fn func(*deal.DealDraft, time.Time) error) (*deal.DealDraft, error) {
	d, err := s.drafts.Get(ctx, merchantID, draftID)
	if err != nil {
		return nil, err
	}
	if err := fn(d, s.now()); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		s.logger.Error("failed to save draft", zap.Error(err), zap.String("draft_id", draftID))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return d, nil
}

// ---------------------------------------------------------------------
// Stateless helpers
// ---------------------------------------------------------------------

func (s *DealService) PreviewPricing(req *deal.PricingPreviewRequest) deal.PricingPreviewResponse {
	return PreviewPricing(req.Items, req.DiscountPercentage, req.DiscountAmount)
}

// maxOccurrenceYears bounds the range Occurrences will walk.
const maxOccurrenceYears = 1

// Occurrences counts the runs of a recurring schedule.
func (s *DealService) Occurrences(req *deal.OccurrencesRequest) (int, error) {
	if !req.Frequency.Valid() {
		return 0, fmt.Errorf("%w: recurring frequency must be week, month, or year", xerrors.ErrInvalidInput)
	}
	days := normalizeWeekdays(req.Days)
	for _, day := range days {
		if !day.Valid() {
			return 0, fmt.Errorf("%w: invalid weekday %q", xerrors.ErrInvalidInput, day)
		}
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("%w: dates must use YYYY-MM-DD", xerrors.ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return 0, fmt.Errorf("%w: dates must use YYYY-MM-DD", xerrors.ErrInvalidInput)
	}
	if end.After(start.AddDate(maxOccurrenceYears, 0, 0)) {
		return 0, fmt.Errorf("%w: date range cannot exceed %d year", xerrors.ErrInvalidInput, maxOccurrenceYears)
	}
	return CountOccurrencesBetween(req.StartDate, req.EndDate, req.Frequency, days), nil
}

// ValidatePayload runs publish validation on a payload without saving it.
func (s *DealService) ValidatePayload(ctx context.Context, merchantID int64, req *deal.PublishDealRequest) (*deal.DraftSummary, error) {
	d, err := s.draftFromPayload(ctx, merchantID, req)
	if err != nil {
		return nil, err
	}
	Normalize(d)
	return s.summarize(d), nil
}

func (s *DealService) summarize(d *deal.DealDraft) *deal.DraftSummary {
	return &deal.DraftSummary{
		Draft:      d,
		Pricing:    PreviewPricing(d.SelectedMenuItems, d.DiscountPercentage, d.DiscountAmount),
		Validation: ValidateDealDraft(d, s.now()),
	}
}

// ---------------------------------------------------------------------
// Publishing
// ---------------------------------------------------------------------

// PublishDraft publishes a stored draft and removes it. The draft is claimed
// before publishing so concurrent publishes of one draft create one deal; a
// failed publish puts it back.
func (s *DealService) PublishDraft(ctx context.Context, merchantID int64, draftID string) (*deal.Deal, error) {
	d, err := s.drafts.Claim(ctx, merchantID, draftID)
	if err != nil {
		return nil, err
	}
	claimed := cloneDraft(d)

	published, err := s.publish(ctx, merchantID, d)
	if err != nil {
		if rerr := s.drafts.Save(context.WithoutCancel(ctx), claimed); rerr != nil {
			s.logger.Error("failed to restore draft after failed publish",
				zap.Error(rerr),
				zap.String("draft_id", draftID),
				zap.Int64("merchant_id", merchantID),
			)
		}
		return nil, err
	}
	return published, nil
}

func cloneDraft(d *deal.DealDraft) *deal.DealDraft {
	c := *d
	c.SelectedMenuItems = make([]deal.SelectedMenuItem, len(d.SelectedMenuItems))
	copy(c.SelectedMenuItems, d.SelectedMenuItems)
	return &c
}

// PublishPayload publishes a complete deal in one request.
func (s *DealService) PublishPayload(ctx context.Context, merchantID int64, req *deal.PublishDealRequest) (*deal.Deal, error) {
	d, err := s.draftFromPayload(ctx, merchantID, req)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, merchantID, d)
}

func (s *DealService) publish(ctx context.Context, merchantID int64, d *deal.DealDraft) (*deal.Deal, error) {
	if err := s.gate.EnsureCanPublish(ctx, merchantID); err != nil {
		return nil, err
	}

	if err := s.refreshItems(ctx, merchantID, d); err != nil {
		return nil, err
	}

	Normalize(d)
	now := s.now()
	result := ValidateDealDraft(d, now)
	if !result.IsValid {
		s.logger.Info("deal rejected by validation",
			zap.Int64("merchant_id", merchantID),
			zap.Strings("errors", result.Errors),
		)
		return nil, &deal.ValidationError{Result: result}
	}

	published := buildDeal(d, result, now)
	if err := s.deals.Create(ctx, published); err != nil {
		s.logger.Error("failed to persist deal", zap.Error(err), zap.Int64("merchant_id", merchantID))
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.logger.Info("deal published",
		zap.Int64("deal_id", published.ID),
		zap.String("deal_code", published.DealCode),
		zap.Int64("merchant_id", merchantID),
		zap.String("deal_type", string(published.DealType)),
		zap.Int("menu_items", len(published.MenuItems)),
	)
	return published, nil
}

// refreshItems reloads names and base prices from the catalog so a deal is
// priced against the menu as it is at publish time.
func (s *DealService) refreshItems(ctx context.Context, merchantID int64, d *deal.DealDraft) error {
	if len(d.SelectedMenuItems) == 0 {
		return nil
	}
	ids := make([]string, len(d.SelectedMenuItems))
	for i, item := range d.SelectedMenuItems {
		ids[i] = item.ID
	}
	items, err := s.availableItems(ctx, merchantID, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]menu.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for i := range d.SelectedMenuItems {
		src := byID[d.SelectedMenuItems[i].ID]
		d.SelectedMenuItems[i].Name = src.Name
		d.SelectedMenuItems[i].Price = src.Price
	}
	return nil
}

func (s *DealService) availableItems(ctx context.Context, merchantID int64, ids []string) ([]menu.MenuItem, error) {
	items, err := s.catalog.FindItemsByIDs(ctx, merchantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	found := make(map[string]bool, len(items))
	for _, item := range items {
		if item.IsAvailable {
			found[item.ID] = true
		}
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: menu items not available: %s", xerrors.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return orderLike(items, ids), nil
}

func (s *DealService) draftFromPayload(ctx context.Context, merchantID int64, req *deal.PublishDealRequest) (*deal.DealDraft, error) {
	if req.DealType != "" && !req.DealType.Valid() {
		return nil, fmt.Errorf("%w: unknown deal type %q", xerrors.ErrInvalidInput, req.DealType)
	}

	d := NewDraft(merchantID, req.DealType, s.now())
	d.Title = req.Title
	d.Description = req.Description
	d.Category = req.Category
	d.DiscountPercentage = copyFloat(req.DiscountPercentage)
	d.DiscountAmount = copyFloat(req.DiscountAmount)
	d.CustomOfferDisplay = req.CustomOfferDisplay
	d.StartTime = req.ActiveDateRange.StartDate
	d.EndTime = req.ActiveDateRange.EndDate
	d.RedemptionInstructions = req.RedemptionInstructions
	d.ImageURLs = req.ImageURLs
	d.MinOrderAmount = copyFloat(req.MinOrderAmount)
	d.MaxRedemptions = req.MaxRedemptions
	d.BountyRewardAmount = copyFloat(req.BountyRewardAmount)
	d.MinReferralsRequired = req.MinReferralsRequired
	d.AccessCode = strings.ToUpper(strings.TrimSpace(req.AccessCode))
	d.RecurringDays = normalizeWeekdays(req.RecurringDays)
	if req.RecurringFrequency != "" {
		d.RecurringFrequency = req.RecurringFrequency
	}
	if req.MenuCollectionID != nil && *req.MenuCollectionID != "" {
		col, err := s.catalog.GetCollection(ctx, merchantID, *req.MenuCollectionID)
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: menu collection %s not found", xerrors.ErrInvalidInput, *req.MenuCollectionID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load menu collection: %w", err)
		}
		id := col.ID
		d.MenuCollectionID = &id
	}

	if len(req.MenuItems) == 0 {
		return d, nil
	}

	ids := make([]string, len(req.MenuItems))
	for i, item := range req.MenuItems {
		ids[i] = item.ID
	}
	items, err := s.availableItems(ctx, merchantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]menu.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	// Payload items are taken as sent so duplicates surface in validation.
	for _, p := range req.MenuItems {
		src := byID[p.ID]
		d.SelectedMenuItems = append(d.SelectedMenuItems, deal.SelectedMenuItem{
			ID:             p.ID,
			Name:           src.Name,
			Price:          src.Price,
			IsHidden:       p.IsHidden,
			CustomPrice:    copyFloat(p.CustomPrice),
			CustomDiscount: copyFloat(p.CustomDiscount),
			DiscountAmount: copyFloat(p.DiscountAmount),
		})
	}
	return d, nil
}

func buildDeal(d *deal.DealDraft, result deal.ValidationResult, now time.Time) *deal.Deal {
	terms := d.Terms()
	if rt, ok := terms.(deal.RecurringTerms); ok && result.Occurrences != nil {
		rt.Occurrences = *result.Occurrences
		terms = rt
	}

	totals := ComputeTotals(d.SelectedMenuItems, d.DiscountPercentage, d.DiscountAmount)

	out := &deal.Deal{
		MerchantID:             d.MerchantID,
		DealCode:               "DL-" + ulid.Make().String(),
		Title:                  d.Title,
		Description:            nullString(d.Description),
		DealType:               d.DealType,
		Category:               nullString(d.Category),
		DiscountPercentage:     nullFloat(d.DiscountPercentage),
		DiscountAmount:         nullFloat(d.DiscountAmount),
		CustomOfferDisplay:     nullString(d.CustomOfferDisplay),
		StartTime:              *d.StartTime,
		EndTime:                *d.EndTime,
		RedemptionInstructions: nullString(d.RedemptionInstructions),
		ImageURLs:              pq.StringArray(d.ImageURLs),
		Terms:                  terms,
		OriginalValue:          totals.OriginalTotal,
		FinalValue:             totals.FinalTotal,
		MenuItems:              make([]deal.DealMenuItem, 0, len(d.SelectedMenuItems)),
		Status:                 deal.DealStatusActive,
	}
	if d.MenuCollectionID != nil {
		out.MenuCollectionID = sql.NullString{String: *d.MenuCollectionID, Valid: true}
	}
	if d.MaxRedemptions != nil {
		out.MaxRedemptions = sql.NullInt32{Int32: int32(*d.MaxRedemptions), Valid: true}
	}
	if d.StartTime.After(now) {
		out.Status = deal.DealStatusScheduled
	}

	for i, item := range d.SelectedMenuItems {
		out.MenuItems = append(out.MenuItems, deal.DealMenuItem{
			MenuItemID:     item.ID,
			Name:           item.Name,
			BasePrice:      item.Price,
			IsHidden:       item.IsHidden,
			CustomPrice:    nullFloat(item.CustomPrice),
			CustomDiscount: nullFloat(item.CustomDiscount),
			DiscountAmount: nullFloat(item.DiscountAmount),
			FinalPrice:     ResolveFinalPrice(item, d.DiscountPercentage, d.DiscountAmount).FinalPrice,
			Position:       i,
		})
	}
	return out
}

// ---------------------------------------------------------------------
// Published deals
// ---------------------------------------------------------------------

func (s *DealService) GetDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error) {
	d, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.MerchantID != merchantID {
		return nil, xerrors.ErrNotFound
	}
	d.Status = EffectiveStatus(d, s.now())
	return d, nil
}

func (s *DealService) ListDeals(ctx context.Context, merchantID int64, filters *deal.DealListFilters) (*deal.DealListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	deals, total, err := s.deals.ListByMerchant(ctx, merchantID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	now := s.now()
	for i := range deals {
		deals[i].Status = EffectiveStatus(&deals[i], now)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &deal.DealListResponse{
		Deals:      deals,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *DealService) PauseDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error) {
	return s.transition(ctx, merchantID, dealID, deal.DealStatusPaused)
}

func (s *DealService) ActivateDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error) {
	return s.transition(ctx, merchantID, dealID, deal.DealStatusActive)
}

func (s *DealService) CancelDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error) {
	return s.transition(ctx, merchantID, dealID, deal.DealStatusCancelled)
}

// allowedTransitions lists the target states reachable from each state.
var allowedTransitions = map[deal.DealStatus][]deal.DealStatus{
	deal.DealStatusScheduled: {deal.DealStatusPaused, deal.DealStatusCancelled},
	deal.DealStatusActive:    {deal.DealStatusPaused, deal.DealStatusCancelled},
	deal.DealStatusPaused:    {deal.DealStatusActive, deal.DealStatusCancelled},
}

func (s *DealService) transition(ctx context.Context, merchantID, dealID int64, target deal.DealStatus) (*deal.Deal, error) {
	d, err := s.GetDeal(ctx, merchantID, dealID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, st := range allowedTransitions[d.Status] {
		if st == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move deal from %s to %s", xerrors.ErrConflict, d.Status, target)
	}

	if err := s.deals.UpdateStatus(ctx, dealID, target); err != nil {
		return nil, fmt.Errorf("failed to update deal status: %w", err)
	}

	s.logger.Info("deal status changed",
		zap.Int64("deal_id", dealID),
		zap.String("from", string(d.Status)),
		zap.String("to", string(target)),
	)

	d.Status = target
	d.Status = EffectiveStatus(d, s.now())
	return d, nil
}

// EffectiveStatus derives the status a deal shows at now. Stored statuses
// only record merchant actions; schedule boundaries are applied on read.
func EffectiveStatus(d *deal.Deal, now time.Time) deal.DealStatus {
	switch d.Status {
	case deal.DealStatusCancelled, deal.DealStatusExpired:
		return d.Status
	}
	if !d.EndTime.After(now) {
		return deal.DealStatusExpired
	}
	if d.Status == deal.DealStatusPaused {
		return d.Status
	}
	if d.StartTime.After(now) {
		return deal.DealStatusScheduled
	}
	return deal.DealStatusActive
}

func (s *DealService) Stats(ctx context.Context) (*deal.DealStats, error) {
	stats, err := s.deals.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal stats: %w", err)
	}
	return stats, nil
}

// orderLike returns items in the order of ids.
func orderLike(items []menu.MenuItem, ids []string) []menu.MenuItem {
	byID := make(map[string]menu.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make([]menu.MenuItem, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
			delete(byID, id)
		}
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
