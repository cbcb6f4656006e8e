package deal

import (
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/deal"
	"dealdesk-service/internal/domain/menu"
	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

// NewDraft starts an empty draft for a merchant.
func NewDraft(merchantID int64, dealType deal.DealType, now time.Time) *deal.DealDraft {
	if dealType == "" {
		dealType = deal.DealTypeStandard
	}
	d := &deal.DealDraft{
		ID:                ulid.Make().String(),
		MerchantID:        merchantID,
		SelectedMenuItems: []deal.SelectedMenuItem{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	setDealType(d, dealType)
	return d
}

// ApplyUpdate applies a partial update to d. Fields named in ClearFields are
// reset after the provided values are copied in.
func ApplyUpdate(d *deal.DealDraft, req *deal.UpdateDraftRequest, now time.Time) error {
	if req.DealType != nil {
		if !req.DealType.Valid() {
			return fmt.Errorf("%w: unknown deal type %q", xerrors.ErrInvalidInput, *req.DealType)
		}
		setDealType(d, *req.DealType)
	}
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Category != nil {
		d.Category = *req.Category
	}
	if req.DiscountPercentage != nil {
		d.DiscountPercentage = copyFloat(req.DiscountPercentage)
	}
	if req.DiscountAmount != nil {
		d.DiscountAmount = copyFloat(req.DiscountAmount)
	}
	if req.CustomOfferDisplay != nil {
		d.CustomOfferDisplay = *req.CustomOfferDisplay
	}
	if req.StartTime != nil {
		t := *req.StartTime
		d.StartTime = &t
	}
	if req.EndTime != nil {
		t := *req.EndTime
		d.EndTime = &t
	}
	if req.RedemptionInstructions != nil {
		d.RedemptionInstructions = *req.RedemptionInstructions
	}
	if req.ImageURLs != nil {
		d.ImageURLs = append([]string(nil), req.ImageURLs...)
	}
	if req.MinOrderAmount != nil {
		d.MinOrderAmount = copyFloat(req.MinOrderAmount)
	}
	if req.MaxRedemptions != nil {
		v := *req.MaxRedemptions
		d.MaxRedemptions = &v
	}
	if req.BountyRewardAmount != nil {
		d.BountyRewardAmount = copyFloat(req.BountyRewardAmount)
	}
	if req.MinReferralsRequired != nil {
		v := *req.MinReferralsRequired
		d.MinReferralsRequired = &v
	}
	if req.AccessCode != nil {
		d.AccessCode = strings.ToUpper(strings.TrimSpace(*req.AccessCode))
	}
	if req.RecurringDays != nil {
		d.RecurringDays = normalizeWeekdays(req.RecurringDays)
	}
	if req.RecurringFrequency != nil {
		d.RecurringFrequency = *req.RecurringFrequency
	}

	for _, field := range req.ClearFields {
		if err := clearField(d, field); err != nil {
			return err
		}
	}

	d.UpdatedAt = now
	return nil
}

func clearField(d *deal.DealDraft, field string) error {
	switch field {
	case "discount_percentage":
		d.DiscountPercentage = nil
	case "discount_amount":
		d.DiscountAmount = nil
	case "custom_offer_display":
		d.CustomOfferDisplay = ""
	case "start_time":
		d.StartTime = nil
	case "end_time":
		d.EndTime = nil
	case "min_order_amount":
		d.MinOrderAmount = nil
	case "max_redemptions":
		d.MaxRedemptions = nil
	case "bounty_reward_amount":
		d.BountyRewardAmount = nil
	case "min_referrals_required":
		d.MinReferralsRequired = nil
	case "access_code":
		d.AccessCode = ""
	case "recurring_days":
		d.RecurringDays = nil
	case "menu_collection_id":
		d.MenuCollectionID = nil
	case "image_urls":
		d.ImageURLs = nil
	default:
		return fmt.Errorf("%w: field %q cannot be cleared", xerrors.ErrInvalidInput, field)
	}
	return nil
}

// setDealType switches the deal type and applies its side effects.
func setDealType(d *deal.DealDraft, t deal.DealType) {
	d.DealType = t
	d.KickbackEnabled = t == deal.DealTypeBounty
	if t == deal.DealTypeRecurring && d.RecurringFrequency == "" {
		d.RecurringFrequency = deal.FrequencyWeek
	}
}

// AddItems appends catalog items to the selection, skipping items that are
// already selected. Selection order is preserved.
func AddItems(d *deal.DealDraft, items []menu.MenuItem, now time.Time) int {
	added := 0
	for _, item := range items {
		if d.FindItem(item.ID) >= 0 {
			continue
		}
		d.SelectedMenuItems = append(d.SelectedMenuItems, deal.SelectedMenuItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
		})
		added++
	}
	if added > 0 {
		d.UpdatedAt = now
	}
	return added
}

// RemoveItem drops an item from the selection.
func RemoveItem(d *deal.DealDraft, itemID string, now time.Time) error {
	idx := d.FindItem(itemID)
	if idx < 0 {
		return fmt.Errorf("menu item %s is not part of this deal: %w", itemID, xerrors.ErrNotFound)
	}
	d.SelectedMenuItems = append(d.SelectedMenuItems[:idx], d.SelectedMenuItems[idx+1:]...)
	d.UpdatedAt = now
	return nil
}

// SetItemPricing saves the visibility and price override of a selected
// item. Overrides are mutually exclusive: saving one replaces any other.
func SetItemPricing(d *deal.DealDraft, itemID string, req *deal.ItemPricingRequest, now time.Time) error {
	idx := d.FindItem(itemID)
	if idx < 0 {
		return fmt.Errorf("menu item %s is not part of this deal: %w", itemID, xerrors.ErrNotFound)
	}

	overrides := 0
	for _, v := range []*float64{req.CustomPrice, req.CustomDiscount, req.DiscountAmount} {
		if v != nil {
			overrides++
		}
	}
	if overrides > 1 {
		return fmt.Errorf("%w: only one of custom price, custom discount or discount amount may be set", xerrors.ErrInvalidInput)
	}

	item := &d.SelectedMenuItems[idx]
	if req.IsHidden != nil {
		item.IsHidden = *req.IsHidden
	}
	if overrides == 1 {
		item.CustomPrice = copyFloat(req.CustomPrice)
		item.CustomDiscount = copyFloat(req.CustomDiscount)
		item.DiscountAmount = copyFloat(req.DiscountAmount)
	}
	d.UpdatedAt = now
	return nil
}

// ClearItemPricing returns an item to the global discount.
func ClearItemPricing(d *deal.DealDraft, itemID string, now time.Time) error {
	idx := d.FindItem(itemID)
	if idx < 0 {
		return fmt.Errorf("menu item %s is not part of this deal: %w", itemID, xerrors.ErrNotFound)
	}
	item := &d.SelectedMenuItems[idx]
	if !item.HasOverride() {
		return nil
	}
	item.CustomPrice = nil
	item.CustomDiscount = nil
	item.DiscountAmount = nil
	d.UpdatedAt = now
	return nil
}

// Normalize applies the publish-time side effects: bounty deals always pay
// kickbacks and hidden deals get an access code when none was chosen.
func Normalize(d *deal.DealDraft) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.CustomOfferDisplay = strings.TrimSpace(d.CustomOfferDisplay)
	d.KickbackEnabled = d.DealType == deal.DealTypeBounty
	if d.DealType == deal.DealTypeHidden && d.AccessCode == "" {
		d.AccessCode = GenerateAccessCode()
	}
}

// GenerateAccessCode returns an 8 character code made of uppercase letters
// and digits.
func GenerateAccessCode() string {
	id := ulid.Make().String()
	// The tail of a ULID is its random component.
	return id[len(id)-8:]
}

func normalizeWeekdays(days []deal.Weekday) []deal.Weekday {
	out := make([]deal.Weekday, 0, len(days))
	seen := make(map[deal.Weekday]bool, len(days))
	for _, day := range days {
		day = deal.Weekday(strings.ToUpper(strings.TrimSpace(string(day))))
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
