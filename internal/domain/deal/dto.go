// internal/domain/deal/dto.go
package deal

import "time"

type CreateDraftRequest struct {
	DealType DealType `json:"deal_type"`
	Title    string   `json:"title" binding:"omitempty,max=100"`
}

// UpdateDraftRequest is a partial update of a draft. Nil fields are left
// untouched; ClearFields names optional fields to reset to empty.
type UpdateDraftRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=255"`
	Description *string   `json:"description"`
	DealType    *DealType `json:"deal_type"`
	Category    *string   `json:"category"`

	// Global discount
	DiscountPercentage *float64 `json:"discount_percentage"`
	DiscountAmount     *float64 `json:"discount_amount"`
	CustomOfferDisplay *string  `json:"custom_offer_display"`

	// Schedule
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	RedemptionInstructions *string  `json:"redemption_instructions"`
	ImageURLs              []string `json:"image_urls"`

	// Type specific
	MinOrderAmount       *float64            `json:"min_order_amount"`
	MaxRedemptions       *int                `json:"max_redemptions" binding:"omitempty,min=1"`
	BountyRewardAmount   *float64            `json:"bounty_reward_amount"`
	MinReferralsRequired *int                `json:"min_referrals_required"`
	AccessCode           *string             `json:"access_code"`
	RecurringDays        []Weekday           `json:"recurring_days"`
	RecurringFrequency   *RecurringFrequency `json:"recurring_frequency"`

	ClearFields []string `json:"clear_fields"`
}

type AddItemsRequest struct {
	MenuItemIDs []string `json:"menu_item_ids" binding:"required,min=1"`
}

// ItemPricingRequest sets the visibility and the single price override of
// a selected item. Sending more than one override is rejected.
type ItemPricingRequest struct {
	IsHidden       *bool    `json:"is_hidden"`
	CustomPrice    *float64 `json:"custom_price" binding:"omitempty,min=0"`
	CustomDiscount *float64 `json:"custom_discount" binding:"omitempty,min=0,max=100"`
	DiscountAmount *float64 `json:"discount_amount" binding:"omitempty,min=0"`
}

type ActiveDateRange struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type PayloadMenuItem struct {
	ID             string   `json:"id" binding:"required"`
	IsHidden       bool     `json:"is_hidden"`
	CustomPrice    *float64 `json:"custom_price,omitempty"`
	CustomDiscount *float64 `json:"custom_discount,omitempty"`
	DiscountAmount *float64 `json:"discount_amount,omitempty"`
}

// PublishDealRequest is the one-shot publish payload.
type PublishDealRequest struct {
	Title                  string             `json:"title"`
	Description            string             `json:"description"`
	DealType               DealType           `json:"deal_type"`
	Category               string             `json:"category"`
	DiscountPercentage     *float64           `json:"discount_percentage,omitempty"`
	DiscountAmount         *float64           `json:"discount_amount,omitempty"`
	CustomOfferDisplay     string             `json:"custom_offer_display,omitempty"`
	RecurringDays          []Weekday          `json:"recurring_days,omitempty"`
	RecurringFrequency     RecurringFrequency `json:"recurring_frequency,omitempty"`
	ActiveDateRange        ActiveDateRange    `json:"active_date_range"`
	RedemptionInstructions string             `json:"redemption_instructions,omitempty"`
	ImageURLs              []string           `json:"image_urls,omitempty"`
	MinOrderAmount         *float64           `json:"min_order_amount,omitempty"`
	MaxRedemptions         *int               `json:"max_redemptions,omitempty"`
	BountyRewardAmount     *float64           `json:"bounty_reward_amount,omitempty"`
	MinReferralsRequired   *int               `json:"min_referrals_required,omitempty"`
	KickbackEnabled        bool               `json:"kickback_enabled"`
	AccessCode             string             `json:"access_code,omitempty"`
	MenuItems              []PayloadMenuItem  `json:"menu_items" binding:"dive"`
	MenuCollectionID       *string            `json:"menu_collection_id,omitempty"`
}

// PriceResolution is the outcome of resolving one item's price.
type PriceResolution struct {
	FinalPrice          float64 `json:"final_price"`
	DiscountDescription *string `json:"discount_description"`
	IsCustom            bool    `json:"is_custom"`
}

type Totals struct {
	OriginalTotal float64 `json:"original_total"`
	FinalTotal    float64 `json:"final_total"`
	Savings       float64 `json:"savings"`
	ShowSavings   bool    `json:"show_savings"`
}

type ItemPricing struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	IsHidden            bool    `json:"is_hidden"`
	Price               float64 `json:"price"`
	FinalPrice          float64 `json:"final_price"`
	DisplayPrice        string  `json:"display_price"`
	DiscountDescription *string `json:"discount_description"`
	IsCustom            bool    `json:"is_custom"`
}

type PricingPreviewRequest struct {
	Items              []SelectedMenuItem `json:"items"`
	DiscountPercentage *float64           `json:"discount_percentage"`
	DiscountAmount     *float64           `json:"discount_amount"`
}

type PricingPreviewResponse struct {
	Items  []ItemPricing `json:"items"`
	Totals Totals        `json:"totals"`
}

// ValidationResult lists every failed rule of a draft in rule order.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Occurrences *int     `json:"occurrences,omitempty"`
}

type OccurrencesRequest struct {
	StartDate string             `json:"start_date" binding:"required"`
	EndDate   string             `json:"end_date" binding:"required"`
	Frequency RecurringFrequency `json:"frequency" binding:"required"`
	Days      []Weekday          `json:"days"`
}

type DraftSummary struct {
	Draft      *DealDraft             `json:"draft"`
	Pricing    PricingPreviewResponse `json:"pricing"`
	Validation ValidationResult       `json:"validation"`
}

type DealListFilters struct {
	Status   *DealStatus `form:"status"`
	DealType *DealType   `form:"deal_type"`
	Search   string      `form:"search"`
	Page     int         `form:"page"`
	PageSize int         `form:"page_size"`
}

type DealListResponse struct {
	Deals      []Deal `json:"deals"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
