// internal/domain/deal/entity.go
package deal

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type DealType string

const (
	DealTypeStandard  DealType = "STANDARD"
	DealTypeHappyHour DealType = "HAPPY_HOUR"
	DealTypeRecurring DealType = "RECURRING"
	DealTypeBounty    DealType = "BOUNTY"
	DealTypeHidden    DealType = "HIDDEN"
	DealTypeRedeemNow DealType = "REDEEM_NOW"
)

// DealTypes lists every supported deal type in display order.
var DealTypes = []DealType{
	DealTypeStandard,
	DealTypeHappyHour,
	DealTypeRecurring,
	DealTypeBounty,
	DealTypeHidden,
	DealTypeRedeemNow,
}

func (t DealType) Valid() bool {
	for _, dt := range DealTypes {
		if dt == t {
			return true
		}
	}
	return false
}

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayByTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf returns the weekday token for t.
func WeekdayOf(t time.Time) Weekday {
	return weekdayByTime[t.Weekday()]
}

func (w Weekday) Valid() bool {
	for _, v := range weekdayByTime {
		if v == w {
			return true
		}
	}
	return false
}

type RecurringFrequency string

const (
	FrequencyWeek  RecurringFrequency = "week"
	FrequencyMonth RecurringFrequency = "month"
	FrequencyYear  RecurringFrequency = "year"
)

func (f RecurringFrequency) Valid() bool {
	switch f {
	case FrequencyWeek, FrequencyMonth, FrequencyYear:
		return true
	}
	return false
}

type DealStatus string

const (
	DealStatusScheduled DealStatus = "scheduled"
	DealStatusActive    DealStatus = "active"
	DealStatusPaused    DealStatus = "paused"
	DealStatusExpired   DealStatus = "expired"
	DealStatusCancelled DealStatus = "cancelled"
)

// SelectedMenuItem is a catalog item attached to a draft together with its
// item-level price override. At most one of CustomPrice, CustomDiscount and
// DiscountAmount is expected to be set.
type SelectedMenuItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	IsHidden       bool     `json:"is_hidden"`
	CustomPrice    *float64 `json:"custom_price,omitempty"`
	CustomDiscount *float64 `json:"custom_discount,omitempty"`
	DiscountAmount *float64 `json:"discount_amount,omitempty"`
}

// HasOverride reports whether any item-level price override is set.
func (i SelectedMenuItem) HasOverride() bool {
	return i.CustomPrice != nil || i.CustomDiscount != nil || i.DiscountAmount != nil
}

// DealDraft is the wizard state of a deal that has not been published yet.
// It carries the fields of every deal type because the merchant may switch
// types mid-way; Terms projects it onto the fields the chosen type uses.
type DealDraft struct {
	ID         string `json:"id"`
	MerchantID int64  `json:"merchant_id"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	DealType    DealType `json:"deal_type"`
	Category    string   `json:"category"`

	// Global discount
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DiscountAmount     *float64 `json:"discount_amount,omitempty"`
	CustomOfferDisplay string   `json:"custom_offer_display,omitempty"`

	SelectedMenuItems []SelectedMenuItem `json:"selected_menu_items"`
	MenuCollectionID  *string            `json:"menu_collection_id,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	RedemptionInstructions string   `json:"redemption_instructions,omitempty"`
	ImageURLs              []string `json:"image_urls,omitempty"`

	// Type specific
	MinOrderAmount       *float64           `json:"min_order_amount,omitempty"`
	MaxRedemptions       *int               `json:"max_redemptions,omitempty"`
	BountyRewardAmount   *float64           `json:"bounty_reward_amount,omitempty"`
	MinReferralsRequired *int               `json:"min_referrals_required,omitempty"`
	KickbackEnabled      bool               `json:"kickback_enabled"`
	AccessCode           string             `json:"access_code,omitempty"`
	RecurringDays        []Weekday          `json:"recurring_days,omitempty"`
	RecurringFrequency   RecurringFrequency `json:"recurring_frequency,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindItem returns the index of the selected item with the given id, or -1.
func (d *DealDraft) FindItem(id string) int {
	for i := range d.SelectedMenuItems {
		if d.SelectedMenuItems[i].ID == id {
			return i
		}
	}
	return -1
}

// Deal is a published deal. Type specific fields live in Terms.
type Deal struct {
	ID         int64  `json:"id" db:"id"`
	MerchantID int64  `json:"merchant_id" db:"merchant_id"`
	DealCode   string `json:"deal_code" db:"deal_code"`

	Title       string         `json:"title" db:"title"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	DealType    DealType       `json:"deal_type" db:"deal_type"`
	Category    sql.NullString `json:"category,omitempty" db:"category"`

	DiscountPercentage sql.NullFloat64 `json:"discount_percentage,omitempty" db:"discount_percentage"`
	DiscountAmount     sql.NullFloat64 `json:"discount_amount,omitempty" db:"discount_amount"`
	CustomOfferDisplay sql.NullString  `json:"custom_offer_display,omitempty" db:"custom_offer_display"`

	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	RedemptionInstructions sql.NullString `json:"redemption_instructions,omitempty" db:"redemption_instructions"`
	ImageURLs              pq.StringArray `json:"image_urls,omitempty" db:"image_urls"`
	MenuCollectionID       sql.NullString `json:"menu_collection_id,omitempty" db:"menu_collection_id"`
	MaxRedemptions         sql.NullInt32  `json:"max_redemptions,omitempty" db:"max_redemptions"`

	Terms Terms `json:"terms" db:"-"`

	// Pricing snapshot at publish time
	OriginalValue float64 `json:"original_value" db:"original_value"`
	FinalValue    float64 `json:"final_value" db:"final_value"`

	MenuItems []DealMenuItem `json:"menu_items" db:"-"`

	Status    DealStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type DealMenuItem struct {
	MenuItemID     string          `json:"menu_item_id" db:"menu_item_id"`
	Name           string          `json:"name" db:"name"`
	BasePrice      float64         `json:"base_price" db:"base_price"`
	IsHidden       bool            `json:"is_hidden" db:"is_hidden"`
	CustomPrice    sql.NullFloat64 `json:"custom_price,omitempty" db:"custom_price"`
	CustomDiscount sql.NullFloat64 `json:"custom_discount,omitempty" db:"custom_discount"`
	DiscountAmount sql.NullFloat64 `json:"discount_amount,omitempty" db:"discount_amount"`
	FinalPrice     float64         `json:"final_price" db:"final_price"`
	Position       int             `json:"position" db:"position"`
}

type DealStats struct {
	TotalDeals        int64              `json:"total_deals"`
	ActiveDeals       int64              `json:"active_deals"`
	ScheduledDeals    int64              `json:"scheduled_deals"`
	ExpiredDeals      int64              `json:"expired_deals"`
	MerchantsWithDeal int64              `json:"merchants_with_deals"`
	AvgDiscountPct    float64            `json:"average_discount_percentage"`
	TotalOfferedValue float64            `json:"total_offered_value"`
	TotalSavings      float64            `json:"total_savings"`
	ByType            map[DealType]int64 `json:"by_type"`
}
