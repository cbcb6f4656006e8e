package deal

import (
	"database/sql"

	"github.com/lib/pq"
)

// Terms holds the fields that only make sense for one deal type. Each deal
// type has exactly one variant so a STANDARD deal cannot carry bounty data.
type Terms interface {
	DealType() DealType
}

type StandardTerms struct{}

type HappyHourTerms struct{}

type RecurringTerms struct {
	Days        []Weekday          `json:"recurring_days"`
	Frequency   RecurringFrequency `json:"recurring_frequency"`
	Occurrences int                `json:"occurrences"`
}

type BountyTerms struct {
	RewardAmount    float64 `json:"bounty_reward_amount"`
	MinReferrals    int     `json:"min_referrals_required"`
	KickbackEnabled bool    `json:"kickback_enabled"`
}

type HiddenTerms struct {
	AccessCode string `json:"access_code"`
}

type RedeemNowTerms struct {
	MinOrderAmount float64 `json:"min_order_amount"`
}

func (StandardTerms) DealType() DealType  { return DealTypeStandard }
func (HappyHourTerms) DealType() DealType { return DealTypeHappyHour }
func (RecurringTerms) DealType() DealType { return DealTypeRecurring }
func (BountyTerms) DealType() DealType    { return DealTypeBounty }
func (HiddenTerms) DealType() DealType    { return DealTypeHidden }
func (RedeemNowTerms) DealType() DealType { return DealTypeRedeemNow }

// Terms projects the draft onto the variant of its deal type. Missing
// optional values collapse to their zero value, so callers validate first.
func (d *DealDraft) Terms() Terms {
	switch d.DealType {
	case DealTypeHappyHour:
		return HappyHourTerms{}
	case DealTypeRecurring:
		days := make([]Weekday, len(d.RecurringDays))
		copy(days, d.RecurringDays)
		return RecurringTerms{Days: days, Frequency: d.RecurringFrequency}
	case DealTypeBounty:
		t := BountyTerms{KickbackEnabled: true}
		if d.BountyRewardAmount != nil {
			t.RewardAmount = *d.BountyRewardAmount
		}
		if d.MinReferralsRequired != nil {
			t.MinReferrals = *d.MinReferralsRequired
		}
		return t
	case DealTypeHidden:
		return HiddenTerms{AccessCode: d.AccessCode}
	case DealTypeRedeemNow:
		t := RedeemNowTerms{}
		if d.MinOrderAmount != nil {
			t.MinOrderAmount = *d.MinOrderAmount
		}
		return t
	default:
		return StandardTerms{}
	}
}

// TermColumns is the flattened storage form of Terms.
type TermColumns struct {
	MinOrderAmount       sql.NullFloat64
	BountyRewardAmount   sql.NullFloat64
	MinReferralsRequired sql.NullInt32
	KickbackEnabled      bool
	AccessCode           sql.NullString
	RecurringDays        pq.StringArray
	RecurringFrequency   sql.NullString
	RecurringOccurrences sql.NullInt32
}

// ColumnsOf flattens t for storage.
func ColumnsOf(t Terms) TermColumns {
	var c TermColumns
	switch v := t.(type) {
	case RecurringTerms:
		for _, d := range v.Days {
			c.RecurringDays = append(c.RecurringDays, string(d))
		}
		c.RecurringFrequency = sql.NullString{String: string(v.Frequency), Valid: v.Frequency != ""}
		c.RecurringOccurrences = sql.NullInt32{Int32: int32(v.Occurrences), Valid: true}
	case BountyTerms:
		c.BountyRewardAmount = sql.NullFloat64{Float64: v.RewardAmount, Valid: true}
		c.MinReferralsRequired = sql.NullInt32{Int32: int32(v.MinReferrals), Valid: true}
		c.KickbackEnabled = v.KickbackEnabled
	case HiddenTerms:
		c.AccessCode = sql.NullString{String: v.AccessCode, Valid: v.AccessCode != ""}
	case RedeemNowTerms:
		c.MinOrderAmount = sql.NullFloat64{Float64: v.MinOrderAmount, Valid: true}
	}
	return c
}

// TermsFor rebuilds the variant for dealType from stored columns.
func (c TermColumns) TermsFor(dealType DealType) Terms {
	switch dealType {
	case DealTypeHappyHour:
		return HappyHourTerms{}
	case DealTypeRecurring:
		days := make([]Weekday, 0, len(c.RecurringDays))
		for _, d := range c.RecurringDays {
			days = append(days, Weekday(d))
		}
		return RecurringTerms{
			Days:        days,
			Frequency:   RecurringFrequency(c.RecurringFrequency.String),
			Occurrences: int(c.RecurringOccurrences.Int32),
		}
	case DealTypeBounty:
		return BountyTerms{
			RewardAmount:    c.BountyRewardAmount.Float64,
			MinReferrals:    int(c.MinReferralsRequired.Int32),
			KickbackEnabled: c.KickbackEnabled,
		}
	case DealTypeHidden:
		return HiddenTerms{AccessCode: c.AccessCode.String}
	case DealTypeRedeemNow:
		return RedeemNowTerms{MinOrderAmount: c.MinOrderAmount.Float64}
	default:
		return StandardTerms{}
	}
}
