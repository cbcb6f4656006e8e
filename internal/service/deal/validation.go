package deal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk-service/internal/domain/deal"

	"github.com/go-playground/validator/v10"
)

const (
	titleMinLength       = 3
	titleMaxLength       = 100
	descriptionMinLength = 10
	descriptionMaxLength = 1000
	accessCodeMaxLength  = 20

	// startTimeGrace tolerates the delay between picking "now" in the wizard
	// and submitting it.
	startTimeGrace       = time.Minute
	redeemNowMaxDuration = 24 * time.Hour
)

// RedeemNowPresets are the discount percentages offered for Redeem Now deals.
// Any other value in (0,100] is accepted as a custom percentage.
var RedeemNowPresets = []float64{15, 30, 45, 50, 75}

var validate = validator.New()

// fieldRules holds the single-field bounds of a draft. Tag bounds must match
// the length constants above. Cross-field and per-type rules are checked by
// hand below so failures keep their rule order.
type fieldRules struct {
	Title              string      `validate:"required,min=3,max=100"`
	BountyDescription  string      `validate:"omitempty,min=10,max=1000"`
	DiscountPercentage *float64    `validate:"omitempty,gt=0,lte=100"`
	DiscountAmount     *float64    `validate:"omitempty,gte=0"`
	Items              []itemRules `validate:"dive"`
	MaxRedemptions     *int        `validate:"omitempty,min=1"`
	AccessCode         string      `validate:"omitempty,max=20"`
	AccessCodeCharset  string      `validate:"omitempty,alphanum,uppercase"`
}

type itemRules struct {
	CustomPrice    *float64 `validate:"omitempty,gte=0"`
	CustomDiscount *float64 `validate:"omitempty,gte=0,lte=100"`
	DiscountAmount *float64 `validate:"omitempty,gte=0"`
}

// fieldFailures maps a field path such as "Items[0].CustomPrice" to the
// validator tag it failed.
type fieldFailures map[string]string

func checkFields(d *deal.DealDraft) fieldFailures {
	r := fieldRules{
		Title:              strings.TrimSpace(d.Title),
		DiscountPercentage: d.DiscountPercentage,
		DiscountAmount:     d.DiscountAmount,
		Items:              make([]itemRules, len(d.SelectedMenuItems)),
		MaxRedemptions:     d.MaxRedemptions,
	}
	if d.DealType == deal.DealTypeBounty {
		r.BountyDescription = strings.TrimSpace(d.Description)
	}
	if d.DealType == deal.DealTypeHidden {
		r.AccessCode = d.AccessCode
		r.AccessCodeCharset = d.AccessCode
	}
	for i, item := range d.SelectedMenuItems {
		r.Items[i] = itemRules{
			CustomPrice:    item.CustomPrice,
			CustomDiscount: item.CustomDiscount,
			DiscountAmount: item.DiscountAmount,
		}
	}

	failed := fieldFailures{}
	var verrs validator.ValidationErrors
	if errors.As(validate.Struct(r), &verrs) {
		for _, fe := range verrs {
			failed[strings.TrimPrefix(fe.StructNamespace(), "fieldRules.")] = fe.Tag()
		}
	}
	return failed
}

type checks struct {
	errors   []string
	warnings []string
}

func (c *checks) fail(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checks) warn(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// ValidateDealDraft checks d against the shared rules and the rules of its
// deal type. Every rule is evaluated and failures are reported in rule order.
func ValidateDealDraft(d *deal.DealDraft, now time.Time) deal.ValidationResult {
	c := &checks{}
	f := checkFields(d)

	validateDealType(c, d)
	validateTitle(c, f)
	validateDescription(c, d, f)
	validateDiscount(c, d, f)
	validateSchedule(c, d, now)
	validateItems(c, d, f)
	if f["MaxRedemptions"] != "" {
		c.fail("Maximum redemptions must be at least 1")
	}

	var occurrences *int
	switch d.DealType {
	case deal.DealTypeRedeemNow:
		validateRedeemNow(c, d)
	case deal.DealTypeRecurring:
		occurrences = validateRecurring(c, d)
	case deal.DealTypeBounty:
		validateBounty(c, d)
	case deal.DealTypeHidden:
		validateAccessCode(c, f)
	}

	return deal.ValidationResult{
		IsValid:     len(c.errors) == 0,
		Errors:      nonNil(c.errors),
		Warnings:    nonNil(c.warnings),
		Occurrences: occurrences,
	}
}

func validateDealType(c *checks, d *deal.DealDraft) {
	if !d.DealType.Valid() {
		names := make([]string, len(deal.DealTypes))
		for i, t := range deal.DealTypes {
			names[i] = string(t)
		}
		c.fail("Deal type must be one of %s", strings.Join(names, ", "))
	}
}

func validateTitle(c *checks, f fieldFailures) {
	switch f["Title"] {
	case "":
	case "required":
		c.fail("Title is required")
	default:
		c.fail("Title must be between %d and %d characters", titleMinLength, titleMaxLength)
	}
}

func validateDescription(c *checks, d *deal.DealDraft, f fieldFailures) {
	switch d.DealType {
	case deal.DealTypeStandard, deal.DealTypeHappyHour:
		if strings.TrimSpace(d.Description) == "" {
			c.fail("Description is required")
		}
	case deal.DealTypeBounty:
		if f["BountyDescription"] != "" {
			c.fail("Description must be between %d and %d characters", descriptionMinLength, descriptionMaxLength)
		}
	}
}

func validateDiscount(c *checks, d *deal.DealDraft, f fieldFailures) {
	hasPct := d.DiscountPercentage != nil && *d.DiscountPercentage > 0
	hasAmt := d.DiscountAmount != nil && *d.DiscountAmount > 0
	hasCustom := strings.TrimSpace(d.CustomOfferDisplay) != ""
	if !hasPct && !hasAmt && !hasCustom {
		c.fail("Enter a discount percentage, a discount amount, or a custom offer")
	}
	if f["DiscountPercentage"] != "" {
		c.fail("Discount percentage must be greater than 0 and at most 100")
	}
	if f["DiscountAmount"] != "" {
		c.fail("Discount amount cannot be negative")
	}
}

func validateSchedule(c *checks, d *deal.DealDraft, now time.Time) {
	if d.StartTime == nil || d.EndTime == nil {
		c.fail("Start and end times are required")
		return
	}
	start, end := *d.StartTime, *d.EndTime
	if !start.Before(end) {
		c.fail("End time must be after start time")
	}
	if start.Before(now.Add(-startTimeGrace)) {
		c.fail("Start time cannot be in the past")
	}
	if end.After(now.AddDate(1, 0, 0)) {
		c.fail("End time must be within one year from now")
	}
}

func validateItems(c *checks, d *deal.DealDraft, f fieldFailures) {
	seen := make(map[string]bool, len(d.SelectedMenuItems))
	for i, item := range d.SelectedMenuItems {
		label := item.Name
		if label == "" {
			label = item.ID
		}
		if seen[item.ID] {
			c.fail("Menu item %s is selected more than once", label)
		}
		seen[item.ID] = true

		path := fmt.Sprintf("Items[%d].", i)
		if f[path+"CustomPrice"] != "" {
			c.fail("Custom price for %s cannot be negative", label)
		}
		if f[path+"CustomDiscount"] != "" {
			c.fail("Custom discount for %s must be between 0 and 100", label)
		}
		if f[path+"DiscountAmount"] != "" {
			c.fail("Discount amount for %s cannot be negative", label)
		}
	}
}

func validateRedeemNow(c *checks, d *deal.DealDraft) {
	if d.MinOrderAmount == nil || *d.MinOrderAmount <= 0 {
		c.fail("Minimum spend is required for Redeem Now deals")
	}
	if d.DiscountPercentage == nil {
		c.fail("Redeem Now deals require a discount percentage")
	}
	if d.StartTime != nil && d.EndTime != nil && d.EndTime.Sub(*d.StartTime) > redeemNowMaxDuration {
		c.warn("Redeem Now deals usually run for 24 hours or less")
	}
}

func validateRecurring(c *checks, d *deal.DealDraft) *int {
	if len(d.RecurringDays) == 0 {
		c.fail("Select at least one day for recurring deals")
	} else {
		var invalid []string
		for _, day := range d.RecurringDays {
			if !day.Valid() {
				invalid = append(invalid, string(day))
			}
		}
		if len(invalid) > 0 {
			c.fail("Invalid recurring days: %s", strings.Join(invalid, ", "))
		}
	}
	if !d.RecurringFrequency.Valid() {
		c.fail("Recurring frequency must be week, month, or year")
	}

	if d.StartTime == nil || d.EndTime == nil || !d.RecurringFrequency.Valid() {
		return nil
	}
	count := CountOccurrences(*d.StartTime, *d.EndTime, d.RecurringFrequency, d.RecurringDays)
	if count == 0 {
		c.warn("Recurring schedule has no occurrences in the selected date range")
	}
	return &count
}

func validateBounty(c *checks, d *deal.DealDraft) {
	if d.BountyRewardAmount == nil || *d.BountyRewardAmount <= 0 {
		c.fail("Bounty reward amount must be greater than 0")
	}
	if d.MinReferralsRequired == nil || *d.MinReferralsRequired < 1 {
		c.fail("Minimum referrals required must be at least 1")
	}
}

func validateAccessCode(c *checks, f fieldFailures) {
	if f["AccessCode"] != "" {
		c.fail("Access code must be at most %d characters", accessCodeMaxLength)
	}
	if f["AccessCodeCharset"] != "" {
		c.fail("Access code may only contain uppercase letters and numbers")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
