package deal

import (
	"strings"
	"testing"
	"time"

	"dealdesk-service/internal/domain/deal"
)

var testNow = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

func ip(v int) *int { return &v }

func validDraft(dealType deal.DealType) *deal.DealDraft {
	start := testNow.Add(time.Hour)
	end := testNow.Add(7 * 24 * time.Hour)
	return &deal.DealDraft{
		ID:                 "draft-1",
		MerchantID:         1,
		Title:              "Lunch special",
		Description:        "Half price burgers every lunch",
		DealType:           dealType,
		DiscountPercentage: f(20),
		StartTime:          &start,
		EndTime:            &end,
		SelectedMenuItems: []deal.SelectedMenuItem{
			{ID: "a", Name: "Burger", Price: 10},
		},
	}
}

func hasMessage(list []string, fragment string) bool {
	for _, m := range list {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}

func TestValidateDealDraft(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *deal.DealDraft)
		dealType deal.DealType
		valid    bool
		errPart  string
		warnPart string
	}{
		{
			name:     "standard deal",
			dealType: deal.DealTypeStandard,
			valid:    true,
		},
		{
			name:     "bounty deal",
			dealType: deal.DealTypeBounty,
			mutate: func(d *deal.DealDraft) {
				d.BountyRewardAmount = f(5)
				d.MinReferralsRequired = ip(2)
			},
			valid: true,
		},
		{
			name:     "bounty without reward",
			dealType: deal.DealTypeBounty,
			mutate: func(d *deal.DealDraft) {
				d.MinReferralsRequired = ip(2)
			},
			errPart: "Bounty reward amount",
		},
		{
			name:     "bounty needs one referral",
			dealType: deal.DealTypeBounty,
			mutate: func(d *deal.DealDraft) {
				d.BountyRewardAmount = f(5)
				d.MinReferralsRequired = ip(0)
			},
			errPart: "Minimum referrals",
		},
		{
			name:     "redeem now without minimum spend",
			dealType: deal.DealTypeRedeemNow,
			errPart:  "Minimum spend",
		},
		{
			name:     "redeem now without percentage",
			dealType: deal.DealTypeRedeemNow,
			mutate: func(d *deal.DealDraft) {
				d.MinOrderAmount = f(25)
				d.DiscountPercentage = nil
				d.DiscountAmount = f(5)
			},
			errPart: "require a discount percentage",
		},
		{
			name:     "redeem now longer than a day warns",
			dealType: deal.DealTypeRedeemNow,
			mutate: func(d *deal.DealDraft) {
				d.MinOrderAmount = f(25)
			},
			valid:    true,
			warnPart: "24 hours",
		},
		{
			name:     "recurring without days",
			dealType: deal.DealTypeRecurring,
			mutate: func(d *deal.DealDraft) {
				d.RecurringFrequency = deal.FrequencyWeek
			},
			errPart: "at least one day",
		},
		{
			name:     "recurring with invalid day",
			dealType: deal.DealTypeRecurring,
			mutate: func(d *deal.DealDraft) {
				d.RecurringFrequency = deal.FrequencyWeek
				d.RecurringDays = []deal.Weekday{"FUNDAY"}
			},
			errPart: "FUNDAY",
		},
		{
			name:     "recurring without frequency",
			dealType: deal.DealTypeRecurring,
			mutate: func(d *deal.DealDraft) {
				d.RecurringDays = []deal.Weekday{deal.Monday}
			},
			errPart: "frequency",
		},
		{
			name:     "recurring with no occurrences warns",
			dealType: deal.DealTypeRecurring,
			mutate: func(d *deal.DealDraft) {
				d.RecurringDays = []deal.Weekday{deal.Tuesday}
				d.RecurringFrequency = deal.FrequencyMonth
			},
			valid:    true,
			warnPart: "no occurrences",
		},
		{
			name:     "hidden with lowercase code",
			dealType: deal.DealTypeHidden,
			mutate: func(d *deal.DealDraft) {
				d.AccessCode = "vip-1"
			},
			errPart: "uppercase letters and numbers",
		},
		{
			name:     "hidden with long code",
			dealType: deal.DealTypeHidden,
			mutate: func(d *deal.DealDraft) {
				d.AccessCode = strings.Repeat("A", 21)
			},
			errPart: "at most 20",
		},
		{
			name:     "missing title",
			dealType: deal.DealTypeStandard,
			mutate:   func(d *deal.DealDraft) { d.Title = "  " },
			errPart:  "Title is required",
		},
		{
			name:     "short title",
			dealType: deal.DealTypeStandard,
			mutate:   func(d *deal.DealDraft) { d.Title = "ab" },
			errPart:  "between 3 and 100",
		},
		{
			name:     "happy hour requires description",
			dealType: deal.DealTypeHappyHour,
			mutate:   func(d *deal.DealDraft) { d.Description = "" },
			errPart:  "Description is required",
		},
		{
			name:     "bounty description too short",
			dealType: deal.DealTypeBounty,
			mutate: func(d *deal.DealDraft) {
				d.Description = "short"
				d.BountyRewardAmount = f(5)
				d.MinReferralsRequired = ip(1)
			},
			errPart: "Description must be between",
		},
		{
			name:     "no discount at all",
			dealType: deal.DealTypeStandard,
			mutate:   func(d *deal.DealDraft) { d.DiscountPercentage = nil },
			errPart:  "Enter a discount",
		},
		{
			name:     "custom offer counts as a discount",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				d.DiscountPercentage = nil
				d.CustomOfferDisplay = "Free drink with any main"
			},
			valid: true,
		},
		{
			name:     "percentage above 100",
			dealType: deal.DealTypeStandard,
			mutate:   func(d *deal.DealDraft) { d.DiscountPercentage = f(120) },
			errPart:  "at most 100",
		},
		{
			name:     "missing schedule",
			dealType: deal.DealTypeStandard,
			mutate:   func(d *deal.DealDraft) { d.EndTime = nil },
			errPart:  "Start and end times are required",
		},
		{
			name:     "end before start",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				end := d.StartTime.Add(-time.Minute)
				d.EndTime = &end
			},
			errPart: "End time must be after start time",
		},
		{
			name:     "start in the past",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				start := testNow.Add(-time.Hour)
				d.StartTime = &start
			},
			errPart: "in the past",
		},
		{
			name:     "start just now is accepted",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				start := testNow.Add(-30 * time.Second)
				d.StartTime = &start
			},
			valid: true,
		},
		{
			name:     "end more than a year out",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				end := testNow.AddDate(1, 0, 1)
				d.EndTime = &end
			},
			errPart: "within one year",
		},
		{
			name:     "duplicate item",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				d.SelectedMenuItems = append(d.SelectedMenuItems, d.SelectedMenuItems[0])
			},
			errPart: "more than once",
		},
		{
			name:     "item discount out of range",
			dealType: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				d.SelectedMenuItems[0].CustomDiscount = f(150)
			},
			errPart: "Custom discount for Burger",
		},
		{
			name:     "max redemptions below one",
			dealType: deal.DealTypeStandard,
			mutate:   func(d *deal.DealDraft) { d.MaxRedemptions = ip(0) },
			errPart:  "Maximum redemptions",
		},
		{
			name:     "unknown deal type",
			dealType: deal.DealType("FLASH"),
			errPart:  "Deal type must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(tt.dealType)
			if tt.mutate != nil {
				tt.mutate(d)
			}

			got := ValidateDealDraft(d, testNow)

			if got.IsValid != tt.valid {
				t.Fatalf("IsValid = %v, want %v (errors: %v)", got.IsValid, tt.valid, got.Errors)
			}
			if tt.valid && len(got.Errors) != 0 {
				t.Errorf("Errors = %v, want none", got.Errors)
			}
			if tt.errPart != "" && !hasMessage(got.Errors, tt.errPart) {
				t.Errorf("Errors = %v, want one containing %q", got.Errors, tt.errPart)
			}
			if tt.warnPart != "" && !hasMessage(got.Warnings, tt.warnPart) {
				t.Errorf("Warnings = %v, want one containing %q", got.Warnings, tt.warnPart)
			}
		})
	}
}

func TestValidateDealDraftFieldBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *deal.DealDraft)
		dealTyp deal.DealType
		want    []string
	}{
		{
			name:    "title over the limit",
			dealTyp: deal.DealTypeStandard,
			mutate:  func(d *deal.DealDraft) { d.Title = strings.Repeat("x", 101) },
			want:    []string{"Title must be between 3 and 100 characters"},
		},
		{
			name:    "title length counts runes",
			dealTyp: deal.DealTypeStandard,
			mutate:  func(d *deal.DealDraft) { d.Title = "日本語" },
		},
		{
			name:    "zero percentage",
			dealTyp: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				d.DiscountPercentage = f(0)
				d.DiscountAmount = f(2)
			},
			want: []string{"Discount percentage must be greater than 0 and at most 100"},
		},
		{
			name:    "negative amount",
			dealTyp: deal.DealTypeStandard,
			mutate:  func(d *deal.DealDraft) { d.DiscountAmount = f(-1) },
			want:    []string{"Discount amount cannot be negative"},
		},
		{
			name:    "item overrides keep item order",
			dealTyp: deal.DealTypeStandard,
			mutate: func(d *deal.DealDraft) {
				d.SelectedMenuItems = []deal.SelectedMenuItem{
					{ID: "a", Name: "Burger", Price: 10, CustomPrice: f(-1)},
					{ID: "b", Name: "Fries", Price: 4, DiscountAmount: f(-2)},
				}
			},
			want: []string{
				"Custom price for Burger cannot be negative",
				"Discount amount for Fries cannot be negative",
			},
		},
		{
			name:    "access code too long and lowercase",
			dealTyp: deal.DealTypeHidden,
			mutate:  func(d *deal.DealDraft) { d.AccessCode = strings.Repeat("a", 21) },
			want: []string{
				"Access code must be at most 20 characters",
				"Access code may only contain uppercase letters and numbers",
			},
		},
		{
			name:    "access code only checked for hidden deals",
			dealTyp: deal.DealTypeStandard,
			mutate:  func(d *deal.DealDraft) { d.AccessCode = "not valid!" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(tt.dealTyp)
			tt.mutate(d)

			got := ValidateDealDraft(d, testNow)

			if len(got.Errors) != len(tt.want) {
				t.Fatalf("Errors = %v, want %v", got.Errors, tt.want)
			}
			for i := range tt.want {
				if got.Errors[i] != tt.want[i] {
					t.Errorf("Errors[%d] = %q, want %q", i, got.Errors[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateDealDraftReportsEveryFailure(t *testing.T) {
	d := &deal.DealDraft{DealType: deal.DealTypeRedeemNow}

	got := ValidateDealDraft(d, testNow)

	if got.IsValid {
		t.Fatal("IsValid = true, want false")
	}
	for _, part := range []string{"Title is required", "Enter a discount", "Start and end times", "Minimum spend"} {
		if !hasMessage(got.Errors, part) {
			t.Errorf("Errors = %v, want one containing %q", got.Errors, part)
		}
	}
	if got.Warnings == nil {
		t.Error("Warnings = nil, want empty slice")
	}
}

func TestValidateDealDraftRecurringOccurrences(t *testing.T) {
	d := validDraft(deal.DealTypeRecurring)
	start := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.April, 30, 17, 0, 0, 0, time.UTC)
	d.StartTime, d.EndTime = &start, &end
	d.RecurringDays = []deal.Weekday{deal.Monday}
	d.RecurringFrequency = deal.FrequencyWeek

	got := ValidateDealDraft(d, testNow)

	if !got.IsValid {
		t.Fatalf("errors = %v", got.Errors)
	}
	if got.Occurrences == nil || *got.Occurrences != 5 {
		t.Fatalf("Occurrences = %v, want 5", got.Occurrences)
	}
}
