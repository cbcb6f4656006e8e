package deal

import (
	"strings"
)

// DefaultPublishErrorMessage is shown when a publish failure matches no known pattern.
const DefaultPublishErrorMessage = "Failed to create deal. Please review your deal and try again."

// publishErrorMessages maps fragments of server error text to the message
// shown to the merchant. Order matters: the first match wins.
var publishErrorMessages = []struct {
	needles []string
	message string
}{
	{[]string{"activeDateRange", "active_date_range", "start_time", "end_time"}, "Please set valid start and end dates for your deal."},
	{[]string{"menuItems", "menu_items", "menu item"}, "One or more selected menu items are no longer available. Please review your item selection."},
	{[]string{"accessCode", "access_code"}, "The access code is invalid or already in use. Please choose another code."},
	{[]string{"bountyRewardAmount", "bounty_reward_amount", "minReferralsRequired", "min_referrals_required"}, "Please set a bounty reward and the number of referrals required."},
	{[]string{"minOrderAmount", "min_order_amount"}, "Please set a minimum spend for Redeem Now deals."},
	{[]string{"discountPercentage", "discount_percentage", "discountAmount", "discount_amount"}, "Please enter a valid discount."},
	{[]string{"title"}, "Please enter a deal title between 3 and 100 characters."},
	{[]string{"unauthorized", "token"}, "Your session has expired. Please sign in again."},
	{[]string{"forbidden", "not active"}, "Your business account is not allowed to publish deals yet."},
}

// PublishErrorMessage maps raw publish error text to a user facing message.
func PublishErrorMessage(errText string) string {
	if errText == "" {
		return DefaultPublishErrorMessage
	}
	lower := strings.ToLower(errText)
	for _, m := range publishErrorMessages {
		for _, needle := range m.needles {
			if strings.Contains(lower, strings.ToLower(needle)) {
				return m.message
			}
		}
	}
	return DefaultPublishErrorMessage
}

// ValidationError is returned when a draft fails validation. It carries the
// full result so callers can render every message at once.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "deal validation failed"
	}
	return "deal validation failed: " + strings.Join(e.Result.Errors, "; ")
}
