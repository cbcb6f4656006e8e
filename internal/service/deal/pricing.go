package deal

import (
	"fmt"
	"math"
	"strconv"

	"dealdesk-service/internal/domain/deal"
)

// ResolveFinalPrice derives the price an item sells for under a deal.
// Item overrides take precedence over the global discount, in the order
// custom price, custom discount, item amount off, global percentage,
// global amount off. The precedence is applied even when several
// overrides are set at once.
func ResolveFinalPrice(item deal.SelectedMenuItem, globalPct, globalAmt *float64) deal.PriceResolution {
	switch {
	case item.CustomPrice != nil:
		return resolution(*item.CustomPrice, "Fixed: "+FormatMoney(*item.CustomPrice), true)
	case item.CustomDiscount != nil:
		return resolution(item.Price*(1-*item.CustomDiscount/100), formatPercent(*item.CustomDiscount)+" off", true)
	case item.DiscountAmount != nil:
		return resolution(amountOff(item.Price, *item.DiscountAmount), FormatMoney(*item.DiscountAmount)+" off", true)
	case globalPct != nil:
		return resolution(item.Price*(1-*globalPct/100), formatPercent(*globalPct)+" off (global)", false)
	case globalAmt != nil:
		return resolution(amountOff(item.Price, *globalAmt), FormatMoney(*globalAmt)+" off (global)", false)
	}
	return deal.PriceResolution{FinalPrice: item.Price}
}

// ComputeTotals sums base and resolved prices over items.
func ComputeTotals(items []deal.SelectedMenuItem, globalPct, globalAmt *float64) deal.Totals {
	var t deal.Totals
	for _, item := range items {
		t.OriginalTotal += item.Price
		t.FinalTotal += ResolveFinalPrice(item, globalPct, globalAmt).FinalPrice
	}
	t.Savings = t.OriginalTotal - t.FinalTotal
	t.ShowSavings = RoundMoney(t.Savings) > 0
	return t
}

// PreviewPricing resolves every item and the aggregate totals.
func PreviewPricing(items []deal.SelectedMenuItem, globalPct, globalAmt *float64) deal.PricingPreviewResponse {
	out := deal.PricingPreviewResponse{Items: make([]deal.ItemPricing, 0, len(items))}
	for _, item := range items {
		r := ResolveFinalPrice(item, globalPct, globalAmt)
		out.Items = append(out.Items, deal.ItemPricing{
			ID:                  item.ID,
			Name:                item.Name,
			IsHidden:            item.IsHidden,
			Price:               item.Price,
			FinalPrice:          r.FinalPrice,
			DisplayPrice:        FormatMoney(r.FinalPrice),
			DiscountDescription: r.DiscountDescription,
			IsCustom:            r.IsCustom,
		})
	}
	out.Totals = ComputeTotals(items, globalPct, globalAmt)
	return out
}

// RoundMoney rounds to cents for display. Stored values keep full precision.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatMoney renders amount as dollars with two decimals.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", RoundMoney(amount))
}

func formatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

func amountOff(price, amount float64) float64 {
	return math.Max(0, price-amount)
}

func resolution(final float64, description string, custom bool) deal.PriceResolution {
	return deal.PriceResolution{
		FinalPrice:          final,
		DiscountDescription: &description,
		IsCustom:            custom,
	}
}
