package pricing

import (
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Line is the pricing view of one cart row.
type Line struct {
	BasePrice decimal.Decimal
	Penalty   decimal.Decimal
	Quantity  int
}

// CartTotals is the payable summary of a cart for one payment classification.
type CartTotals struct {
	BaseUSD        decimal.Decimal `json:"base_usd"`
	PenaltyUSD     decimal.Decimal `json:"penalty_usd"`
	FinalUSD       decimal.Decimal `json:"final_usd"`
	FinalBs        decimal.Decimal `json:"final_bs"`
	Discounted     bool            `json:"discounted"`
	MethodSelected bool            `json:"method_selected"`
	ItemCount      int             `json:"item_count"`
	Rate           ActiveRate      `json:"rate"`
}

// RateAvailable mirrors Rate.Available for callers that only hold the totals.
func (t CartTotals) RateAvailable() bool {
	return t.Rate.Available
}

// Totals folds lines into base and penalty sums and picks the payable amount.
// The classification applies once to the whole cart. Quantities below one count as one.
func Totals(lines []Line, discounted bool, rate ActiveRate) CartTotals {
	base := decimal.Zero
	penalty := decimal.Zero
	count := 0
	for _, line := range lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		q := decimal.NewFromInt(int64(qty))
		base = base.Add(Coerce(line.BasePrice).Mul(q))
		penalty = penalty.Add(Coerce(line.Penalty).Mul(q))
		count += qty
	}

	final := base
	if !discounted {
		final = base.Add(penalty)
	}

	totals := CartTotals{
		BaseUSD:    base,
		PenaltyUSD: penalty,
		FinalUSD:   final,
		FinalBs:    decimal.Zero,
		Discounted: discounted,
		ItemCount:  count,
		Rate:       rate,
	}
	if rate.Available && rate.Value.IsPositive() {
		totals.FinalBs = final.Mul(rate.Value)
	} else {
		totals.Rate.Available = false
	}
	return totals
}

// CheckoutTotals classifies method with policy and computes the cart totals.
func CheckoutTotals(lines []Line, method *enums.PaymentMethod, policy PaymentPolicy, rate ActiveRate) CartTotals {
	totals := Totals(lines, policy.IsDiscounted(method), rate)
	totals.MethodSelected = method != nil && *method != ""
	return totals
}
