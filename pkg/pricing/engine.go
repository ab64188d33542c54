package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Input holds the stored price fields of a product or variant and the active rate.
type Input struct {
	CashPrice decimal.Decimal
	Penalty   decimal.Decimal
	Rate      decimal.Decimal
}

// Quote is the display breakdown for one product or variant.
type Quote struct {
	CashPrice        decimal.Decimal `json:"cash_price"`
	Penalty          decimal.Decimal `json:"penalty"`
	ListPrice        decimal.Decimal `json:"list_price"`
	DiscountPercent  int             `json:"discount_percent"`
	PriceInLocal     decimal.Decimal `json:"price_in_local"`
	CashPriceInLocal decimal.Decimal `json:"cash_price_in_local"`
	HasDiscount      bool            `json:"has_discount"`
	RateAvailable    bool            `json:"rate_available"`
}

// Compute derives the list price, discount percentage and local-currency figures.
//
// The discount is expressed against the list price (cash + penalty), so it
// stays within [0, 100]. When the rate is not positive the local amounts are
// zero and RateAvailable is false.
func Compute(in Input) Quote {
	cash := Coerce(in.CashPrice)
	penalty := Coerce(in.Penalty)
	rate := Coerce(in.Rate)
	list := cash.Add(penalty)

	quote := Quote{
		CashPrice:        cash,
		Penalty:          penalty,
		ListPrice:        list,
		PriceInLocal:     decimal.Zero,
		CashPriceInLocal: decimal.Zero,
		HasDiscount:      penalty.IsPositive(),
	}
	quote.DiscountPercent = DiscountPercent(penalty, list)

	if rate.IsPositive() {
		quote.RateAvailable = true
		quote.PriceInLocal = list.Mul(rate)
		quote.CashPriceInLocal = cash.Mul(rate)
	}
	return quote
}

// ComputeWithRate is Compute fed from a resolved ActiveRate.
func ComputeWithRate(cashPrice, penalty decimal.Decimal, rate ActiveRate) Quote {
	return Compute(Input{CashPrice: cashPrice, Penalty: penalty, Rate: rate.Value})
}

// DiscountPercent returns round-half-up(penalty / list * 100), or 0 when list is not positive.
func DiscountPercent(penalty, list decimal.Decimal) int {
	penalty = Coerce(penalty)
	if !list.IsPositive() {
		return 0
	}
	// multiply first so exact halves (12.5, 14.5) are not lost to division precision
	pct := penalty.Mul(hundred).Div(list).Round(0)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return int(pct.IntPart())
}
