package pricing

import (
	"testing"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func methodPtr(m enums.PaymentMethod) *enums.PaymentMethod {
	return &m
}

func activeRate(t *testing.T, value string) ActiveRate {
	return ActiveRate{Currency: enums.CurrencyUSD, Value: dec(t, value), Source: enums.RateSourceGlobal, Available: true}
}

func TestTotalsNonDollarMethodAddsPenalties(t *testing.T) {
	lines := []Line{
		{BasePrice: dec(t, "10"), Penalty: dec(t, "0"), Quantity: 2},
		{BasePrice: dec(t, "20"), Penalty: dec(t, "5"), Quantity: 1},
	}
	policy := DefaultPaymentPolicy()

	totals := CheckoutTotals(lines, methodPtr(enums.PaymentMethodPagoMovil), policy, activeRate(t, "10"))

	assert.True(t, totals.BaseUSD.Equal(dec(t, "40")))
	assert.True(t, totals.PenaltyUSD.Equal(dec(t, "5")))
	assert.True(t, totals.FinalUSD.Equal(dec(t, "45.00")), "final %s", totals.FinalUSD)
	assert.True(t, totals.FinalBs.Equal(dec(t, "450")))
	assert.False(t, totals.Discounted)
	assert.True(t, totals.MethodSelected)
	assert.Equal(t, 3, totals.ItemCount)
}

func TestTotalsReferenceScenario(t *testing.T) {
	lines := []Line{{BasePrice: dec(t, "45.00"), Penalty: dec(t, "2.00"), Quantity: 1}}
	policy := DefaultPaymentPolicy()
	rate := activeRate(t, "60.25")

	dollar := CheckoutTotals(lines, methodPtr(enums.PaymentMethodZelle), policy, rate)
	assert.True(t, dollar.FinalUSD.Equal(dec(t, "45")))
	assert.True(t, dollar.FinalBs.Equal(dec(t, "2711.25")))
	assert.True(t, dollar.Discounted)

	local := CheckoutTotals(lines, methodPtr(enums.PaymentMethodBankTransfer), policy, rate)
	assert.True(t, local.FinalUSD.Equal(dec(t, "47")))
	assert.True(t, local.FinalBs.Equal(dec(t, "2831.75")))
}

func TestTotalsUnsetMethodFollowsPolicy(t *testing.T) {
	lines := []Line{{BasePrice: dec(t, "45"), Penalty: dec(t, "2"), Quantity: 1}}
	rate := activeRate(t, "1")

	optimistic := CheckoutTotals(lines, nil, DefaultPaymentPolicy(), rate)
	assert.True(t, optimistic.Discounted)
	assert.False(t, optimistic.MethodSelected)
	assert.True(t, optimistic.FinalUSD.Equal(dec(t, "45")))

	conservative := NewPaymentPolicy([]enums.PaymentMethod{enums.PaymentMethodZelle}, false)
	empty := enums.PaymentMethod("")
	totals := CheckoutTotals(lines, &empty, conservative, rate)
	assert.False(t, totals.Discounted)
	assert.True(t, totals.FinalUSD.Equal(dec(t, "47")))
}

func TestTotalsWithoutRate(t *testing.T) {
	lines := []Line{{BasePrice: dec(t, "5"), Penalty: dec(t, "1"), Quantity: 3}}

	totals := Totals(lines, true, Unavailable(enums.CurrencyEUR))
	assert.True(t, totals.FinalUSD.Equal(dec(t, "15")))
	assert.True(t, totals.FinalBs.IsZero())
	assert.False(t, totals.RateAvailable())
	assert.Equal(t, enums.RateSourceUnavailable, totals.Rate.Source)
}

func TestTotalsClampsQuantityAndCoercesPrices(t *testing.T) {
	lines := []Line{
		{BasePrice: dec(t, "4"), Penalty: dec(t, "-3"), Quantity: 0},
		{BasePrice: dec(t, "-9"), Penalty: dec(t, "1"), Quantity: -2},
	}
	totals := Totals(lines, false, activeRate(t, "2"))
	assert.True(t, totals.BaseUSD.Equal(dec(t, "4")))
	assert.True(t, totals.PenaltyUSD.Equal(dec(t, "1")))
	assert.True(t, totals.FinalUSD.Equal(dec(t, "5")))
	assert.Equal(t, 2, totals.ItemCount)
}

func TestPaymentPolicyCustomClassification(t *testing.T) {
	policy := NewPaymentPolicy([]enums.PaymentMethod{enums.PaymentMethodPagoMovil, "paypal"}, true)

	assert.True(t, policy.IsDiscounted(methodPtr(enums.PaymentMethodPagoMovil)))
	assert.False(t, policy.IsDiscounted(methodPtr(enums.PaymentMethodZelle)))
	assert.Equal(t, []enums.PaymentMethod{enums.PaymentMethodPagoMovil}, policy.DiscountMethods())

	var zero PaymentPolicy
	assert.False(t, zero.IsDiscounted(methodPtr(enums.PaymentMethodCash)))
	assert.False(t, zero.IsDiscounted(nil))
}
