package pricing

import "github.com/angelmondragon/vitrina-backend/pkg/enums"

// PaymentPolicy classifies payment methods as discount-eligible (penalty waived) or not.
type PaymentPolicy struct {
	discount map[enums.PaymentMethod]struct{}
	// UnsetMethodDiscounted decides how a cart is priced before a method is picked.
	UnsetMethodDiscounted bool
}

// NewPaymentPolicy builds a policy from an explicit list of discount-eligible methods.
// Unknown methods are ignored.
func NewPaymentPolicy(methods []enums.PaymentMethod, unsetDiscounted bool) PaymentPolicy {
	set := make(map[enums.PaymentMethod]struct{}, len(methods))
	for _, method := range methods {
		if method.IsValid() {
			set[method] = struct{}{}
		}
	}
	return PaymentPolicy{discount: set, UnsetMethodDiscounted: unsetDiscounted}
}

// DefaultPaymentPolicy classifies methods by their built-in eligibility and
// prices carts with no method yet as discounted.
func DefaultPaymentPolicy() PaymentPolicy {
	var methods []enums.PaymentMethod
	for _, method := range enums.PaymentMethods() {
		if method.IsDiscountEligible() {
			methods = append(methods, method)
		}
	}
	return NewPaymentPolicy(methods, true)
}

// IsDiscounted reports whether the penalty is waived for method. A nil method
// means none selected yet.
func (p PaymentPolicy) IsDiscounted(method *enums.PaymentMethod) bool {
	if method == nil || *method == "" {
		return p.UnsetMethodDiscounted
	}
	_, ok := p.discount[*method]
	return ok
}

// DiscountMethods lists the eligible methods in catalog order.
func (p PaymentPolicy) DiscountMethods() []enums.PaymentMethod {
	out := make([]enums.PaymentMethod, 0, len(p.discount))
	for _, method := range enums.PaymentMethods() {
		if _, ok := p.discount[method]; ok {
			out = append(out, method)
		}
	}
	return out
}
