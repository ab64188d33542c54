package enums

import "fmt"

// CheckoutState tracks where a cart sits in the checkout flow.
type CheckoutState string

const (
	CheckoutStateBuilding       CheckoutState = "building"
	CheckoutStateCollectingInfo CheckoutState = "collecting_info"
	CheckoutStateSubmitted      CheckoutState = "submitted"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateBuilding,
	CheckoutStateCollectingInfo,
	CheckoutStateSubmitted,
}

// Submitted is terminal; cancelling info collection returns to building.
var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateBuilding:       {CheckoutStateCollectingInfo},
	CheckoutStateCollectingInfo: {CheckoutStateBuilding, CheckoutStateSubmitted},
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is reachable from c in one step.
func (c CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, candidate := range checkoutTransitions[c] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
