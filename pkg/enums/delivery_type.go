package enums

import "fmt"

// DeliveryType selects how an order reaches the customer.
type DeliveryType string

const (
	DeliveryTypePickup  DeliveryType = "pickup"
	DeliveryTypeCourier DeliveryType = "courier"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryTypePickup,
	DeliveryTypeCourier,
}

// String implements fmt.Stringer.
func (d DeliveryType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryType.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryType converts raw input into a DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	for _, candidate := range validDeliveryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery type %q", value)
}

// Courier names the national parcel services offered for courier delivery.
type Courier string

const (
	CourierMRW    Courier = "mrw"
	CourierZoom   Courier = "zoom"
	CourierTealca Courier = "tealca"
	CourierDomesa Courier = "domesa"
)

var validCouriers = []Courier{
	CourierMRW,
	CourierZoom,
	CourierTealca,
	CourierDomesa,
}

// String implements fmt.Stringer.
func (c Courier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Courier.
func (c Courier) IsValid() bool {
	for _, candidate := range validCouriers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourier converts raw input into a Courier.
func ParseCourier(value string) (Courier, error) {
	for _, candidate := range validCouriers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid courier %q", value)
}
