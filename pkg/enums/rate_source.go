package enums

// RateSource records where an active exchange rate came from.
type RateSource string

const (
	RateSourceStoreOverride RateSource = "store_override"
	RateSourceGlobal        RateSource = "global"
	RateSourceUnavailable   RateSource = "unavailable"
)

// String implements fmt.Stringer.
func (r RateSource) String() string {
	return string(r)
}
