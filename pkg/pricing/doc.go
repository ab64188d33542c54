// Package pricing derives every customer-facing money figure of the storefront.
//
// All functions are pure: the same inputs always yield the same outputs and
// nothing is cached between calls. Malformed or negative inputs are coerced to
// zero instead of producing errors, so a bad product row never breaks a
// catalog page. The rounded discount percentage is informational and never
// feeds back into a monetary total.
package pricing
