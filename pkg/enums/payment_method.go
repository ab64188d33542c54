package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a customer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodPagoMovil    PaymentMethod = "pago_movil"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPointOfSale  PaymentMethod = "point_of_sale"
	PaymentMethodZelle        PaymentMethod = "zelle"
	PaymentMethodBinance      PaymentMethod = "binance"
	PaymentMethodZinli        PaymentMethod = "zinli"
	PaymentMethodCash         PaymentMethod = "cash"
)

type paymentMethodInfo struct {
	label            string
	discountEligible bool
}

var paymentMethodCatalog = map[PaymentMethod]paymentMethodInfo{
	PaymentMethodPagoMovil:    {label: "Pago Móvil", discountEligible: false},
	PaymentMethodBankTransfer: {label: "Transferencia bancaria", discountEligible: false},
	PaymentMethodPointOfSale:  {label: "Punto de venta", discountEligible: false},
	PaymentMethodZelle:        {label: "Zelle", discountEligible: true},
	PaymentMethodBinance:      {label: "Binance", discountEligible: true},
	PaymentMethodZinli:        {label: "Zinli", discountEligible: true},
	PaymentMethodCash:         {label: "Efectivo", discountEligible: true},
}

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPagoMovil,
	PaymentMethodBankTransfer,
	PaymentMethodPointOfSale,
	PaymentMethodZelle,
	PaymentMethodBinance,
	PaymentMethodZinli,
	PaymentMethodCash,
}

// PaymentMethods returns every known method in display order.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), validPaymentMethods...)
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// Label is the customer-facing name.
func (p PaymentMethod) Label() string {
	if info, ok := paymentMethodCatalog[p]; ok {
		return info.label
	}
	return string(p)
}

// IsDiscountEligible reports whether the method waives the penalty by default.
// Dollar-denominated transfer services and cash are eligible; bolívar rails are not.
func (p PaymentMethod) IsDiscountEligible() bool {
	return paymentMethodCatalog[p].discountEligible
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodCatalog[p]
	return ok
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentMethods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
