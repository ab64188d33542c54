package checkout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
)

// SubmitInput is what the customer fills in while collecting info.
// Courier delivery needs a courier, identity document, phone and address.
type SubmitInput struct {
	CustomerName     string `json:"customer_name" validate:"required,max=120"`
	Email            string `json:"email" validate:"omitempty,email,max=254"`
	PaymentMethod    string `json:"payment_method" validate:"required,payment_method"`
	DeliveryType     string `json:"delivery_type" validate:"required,oneof=pickup courier"`
	Courier          string `json:"courier" validate:"required_if=DeliveryType courier,omitempty,courier"`
	IdentityDocument string `json:"identity_document" validate:"required_if=DeliveryType courier,max=20"`
	Phone            string `json:"phone" validate:"required_if=DeliveryType courier,max=30"`
	Address          string `json:"address" validate:"required_if=DeliveryType courier,max=500"`
	Notes            string `json:"notes" validate:"max=1000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return enums.PaymentMethod(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("courier", func(fl validator.FieldLevel) bool {
		return enums.Courier(fl.Field().String()).IsValid()
	})
	return v
}

// Normalize trims every field and lowercases the enum-valued ones.
func (in SubmitInput) Normalize() SubmitInput {
	return SubmitInput{
		CustomerName:     strings.TrimSpace(in.CustomerName),
		Email:            strings.TrimSpace(in.Email),
		PaymentMethod:    strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
		DeliveryType:     strings.ToLower(strings.TrimSpace(in.DeliveryType)),
		Courier:          strings.ToLower(strings.TrimSpace(in.Courier)),
		IdentityDocument: strings.TrimSpace(in.IdentityDocument),
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		Notes:            strings.TrimSpace(in.Notes),
	}
}

// Validate checks every rule and reports all failing fields at once.
func Validate(in SubmitInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout details incomplete").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for courier delivery"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "payment_method":
		return "is not a supported payment method"
	case "courier":
		return "is not a supported courier"
	}
	return "is invalid"
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
