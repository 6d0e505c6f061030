// Package validation wraps go-playground/validator with the field rules
// used by the gateway forms, and renders failures as per-field messages
// before any backend request is issued.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Vietnamese phone numbers: (+84|84|0) followed by 3/5/7/8/9 and 8 digits.
	phonePattern = regexp.MustCompile(`^(\+84|84|0)(3|5|7|8|9)\d{8}$`)
	// Seat codes: one or two row letters followed by the seat number.
	seatCodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)
)

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom rules registered.  Field names in
// errors use the json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("seatcode", func(fl validator.FieldLevel) bool {
		return seatCodePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate checks i against its validate tags.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// FieldErrors maps a validation failure to json-field -> message.  It
// returns nil when err is not a validation failure.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out[field] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must match " + fe.Param()
	case "vnphone":
		return "must be a Vietnamese phone number"
	case "seatcode":
		return "must be a seat code like A1"
	}
	return "is invalid (" + fe.Tag() + ")"
}
