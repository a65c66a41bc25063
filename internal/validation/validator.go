// Package validation adapts go-playground/validator to echo and to the
// service error taxonomy.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/model"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that reports fields by their json names and
// knows the "role" and "booking_status" tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRole(fl.Field().String())
		return ok
	})
	mustRegister(v, "booking_status", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseBookingStatus(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate checks i and returns an apperr VALIDATION error listing each
// failing field.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("Invalid request", nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return apperr.Validation("Invalid request", fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	case "role":
		return "Must be one of: owner, renter"
	case "booking_status":
		return "Must be one of: pending, approved, canceled"
	}
	return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
}
