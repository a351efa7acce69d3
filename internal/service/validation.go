package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// ValidationError is returned when a request is rejected before it reaches the store
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidator returns a validator that knows the catalog payload rules:
// field names are reported by their JSON name, "notblank" rejects
// whitespace-only text and "amount" accepts non-negative decimals.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// An unset Amount validates as nil so that "required" rejects it.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		a, ok := field.Interface().(models.Amount)
		if !ok || !a.IsSet() {
			return nil
		}
		return a.Raw()
	}, models.Amount{})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil || d.IsNegative() {
			return false
		}
		// Must survive conversion to the stored float64.
		return !math.IsInf(d.InexactFloat64(), 0)
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validatePayload runs struct validation and converts failures into a ValidationError
func validatePayload(v *validator.Validate, payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "amount":
		return fe.Field() + " must be a non-negative number"
	default:
		return fe.Field() + " is invalid"
	}
}
