// Package validation checks command shapes before any use case runs.
package validation

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/pkg/errors"
)

// Validator validates inbound commands
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the planner's struct rules registered
func New() *Validator {
	validate := validator.New()
	validate.RegisterStructValidation(validateFoodInput, inbound.FoodInput{})

	return &Validator{validate: validate}
}

// Struct validates s and returns a VALIDATION_FAILED AppError on failure
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   e.Namespace(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: message(e),
		})
	}
	return errors.NewValidationErrors(out)
}

func message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "food_reference":
		return fmt.Sprintf("%s must name exactly one of an existing food id or a new food name", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validateFoodInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(inbound.FoodInput)
	hasID := in.FoodID != nil
	hasName := in.NewFoodName != ""
	if hasID == hasName {
		sl.ReportError(in.FoodID, "FoodID", "FoodID", "food_reference", "")
	}
}
