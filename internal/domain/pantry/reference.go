package pantry

import (
	"strings"

	"github.com/google/uuid"
)

// FoodReference identifies the food behind a pantry item or recipe
// ingredient. It is either an ExistingFood or a NewFood.
type FoodReference interface {
	isFoodReference()
}

// ExistingFood references a food that must already exist.
type ExistingFood struct {
	ID uuid.UUID
}

// NewFoodRef asks for a food to be created alongside the referencing row.
type NewFoodRef struct {
	Name       string
	CategoryID *uuid.UUID
}

func (ExistingFood) isFoodReference() {}
func (NewFoodRef) isFoodReference()   {}

// ValidateReference checks the shape of a reference without touching storage.
func ValidateReference(ref FoodReference) error {
	switch r := ref.(type) {
	case ExistingFood:
		if r.ID == uuid.Nil {
			return ErrFoodIDRequired
		}
	case NewFoodRef:
		if strings.TrimSpace(r.Name) == "" {
			return ErrFoodNameRequired
		}
	case nil:
		return ErrFoodReferenceRequired
	default:
		return ErrFoodReferenceRequired
	}
	return nil
}
