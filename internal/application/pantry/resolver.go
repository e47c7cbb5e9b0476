// Package pantry implements pantry item use cases and the food resolution
// shared with recipe ingredient creation.
package pantry

import (
	"context"

	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.uber.org/zap"
)

// FoodResolver turns a FoodReference into a persisted Food. It must be
// called inside the transaction of the row that references the food.
type FoodResolver struct {
	foods  outbound.FoodRepository
	logger *zap.Logger
}

// NewFoodResolver creates a resolver
func NewFoodResolver(foods outbound.FoodRepository, logger *zap.Logger) *FoodResolver {
	return &FoodResolver{foods: foods, logger: logger.Named("food-resolver")}
}

// Resolve returns the referenced food, creating it for a NewFoodRef.
func (r *FoodResolver) Resolve(ctx context.Context, ref pantry.FoodReference) (*pantry.Food, error) {
	if err := pantry.ValidateReference(ref); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	switch ref := ref.(type) {
	case pantry.ExistingFood:
		food, err := r.foods.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, errors.NewDatabaseError("find food", err)
		}
		if food == nil {
			return nil, errors.NewValidationError("Food does not exist").
				WithMetadata("food_id", ref.ID.String())
		}
		return food, nil

	case pantry.NewFoodRef:
		if ref.CategoryID != nil {
			exists, err := r.foods.CategoryExists(ctx, *ref.CategoryID)
			if err != nil {
				return nil, errors.NewDatabaseError("find category", err)
			}
			if !exists {
				return nil, errors.NewValidationError("Category does not exist").
					WithMetadata("category_id", ref.CategoryID.String())
			}
		}

		food, err := pantry.NewFood(ref.Name, ref.CategoryID)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := r.foods.Create(ctx, food); err != nil {
			return nil, errors.NewDatabaseError("create food", err)
		}
		r.logger.Debug("Created food", zap.String("food_id", food.ID.String()), zap.String("name", food.Name))
		return food, nil
	}

	return nil, errors.NewValidationError(pantry.ErrFoodReferenceRequired.Error())
}

// ReferenceFromInput converts the boundary representation into a
// FoodReference.
func ReferenceFromInput(in inbound.FoodInput) pantry.FoodReference {
	if in.FoodID != nil {
		return pantry.ExistingFood{ID: *in.FoodID}
	}
	if in.NewFoodName != "" {
		return pantry.NewFoodRef{Name: in.NewFoodName, CategoryID: in.CategoryID}
	}
	return nil
}
