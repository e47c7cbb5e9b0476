// Package recipe provides the application layer for the recipe catalog
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"

	pantryapp "github.com/larderly/planner/internal/application/pantry"
	"github.com/larderly/planner/internal/application/validation"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	userRepo   outbound.UserRepository
	resolver   *pantryapp.FoodResolver
	tx         outbound.TransactionManager
	validator  *validation.Validator
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	userRepo outbound.UserRepository,
	resolver *pantryapp.FoodResolver,
	tx outbound.TransactionManager,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		tx:         tx,
		validator:  validation.New(),
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe together with any foods its
// ingredients introduce
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.String("owner_id", cmd.OwnerID.String()),
	)

	var entity *recipe.Recipe
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.Exists(ctx, cmd.OwnerID)
		if err != nil {
			return errors.NewDatabaseError("check user existence", err)
		}
		if !exists {
			return errors.NewUserNotFoundError(cmd.OwnerID.String())
		}

		entity, err = recipe.NewRecipe(cmd.OwnerID, cmd.Title, cmd.Instructions, cmd.Source)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}

		ingredients, err := s.resolveIngredients(ctx, cmd.Ingredients)
		if err != nil {
			return err
		}
		if err := entity.ReplaceIngredients(ingredients); err != nil {
			return errors.NewValidationError(err.Error())
		}

		if err := s.recipeRepo.Create(ctx, entity); err != nil {
			return errors.NewDatabaseError("create recipe", err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create recipe")
	}

	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", entity.ID.String()),
		zap.Int("ingredients", len(entity.Ingredients)),
	)
	return toDTO(entity), nil
}

// ReplaceIngredients swaps the recipe's whole ingredient set. Nothing is
// written unless every ingredient resolves.
func (s *RecipeService) ReplaceIngredients(ctx context.Context, cmd inbound.ReplaceIngredientsCommand) (*inbound.RecipeDTO, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	var entity *recipe.Recipe
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entity, err = s.recipeRepo.GetRecipe(ctx, cmd.RecipeID, cmd.UserID)
		if err != nil {
			return errors.NewDatabaseError("find recipe", err)
		}
		if entity == nil {
			return errors.NewNotFoundError("Recipe").WithMetadata("recipe_id", cmd.RecipeID.String())
		}

		ingredients, err := s.resolveIngredients(ctx, cmd.Ingredients)
		if err != nil {
			return err
		}
		if err := entity.ReplaceIngredients(ingredients); err != nil {
			return errors.NewValidationError(err.Error())
		}

		if err := s.recipeRepo.ReplaceIngredients(ctx, entity.ID, entity.Ingredients); err != nil {
			return errors.NewDatabaseError("replace ingredients", err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to replace ingredients")
	}

	s.logger.Info("Recipe ingredients replaced",
		zap.String("recipe_id", entity.ID.String()),
		zap.Int("ingredients", len(entity.Ingredients)),
	)
	return toDTO(entity), nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, inputs []inbound.IngredientInput) ([]recipe.Ingredient, error) {
	ingredients := make([]recipe.Ingredient, 0, len(inputs))
	for _, in := range inputs {
		food, err := s.resolver.Resolve(ctx, pantryapp.ReferenceFromInput(in.Food))
		if err != nil {
			return nil, err
		}
		ing, err := recipe.NewIngredient(*food, in.Quantity, in.Unit)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

func toDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	dto := &inbound.RecipeDTO{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Title:        r.Title,
		Instructions: r.Instructions,
		Source:       r.Source,
		Ingredients:  make([]inbound.IngredientDTO, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		dto.Ingredients = append(dto.Ingredients, inbound.IngredientDTO{
			FoodID:   ing.FoodID,
			FoodName: ing.Food.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return dto
}
