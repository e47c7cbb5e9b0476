package pantry

import (
	"context"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/application/validation"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.uber.org/zap"
)

// Service implements the pantry use cases
type Service struct {
	users     outbound.UserRepository
	items     outbound.PantryRepository
	resolver  *FoodResolver
	tx        outbound.TransactionManager
	validator *validation.Validator
	logger    *zap.Logger
}

// NewService creates a pantry service
func NewService(
	users outbound.UserRepository,
	items outbound.PantryRepository,
	resolver *FoodResolver,
	tx outbound.TransactionManager,
	logger *zap.Logger,
) inbound.PantryService {
	return &Service{
		users:     users,
		items:     items,
		resolver:  resolver,
		tx:        tx,
		validator: validation.New(),
		logger:    logger.Named("pantry-service"),
	}
}

// AddItem stocks a food, creating the food first when it is new. Both
// rows commit together.
func (s *Service) AddItem(ctx context.Context, cmd inbound.AddPantryItemCommand) (*inbound.PantryItemDTO, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	var item *pantry.Item
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.users.Exists(ctx, cmd.UserID)
		if err != nil {
			return errors.NewDatabaseError("check user existence", err)
		}
		if !exists {
			return errors.NewUserNotFoundError(cmd.UserID.String())
		}

		food, err := s.resolver.Resolve(ctx, ReferenceFromInput(cmd.Food))
		if err != nil {
			return err
		}

		item, err = pantry.NewItem(cmd.UserID, *food, cmd.Quantity, cmd.Unit)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.items.Create(ctx, item); err != nil {
			return errors.NewDatabaseError("create pantry item", err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add pantry item")
	}

	s.logger.Info("Pantry item added",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("food_id", item.FoodID.String()),
	)
	return itemToDTO(*item), nil
}

// ListItems returns the user's pantry
func (s *Service) ListItems(ctx context.Context, userID uuid.UUID) ([]inbound.PantryItemDTO, error) {
	snapshot, err := s.items.GetPantryItems(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}

	dtos := make([]inbound.PantryItemDTO, 0, len(snapshot))
	for _, item := range snapshot {
		dtos = append(dtos, *itemToDTO(item))
	}
	return dtos, nil
}

func itemToDTO(item pantry.Item) *inbound.PantryItemDTO {
	return &inbound.PantryItemDTO{
		ID:       item.ID,
		FoodID:   item.FoodID,
		FoodName: item.Food.Name,
		Quantity: item.Quantity,
		Unit:     item.Unit,
	}
}
