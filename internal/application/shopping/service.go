// Package shopping derives shopping lists from meal plans.
package shopping

import (
	"context"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/application/events"
	"github.com/larderly/planner/internal/domain/shared"
	"github.com/larderly/planner/internal/domain/shopping"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	modeAppend  = "append"
	modeRestart = "restart"
)

// ShoppingListService implements the shopping list use cases
type ShoppingListService struct {
	plans   outbound.MealPlanRepository
	pantry  outbound.PantryReader
	items   outbound.ShoppingListRepository
	tx      outbound.TransactionManager
	events  *events.Publisher
	metrics outbound.PlanningMetrics
	tracer  trace.Tracer
	logger  *zap.Logger
}

// NewShoppingListService creates a new shopping list service
func NewShoppingListService(
	plans outbound.MealPlanRepository,
	pantryReader outbound.PantryReader,
	items outbound.ShoppingListRepository,
	tx outbound.TransactionManager,
	publisher *events.Publisher,
	metrics outbound.PlanningMetrics,
	logger *zap.Logger,
) inbound.ShoppingListService {
	return &ShoppingListService{
		plans:   plans,
		pantry:  pantryReader,
		items:   items,
		tx:      tx,
		events:  publisher,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/larderly/planner/internal/application/shopping"),
		logger:  logger.Named("shopping-list-service"),
	}
}

// GenerateShoppingList adds the foods the plan's meals need and the pantry
// lacks. Append mode skips foods already listed; restart mode clears the
// user's whole list first.
func (s *ShoppingListService) GenerateShoppingList(ctx context.Context, cmd inbound.GenerateShoppingListCommand) error {
	ctx, span := s.tracer.Start(ctx, "ShoppingListService.GenerateShoppingList",
		trace.WithAttributes(
			attribute.String("plan.id", cmd.PlanID.String()),
			attribute.Bool("shopping.restart", cmd.Restart),
		))
	defer span.End()

	if cmd.PlanID == uuid.Nil || cmd.UserID == uuid.Nil {
		return errors.NewBadRequestError("Plan id and user id are required")
	}

	mode := modeAppend
	if cmd.Restart {
		mode = modeRestart
	}
	s.logger.Info("Generating shopping list",
		zap.String("plan_id", cmd.PlanID.String()),
		zap.String("user_id", cmd.UserID.String()),
		zap.String("mode", mode),
	)

	var inserted int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		plan, err := s.plans.FindWithRecipes(ctx, cmd.PlanID)
		if err != nil {
			return errors.NewDatabaseError("find meal plan", err)
		}
		if plan == nil || !plan.IsOwnedBy(cmd.UserID) {
			return errors.NewValidationError("Meal plan does not exist or is not owned by the user").
				WithMetadata("meal_plan_id", cmd.PlanID.String())
		}

		snapshot, err := s.pantry.GetPantryItems(ctx, cmd.UserID)
		if err != nil {
			return errors.NewDatabaseError("load pantry", err)
		}
		stocked := snapshot.StockedFoodIDs()

		needed := shopping.NewNeededFoods()
		for _, entry := range plan.Entries() {
			if entry.Recipe == nil {
				continue
			}
			needed.AddMissing(*entry.Recipe, stocked)
		}

		present := map[uuid.UUID]struct{}{}
		if cmd.Restart {
			if _, err := s.items.DeleteByUser(ctx, cmd.UserID); err != nil {
				return errors.NewDatabaseError("clear shopping list", err)
			}
		} else {
			present, err = s.items.FoodIDsByUser(ctx, cmd.UserID)
			if err != nil {
				return errors.NewDatabaseError("load shopping list", err)
			}
		}

		foods := needed.Without(present)
		if len(foods) == 0 {
			return nil
		}

		items := make([]shopping.Item, 0, len(foods))
		for _, food := range foods {
			items = append(items, shopping.NewFoodItem(cmd.UserID, food))
		}
		if err := s.items.CreateBatch(ctx, items); err != nil {
			return errors.NewDatabaseError("create shopping list items", err)
		}
		inserted = len(items)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to generate shopping list")
	}

	if s.metrics != nil {
		s.metrics.RecordShoppingList(mode, inserted)
	}
	s.events.Publish(ctx, []shared.DomainEvent{
		shopping.NewListGeneratedEvent(cmd.PlanID, cmd.UserID, cmd.Restart, inserted),
	})

	s.logger.Info("Shopping list generated",
		zap.String("plan_id", cmd.PlanID.String()),
		zap.String("mode", mode),
		zap.Int("added", inserted),
	)
	return nil
}

// GetShoppingList returns the user's list ordered by category then food
// name, with uncategorized and free-text items last.
func (s *ShoppingListService) GetShoppingList(ctx context.Context, userID uuid.UUID) ([]inbound.ShoppingListItemDTO, error) {
	if userID == uuid.Nil {
		return nil, errors.NewBadRequestError("User id is required")
	}

	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list shopping list", err)
	}
	shopping.Sort(items)

	dtos := make([]inbound.ShoppingListItemDTO, 0, len(items))
	for _, item := range items {
		dto := inbound.ShoppingListItemDTO{
			ID:        item.ID,
			FoodID:    item.FoodID,
			Purchased: item.Purchased,
			Notes:     item.Notes,
		}
		if item.Food != nil {
			dto.FoodName = item.Food.Name
			dto.CategoryName = item.Food.CategoryName()
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}
