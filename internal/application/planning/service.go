// Package planning implements meal plan generation and reconciliation.
package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/application/events"
	"github.com/larderly/planner/internal/application/validation"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/larderly/planner/internal/application/planning"

// Dependencies groups the collaborators of MealPlanService
type Dependencies struct {
	Users        outbound.UserRepository
	Recipes      outbound.RecipeReader
	Pantry       outbound.PantryReader
	Plans        outbound.MealPlanRepository
	Transactions outbound.TransactionManager
	Selector     *Selector
	Orchestrator *Orchestrator
	Limits       *Limits
	Validator    *validation.Validator
	Events       *events.Publisher
	Metrics      outbound.PlanningMetrics
}

// MealPlanService implements the meal plan use cases
type MealPlanService struct {
	users        outbound.UserRepository
	recipes      outbound.RecipeReader
	pantry       outbound.PantryReader
	plans        outbound.MealPlanRepository
	tx           outbound.TransactionManager
	selector     *Selector
	orchestrator *Orchestrator
	limits       *Limits
	validator    *validation.Validator
	events       *events.Publisher
	metrics      outbound.PlanningMetrics
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewMealPlanService creates a new meal plan service
func NewMealPlanService(deps Dependencies, logger *zap.Logger) inbound.MealPlanService {
	limits := deps.Limits
	if limits == nil {
		limits = NewLimits(DefaultMaxDays, true)
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}

	return &MealPlanService{
		users:        deps.Users,
		recipes:      deps.Recipes,
		pantry:       deps.Pantry,
		plans:        deps.Plans,
		tx:           deps.Transactions,
		selector:     deps.Selector,
		orchestrator: deps.Orchestrator,
		limits:       limits,
		validator:    v,
		events:       deps.Events,
		metrics:      deps.Metrics,
		tracer:       otel.Tracer(tracerName),
		logger:       logger.Named("meal-plan-service"),
	}
}

// GenerateMealPlan builds an unsaved plan of cmd.Days entries, preferring
// catalog recipes that the pantry covers best.
func (s *MealPlanService) GenerateMealPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*inbound.MealPlanDraftDTO, error) {
	ctx, span := s.tracer.Start(ctx, "MealPlanService.GenerateMealPlan",
		trace.WithAttributes(
			attribute.String("user.id", cmd.UserID.String()),
			attribute.Int("plan.days", cmd.Days),
			attribute.Bool("plan.use_external", cmd.UseExternal),
		))
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	if maxDays := s.limits.MaxDays(); cmd.Days > maxDays {
		return nil, errors.NewValidationError(
			fmt.Sprintf("Days must be at most %d", maxDays),
		).WithMetadata("max_days", maxDays)
	}

	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("days", cmd.Days),
		zap.Bool("use_external", cmd.UseExternal),
	)
	start := time.Now()

	draft := mealplan.Draft{UserID: cmd.UserID, StartDate: cmd.StartDate}

	if cmd.UseExternal {
		if err := s.ensureUser(ctx, cmd.UserID); err != nil {
			return nil, asArgumentError(err)
		}
	} else {
		selected, err := s.selector.SelectManually(ctx, cmd.Days, cmd.UserID)
		if err != nil {
			return nil, asArgumentError(err)
		}
		for i := range selected {
			draft.Entries = append(draft.Entries, mealplan.DraftEntry{Recipe: &selected[i]})
		}
	}

	remaining := cmd.Days - len(draft.Entries)
	source := "catalog"
	if remaining > 0 && s.orchestrator != nil && (cmd.UseExternal || s.limits.ExternalFallback()) {
		snapshot, err := s.pantry.GetPantryItems(ctx, cmd.UserID)
		if err != nil {
			return nil, errors.NewDatabaseError("load pantry", err)
		}

		external, err := s.orchestrator.FillRemaining(ctx, remaining, snapshot)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "external fill failed")
			return nil, err
		}
		draft.Entries = append(draft.Entries, external...)
		if cmd.UseExternal {
			source = "external"
		} else if len(external) > 0 {
			source = "mixed"
		}
	}

	if s.metrics != nil {
		s.metrics.RecordGeneration(source, cmd.Days, len(draft.Entries), time.Since(start))
	}
	span.SetAttributes(attribute.Int("plan.entries", len(draft.Entries)))

	s.logger.Info("Meal plan generated",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("requested", cmd.Days),
		zap.Int("returned", len(draft.Entries)),
		zap.String("source", source),
	)

	return draftToDTO(draft), nil
}

// CreateMealPlan persists a plan, typically an accepted draft
func (s *MealPlanService) CreateMealPlan(ctx context.Context, cmd inbound.CreateMealPlanCommand) (*inbound.MealPlanDTO, error) {
	ctx, span := s.tracer.Start(ctx, "MealPlanService.CreateMealPlan")
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	var plan *mealplan.MealPlan
	var recipes map[uuid.UUID]*recipe.Recipe

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, cmd.UserID); err != nil {
			return err
		}

		var err error
		recipes, err = s.loadOwnedRecipes(ctx, cmd.UserID, cmd.Entries)
		if err != nil {
			return err
		}

		entries := make([]mealplan.NewEntry, 0, len(cmd.Entries))
		for _, e := range cmd.Entries {
			entries = append(entries, mealplan.NewEntry{Notes: e.Notes, RecipeID: e.RecipeID})
		}

		plan, err = mealplan.New(cmd.UserID, cmd.StartDate, entries)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.plans.Create(ctx, plan); err != nil {
			return errors.NewDatabaseError("create meal plan", err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create meal plan")
	}

	s.events.Publish(ctx, plan.Events())

	s.logger.Info("Meal plan created",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("entries", len(plan.Entries())),
	)
	return planToDTO(plan, recipes), nil
}

// ReconcileMealPlan replaces a plan's entry set with the desired one in a
// single transaction. Every ownership and recipe check happens before
// anything is written.
func (s *MealPlanService) ReconcileMealPlan(ctx context.Context, cmd inbound.ReconcileMealPlanCommand) (*inbound.MealPlanDTO, error) {
	ctx, span := s.tracer.Start(ctx, "MealPlanService.ReconcileMealPlan",
		trace.WithAttributes(attribute.String("plan.id", cmd.PlanID.String())))
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	if cmd.PayloadPlanID != nil && *cmd.PayloadPlanID != cmd.PlanID {
		return nil, errors.NewMealPlanNotFoundError(cmd.PayloadPlanID.String())
	}

	s.logger.Info("Reconciling meal plan",
		zap.String("plan_id", cmd.PlanID.String()),
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("desired_entries", len(cmd.Entries)),
	)

	var plan *mealplan.MealPlan
	var recipes map[uuid.UUID]*recipe.Recipe
	var changes mealplan.Changes

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, cmd.UserID); err != nil {
			return err
		}

		var err error
		plan, err = s.findOwnedPlan(ctx, cmd.PlanID, cmd.UserID, false)
		if err != nil {
			return err
		}

		recipes, err = s.loadOwnedRecipes(ctx, cmd.UserID, cmd.Entries)
		if err != nil {
			return err
		}

		desired := make([]mealplan.DesiredEntry, 0, len(cmd.Entries))
		for _, e := range cmd.Entries {
			desired = append(desired, mealplan.DesiredEntry{ID: e.ID, Notes: e.Notes, RecipeID: e.RecipeID})
		}

		changes, err = plan.Reconcile(cmd.StartDate, desired)
		if err != nil {
			return errors.NewValidationError(err.Error()).WithCause(err)
		}

		if err := s.plans.Save(ctx, plan); err != nil {
			return errors.NewDatabaseError("save meal plan", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to reconcile meal plan")
	}

	s.events.Publish(ctx, plan.Events())
	if s.metrics != nil {
		s.metrics.RecordReconciliation(len(changes.Added), len(changes.Updated), len(changes.Deleted))
	}

	s.logger.Info("Meal plan reconciled",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("added", len(changes.Added)),
		zap.Int("updated", len(changes.Updated)),
		zap.Int("deleted", len(changes.Deleted)),
	)
	return planToDTO(plan, recipes), nil
}

// DeleteMealPlan deletes a plan and its entries. It reports false when
// the plan does not exist or belongs to someone else.
func (s *MealPlanService) DeleteMealPlan(ctx context.Context, planID, userID uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "MealPlanService.DeleteMealPlan")
	defer span.End()

	var deleted bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		plan, err := s.plans.FindByID(ctx, planID)
		if err != nil {
			return errors.NewDatabaseError("find meal plan", err)
		}
		if plan == nil || !plan.IsOwnedBy(userID) {
			return nil
		}

		deleted, err = s.plans.Delete(ctx, planID)
		if err != nil {
			return errors.NewDatabaseError("delete meal plan", err)
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to delete meal plan")
	}

	s.logger.Info("Meal plan deleted",
		zap.String("plan_id", planID.String()),
		zap.Bool("deleted", deleted),
	)
	return deleted, nil
}

// CookMealEntry marks an entry cooked and lists the pantry items its
// recipe may have used. Pantry quantities are left untouched.
func (s *MealPlanService) CookMealEntry(ctx context.Context, planID, entryID, userID uuid.UUID) (*inbound.CookResultDTO, error) {
	ctx, span := s.tracer.Start(ctx, "MealPlanService.CookMealEntry")
	defer span.End()

	var plan *mealplan.MealPlan
	var entry mealplan.Entry

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.findOwnedPlan(ctx, planID, userID, true)
		if err != nil {
			return err
		}

		entry, err = plan.MarkCooked(entryID)
		if err != nil {
			return errors.NewNotFoundError("Meal plan entry").
				WithMetadata("entry_id", entryID.String()).
				WithCause(err)
		}

		if err := s.plans.Save(ctx, plan); err != nil {
			return errors.NewDatabaseError("save meal plan", err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to cook meal entry")
	}

	s.events.Publish(ctx, plan.Events())

	result := &inbound.CookResultDTO{
		Entry: entryToDTO(entry, entry.Recipe),
		Items: []inbound.PantryItemDTO{},
	}
	if entry.Recipe == nil || len(entry.Recipe.Ingredients) == 0 {
		return result, nil
	}

	snapshot, err := s.pantry.GetPantryItems(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load pantry", err)
	}
	for _, item := range snapshot.ItemsForFoods(entry.Recipe.FoodIDs()) {
		result.Items = append(result.Items, inbound.PantryItemDTO{
			ID:       item.ID,
			FoodID:   item.FoodID,
			FoodName: item.Food.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
		})
	}
	result.TotalCount = len(result.Items)

	s.logger.Info("Meal entry cooked",
		zap.String("plan_id", planID.String()),
		zap.String("entry_id", entryID.String()),
		zap.Int("pantry_items", result.TotalCount),
	)
	return result, nil
}

// GetMealPlan returns a persisted plan with recipe titles
func (s *MealPlanService) GetMealPlan(ctx context.Context, planID, userID uuid.UUID) (*inbound.MealPlanDTO, error) {
	plan, err := s.findOwnedPlan(ctx, planID, userID, true)
	if err != nil {
		return nil, err
	}
	return planToDTO(plan, nil), nil
}

func (s *MealPlanService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return errors.NewDatabaseError("check user existence", err)
	}
	if !exists {
		return errors.NewUserNotFoundError(userID.String())
	}
	return nil
}

func (s *MealPlanService) findOwnedPlan(ctx context.Context, planID, userID uuid.UUID, withRecipes bool) (*mealplan.MealPlan, error) {
	var plan *mealplan.MealPlan
	var err error
	if withRecipes {
		plan, err = s.plans.FindWithRecipes(ctx, planID)
	} else {
		plan, err = s.plans.FindByID(ctx, planID)
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil || !plan.IsOwnedBy(userID) {
		return nil, errors.NewMealPlanNotFoundError(planID.String())
	}
	return plan, nil
}

// loadOwnedRecipes checks every referenced recipe exists and belongs to
// userID, returning them keyed by id.
func (s *MealPlanService) loadOwnedRecipes(ctx context.Context, userID uuid.UUID, entries []inbound.EntryInput) (map[uuid.UUID]*recipe.Recipe, error) {
	recipes := make(map[uuid.UUID]*recipe.Recipe)
	for _, e := range entries {
		if e.RecipeID == nil {
			continue
		}
		if _, seen := recipes[*e.RecipeID]; seen {
			continue
		}

		r, err := s.recipes.GetRecipe(ctx, *e.RecipeID, userID)
		if err != nil {
			return nil, errors.NewDatabaseError("find recipe", err)
		}
		if r == nil || !r.IsOwnedBy(userID) {
			return nil, errors.NewRecipeNotOwnedError(e.RecipeID.String())
		}
		recipes[r.ID] = r
	}
	return recipes, nil
}

// asArgumentError reports a missing user to generation callers as a bad
// argument rather than a missing resource.
func asArgumentError(err error) error {
	if errors.Is(err, errors.CodeUserNotFound) {
		return errors.NewBadRequestError("User does not exist").WithCause(err)
	}
	return err
}
