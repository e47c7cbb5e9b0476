// Package main provides the planner command line: meal plan generation,
// reconciliation, cooking and shopping lists against the configured store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/larderly/planner/internal/infrastructure/container"
	"github.com/larderly/planner/internal/ports/inbound"
	apperrors "github.com/larderly/planner/pkg/errors"
	"github.com/larderly/planner/pkg/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CLIConfig configures one planner invocation
type CLIConfig struct {
	Command     string
	ConfigFile  string
	UserID      string
	PlanID      string
	EntryID     string
	Days        int
	StartDate   string
	External    bool
	Save        bool
	Restart     bool
	EntriesFile string
	MetricsAddr string
}

// CLI holds the use cases resolved from the container
type CLI struct {
	fx.In

	Plans    inbound.MealPlanService
	Shopping inbound.ShoppingListService
	Registry *prometheus.Registry
	Health   *healthcheck.HealthCheck
	Logger   *zap.Logger
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg := parseFlags()

	var cli CLI
	app := fx.New(
		fx.NopLogger,
		container.New(cfg.ConfigFile),
		fx.Populate(&cli),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start planner: %v", err)
	}

	runErr := cli.execute(ctx, cfg)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop planner cleanly: %v", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", cfg.Command, runErr)
		fmt.Fprintf(os.Stderr, "code: %s\n", apperrors.GetCode(runErr))
		os.Exit(1)
	}
}

func parseFlags() CLIConfig {
	var cfg CLIConfig

	flag.StringVar(&cfg.Command, "command", "generate", "Command to execute (generate, show, reconcile, cook, delete, shopping, list, serve)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&cfg.UserID, "user", "", "User id")
	flag.StringVar(&cfg.PlanID, "plan", "", "Meal plan id")
	flag.StringVar(&cfg.EntryID, "entry", "", "Meal plan entry id")
	flag.IntVar(&cfg.Days, "days", 7, "Number of meals to generate")
	flag.StringVar(&cfg.StartDate, "start", "", "Plan start date (YYYY-MM-DD, default today)")
	flag.BoolVar(&cfg.External, "external", false, "Generate every meal from external providers")
	flag.BoolVar(&cfg.Save, "save", false, "Persist the generated plan")
	flag.BoolVar(&cfg.Restart, "restart", false, "Clear the shopping list before adding")
	flag.StringVar(&cfg.EntriesFile, "entries", "", "JSON file with the desired entries for reconcile")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", ":9090", "Listen address for serve")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  generate  - Draft a meal plan (-user -days [-start] [-external] [-save])\n")
		fmt.Fprintf(os.Stderr, "  show      - Print a saved plan (-plan -user)\n")
		fmt.Fprintf(os.Stderr, "  reconcile - Replace a plan's entries (-plan -user -entries file.json)\n")
		fmt.Fprintf(os.Stderr, "  cook      - Mark an entry cooked (-plan -entry -user)\n")
		fmt.Fprintf(os.Stderr, "  delete    - Delete a plan (-plan -user)\n")
		fmt.Fprintf(os.Stderr, "  shopping  - Add a plan's missing foods to the list (-plan -user [-restart])\n")
		fmt.Fprintf(os.Stderr, "  list      - Print the shopping list (-user)\n")
		fmt.Fprintf(os.Stderr, "  serve     - Expose /metrics and /health until interrupted (-metrics-addr)\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return cfg
}

func (c CLI) execute(ctx context.Context, cfg CLIConfig) error {
	switch cfg.Command {
	case "generate":
		return c.generate(ctx, cfg)
	case "show":
		return c.show(ctx, cfg)
	case "reconcile":
		return c.reconcile(ctx, cfg)
	case "cook":
		return c.cook(ctx, cfg)
	case "delete":
		return c.delete(ctx, cfg)
	case "shopping":
		return c.shopping(ctx, cfg)
	case "list":
		return c.list(ctx, cfg)
	case "serve":
		return c.serve(ctx, cfg)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

func (c CLI) generate(ctx context.Context, cfg CLIConfig) error {
	userID, err := parseID("user", cfg.UserID)
	if err != nil {
		return err
	}
	start, err := parseDate(cfg.StartDate)
	if err != nil {
		return err
	}

	draft, err := c.Plans.GenerateMealPlan(ctx, inbound.GenerateMealPlanCommand{
		UserID:      userID,
		Days:        cfg.Days,
		StartDate:   start,
		UseExternal: cfg.External,
	})
	if err != nil {
		return err
	}
	if !cfg.Save {
		return printJSON(draft)
	}

	plan, err := c.Plans.CreateMealPlan(ctx, inbound.CreateMealPlanCommand{
		UserID:    userID,
		StartDate: draft.StartDate,
		Entries:   draftEntries(draft),
	})
	if err != nil {
		return err
	}
	return printJSON(plan)
}

// draftEntries keeps catalog recipes by id and records external
// suggestions as notes.
func draftEntries(draft *inbound.MealPlanDraftDTO) []inbound.EntryInput {
	entries := make([]inbound.EntryInput, 0, len(draft.Entries))
	for _, e := range draft.Entries {
		if e.RecipeID != nil {
			entries = append(entries, inbound.EntryInput{RecipeID: e.RecipeID})
			continue
		}

		notes := e.Title
		if e.External != nil {
			if e.External.URL != "" {
				notes = fmt.Sprintf("%s (%s)", notes, e.External.URL)
			}
			notes = fmt.Sprintf("%s [via %s]", notes, e.External.Provider)
		}
		entries = append(entries, inbound.EntryInput{Notes: &notes})
	}
	return entries
}

func (c CLI) show(ctx context.Context, cfg CLIConfig) error {
	planID, userID, err := planAndUser(cfg)
	if err != nil {
		return err
	}

	plan, err := c.Plans.GetMealPlan(ctx, planID, userID)
	if err != nil {
		return err
	}
	return printJSON(plan)
}

type entryFile struct {
	PlanID    *uuid.UUID `json:"plan_id"`
	StartDate string     `json:"start_date"`
	Entries   []struct {
		ID       *uuid.UUID `json:"id"`
		Notes    *string    `json:"notes"`
		RecipeID *uuid.UUID `json:"recipe_id"`
	} `json:"entries"`
}

func (c CLI) reconcile(ctx context.Context, cfg CLIConfig) error {
	planID, userID, err := planAndUser(cfg)
	if err != nil {
		return err
	}
	if cfg.EntriesFile == "" {
		return errors.New("-entries is required")
	}

	raw, err := os.ReadFile(cfg.EntriesFile)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}
	var in entryFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("failed to decode entries: %w", err)
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return err
	}

	cmd := inbound.ReconcileMealPlanCommand{
		PlanID:        planID,
		UserID:        userID,
		PayloadPlanID: in.PlanID,
		StartDate:     start,
	}
	for _, e := range in.Entries {
		cmd.Entries = append(cmd.Entries, inbound.EntryInput{ID: e.ID, Notes: e.Notes, RecipeID: e.RecipeID})
	}

	plan, err := c.Plans.ReconcileMealPlan(ctx, cmd)
	if err != nil {
		return err
	}
	return printJSON(plan)
}

func (c CLI) cook(ctx context.Context, cfg CLIConfig) error {
	planID, userID, err := planAndUser(cfg)
	if err != nil {
		return err
	}
	entryID, err := parseID("entry", cfg.EntryID)
	if err != nil {
		return err
	}

	result, err := c.Plans.CookMealEntry(ctx, planID, entryID, userID)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (c CLI) delete(ctx context.Context, cfg CLIConfig) error {
	planID, userID, err := planAndUser(cfg)
	if err != nil {
		return err
	}

	deleted, err := c.Plans.DeleteMealPlan(ctx, planID, userID)
	if err != nil {
		return err
	}
	return printJSON(map[string]bool{"deleted": deleted})
}

func (c CLI) shopping(ctx context.Context, cfg CLIConfig) error {
	planID, userID, err := planAndUser(cfg)
	if err != nil {
		return err
	}

	err = c.Shopping.GenerateShoppingList(ctx, inbound.GenerateShoppingListCommand{
		PlanID:  planID,
		UserID:  userID,
		Restart: cfg.Restart,
	})
	if err != nil {
		return err
	}
	return c.list(ctx, cfg)
}

func (c CLI) list(ctx context.Context, cfg CLIConfig) error {
	userID, err := parseID("user", cfg.UserID)
	if err != nil {
		return err
	}

	items, err := c.Shopping.GetShoppingList(ctx, userID)
	if err != nil {
		return err
	}
	return printJSON(items)
}

// router exposes metrics and health probes
func (c CLI) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	r.GET("/health", c.Health.Handler())
	r.GET("/health/live", c.Health.LivenessHandler())
	r.GET("/health/ready", c.Health.ReadinessHandler())
	return r
}

// serve exposes metrics and health probes until ctx is cancelled
func (c CLI) serve(ctx context.Context, cfg CLIConfig) error {
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           c.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("Serving metrics and health probes", zap.String("addr", cfg.MetricsAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func planAndUser(cfg CLIConfig) (uuid.UUID, uuid.UUID, error) {
	planID, err := parseID("plan", cfg.PlanID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userID, err := parseID("user", cfg.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return planID, userID, nil
}

func parseID(name, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("-%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("-%s: %w", name, err)
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
