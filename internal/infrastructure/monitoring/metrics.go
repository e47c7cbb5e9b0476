package monitoring

import (
	"time"

	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PlannerMetrics records planner activity as Prometheus metrics
type PlannerMetrics struct {
	generationsTotal      *prometheus.CounterVec
	generationDuration    *prometheus.HistogramVec
	entriesShortfall      prometheus.Counter
	providerCallsTotal    *prometheus.CounterVec
	providerEntriesTotal  *prometheus.CounterVec
	providerCallDuration  *prometheus.HistogramVec
	reconciliationChanges *prometheus.CounterVec
	shoppingListsTotal    *prometheus.CounterVec
	shoppingItemsAdded    *prometheus.CounterVec
}

// NewPlannerMetrics registers the planner collectors with reg
func NewPlannerMetrics(reg prometheus.Registerer, namespace string) *PlannerMetrics {
	factory := promauto.With(reg)

	return &PlannerMetrics{
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meal_plan_generations_total",
				Help:      "Total number of meal plan drafts generated",
			},
			[]string{"source"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "meal_plan_generation_duration_seconds",
				Help:      "Meal plan generation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		entriesShortfall: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meal_plan_entries_shortfall_total",
				Help:      "Requested meal plan entries that could not be filled",
			},
		),
		providerCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_provider_calls_total",
				Help:      "Total number of external recipe provider calls",
			},
			[]string{"provider", "outcome"},
		),
		providerEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_provider_entries_total",
				Help:      "Entries returned by external recipe providers",
			},
			[]string{"provider"},
		),
		providerCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recipe_provider_call_duration_seconds",
				Help:      "External recipe provider call duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
		reconciliationChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meal_plan_reconciled_entries_total",
				Help:      "Meal plan entries changed by reconciliation",
			},
			[]string{"change"},
		),
		shoppingListsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shopping_lists_generated_total",
				Help:      "Total number of shopping list generations",
			},
			[]string{"mode"},
		),
		shoppingItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shopping_list_items_added_total",
				Help:      "Shopping list items inserted by generation",
			},
			[]string{"mode"},
		),
	}
}

var _ outbound.PlanningMetrics = (*PlannerMetrics)(nil)

// RecordGeneration records a generated draft
func (m *PlannerMetrics) RecordGeneration(source string, requested, returned int, duration time.Duration) {
	m.generationsTotal.WithLabelValues(source).Inc()
	m.generationDuration.WithLabelValues(source).Observe(duration.Seconds())
	if returned < requested {
		m.entriesShortfall.Add(float64(requested - returned))
	}
}

// RecordProviderCall records one external provider invocation
func (m *PlannerMetrics) RecordProviderCall(provider string, returned int, err error, duration time.Duration) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case returned == 0:
		outcome = "empty"
	}

	m.providerCallsTotal.WithLabelValues(provider, outcome).Inc()
	m.providerEntriesTotal.WithLabelValues(provider).Add(float64(returned))
	m.providerCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordReconciliation records the entry changes of one reconcile
func (m *PlannerMetrics) RecordReconciliation(added, updated, deleted int) {
	m.reconciliationChanges.WithLabelValues("added").Add(float64(added))
	m.reconciliationChanges.WithLabelValues("updated").Add(float64(updated))
	m.reconciliationChanges.WithLabelValues("deleted").Add(float64(deleted))
}

// RecordShoppingList records one shopping list generation
func (m *PlannerMetrics) RecordShoppingList(mode string, items int) {
	m.shoppingListsTotal.WithLabelValues(mode).Inc()
	m.shoppingItemsAdded.WithLabelValues(mode).Add(float64(items))
}
