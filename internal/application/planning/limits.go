package planning

import "sync/atomic"

// DefaultMaxDays caps the length of a generated plan when nothing is configured.
const DefaultMaxDays = 14

// Limits holds planning limits that may change while the process runs.
type Limits struct {
	maxDays          atomic.Int64
	externalFallback atomic.Bool
}

// NewLimits creates limits with the given values
func NewLimits(maxDays int, externalFallback bool) *Limits {
	l := &Limits{}
	l.SetMaxDays(maxDays)
	l.externalFallback.Store(externalFallback)
	return l
}

// MaxDays returns the longest plan that may be generated
func (l *Limits) MaxDays() int {
	return int(l.maxDays.Load())
}

// SetMaxDays replaces the maximum. Non-positive values restore the default.
func (l *Limits) SetMaxDays(days int) {
	if days <= 0 {
		days = DefaultMaxDays
	}
	l.maxDays.Store(int64(days))
}

// ExternalFallback reports whether providers fill a catalog shortfall
func (l *Limits) ExternalFallback() bool {
	return l.externalFallback.Load()
}

// SetExternalFallback toggles provider fallback
func (l *Limits) SetExternalFallback(enabled bool) {
	l.externalFallback.Store(enabled)
}
