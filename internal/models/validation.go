package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every ValidationError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports a single offending field in an input record.
type ValidationError struct {
	Field  string      `json:"field"`
	Value  interface{} `json:"value"`
	Reason string      `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// nest prefixes the field path of a nested validation error.
func nest(prefix string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Field: prefix + "." + ve.Field, Value: ve.Value, Reason: ve.Reason}
	}
	return err
}

func notFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// isScore reports whether v is a finite percentage in [0, 100].
func isScore(v float64) bool {
	return !notFinite(v) && v >= 0 && v <= 100
}

// Validate checks the invariants of a maintenance prediction.
func (p MaintenancePrediction) Validate() error {
	if notFinite(p.Cost) {
		return invalid("cost", p.Cost, "must be a finite number")
	}
	if p.Cost < 0 {
		return invalid("cost", p.Cost, "must not be negative")
	}
	if !isScore(p.Confidence) {
		return invalid("confidence", p.Confidence, "must be between 0 and 100")
	}
	if p.DueDate.IsZero() {
		return invalid("due_date", p.DueDate.String(), "is required")
	}
	if p.DueUsage != nil && (notFinite(*p.DueUsage) || *p.DueUsage < 0) {
		return invalid("due_usage", *p.DueUsage, "must be a finite, non-negative number")
	}
	return nil
}

// Validate checks the invariants of a lifecycle profile.
func (l *LifecycleProfile) Validate() error {
	if notFinite(l.MonthlyMaintenanceCost) || l.MonthlyMaintenanceCost < 0 {
		return invalid("monthly_maintenance_cost", l.MonthlyMaintenanceCost, "must not be negative")
	}
	if notFinite(l.ReplacementCost) || l.ReplacementCost < 0 {
		return invalid("replacement_cost", l.ReplacementCost, "must not be negative")
	}
	if notFinite(l.ProjectedAnnualCost) || l.ProjectedAnnualCost < 0 {
		return invalid("projected_annual_cost", l.ProjectedAnnualCost, "must not be negative")
	}
	if notFinite(l.TotalExpected) || l.TotalExpected < 0 {
		return invalid("total_expected", l.TotalExpected, "must be a finite, non-negative number")
	}
	if notFinite(l.Remaining) || l.Remaining < 0 {
		return invalid("remaining", l.Remaining, "must be a finite, non-negative number")
	}
	if l.Remaining > l.TotalExpected {
		return invalid("remaining", l.Remaining, fmt.Sprintf("exceeds total expected %v", l.TotalExpected))
	}
	if l.ConditionScore != nil && !isScore(*l.ConditionScore) {
		return invalid("condition_score", *l.ConditionScore, "must be between 0 and 100")
	}
	if l.BreakEven != nil {
		if l.BreakEven.Date.IsZero() {
			return invalid("break_even.date", "", "is required")
		}
		if notFinite(l.BreakEven.MonthsRemaining) || l.BreakEven.MonthsRemaining < 0 {
			return invalid("break_even.months_remaining", l.BreakEven.MonthsRemaining, "must be a finite, non-negative number")
		}
		if notFinite(l.BreakEven.Usage) || l.BreakEven.Usage < 0 {
			return invalid("break_even.usage", l.BreakEven.Usage, "must be a finite, non-negative number")
		}
	}
	return nil
}

// Validate checks the asset and every record nested in it.
func (a *Asset) Validate() error {
	if a.ID == "" {
		return invalid("id", a.ID, "is required")
	}
	if !IsValidCategory(a.Category) {
		return invalid("category", a.Category, "must be bus, train or track")
	}
	if !IsValidStatus(a.Status) {
		return invalid("status", a.Status, "unknown status")
	}
	if !IsValidPriority(a.Priority) {
		return invalid("priority", a.Priority, "unknown priority")
	}
	if !IsValidCondition(a.Condition) {
		return invalid("condition", a.Condition, "unknown condition")
	}
	if notFinite(a.Usage) || a.Usage < 0 {
		return invalid("usage", a.Usage, "must be a finite, non-negative number")
	}
	if a.HealthScore != nil && !isScore(*a.HealthScore) {
		return invalid("health_score", *a.HealthScore, "must be between 0 and 100")
	}
	for name, score := range a.Systems {
		if !isScore(score) {
			return invalid("systems."+name, score, "must be between 0 and 100")
		}
	}
	if a.Lifecycle != nil {
		if err := a.Lifecycle.Validate(); err != nil {
			return nest("lifecycle", err)
		}
	}
	for i, p := range a.Predictions {
		if err := p.Validate(); err != nil {
			return nest(fmt.Sprintf("predictions[%d]", i), err)
		}
	}
	return nil
}
