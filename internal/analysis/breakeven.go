package analysis

import (
	"math"
	"time"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// DefaultApproachingThresholdMonths is how close the break-even point must be
// before replacement is recommended.
const DefaultApproachingThresholdMonths = 6

// Recommendation is the replace-or-continue decision for an asset.
type Recommendation string

const (
	RecommendReplaceSoon         Recommendation = "REPLACE_SOON"
	RecommendContinueMaintenance Recommendation = "CONTINUE_MAINTENANCE"
)

// BreakEvenReport compares maintenance spend up to the break-even point with
// the cost of replacing the asset.
type BreakEvenReport struct {
	BreakEvenDate              models.Date    `json:"break_even_date"`
	BreakEvenUsage             float64        `json:"break_even_usage"`
	MonthsToBreakEven          int            `json:"months_to_break_even"`
	MonthlyMaintenanceCost     float64        `json:"monthly_maintenance_cost"`
	MaintenanceCostToBreakEven float64        `json:"maintenance_cost_to_break_even"`
	ReplacementCost            float64        `json:"replacement_cost"`
	CostDifference             float64        `json:"cost_difference"`
	AbsCostDifference          float64        `json:"abs_cost_difference"`
	ThresholdMonths            int            `json:"threshold_months"`
	IsApproaching              bool           `json:"is_approaching"`
	Recommendation             Recommendation `json:"recommendation"`
}

// Analyzer runs the break-even analysis.
type Analyzer struct {
	ApproachingThresholdMonths int
}

// NewAnalyzer returns an Analyzer using the default threshold.
func NewAnalyzer() Analyzer {
	return Analyzer{ApproachingThresholdMonths: DefaultApproachingThresholdMonths}
}

// IsApproaching reports whether monthsToBreakEven is within the threshold.
func (a Analyzer) IsApproaching(monthsToBreakEven int) bool {
	return monthsToBreakEven <= a.ApproachingThresholdMonths
}

// BreakEven analyzes a lifecycle profile at the reference instant now. It
// returns ErrNotApplicable when the profile or its break-even point is
// missing and a *ValidationError when the profile is inconsistent.
func (a Analyzer) BreakEven(profile *models.LifecycleProfile, now time.Time) (BreakEvenReport, error) {
	if profile == nil || profile.BreakEven == nil {
		return BreakEvenReport{}, ErrNotApplicable
	}
	if err := profile.Validate(); err != nil {
		return BreakEvenReport{}, err
	}

	months := MonthsUntil(profile.BreakEven.Date.Time, now)
	if months < 0 {
		months = 0
	}
	costToBreakEven := float64(months) * profile.MonthlyMaintenanceCost
	diff := profile.ReplacementCost - costToBreakEven
	approaching := a.IsApproaching(months)

	rec := RecommendContinueMaintenance
	if approaching {
		rec = RecommendReplaceSoon
	}

	return BreakEvenReport{
		BreakEvenDate:              profile.BreakEven.Date,
		BreakEvenUsage:             profile.BreakEven.Usage,
		MonthsToBreakEven:          months,
		MonthlyMaintenanceCost:     profile.MonthlyMaintenanceCost,
		MaintenanceCostToBreakEven: costToBreakEven,
		ReplacementCost:            profile.ReplacementCost,
		CostDifference:             diff,
		AbsCostDifference:          math.Abs(diff),
		ThresholdMonths:            a.ApproachingThresholdMonths,
		IsApproaching:              approaching,
		Recommendation:             rec,
	}, nil
}
