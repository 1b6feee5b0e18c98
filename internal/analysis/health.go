package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// HealthTier buckets a 0-100 health or condition score.
type HealthTier string

const (
	HealthGood HealthTier = "good"
	HealthFair HealthTier = "fair"
	HealthPoor HealthTier = "poor"
)

// ClassifyHealth buckets an overall asset health score: 80 and above is
// good, 60 and above fair.
func ClassifyHealth(score float64) HealthTier {
	switch {
	case score >= 80:
		return HealthGood
	case score >= 60:
		return HealthFair
	default:
		return HealthPoor
	}
}

// ClassifySystemHealth buckets a subsystem score. Subsystems use stricter
// bounds than whole assets: 85 and 70.
func ClassifySystemHealth(score float64) HealthTier {
	switch {
	case score >= 85:
		return HealthGood
	case score >= 70:
		return HealthFair
	default:
		return HealthPoor
	}
}

// SystemHealth is the fleet average of one subsystem.
type SystemHealth struct {
	System  string     `json:"system"`
	Average int        `json:"average"`
	Tier    HealthTier `json:"tier"`
	Assets  int        `json:"assets"`
}

// FleetSummary holds the fleet-wide counters shown on overview screens.
type FleetSummary struct {
	Assets                int                          `json:"assets"`
	ByStatus              map[models.AssetStatus]int   `json:"by_status"`
	ByCategory            map[models.AssetCategory]int `json:"by_category"`
	ApproachingBreakEven  int                          `json:"approaching_break_even"`
	CriticalPriority      int                          `json:"critical_priority"`
	TotalMonthlyCost      float64                      `json:"total_monthly_cost"`
	TotalUsage            float64                      `json:"total_usage"`
	AverageHealthScore    *float64                     `json:"average_health_score,omitempty"`
	AverageConditionScore *float64                     `json:"average_condition_score,omitempty"`
	Systems               []SystemHealth               `json:"systems,omitempty"`
	TotalPredictedCost    float64                      `json:"total_predicted_cost"`
}

// SummarizeFleet computes fleet counters at now. Whether an asset is
// approaching break-even is derived from its break-even date with the
// analyzer's threshold; assets without one are not counted.
func (a Analyzer) SummarizeFleet(assets []models.Asset, now time.Time) FleetSummary {
	summary := FleetSummary{
		Assets:     len(assets),
		ByStatus:   make(map[models.AssetStatus]int),
		ByCategory: make(map[models.AssetCategory]int),
	}
	monthly := decimal.Zero
	predicted := decimal.Zero
	var healthSum, conditionSum float64
	var healthN, conditionN int
	systems := make(map[string][]float64)

	for _, asset := range assets {
		if asset.Status != "" {
			summary.ByStatus[asset.Status]++
		}
		summary.ByCategory[asset.Category]++
		if asset.Priority == models.PriorityCritical {
			summary.CriticalPriority++
		}
		summary.TotalUsage += asset.Usage
		predicted = predicted.Add(sumCosts(asset.Predictions))
		if asset.HealthScore != nil {
			healthSum += *asset.HealthScore
			healthN++
		}
		for name, score := range asset.Systems {
			systems[name] = append(systems[name], score)
		}
		lc := asset.Lifecycle
		if lc == nil {
			continue
		}
		monthly = monthly.Add(decimal.NewFromFloat(lc.MonthlyMaintenanceCost))
		if lc.ConditionScore != nil {
			conditionSum += *lc.ConditionScore
			conditionN++
		}
		if lc.BreakEven != nil {
			months := MonthsUntil(lc.BreakEven.Date.Time, now)
			if months < 0 {
				months = 0
			}
			if a.IsApproaching(months) {
				summary.ApproachingBreakEven++
			}
		}
	}

	summary.TotalMonthlyCost = monthly.InexactFloat64()
	summary.TotalPredictedCost = predicted.InexactFloat64()
	if healthN > 0 {
		avg := healthSum / float64(healthN)
		summary.AverageHealthScore = &avg
	}
	if conditionN > 0 {
		avg := conditionSum / float64(conditionN)
		summary.AverageConditionScore = &avg
	}
	summary.Systems = averageSystems(systems)
	return summary
}

func averageSystems(systems map[string][]float64) []SystemHealth {
	if len(systems) == 0 {
		return nil
	}
	names := make([]string, 0, len(systems))
	for name := range systems {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SystemHealth, 0, len(names))
	for _, name := range names {
		scores := systems[name]
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avg := int(math.Round(sum / float64(len(scores))))
		out = append(out, SystemHealth{
			System:  name,
			Average: avg,
			Tier:    ClassifySystemHealth(float64(avg)),
			Assets:  len(scores),
		})
	}
	return out
}
