package analysis

import (
	"sort"
	"time"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// ScheduledList is a due-date ordered, possibly truncated, prediction list.
type ScheduledList struct {
	Items   []models.MaintenancePrediction `json:"items"`
	Total   int                            `json:"total"`
	Shown   int                            `json:"shown"`
	Omitted int                            `json:"omitted"`
}

// PredictionView is a prediction with everything derived from its due date
// at the reference instant.
type PredictionView struct {
	models.MaintenancePrediction
	Category        Category        `json:"category"`
	DaysUntilDue    int             `json:"days_until_due"`
	Urgency         Urgency         `json:"urgency"`
	Overdue         bool            `json:"overdue"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
}

// Timeline is the display-ready schedule of one asset.
type Timeline struct {
	Items     []PredictionView `json:"items"`
	Total     int              `json:"total"`
	Shown     int              `json:"shown"`
	Omitted   int              `json:"omitted"`
	TotalCost float64          `json:"total_cost"`
	NextDue   *models.Date     `json:"next_due,omitempty"`
}

// CriticalAssetsReport lists the assets needing immediate attention.
type CriticalAssetsReport struct {
	Count              int            `json:"count"`
	TotalEstimatedCost float64        `json:"total_estimated_cost"`
	Assets             []models.Asset `json:"assets"`
}

// SortByDueDate returns a copy of items ordered by due date. Items due on the
// same date keep their relative order.
func SortByDueDate(items []models.MaintenancePrediction) []models.MaintenancePrediction {
	out := append([]models.MaintenancePrediction(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// Limit sorts items by due date and keeps the first n. n <= 0 keeps all.
func Limit(items []models.MaintenancePrediction, n int) ScheduledList {
	sorted := SortByDueDate(items)
	shown := sorted
	if n > 0 && len(sorted) > n {
		shown = sorted[:n]
	}
	return ScheduledList{
		Items:   shown,
		Total:   len(sorted),
		Shown:   len(shown),
		Omitted: len(sorted) - len(shown),
	}
}

// BuildTimeline limits the schedule to n items and classifies each one at now.
// Totals cover every prediction, not only the shown ones.
func BuildTimeline(items []models.MaintenancePrediction, now time.Time, n int) Timeline {
	list := Limit(items, n)
	views := make([]PredictionView, len(list.Items))
	for i, p := range list.Items {
		days := DaysUntil(p.DueDate.Time, now)
		views[i] = PredictionView{
			MaintenancePrediction: p,
			Category:              Categorize(p.Type),
			DaysUntilDue:          days,
			Urgency:               urgencyForDays(days),
			Overdue:               days <= 0,
			ConfidenceLevel:       ClassifyConfidence(p.Confidence),
		}
	}
	t := Timeline{
		Items:     views,
		Total:     list.Total,
		Shown:     list.Shown,
		Omitted:   list.Omitted,
		TotalCost: TotalCost(items),
	}
	if len(list.Items) > 0 {
		next := list.Items[0].DueDate
		t.NextDue = &next
	}
	return t
}

// IsCritical reports whether an asset needs immediate attention: critical
// priority or poor condition. Operational status is not considered.
func IsCritical(a models.Asset) bool {
	return a.Priority == models.PriorityCritical || a.Condition == models.ConditionPoor
}

// SelectCritical filters the fleet down to critical assets and totals the
// estimated cost of all their predicted maintenance.
func SelectCritical(assets []models.Asset) CriticalAssetsReport {
	report := CriticalAssetsReport{Assets: []models.Asset{}}
	var items []models.MaintenancePrediction
	for _, a := range assets {
		if !IsCritical(a) {
			continue
		}
		report.Assets = append(report.Assets, a)
		items = append(items, a.Predictions...)
	}
	report.Count = len(report.Assets)
	report.TotalEstimatedCost = TotalCost(items)
	return report
}
