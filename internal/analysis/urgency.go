package analysis

import "time"

// Urgency is the severity tier of a maintenance item.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

const (
	criticalWithinDays = 3
	warningWithinDays  = 7
)

// Severity orders urgencies: Normal < Warning < Critical.
func (u Urgency) Severity() int {
	switch u {
	case UrgencyCritical:
		return 2
	case UrgencyWarning:
		return 1
	default:
		return 0
	}
}

// ClassifyUrgency maps a due date to an urgency tier.
func ClassifyUrgency(due, now time.Time) Urgency {
	return urgencyForDays(DaysUntil(due, now))
}

func urgencyForDays(days int) Urgency {
	switch {
	case days <= criticalWithinDays:
		return UrgencyCritical
	case days <= warningWithinDays:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// IsOverdue reports whether the due date has been reached. Overdue items are
// always Critical as well.
func IsOverdue(due, now time.Time) bool {
	return DaysUntil(due, now) <= 0
}

// ConfidenceLevel buckets a forecast confidence percentage.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ClassifyConfidence returns High at 95% and above, Medium at 85% and above,
// Low otherwise.
func ClassifyConfidence(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 95:
		return ConfidenceHigh
	case confidence >= 85:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
