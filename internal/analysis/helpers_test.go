package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// refNow is the reference instant shared by every test in the package.
var refNow = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func daysFromNow(days int) models.Date {
	return models.DateOf(refNow.AddDate(0, 0, days))
}

func prediction(taskType string, dueInDays int, cost float64) models.MaintenancePrediction {
	return models.MaintenancePrediction{
		Type:       taskType,
		DueDate:    daysFromNow(dueInDays),
		Cost:       cost,
		Confidence: 90,
	}
}

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}
