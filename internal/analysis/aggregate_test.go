package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

func busPredictions() []models.MaintenancePrediction {
	return []models.MaintenancePrediction{
		prediction("Oil Change", 14, 85),
		prediction("Transmission Fluid", 45, 150),
		prediction("Brake Inspection", 30, 320),
		prediction("Engine Tune-up", 60, 650),
	}
}

func TestAggregate(t *testing.T) {
	entries := Aggregate(busPredictions())

	require.Len(t, entries, 3)
	assert.Equal(t, CategoryPropulsion, entries[0].Category)
	assert.Equal(t, 650.0, entries[0].Cost)
	assert.Equal(t, CategoryBraking, entries[1].Category)
	assert.Equal(t, 320.0, entries[1].Cost)
	assert.Equal(t, CategoryFluids, entries[2].Category)
	assert.Equal(t, 235.0, entries[2].Cost)
	assert.Equal(t, 2, entries[2].Items)

	sum := 0.0
	for _, e := range entries {
		sum += e.Percentage
	}
	assert.InDelta(t, 100, sum, 0.01)
	assert.InDelta(t, 650.0/1205*100, entries[0].Percentage, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	entries := Aggregate(nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAggregate_ZeroCostsHaveZeroPercent(t *testing.T) {
	entries := Aggregate([]models.MaintenancePrediction{
		prediction("Oil Change", 1, 0),
		prediction("Door Mechanism Check", 2, 0),
	})
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Zero(t, e.Cost)
		assert.Zero(t, e.Percentage)
	}
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	entries := Aggregate([]models.MaintenancePrediction{
		prediction("Door Mechanism Check", 5, 100),
		prediction("Signal Maintenance", 5, 300),
		prediction("Brake Inspection", 5, 100),
	})
	require.Len(t, entries, 3)
	assert.Equal(t, CategoryElectronics, entries[0].Category)
	assert.Equal(t, CategoryDoors, entries[1].Category)
	assert.Equal(t, CategoryBraking, entries[2].Category)
}

func TestAggregate_SumsWithoutDrift(t *testing.T) {
	entries := Aggregate([]models.MaintenancePrediction{
		prediction("Oil Change", 1, 0.1),
		prediction("Oil Change", 2, 0.2),
	})
	require.Len(t, entries, 1)
	assert.Equal(t, 0.3, entries[0].Cost)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(busPredictions())

	assert.Equal(t, 1205.0, summary.Total)
	assert.Equal(t, 4, summary.ItemCount)
	assert.Equal(t, CategoryPropulsion, summary.TopCategory)
	assert.Equal(t, CategoryFluids, summary.MostFrequentCategory)
	require.NotNil(t, summary.NextDue)
	assert.Equal(t, daysFromNow(14), *summary.NextDue)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Entries)
	assert.Empty(t, summary.TopCategory)
	assert.Nil(t, summary.NextDue)
}

func TestTotalCost(t *testing.T) {
	assert.Equal(t, 1205.0, TotalCost(busPredictions()))
	assert.Zero(t, TotalCost(nil))
}
