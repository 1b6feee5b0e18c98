package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

var hundred = decimal.NewFromInt(100)

// CostBreakdownEntry is the upcoming maintenance cost of one category.
type CostBreakdownEntry struct {
	Category   Category `json:"category"`
	Cost       float64  `json:"cost"`
	Items      int      `json:"items"`
	Percentage float64  `json:"percentage"`
}

// CostSummary is a cost breakdown plus the facts derived from it.
type CostSummary struct {
	Entries              []CostBreakdownEntry `json:"entries"`
	Total                float64              `json:"total"`
	ItemCount            int                  `json:"item_count"`
	TopCategory          Category             `json:"top_category,omitempty"`
	MostFrequentCategory Category             `json:"most_frequent_category,omitempty"`
	NextDue              *models.Date         `json:"next_due,omitempty"`
}

type bucket struct {
	category Category
	cost     decimal.Decimal
	items    int
}

// Aggregate groups predictions by cost category. Entries are ordered by cost,
// highest first; equal costs keep the order in which their category was first
// seen. An empty input yields an empty slice.
func Aggregate(items []models.MaintenancePrediction) []CostBreakdownEntry {
	buckets, total := group(items)
	return entries(buckets, total)
}

// Summarize aggregates predictions and derives the top-cost category, the
// category with the most items and the grand total.
func Summarize(items []models.MaintenancePrediction) CostSummary {
	buckets, total := group(items)
	summary := CostSummary{
		Entries:   entries(buckets, total),
		Total:     total.InexactFloat64(),
		ItemCount: len(items),
	}
	if len(summary.Entries) > 0 {
		summary.TopCategory = summary.Entries[0].Category
	}
	// buckets are in first-seen order, so a strict comparison keeps the
	// earliest category on ties.
	most := 0
	for _, b := range buckets {
		if b.items > most {
			most = b.items
			summary.MostFrequentCategory = b.category
		}
	}
	if next, ok := nextDue(items); ok {
		summary.NextDue = &next
	}
	return summary
}

func group(items []models.MaintenancePrediction) ([]*bucket, decimal.Decimal) {
	var ordered []*bucket
	index := make(map[Category]*bucket)
	total := decimal.Zero
	for _, item := range items {
		cat := Categorize(item.Type)
		b, ok := index[cat]
		if !ok {
			b = &bucket{category: cat, cost: decimal.Zero}
			index[cat] = b
			ordered = append(ordered, b)
		}
		cost := decimal.NewFromFloat(item.Cost)
		b.cost = b.cost.Add(cost)
		b.items++
		total = total.Add(cost)
	}
	return ordered, total
}

func entries(buckets []*bucket, total decimal.Decimal) []CostBreakdownEntry {
	out := make([]CostBreakdownEntry, 0, len(buckets))
	for _, b := range buckets {
		pct := 0.0
		if !total.IsZero() {
			pct = b.cost.Mul(hundred).Div(total).InexactFloat64()
		}
		out = append(out, CostBreakdownEntry{
			Category:   b.category,
			Cost:       b.cost.InexactFloat64(),
			Items:      b.items,
			Percentage: pct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

func nextDue(items []models.MaintenancePrediction) (models.Date, bool) {
	var next models.Date
	found := false
	for _, item := range items {
		if !found || item.DueDate.Before(next) {
			next = item.DueDate
			found = true
		}
	}
	return next, found
}

// TotalCost sums prediction costs without float drift.
func TotalCost(items []models.MaintenancePrediction) float64 {
	return sumCosts(items).InexactFloat64()
}

func sumCosts(items []models.MaintenancePrediction) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Cost))
	}
	return total
}
