package analysis

import (
	"fmt"
	"sort"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// DefaultHorizons are the projection horizons in months used when the caller
// does not supply any.
var DefaultHorizons = []int{1, 3, 6, 12, 24}

// ProjectionPoint is the cumulative maintenance cost at a horizon.
type ProjectionPoint struct {
	Months         int     `json:"months"`
	CumulativeCost float64 `json:"cumulative_cost"`
	// ScalePercent is this point's cost as a share of the longest horizon's.
	ScalePercent float64 `json:"scale_percent"`
}

// Project extrapolates the monthly maintenance cost linearly over each
// horizon. There is no compounding or inflation adjustment. Points are
// returned in ascending horizon order.
func Project(profile *models.LifecycleProfile, horizons []int) ([]ProjectionPoint, error) {
	if profile == nil {
		return nil, ErrNotApplicable
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}
	for i, h := range horizons {
		if h <= 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("horizons[%d]", i), Value: h, Reason: "must be positive"}
		}
	}

	sorted := append([]int(nil), horizons...)
	sort.Ints(sorted)

	points := make([]ProjectionPoint, len(sorted))
	for i, h := range sorted {
		points[i] = ProjectionPoint{
			Months:         h,
			CumulativeCost: float64(h) * profile.MonthlyMaintenanceCost,
		}
	}
	last := points[len(points)-1].CumulativeCost
	if last > 0 {
		for i := range points {
			points[i].ScalePercent = points[i].CumulativeCost / last * 100
		}
	}
	return points, nil
}
