package models

// LifecycleUnit says what TotalExpected and Remaining are measured in.
type LifecycleUnit string

const (
	UnitMiles LifecycleUnit = "miles"
	UnitYears LifecycleUnit = "years"
)

// LifecycleProfile represents the whole-life economic model of an asset.
type LifecycleProfile struct {
	TotalExpected          float64         `json:"total_expected" bson:"total_expected" yaml:"total_expected"`
	Remaining              float64         `json:"remaining" bson:"remaining" yaml:"remaining"`
	Unit                   LifecycleUnit   `json:"unit,omitempty" bson:"unit,omitempty" yaml:"unit,omitempty"`
	MonthlyMaintenanceCost float64         `json:"monthly_maintenance_cost" bson:"monthly_maintenance_cost" yaml:"monthly_maintenance_cost"`
	ProjectedAnnualCost    float64         `json:"projected_annual_cost" bson:"projected_annual_cost" yaml:"projected_annual_cost"`
	ReplacementCost        float64         `json:"replacement_cost" bson:"replacement_cost" yaml:"replacement_cost"`
	ConditionScore         *float64        `json:"condition_score,omitempty" bson:"condition_score,omitempty" yaml:"condition_score,omitempty"`
	BreakEven              *BreakEvenPoint `json:"break_even,omitempty" bson:"break_even,omitempty" yaml:"break_even,omitempty"`
}

// BreakEvenPoint is where cumulative maintenance spend is projected to pass
// the replacement cost. Whether it is approaching is derived, never stored.
type BreakEvenPoint struct {
	Usage           float64 `json:"usage" bson:"usage" yaml:"usage"`
	Date            Date    `json:"date" bson:"date" yaml:"date"`
	MonthsRemaining float64 `json:"months_remaining" bson:"months_remaining" yaml:"months_remaining"`
}
