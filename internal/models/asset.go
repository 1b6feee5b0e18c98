package models

// AssetCategory identifies the kind of maintainable unit.
type AssetCategory string

const (
	CategoryBus   AssetCategory = "bus"
	CategoryTrain AssetCategory = "train"
	CategoryTrack AssetCategory = "track"
)

// AssetStatus is the operating status reported by the fleet source.
type AssetStatus string

const (
	StatusOperational    AssetStatus = "operational"
	StatusMaintenanceDue AssetStatus = "maintenance_due"
	StatusCritical       AssetStatus = "critical"
	StatusInactive       AssetStatus = "inactive"
)

// Priority is the maintenance priority assigned upstream.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Condition is the inspected physical condition of an asset.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Asset represents a maintainable unit: a vehicle or an infrastructure segment.
type Asset struct {
	ID              string                  `json:"id" bson:"asset_id" yaml:"id"`
	Category        AssetCategory           `json:"category" bson:"category" yaml:"category"`
	Name            string                  `json:"name,omitempty" bson:"name,omitempty" yaml:"name,omitempty"`
	AcquisitionYear int                     `json:"acquisition_year" bson:"acquisition_year" yaml:"acquisition_year"`
	Usage           float64                 `json:"usage" bson:"usage" yaml:"usage"` // mileage or equivalent counter
	Status          AssetStatus             `json:"status" bson:"status" yaml:"status"`
	Priority        Priority                `json:"priority,omitempty" bson:"priority,omitempty" yaml:"priority,omitempty"`
	Condition       Condition               `json:"condition,omitempty" bson:"condition,omitempty" yaml:"condition,omitempty"`
	HealthScore     *float64                `json:"health_score,omitempty" bson:"health_score,omitempty" yaml:"health_score,omitempty"`
	Systems         map[string]float64      `json:"systems,omitempty" bson:"systems,omitempty" yaml:"systems,omitempty"`
	Lifecycle       *LifecycleProfile       `json:"lifecycle,omitempty" bson:"lifecycle,omitempty" yaml:"lifecycle,omitempty"`
	Predictions     []MaintenancePrediction `json:"predictions" bson:"predictions" yaml:"predictions"`
}

// IsValidCategory checks if a category is one of the known asset kinds.
func IsValidCategory(c AssetCategory) bool {
	switch c {
	case CategoryBus, CategoryTrain, CategoryTrack:
		return true
	default:
		return false
	}
}

// IsValidStatus checks if a status is known. An empty status is accepted.
func IsValidStatus(s AssetStatus) bool {
	switch s {
	case "", StatusOperational, StatusMaintenanceDue, StatusCritical, StatusInactive:
		return true
	default:
		return false
	}
}

// IsValidPriority checks if a priority is known. An empty priority is accepted.
func IsValidPriority(p Priority) bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// IsValidCondition checks if a condition is known. An empty condition is accepted.
func IsValidCondition(c Condition) bool {
	switch c {
	case "", ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}
