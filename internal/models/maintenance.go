package models

// MaintenancePrediction represents one forecasted maintenance event.
type MaintenancePrediction struct {
	Type       string   `json:"type" bson:"type" yaml:"type"`             // free text, e.g. "Brake Inspection"
	DueDate    Date     `json:"due_date" bson:"due_date" yaml:"due_date"` // UTC calendar date
	DueUsage   *float64 `json:"due_usage,omitempty" bson:"due_usage,omitempty" yaml:"due_usage,omitempty"`
	Cost       float64  `json:"cost" bson:"cost" yaml:"cost"`                   // in USD
	Confidence float64  `json:"confidence" bson:"confidence" yaml:"confidence"` // percent, 0-100
}
