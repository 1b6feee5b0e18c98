package models

// Role represents operator roles in the system
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

// Actions checked by HasPermission.
const (
	ActionViewAnalysis  = "view_analysis"
	ActionRunAnalysis   = "run_analysis"
	ActionPublishAlerts = "publish_alerts"
)

// Operator is an account allowed to query the engine
type Operator struct {
	Username     string `json:"username" bson:"username"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         Role   `json:"role" bson:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
}

// Claims represents JWT claims
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleAnalyst, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if an operator has permission for a specific action
func (o *Operator) HasPermission(action string) bool {
	switch o.Role {
	case RoleAdmin:
		return true
	case RoleAnalyst:
		return action == ActionViewAnalysis || action == ActionRunAnalysis
	case RoleViewer:
		return action == ActionViewAnalysis
	default:
		return false
	}
}
