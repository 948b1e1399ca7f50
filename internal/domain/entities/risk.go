package entities

import "time"

// RiskLevel represents the session suicide-risk classification
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

var riskSeverity = map[RiskLevel]int{
	RiskLevelLow:      0,
	RiskLevelModerate: 1,
	RiskLevelHigh:     2,
	RiskLevelCritical: 3,
}

// Severity returns the numeric rank of a risk level for comparisons.
func (l RiskLevel) Severity() int {
	return riskSeverity[l]
}

// IsValid reports whether l is one of the defined risk levels.
func (l RiskLevel) IsValid() bool {
	_, ok := riskSeverity[l]
	return ok
}

// MaxRiskLevel returns the more severe of two risk levels.
func MaxRiskLevel(a, b RiskLevel) RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// RiskAlert is an escalation notice raised when the risk level moves above
// low. Alerts are never deleted, only acknowledged.
type RiskAlert struct {
	ID                 string    `json:"id"`
	Level              RiskLevel `json:"level"`
	Message            string    `json:"message"`
	Timestamp          time.Time `json:"timestamp"`
	Acknowledged       bool      `json:"acknowledged"`
	RecommendedActions []string  `json:"recommended_actions"`
}
