package entities

import "time"

// ClinicalObservation is a free-text note recorded alongside the structured
// questionnaire answers.
type ClinicalObservation struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Observation sources.
const (
	ObservationSourceManualEntry     = "manual-entry"
	ObservationSourcePatientResponse = "patient-response"
)
