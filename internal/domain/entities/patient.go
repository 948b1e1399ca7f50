package entities

import (
	"strings"

	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

// Gender represents the patient gender identity
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderNonBinary      Gender = "non-binary"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
	GenderOther          Gender = "other"
)

// AssessmentType represents the kind of assessment being conducted
type AssessmentType string

const (
	AssessmentTypeDepressionScreening AssessmentType = "depression-screening"
	AssessmentTypeAnxietyAssessment   AssessmentType = "anxiety-assessment"
	AssessmentTypePTSDAssessment      AssessmentType = "ptsd-assessment"
	AssessmentTypeGeneralWellness     AssessmentType = "general-wellness"
	AssessmentTypeComprehensive       AssessmentType = "comprehensive"
	AssessmentTypeFollowUp            AssessmentType = "follow-up"
)

// PatientInfo holds the intake data collected before a session starts.
// Only initials are stored, never full names.
type PatientInfo struct {
	Initials       string         `json:"initials"`
	Age            int            `json:"age"`
	Gender         Gender         `json:"gender"`
	PrimaryConcern string         `json:"primary_concern"`
	AssessmentType AssessmentType `json:"assessment_type"`
	Occupation     string         `json:"occupation,omitempty"`

	PreviousTreatment bool `json:"previous_treatment,omitempty"`
}

// Validate checks the intake fields and returns a validation error carrying
// one message per offending field.
func (p *PatientInfo) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(p.Initials) == "" {
		fields["initials"] = "initials are required"
	}
	if p.Age < 1 || p.Age > 120 {
		fields["age"] = "age must be between 1 and 120"
	}
	if strings.TrimSpace(p.PrimaryConcern) == "" {
		fields["primary_concern"] = "primary concern is required"
	}
	if p.AssessmentType == "" {
		fields["assessment_type"] = "assessment type is required"
	}

	if len(fields) > 0 {
		return apperrors.NewFieldValidationError("invalid patient intake", fields)
	}
	return nil
}
