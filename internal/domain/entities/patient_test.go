package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

func TestPatientInfoValidate(t *testing.T) {
	valid := PatientInfo{
		Initials:       "JD",
		Age:            34,
		Gender:         GenderNonBinary,
		PrimaryConcern: "sleep problems",
		AssessmentType: AssessmentTypeGeneralWellness,
	}
	assert.NoError(t, valid.Validate())

	t.Run("collects all field errors", func(t *testing.T) {
		bad := PatientInfo{Initials: "  ", Age: 0}
		err := bad.Validate()
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Len(t, appErr.Fields, 4)
		assert.Contains(t, appErr.Fields, "initials")
		assert.Contains(t, appErr.Fields, "age")
		assert.Contains(t, appErr.Fields, "primary_concern")
		assert.Contains(t, appErr.Fields, "assessment_type")
	})

	t.Run("age bounds", func(t *testing.T) {
		p := valid
		p.Age = 121
		require.Error(t, p.Validate())
		p.Age = 120
		assert.NoError(t, p.Validate())
		p.Age = 1
		assert.NoError(t, p.Validate())
	})
}

func TestEvidenceBucketRecord(t *testing.T) {
	bucket := EvidenceBucket{Category: "Depression", MaxScore: 27, Findings: []string{}}

	bucket.Record(0, "Not at all")
	assert.Equal(t, 0, bucket.Score)
	assert.Empty(t, bucket.Findings)

	bucket.Record(3, "Nearly every day")
	bucket.Record(2, "More than half the days")
	assert.Equal(t, 5, bucket.Score)
	assert.Equal(t, []string{"Nearly every day", "More than half the days"}, bucket.Findings)
}
