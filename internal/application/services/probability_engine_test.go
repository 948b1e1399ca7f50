package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
)

func newTestEngine(t *testing.T) *ProbabilityEngine {
	t.Helper()
	engine, err := NewProbabilityEngine(NewWeightTable(testAssessmentConfig()), InitialProbabilities())
	require.NoError(t, err)
	return engine
}

func newScoringSession() *entities.Session {
	return &entities.Session{Probabilities: InitialProbabilities()}
}

func moodRecord(points int) *entities.AnswerRecord {
	return &entities.AnswerRecord{
		QuestionID:   "phq9-1",
		QuestionText: "Little interest or pleasure in doing things",
		Points:       points,
		Category:     entities.CategoryMood,
	}
}

func TestWeightTableValidate(t *testing.T) {
	diagnoses := InitialProbabilities()

	t.Run("default table is valid", func(t *testing.T) {
		assert.NoError(t, NewWeightTable(testAssessmentConfig()).Validate(diagnoses))
	})

	t.Run("unknown category", func(t *testing.T) {
		table := WeightTable{
			entities.QuestionCategory("appetite"): {DiagnosisMajorDepressiveDisorder: 8},
		}
		err := table.Validate(diagnoses)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown category")
	})

	t.Run("untracked diagnosis", func(t *testing.T) {
		table := WeightTable{
			entities.CategoryMood: {"Bipolar Disorder": 8},
		}
		err := table.Validate(diagnoses)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "untracked diagnosis")
	})

	t.Run("negative weight", func(t *testing.T) {
		table := WeightTable{
			entities.CategoryMood: {DiagnosisMajorDepressiveDisorder: -1},
		}
		err := table.Validate(diagnoses)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})
}

func TestNewProbabilityEngine_RejectsInvalidTable(t *testing.T) {
	table := WeightTable{
		entities.CategoryMood: {"Bipolar Disorder": 8},
	}
	_, err := NewProbabilityEngine(table, InitialProbabilities())
	require.Error(t, err)
}

func TestApplyAnswer_WeightedIncrement(t *testing.T) {
	engine := newTestEngine(t)
	session := newScoringSession()

	engine.ApplyAnswer(session, moodRecord(2))

	mdd := session.Probabilities[0]
	assert.Equal(t, 16, mdd.Probability)
	assert.Equal(t, entities.SeverityMinimal, mdd.Range)
	assert.Equal(t, entities.ConfidenceRange{Lower: 6, Upper: 26}, mdd.ConfidenceRange)
	require.Len(t, mdd.SupportingSymptoms, 1)
	assert.True(t, strings.HasPrefix(mdd.SupportingSymptoms[0], "Little interest"))

	// Other diagnoses carry no mood weight.
	assert.Equal(t, 0, session.Probabilities[1].Probability)
	assert.Equal(t, 0, session.Probabilities[2].Probability)
}

func TestApplyAnswer_AccumulatesAcrossAnswers(t *testing.T) {
	engine := newTestEngine(t)
	session := newScoringSession()

	engine.ApplyAnswer(session, moodRecord(3))
	engine.ApplyAnswer(session, &entities.AnswerRecord{
		QuestionID:   "phq9-2",
		QuestionText: "Feeling down, depressed, or hopeless",
		Points:       3,
		Category:     entities.CategoryMood,
	})

	mdd := session.Probabilities[0]
	assert.Equal(t, 48, mdd.Probability)
	assert.Equal(t, entities.SeverityModerate, mdd.Range)
	assert.Len(t, mdd.SupportingSymptoms, 2)
}

func TestApplyAnswer_ClampsAtHundred(t *testing.T) {
	engine := newTestEngine(t)
	session := newScoringSession()

	for i := 0; i < 6; i++ {
		engine.ApplyAnswer(session, moodRecord(3))
	}

	mdd := session.Probabilities[0]
	assert.Equal(t, 100, mdd.Probability)
	assert.Equal(t, entities.SeveritySevere, mdd.Range)
	assert.Equal(t, entities.ConfidenceRange{Lower: 90, Upper: 100}, mdd.ConfidenceRange)
	// Repeated question text is recorded once.
	assert.Len(t, mdd.SupportingSymptoms, 1)
}

func TestApplyAnswer_ZeroPointsAddNoSymptom(t *testing.T) {
	engine := newTestEngine(t)
	session := newScoringSession()

	engine.ApplyAnswer(session, moodRecord(0))

	mdd := session.Probabilities[0]
	assert.Equal(t, 0, mdd.Probability)
	assert.Empty(t, mdd.SupportingSymptoms)
}

func TestApplyAnswer_SelfHarmCarriesNoWeight(t *testing.T) {
	engine := newTestEngine(t)
	session := newScoringSession()

	engine.ApplyAnswer(session, &entities.AnswerRecord{
		QuestionID: "phq9-9",
		Points:     3,
		Category:   entities.CategorySelfHarm,
	})

	for _, d := range session.Probabilities {
		assert.Equal(t, 0, d.Probability)
		assert.Empty(t, d.SupportingSymptoms)
	}
}

func TestTruncateSymptom(t *testing.T) {
	short := truncateSymptom("Feeling nervous")
	assert.Equal(t, "Feeling nervous…", short)

	long := strings.Repeat("a", 80)
	truncated := truncateSymptom(long)
	assert.Equal(t, strings.Repeat("a", 50)+"…", truncated)

	// Truncation counts runes, not bytes.
	multibyte := strings.Repeat("å", 60)
	assert.Equal(t, strings.Repeat("å", 50)+"…", truncateSymptom(multibyte))
}
