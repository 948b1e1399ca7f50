package services

import (
	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
)

// ProbabilityEngine applies the category-to-diagnosis weight table to
// accepted answers. It recomputes every tracked diagnosis on every answer,
// so records with a zero increment are still re-clamped and re-banded.
type ProbabilityEngine struct {
	weights WeightTable
}

// NewProbabilityEngine creates a probability engine after validating the
// weight table against the tracked diagnosis set.
func NewProbabilityEngine(weights WeightTable, diagnoses []entities.DiagnosisProbability) (*ProbabilityEngine, error) {
	if err := weights.Validate(diagnoses); err != nil {
		return nil, err
	}
	return &ProbabilityEngine{weights: weights}, nil
}

// ApplyAnswer folds one accepted answer into the session's diagnosis
// records. Self-harm answers carry no weight entries and therefore leave
// probabilities unchanged.
func (e *ProbabilityEngine) ApplyAnswer(session *entities.Session, record *entities.AnswerRecord) {
	for i := range session.Probabilities {
		diagnosis := &session.Probabilities[i]

		weight := e.weights[record.Category][diagnosis.Diagnosis]
		increment := weight * record.Points

		diagnosis.Apply(diagnosis.Probability + increment)

		if increment > 0 {
			diagnosis.AddSupportingSymptom(truncateSymptom(record.QuestionText))
		}
	}
}

const symptomTruncateLen = 50

// truncateSymptom shortens a question text to its leading runes for use as
// a supporting-symptom label.
func truncateSymptom(text string) string {
	runes := []rune(text)
	if len(runes) > symptomTruncateLen {
		runes = runes[:symptomTruncateLen]
	}
	return string(runes) + "…"
}
