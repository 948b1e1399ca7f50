package services

import (
	"fmt"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/pkg/config"
)

// Tracked diagnoses. Registration order is significant: it is the tie-break
// order of the final ranking.
const (
	DiagnosisMajorDepressiveDisorder    = "Major Depressive Disorder"
	DiagnosisGeneralizedAnxietyDisorder = "Generalized Anxiety Disorder"
	DiagnosisPTSD                       = "Post-Traumatic Stress Disorder"
)

// WeightTable maps (category, diagnosis) pairs to probability multipliers.
// A missing entry means weight 0 for that diagnosis on that category.
type WeightTable map[entities.QuestionCategory]map[string]int

// NewWeightTable builds the weight table from the configured multipliers.
// The self-harm category is deliberately absent: it feeds risk escalation,
// not diagnosis probabilities.
func NewWeightTable(cfg *config.AssessmentConfig) WeightTable {
	return WeightTable{
		entities.CategoryMood: {
			DiagnosisMajorDepressiveDisorder: cfg.MoodWeight,
		},
		entities.CategoryAnxiety: {
			DiagnosisGeneralizedAnxietyDisorder: cfg.AnxietyWeight,
		},
		entities.CategoryTrauma: {
			DiagnosisPTSD: cfg.TraumaWeight,
		},
	}
}

// Validate checks every table entry against the closed category taxonomy
// and the tracked diagnosis set.
func (t WeightTable) Validate(diagnoses []entities.DiagnosisProbability) error {
	tracked := make(map[string]struct{}, len(diagnoses))
	for _, d := range diagnoses {
		tracked[d.Diagnosis] = struct{}{}
	}

	for category, entries := range t {
		if !entities.IsKnownCategory(category) {
			return fmt.Errorf("weight table references unknown category %q", category)
		}
		for diagnosis, weight := range entries {
			if _, ok := tracked[diagnosis]; !ok {
				return fmt.Errorf("weight table references untracked diagnosis %q", diagnosis)
			}
			if weight < 0 {
				return fmt.Errorf("weight for (%s, %s) is negative", category, diagnosis)
			}
		}
	}
	return nil
}

// InitialProbabilities returns the zeroed diagnosis records every session
// starts from.
func InitialProbabilities() []entities.DiagnosisProbability {
	return []entities.DiagnosisProbability{
		{
			Diagnosis:          DiagnosisMajorDepressiveDisorder,
			Probability:        0,
			ConfidenceRange:    entities.ConfidenceRange{Lower: 0, Upper: 10},
			Range:              entities.SeverityMinimal,
			Description:        "Persistent sadness, loss of interest, and significant functional impairment",
			SupportingSymptoms: []string{},
		},
		{
			Diagnosis:          DiagnosisGeneralizedAnxietyDisorder,
			Probability:        0,
			ConfidenceRange:    entities.ConfidenceRange{Lower: 0, Upper: 10},
			Range:              entities.SeverityMinimal,
			Description:        "Excessive worry and anxiety about multiple life areas",
			SupportingSymptoms: []string{},
		},
		{
			Diagnosis:          DiagnosisPTSD,
			Probability:        0,
			ConfidenceRange:    entities.ConfidenceRange{Lower: 0, Upper: 10},
			Range:              entities.SeverityMinimal,
			Description:        "Trauma-related stress symptoms",
			SupportingSymptoms: []string{},
		},
	}
}

// Evidence bucket names and instrument ceilings.
const (
	BucketDepression = "Depression"
	BucketAnxiety    = "Anxiety"
	BucketPTSD       = "PTSD"
)

// categoryBucket maps question categories to their evidence bucket. The
// depression bucket covers the full PHQ domain; categories without an entry
// (self-harm, general) are evidence-neutral.
var categoryBucket = map[entities.QuestionCategory]string{
	entities.CategoryMood:          BucketDepression,
	entities.CategorySleep:         BucketDepression,
	entities.CategoryEnergy:        BucketDepression,
	entities.CategoryConcentration: BucketDepression,
	entities.CategoryAnxiety:       BucketAnxiety,
	entities.CategoryTrauma:        BucketPTSD,
}

// initialEvidence returns the zeroed evidence buckets. Max scores are the
// PHQ-9, GAD-7 and PCL-5 instrument ceilings.
func initialEvidence() []entities.EvidenceBucket {
	return []entities.EvidenceBucket{
		{Category: BucketDepression, Score: 0, MaxScore: 27, Findings: []string{}},
		{Category: BucketAnxiety, Score: 0, MaxScore: 21, Findings: []string{}},
		{Category: BucketPTSD, Score: 0, MaxScore: 80, Findings: []string{}},
	}
}
