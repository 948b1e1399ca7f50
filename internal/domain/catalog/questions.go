package catalog

import "github.com/BeenaAbe/dify-mental-health/internal/domain/entities"

// frequencyOptions is the standard two-week frequency scale shared by the
// PHQ-9, GAD-7 and PCL-5 derived items. Points equal the scale value.
func frequencyOptions() []entities.QuestionOption {
	return []entities.QuestionOption{
		{Value: 0, Text: "Not at all", Points: 0},
		{Value: 1, Text: "Several days", Points: 1},
		{Value: 2, Text: "More than half the days", Points: 2},
		{Value: 3, Text: "Nearly every day", Points: 3},
	}
}

// Default returns the built-in screening catalog. The item wording follows
// the public-domain PHQ-9 / GAD-7 instruments plus two PCL-5 style trauma
// items; the self-harm item is PHQ-9 item 9 and feeds risk escalation
// rather than diagnosis probabilities.
func Default() (*Catalog, error) {
	return New([]entities.Question{
		{
			ID:       "phq9-1",
			Text:     "Over the last 2 weeks, how often have you been bothered by little interest or pleasure in doing things?",
			Category: entities.CategoryMood,
			Options:  frequencyOptions(),
			Required: true,
			Order:    1,
		},
		{
			ID:       "phq9-2",
			Text:     "Over the last 2 weeks, how often have you been bothered by feeling down, depressed, or hopeless?",
			Category: entities.CategoryMood,
			Options:  frequencyOptions(),
			Required: true,
			Order:    2,
		},
		{
			ID:       "phq9-3",
			Text:     "Over the last 2 weeks, how often have you had trouble falling or staying asleep, or sleeping too much?",
			Category: entities.CategorySleep,
			Options:  frequencyOptions(),
			Required: true,
			Order:    3,
		},
		{
			ID:       "phq9-4",
			Text:     "Over the last 2 weeks, how often have you been feeling tired or having little energy?",
			Category: entities.CategoryEnergy,
			Options:  frequencyOptions(),
			Required: true,
			Order:    4,
		},
		{
			ID:       "phq9-7",
			Text:     "Over the last 2 weeks, how often have you had trouble concentrating on things, such as reading or watching television?",
			Category: entities.CategoryConcentration,
			Options:  frequencyOptions(),
			Required: true,
			Order:    5,
		},
		{
			ID:       "gad7-1",
			Text:     "Over the last 2 weeks, how often have you been bothered by feeling nervous, anxious, or on edge?",
			Category: entities.CategoryAnxiety,
			Options:  frequencyOptions(),
			Required: true,
			Order:    6,
		},
		{
			ID:       "gad7-2",
			Text:     "Over the last 2 weeks, how often have you not been able to stop or control worrying?",
			Category: entities.CategoryAnxiety,
			Options:  frequencyOptions(),
			Required: true,
			Order:    7,
		},
		{
			ID:       "pcl5-1",
			Text:     "In the past 2 weeks, how often have you been bothered by repeated, disturbing, and unwanted memories of a stressful experience?",
			Category: entities.CategoryTrauma,
			Options:  frequencyOptions(),
			Required: true,
			Order:    8,
		},
		{
			ID:       "pcl5-2",
			Text:     "In the past 2 weeks, how often have you avoided memories, thoughts, or feelings related to a stressful experience?",
			Category: entities.CategoryTrauma,
			Options:  frequencyOptions(),
			Required: true,
			Order:    9,
		},
		{
			ID:       "phq9-9",
			Text:     "Over the past 2 weeks, have you had thoughts that you would be better off dead or of hurting yourself?",
			Category: entities.CategorySelfHarm,
			Options:  frequencyOptions(),
			Required: true,
			Order:    10,
		},
	})
}
