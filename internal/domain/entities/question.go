package entities

import "time"

// QuestionCategory groups questions by clinical domain
type QuestionCategory string

const (
	CategoryMood          QuestionCategory = "mood"
	CategoryAnxiety       QuestionCategory = "anxiety"
	CategorySleep         QuestionCategory = "sleep"
	CategoryEnergy        QuestionCategory = "energy"
	CategoryConcentration QuestionCategory = "concentration"
	CategoryTrauma        QuestionCategory = "trauma"
	CategorySelfHarm      QuestionCategory = "self-harm"
	CategoryGeneral       QuestionCategory = "general"
)

// KnownCategories lists every category the engine recognizes. Weight and
// bucket tables are validated against this closed set at construction time.
var KnownCategories = []QuestionCategory{
	CategoryMood,
	CategoryAnxiety,
	CategorySleep,
	CategoryEnergy,
	CategoryConcentration,
	CategoryTrauma,
	CategorySelfHarm,
	CategoryGeneral,
}

// IsKnownCategory reports whether c belongs to the closed category taxonomy.
func IsKnownCategory(c QuestionCategory) bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// QuestionOption is a single response choice with its score contribution
type QuestionOption struct {
	Value  int    `json:"value"`
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Question is one item of the assessment catalog. Immutable once the
// catalog is constructed.
type Question struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Category QuestionCategory `json:"category"`
	Options  []QuestionOption `json:"options"`
	Required bool             `json:"required"`
	Order    int              `json:"order"`
}

// OptionByValue returns the option matching the submitted value.
func (q *Question) OptionByValue(value int) (QuestionOption, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return QuestionOption{}, false
}

// AnswerRecord is the append-only record of one accepted answer
type AnswerRecord struct {
	QuestionID    string           `json:"question_id"`
	QuestionText  string           `json:"question_text"`
	SelectedValue int              `json:"selected_value"`
	AnswerText    string           `json:"answer_text"`
	Points        int              `json:"points"`
	Category      QuestionCategory `json:"category"`
	Timestamp     time.Time        `json:"timestamp"`
}
