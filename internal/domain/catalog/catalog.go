package catalog

import (
	"fmt"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
)

// Catalog is the immutable ordered sequence of assessment questions.
// Construction validates the ordering invariant once; afterwards the catalog
// is read-only.
type Catalog struct {
	questions []entities.Question
}

// New builds a catalog and checks its construction invariants: unique
// question IDs, order fields matching physical sequence position, at least
// one option per question, and unique option values within each question.
func New(questions []entities.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one question")
	}

	seenIDs := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question at position %d has an empty id", i)
		}
		if _, dup := seenIDs[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seenIDs[q.ID] = struct{}{}

		if q.Order != i+1 {
			return nil, fmt.Errorf("question %q has order %d, expected %d", q.ID, q.Order, i+1)
		}
		if !entities.IsKnownCategory(q.Category) {
			return nil, fmt.Errorf("question %q has unknown category %q", q.ID, q.Category)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %q has no options", q.ID)
		}

		seenValues := make(map[int]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := seenValues[opt.Value]; dup {
				return nil, fmt.Errorf("question %q has duplicate option value %d", q.ID, opt.Value)
			}
			seenValues[opt.Value] = struct{}{}
			if opt.Points < 0 {
				return nil, fmt.Errorf("question %q option %d has negative points", q.ID, opt.Value)
			}
		}
	}

	return &Catalog{questions: append([]entities.Question(nil), questions...)}, nil
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// QuestionAt returns the question at the given zero-based index.
func (c *Catalog) QuestionAt(index int) (entities.Question, error) {
	if index < 0 || index >= len(c.questions) {
		return entities.Question{}, fmt.Errorf("question index %d out of range [0,%d)", index, len(c.questions))
	}
	return c.questions[index], nil
}

// Questions returns a copy of the full question sequence.
func (c *Catalog) Questions() []entities.Question {
	return append([]entities.Question(nil), c.questions...)
}
