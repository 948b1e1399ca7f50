package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
)

func validQuestions() []entities.Question {
	return []entities.Question{
		{
			ID:       "q-1",
			Order:    1,
			Text:     "first question",
			Category: entities.CategoryMood,
			Options: []entities.QuestionOption{
				{Value: 0, Text: "no", Points: 0},
				{Value: 1, Text: "yes", Points: 1},
			},
		},
		{
			ID:       "q-2",
			Order:    2,
			Text:     "second question",
			Category: entities.CategoryAnxiety,
			Options: []entities.QuestionOption{
				{Value: 0, Text: "no", Points: 0},
				{Value: 1, Text: "yes", Points: 1},
			},
		},
	}
}

func TestNewCatalog(t *testing.T) {
	cat, err := New(validQuestions())
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	q, err := cat.QuestionAt(1)
	require.NoError(t, err)
	assert.Equal(t, "q-2", q.ID)

	_, err = cat.QuestionAt(2)
	assert.Error(t, err)
	_, err = cat.QuestionAt(-1)
	assert.Error(t, err)
}

func TestNewCatalog_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]entities.Question) []entities.Question
		wantErr string
	}{
		{
			"empty catalog",
			func(q []entities.Question) []entities.Question { return nil },
			"at least one question",
		},
		{
			"empty id",
			func(q []entities.Question) []entities.Question { q[0].ID = ""; return q },
			"empty id",
		},
		{
			"duplicate id",
			func(q []entities.Question) []entities.Question { q[1].ID = q[0].ID; return q },
			"duplicate question id",
		},
		{
			"order mismatch",
			func(q []entities.Question) []entities.Question { q[1].Order = 5; return q },
			"order",
		},
		{
			"unknown category",
			func(q []entities.Question) []entities.Question {
				q[0].Category = entities.QuestionCategory("appetite")
				return q
			},
			"unknown category",
		},
		{
			"no options",
			func(q []entities.Question) []entities.Question { q[0].Options = nil; return q },
			"no options",
		},
		{
			"duplicate option value",
			func(q []entities.Question) []entities.Question {
				q[0].Options[1].Value = q[0].Options[0].Value
				return q
			},
			"duplicate option value",
		},
		{
			"negative points",
			func(q []entities.Question) []entities.Question {
				q[0].Options[1].Points = -1
				return q
			},
			"negative points",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mutate(validQuestions()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 10, cat.Len())

	first, err := cat.QuestionAt(0)
	require.NoError(t, err)
	assert.Equal(t, "phq9-1", first.ID)
	assert.Equal(t, entities.CategoryMood, first.Category)

	last, err := cat.QuestionAt(cat.Len() - 1)
	require.NoError(t, err)
	assert.Equal(t, "phq9-9", last.ID)
	assert.Equal(t, entities.CategorySelfHarm, last.Category)

	// Every question uses the standard frequency scale.
	for _, q := range cat.Questions() {
		require.Len(t, q.Options, 4, q.ID)
		for i, opt := range q.Options {
			assert.Equal(t, i, opt.Value, q.ID)
			assert.Equal(t, i, opt.Points, q.ID)
		}
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	cat, err := New(validQuestions())
	require.NoError(t, err)

	list := cat.Questions()
	list[0].ID = "mutated"

	q, err := cat.QuestionAt(0)
	require.NoError(t, err)
	assert.Equal(t, "q-1", q.ID)
}
