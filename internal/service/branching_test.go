package service

import (
	"context"
	"testing"

	"hivequiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchingResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the latest override for the triple", func(t *testing.T) {
		overrides := new(MockBranchOverrideRepository)
		resolver := NewBranchingResolver(overrides)
		overrides.On("Latest", ctx, "choose-your-path", "q1", "a").Return(&domain.BranchOverride{
			QuizSlug:       "choose-your-path",
			QuestionID:     "q1",
			OptionID:       "a",
			NextQuestionID: "q4",
			Seq:            12,
		}, nil)

		next, err := resolver.Resolve(ctx, "choose-your-path", "q1", "a")
		require.NoError(t, err)
		assert.Equal(t, "q4", next)
	})

	t.Run("no mapping means empty, not error", func(t *testing.T) {
		overrides := new(MockBranchOverrideRepository)
		resolver := NewBranchingResolver(overrides)
		overrides.On("Latest", ctx, "choose-your-path", "q1", "b").Return(nil, nil)

		next, err := resolver.Resolve(ctx, "choose-your-path", "q1", "b")
		require.NoError(t, err)
		assert.Equal(t, "", next)
	})

	t.Run("set override appends a new row", func(t *testing.T) {
		overrides := new(MockBranchOverrideRepository)
		resolver := NewBranchingResolver(overrides)
		overrides.On("Append", ctx, &domain.BranchOverride{
			QuizSlug:       "choose-your-path",
			QuestionID:     "q1",
			OptionID:       "a",
			NextQuestionID: "q5",
		}).Return(nil)

		err := resolver.SetOverride(ctx, "choose-your-path", "q1", "a", "q5")
		require.NoError(t, err)
		overrides.AssertExpectations(t)
	})

	t.Run("incomplete triples are rejected", func(t *testing.T) {
		overrides := new(MockBranchOverrideRepository)
		resolver := NewBranchingResolver(overrides)

		err := resolver.SetOverride(ctx, "choose-your-path", "", "a", "q5")
		assert.Error(t, err)
		overrides.AssertNotCalled(t, "Append")
	})
}
