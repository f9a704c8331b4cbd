package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *QuizDocument {
	return &QuizDocument{
		Slug:  "which-hive-is-home",
		Title: "Which Hive Is Home?",
		Type:  QuizTypePersonality,
		Questions: []Question{
			{
				ID:   "q1",
				Text: "Pick a nectar",
				Options: []Option{
					{ID: "a", Text: "Clover", Map: []OutcomeWeight{{Outcome: "meadow", Weight: 2}}},
					{ID: "b", Text: "Lavender", Map: []OutcomeWeight{{Outcome: "garden", Weight: 2}}},
				},
			},
		},
		Results: []Result{
			{Key: "meadow", Title: "Meadow Hive"},
			{Key: "garden", Title: "Garden Hive"},
		},
	}
}

func TestQuizDocumentValidate(t *testing.T) {
	t.Run("valid document passes", func(t *testing.T) {
		assert.NoError(t, validDraft().Validate())
	})

	t.Run("slug must be URL-safe", func(t *testing.T) {
		doc := validDraft()
		doc.Slug = "Which Hive!"
		assert.Error(t, doc.Validate())
	})

	t.Run("slug must not start with a separator", func(t *testing.T) {
		doc := validDraft()
		doc.Slug = "-leading-dash"
		assert.Error(t, doc.Validate())
	})

	t.Run("unknown quiz type is rejected", func(t *testing.T) {
		doc := validDraft()
		doc.Type = "matchmaking"
		err := doc.Validate()
		require.Error(t, err)
		domainErr, ok := err.(*DomainError)
		require.True(t, ok)
		assert.Equal(t, CodeUnsupportedQuizType, domainErr.Code)
	})

	t.Run("duplicate question ids are rejected", func(t *testing.T) {
		doc := validDraft()
		doc.Questions = append(doc.Questions, doc.Questions[0])
		assert.Error(t, doc.Validate())
	})

	t.Run("duplicate option ids within a question are rejected", func(t *testing.T) {
		doc := validDraft()
		doc.Questions[0].Options[1].ID = "a"
		assert.Error(t, doc.Validate())
	})

	t.Run("mode mixing is rejected", func(t *testing.T) {
		doc := validDraft()
		doc.Questions[0].Options[0].Points = intPtr(5)
		assert.Error(t, doc.Validate())
	})

	t.Run("branching allows map alongside next", func(t *testing.T) {
		doc := validDraft()
		doc.Type = QuizTypeBranching
		doc.Questions[0].Options[0].Next = "q2"
		doc.Questions = append(doc.Questions, Question{
			ID:      "q2",
			Options: []Option{{ID: "a", Map: []OutcomeWeight{{Outcome: "meadow", Weight: 1}}}},
		})
		assert.NoError(t, doc.Validate())
	})

	t.Run("inverted point range is rejected", func(t *testing.T) {
		doc := validDraft()
		doc.Type = QuizTypePoints
		doc.Questions[0].Options[0].Map = nil
		doc.Questions[0].Options[1].Map = nil
		doc.PointRanges = []PointRange{{Min: 10, Max: 5, Result: "meadow"}}
		assert.Error(t, doc.Validate())
	})
}

func TestQuizDocumentValidateForPublish(t *testing.T) {
	t.Run("draft without questions cannot publish", func(t *testing.T) {
		doc := validDraft()
		doc.Questions = nil
		assert.Error(t, doc.ValidateForPublish())
	})

	t.Run("draft without results cannot publish", func(t *testing.T) {
		doc := validDraft()
		doc.Results = nil
		assert.Error(t, doc.ValidateForPublish())
	})

	t.Run("point range referencing an unknown key cannot publish", func(t *testing.T) {
		doc := validDraft()
		doc.Type = QuizTypePoints
		doc.Questions[0].Options[0].Map = nil
		doc.Questions[0].Options[1].Map = nil
		doc.PointRanges = []PointRange{{Min: 0, Max: 10, Result: "ocean"}}
		assert.Error(t, doc.ValidateForPublish())
	})

	t.Run("complete document publishes", func(t *testing.T) {
		assert.NoError(t, validDraft().ValidateForPublish())
	})
}

func TestContentJSONRoundTrip(t *testing.T) {
	doc := validDraft()
	doc.Status = StatusPublished
	doc.Version = 7

	data, err := doc.ContentJSON()
	require.NoError(t, err)

	restored := &QuizDocument{Slug: doc.Slug, Status: StatusDraft, Version: 8}
	require.NoError(t, restored.ApplyContentJSON(data))

	assert.Equal(t, doc.Title, restored.Title)
	assert.Equal(t, doc.Questions, restored.Questions)
	assert.Equal(t, doc.Results, restored.Results)
	// Lifecycle fields never travel with content.
	assert.Equal(t, StatusDraft, restored.Status)
	assert.Equal(t, 8, restored.Version)
}

func TestNextQuestionID(t *testing.T) {
	doc := &QuizDocument{
		Questions: []Question{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}},
	}

	assert.Equal(t, "q2", doc.NextQuestionID("q1"))
	assert.Equal(t, "", doc.NextQuestionID("q3"))
	assert.Equal(t, "", doc.NextQuestionID("missing"))
}

func TestEventTypeValid(t *testing.T) {
	for _, e := range []EventType{
		EventQuizView, EventQuizStart, EventQuizQuestionAnswered,
		EventQuizCompleted, EventQuizRetaken, EventQuizShareClick,
		EventQuizResultImpression, EventQuizResultBadgeAwarded,
		EventQuizRelatedQuizClick,
	} {
		assert.True(t, e.Valid(), string(e))
	}
	assert.False(t, EventType("quiz_deleted").Valid())
	assert.False(t, EventType("").Valid())
}
