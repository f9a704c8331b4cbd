package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"hivequiz/internal/domain"
	"hivequiz/internal/dto"
	"hivequiz/internal/handler"
	"hivequiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockSubmissionService
type MockSubmissionService struct {
	GetPublishedQuizFunc func(ctx context.Context, slug string) (*domain.QuizDocument, error)
	SubmitFunc           func(ctx context.Context, slug string, answers []domain.SubmittedAnswer, userID, sessionID string) (*domain.ScoredResult, error)
	NextQuestionFunc     func(ctx context.Context, slug, questionID, optionID string) (string, error)
	RecordEventFunc      func(ctx context.Context, slug string, eventType domain.EventType, payload map[string]interface{}) error
	ShareURLFunc         func(slug, outcomeKey string) string
}

func (m *MockSubmissionService) GetPublishedQuiz(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	if m.GetPublishedQuizFunc != nil {
		return m.GetPublishedQuizFunc(ctx, slug)
	}
	panic("MockSubmissionService.GetPublishedQuizFunc not implemented")
}
func (m *MockSubmissionService) Submit(ctx context.Context, slug string, answers []domain.SubmittedAnswer, userID, sessionID string) (*domain.ScoredResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, slug, answers, userID, sessionID)
	}
	panic("MockSubmissionService.SubmitFunc not implemented")
}
func (m *MockSubmissionService) NextQuestion(ctx context.Context, slug, questionID, optionID string) (string, error) {
	if m.NextQuestionFunc != nil {
		return m.NextQuestionFunc(ctx, slug, questionID, optionID)
	}
	panic("MockSubmissionService.NextQuestionFunc not implemented")
}
func (m *MockSubmissionService) RecordEvent(ctx context.Context, slug string, eventType domain.EventType, payload map[string]interface{}) error {
	if m.RecordEventFunc != nil {
		return m.RecordEventFunc(ctx, slug, eventType, payload)
	}
	panic("MockSubmissionService.RecordEventFunc not implemented")
}
func (m *MockSubmissionService) ShareURL(slug, outcomeKey string) string {
	if m.ShareURLFunc != nil {
		return m.ShareURLFunc(slug, outcomeKey)
	}
	return "/quizzes/" + slug + "/result/" + outcomeKey
}

func newTestApp(svc *MockSubmissionService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewPublicHandler(svc)
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func TestPublicHandler_GetQuiz(t *testing.T) {
	t.Run("published quiz strips scoring fields", func(t *testing.T) {
		svc := &MockSubmissionService{
			GetPublishedQuizFunc: func(ctx context.Context, slug string) (*domain.QuizDocument, error) {
				return &domain.QuizDocument{
					Slug:  slug,
					Title: "Which Hive Is Home?",
					Type:  domain.QuizTypePersonality,
					Questions: []domain.Question{
						{ID: "q1", Text: "Pick a nectar", Options: []domain.Option{
							{ID: "a", Text: "Clover", Map: []domain.OutcomeWeight{{Outcome: "meadow", Weight: 2}}},
						}},
					},
					Results: []domain.Result{{Key: "meadow", Title: "Meadow Hive"}},
				}, nil
			},
		}
		app := newTestApp(svc)

		req := httptest.NewRequest("GET", "/api/quizzes/which-hive-is-home", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.PublicQuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "which-hive-is-home", body.Slug)
		require.Len(t, body.Questions, 1)
		require.Len(t, body.Questions[0].Options, 1)
		assert.Equal(t, "Clover", body.Questions[0].Options[0].Text)
	})

	t.Run("draft slug is a 404", func(t *testing.T) {
		svc := &MockSubmissionService{
			GetPublishedQuizFunc: func(ctx context.Context, slug string) (*domain.QuizDocument, error) {
				return nil, domain.NewQuizNotFoundError(slug)
			},
		}
		app := newTestApp(svc)

		req := httptest.NewRequest("GET", "/api/quizzes/still-a-draft", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestPublicHandler_SubmitQuiz(t *testing.T) {
	t.Run("valid submission is scored", func(t *testing.T) {
		svc := &MockSubmissionService{
			SubmitFunc: func(ctx context.Context, slug string, answers []domain.SubmittedAnswer, userID, sessionID string) (*domain.ScoredResult, error) {
				assert.Equal(t, "user-1", userID)
				require.Len(t, answers, 1)
				assert.Equal(t, "q1", answers[0].QuestionID)
				return &domain.ScoredResult{
					OutcomeKey: "meadow",
					Outcome:    domain.Result{Key: "meadow", Title: "Meadow Hive"},
				}, nil
			},
		}
		app := newTestApp(svc)

		payload, _ := json.Marshal(dto.SubmitQuizRequest{
			Answers: []dto.SubmittedAnswer{{QuestionID: "q1", SelectedOptions: []string{"a"}}},
			UserID:  "user-1",
		})
		req := httptest.NewRequest("POST", "/api/quizzes/which-hive-is-home/submit", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.SubmitQuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "meadow", body.OutcomeKey)
		assert.Equal(t, "/quizzes/which-hive-is-home/result/meadow", body.ShareURL)
	})

	t.Run("empty answers are a 400", func(t *testing.T) {
		app := newTestApp(&MockSubmissionService{})

		payload, _ := json.Marshal(dto.SubmitQuizRequest{})
		req := httptest.NewRequest("POST", "/api/quizzes/which-hive-is-home/submit", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestPublicHandler_RecordEvent(t *testing.T) {
	t.Run("known event type is accepted", func(t *testing.T) {
		recorded := ""
		svc := &MockSubmissionService{
			RecordEventFunc: func(ctx context.Context, slug string, eventType domain.EventType, payload map[string]interface{}) error {
				recorded = string(eventType)
				return nil
			},
		}
		app := newTestApp(svc)

		payload, _ := json.Marshal(dto.EventRequest{EventType: "quiz_share_click"})
		req := httptest.NewRequest("POST", "/api/quizzes/which-hive-is-home/events", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
		assert.Equal(t, "quiz_share_click", recorded)
	})

	t.Run("unknown event type is a 400", func(t *testing.T) {
		app := newTestApp(&MockSubmissionService{})

		payload, _ := json.Marshal(dto.EventRequest{EventType: "quiz_deleted"})
		req := httptest.NewRequest("POST", "/api/quizzes/which-hive-is-home/events", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestPublicHandler_NextQuestion(t *testing.T) {
	svc := &MockSubmissionService{
		NextQuestionFunc: func(ctx context.Context, slug, questionID, optionID string) (string, error) {
			return "q3", nil
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/api/quizzes/choose-your-path/next?question=q1&option=a", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.NextQuestionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "q3", body.NextQuestionID)
}
