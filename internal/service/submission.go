package service

import (
	"context"
	"fmt"

	"hivequiz/internal/config"
	"hivequiz/internal/domain"
	"hivequiz/internal/logger"

	"go.uber.org/zap"
)

// SubmissionService is the public, read-mostly surface: serving published
// quizzes, scoring submissions, resolving branch flow and recording
// analytics events.
type SubmissionService interface {
	GetPublishedQuiz(ctx context.Context, slug string) (*domain.QuizDocument, error)
	Submit(ctx context.Context, slug string, answers []domain.SubmittedAnswer, userID, sessionID string) (*domain.ScoredResult, error)
	NextQuestion(ctx context.Context, slug, questionID, optionID string) (string, error)
	RecordEvent(ctx context.Context, slug string, eventType domain.EventType, payload map[string]interface{}) error
	ShareURL(slug, outcomeKey string) string
}

type submissionService struct {
	published PublishedQuizCache
	branching BranchingResolver
	analytics domain.AnalyticsSink
	shareBase string
}

// NewSubmissionService creates a new instance of submissionService
func NewSubmissionService(
	published PublishedQuizCache,
	branching BranchingResolver,
	analytics domain.AnalyticsSink,
	cfg *config.Config,
) SubmissionService {
	return &submissionService{
		published: published,
		branching: branching,
		analytics: analytics,
		shareBase: cfg.Share.BaseURL,
	}
}

// GetPublishedQuiz implements SubmissionService. Only published documents
// are visible here; drafts, scheduled and archived quizzes 404 identically
// so their existence leaks nothing.
func (s *submissionService) GetPublishedQuiz(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	doc, err := s.published.GetPublished(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load published quiz", err)
	}
	if doc == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}

	s.emitAsync(slug, domain.EventQuizView, nil)
	return doc, nil
}

// Submit implements SubmissionService. Scoring is synchronous; the completed
// and result-impression events ride on a background goroutine and can never
// fail the submission.
func (s *submissionService) Submit(ctx context.Context, slug string, answers []domain.SubmittedAnswer, userID, sessionID string) (*domain.ScoredResult, error) {
	doc, err := s.published.GetPublished(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load published quiz", err)
	}
	if doc == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}

	result, err := domain.Score(doc, answers)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"outcome_key": result.OutcomeKey,
		"quiz_type":   string(doc.Type),
	}
	if userID != "" {
		payload["user_id"] = userID
	}
	if sessionID != "" {
		payload["session_id"] = sessionID
	}
	s.emitAsync(slug, domain.EventQuizCompleted, payload)
	s.emitAsync(slug, domain.EventQuizResultImpression, map[string]interface{}{
		"outcome_key": result.OutcomeKey,
	})

	return result, nil
}

// NextQuestion implements SubmissionService. Resolution order: override
// table, then the option's own branch target, then linear document order.
func (s *submissionService) NextQuestion(ctx context.Context, slug, questionID, optionID string) (string, error) {
	doc, err := s.published.GetPublished(ctx, slug)
	if err != nil {
		return "", domain.NewStorageError("failed to load published quiz", err)
	}
	if doc == nil {
		return "", domain.NewQuizNotFoundError(slug)
	}

	question := doc.QuestionByID(questionID)
	if question == nil {
		return "", domain.NewValidationError(fmt.Sprintf("unknown question: %s", questionID))
	}

	next, err := s.branching.Resolve(ctx, slug, questionID, optionID)
	if err != nil {
		return "", err
	}
	if next != "" {
		return next, nil
	}

	if option := question.OptionByID(optionID); option != nil && option.Next != "" {
		return option.Next, nil
	}
	return doc.NextQuestionID(questionID), nil
}

// RecordEvent implements SubmissionService. Client-originated events are
// validated synchronously so callers learn about unknown types, but a
// storage failure is logged and swallowed.
func (s *submissionService) RecordEvent(ctx context.Context, slug string, eventType domain.EventType, payload map[string]interface{}) error {
	if !eventType.Valid() {
		return domain.NewValidationError(fmt.Sprintf("unknown event type: %s", eventType))
	}

	event := domain.NewAnalyticsEvent(slug, eventType, payload)
	if err := s.analytics.Record(ctx, event); err != nil {
		logger.Get().Warn("failed to record analytics event",
			zap.String("slug", slug),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
	return nil
}

// ShareURL implements SubmissionService
func (s *submissionService) ShareURL(slug, outcomeKey string) string {
	if s.shareBase == "" {
		return fmt.Sprintf("/quizzes/%s/result/%s", slug, outcomeKey)
	}
	return fmt.Sprintf("%s/quizzes/%s/result/%s", s.shareBase, slug, outcomeKey)
}

// emitAsync records an event on a background goroutine. The request context
// may already be gone by the time the insert runs, so a fresh context is
// used.
func (s *submissionService) emitAsync(slug string, eventType domain.EventType, payload map[string]interface{}) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Error("panic while recording analytics event",
					zap.String("slug", slug),
					zap.Any("panic", r))
			}
		}()
		event := domain.NewAnalyticsEvent(slug, eventType, payload)
		if err := s.analytics.Record(context.Background(), event); err != nil {
			logger.Get().Warn("failed to record analytics event",
				zap.String("slug", slug),
				zap.String("event_type", string(eventType)),
				zap.Error(err))
		}
	}()
}
