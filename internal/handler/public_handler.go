package handler

import (
	"hivequiz/internal/domain"
	"hivequiz/internal/dto"
	"hivequiz/internal/service"
	"hivequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler handles the quiz-taker HTTP surface: published quizzes,
// submissions, branch flow and analytics events.
type PublicHandler struct {
	submissions service.SubmissionService
	validator   *validation.Validator
}

// NewPublicHandler creates a new PublicHandler instance
func NewPublicHandler(submissions service.SubmissionService) *PublicHandler {
	return &PublicHandler{
		submissions: submissions,
		validator:   validation.NewValidator(),
	}
}

// GetQuiz godoc
// @Summary Get a published quiz
// @Description Returns the public view of a published quiz. Scoring fields are stripped.
// @Tags public
// @Produce json
// @Param slug path string true "Quiz slug"
// @Success 200 {object} dto.PublicQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{slug} [get]
func (h *PublicHandler) GetQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	doc, err := h.submissions.GetPublishedQuiz(c.Context(), slug)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPublicQuizResponse(doc))
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Scores a submission against the published quiz
// @Tags public
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param request body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{slug}/submit [post]
func (h *PublicHandler) SubmitQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	answers := make([]domain.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.SubmittedAnswer{
			QuestionID:        a.QuestionID,
			SelectedOptionIDs: a.SelectedOptions,
		})
	}
	if errs := h.validator.ValidateSubmission(answers); len(errs) > 0 {
		return errs
	}

	result, err := h.submissions.Submit(c.Context(), slug, answers, req.UserID, req.SessionID)
	if err != nil {
		return err
	}

	return c.JSON(dto.SubmitQuizResponse{
		OutcomeKey:    result.OutcomeKey,
		Outcome:       result.Outcome,
		Score:         result.Score,
		TotalPossible: result.TotalPossible,
		Percentage:    result.Percentage,
		Scores:        result.Scores,
		Path:          result.Path,
		ShareURL:      h.submissions.ShareURL(slug, result.OutcomeKey),
		ShareImage:    result.Outcome.Image,
	})
}

// NextQuestion godoc
// @Summary Resolve the next question in a branching quiz
// @Description Override table first, then the option's branch target, then document order
// @Tags public
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param question query string true "Current question id"
// @Param option query string true "Selected option id"
// @Success 200 {object} dto.NextQuestionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{slug}/next [get]
func (h *PublicHandler) NextQuestion(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	questionID := c.Query("question")
	optionID := c.Query("option")
	if questionID == "" {
		return domain.NewValidationError("question query parameter is required")
	}

	next, err := h.submissions.NextQuestion(c.Context(), slug, questionID, optionID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NextQuestionResponse{NextQuestionID: next})
}

// RecordEvent godoc
// @Summary Record an analytics event
// @Description Accepts one of the fixed engagement event types
// @Tags public
// @Accept json
// @Param slug path string true "Quiz slug"
// @Param request body dto.EventRequest true "Event"
// @Success 202
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quizzes/{slug}/events [post]
func (h *PublicHandler) RecordEvent(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if errs := h.validator.ValidateEventRequest(req.EventType); len(errs) > 0 {
		return errs
	}

	if err := h.submissions.RecordEvent(c.Context(), slug, domain.EventType(req.EventType), req.Payload); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// RegisterRoutes registers the public routes on the given router.
func (h *PublicHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/quizzes/:slug", h.GetQuiz)
	router.Post("/quizzes/:slug/submit", h.SubmitQuiz)
	router.Get("/quizzes/:slug/next", h.NextQuestion)
	router.Post("/quizzes/:slug/events", h.RecordEvent)
}
