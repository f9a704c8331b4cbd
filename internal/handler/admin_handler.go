package handler

import (
	"hivequiz/internal/domain"
	"hivequiz/internal/dto"
	"hivequiz/internal/middleware"
	"hivequiz/internal/service"
	"hivequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the editorial HTTP surface: quiz lifecycle, version
// history and branch flow overrides.
type AdminHandler struct {
	lifecycle service.LifecycleService
	branching service.BranchingResolver
	validator *validation.Validator
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(lifecycle service.LifecycleService, branching service.BranchingResolver) *AdminHandler {
	return &AdminHandler{
		lifecycle: lifecycle,
		branching: branching,
		validator: validation.NewValidator(),
	}
}

func (h *AdminHandler) editorID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.EditorIDKey).(string); ok {
		return id
	}
	return ""
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Description Creates a new quiz document as draft version 1
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz content"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /admin/quizzes [post]
func (h *AdminHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = h.editorID(c)
	}

	doc, err := h.lifecycle.Create(c.Context(), req.ToDomain(), createdBy)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(doc))
}

// UpdateQuiz godoc
// @Summary Update a quiz
// @Description Replaces quiz content, snapshotting the previous version
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param request body dto.UpdateQuizRequest true "Replacement content"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug} [put]
func (h *AdminHandler) UpdateQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy = h.editorID(c)
	}

	doc, err := h.lifecycle.Update(c.Context(), req.ToDomain(slug), req.ExpectedVersion, updatedBy, req.ChangeSummary)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(doc))
}

// GetQuiz godoc
// @Summary Get a quiz in any state
// @Description Admin preview of a quiz document, including drafts
// @Tags admin
// @Produce json
// @Param slug path string true "Quiz slug"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug} [get]
func (h *AdminHandler) GetQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	doc, err := h.lifecycle.GetDocument(c.Context(), slug)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(doc))
}

// ListQuizzes godoc
// @Summary List quizzes by status
// @Tags admin
// @Produce json
// @Param status query string true "Lifecycle status"
// @Success 200 {array} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /admin/quizzes [get]
func (h *AdminHandler) ListQuizzes(c *fiber.Ctx) error {
	status := domain.Status(c.Query("status", string(domain.StatusDraft)))

	docs, err := h.lifecycle.ListByStatus(c.Context(), status)
	if err != nil {
		return err
	}

	responses := make([]*dto.QuizResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, dto.NewQuizResponse(doc))
	}
	return c.JSON(responses)
}

// PublishQuiz godoc
// @Summary Publish or unpublish a quiz
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param request body dto.PublishRequest true "Publish toggle"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug}/publish [post]
func (h *AdminHandler) PublishQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	doc, err := h.lifecycle.Publish(c.Context(), slug, req.Publish)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(doc))
}

// ScheduleQuiz godoc
// @Summary Schedule a quiz for future publication
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param request body dto.ScheduleRequest true "Publish time"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug}/schedule [post]
func (h *AdminHandler) ScheduleQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	doc, err := h.lifecycle.Schedule(c.Context(), slug, req.PublishAt)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(doc))
}

// ArchiveQuiz godoc
// @Summary Archive a quiz
// @Description Soft delete: the slug stays reserved and history is kept
// @Tags admin
// @Produce json
// @Param slug path string true "Quiz slug"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug}/archive [post]
func (h *AdminHandler) ArchiveQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	doc, err := h.lifecycle.Archive(c.Context(), slug)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(doc))
}

// RollbackQuiz godoc
// @Summary Roll back a quiz to a prior version
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param request body dto.RollbackRequest true "Target version"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug}/rollback [post]
func (h *AdminHandler) RollbackQuiz(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.RollbackRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if req.TargetVersion <= 0 {
		return domain.NewValidationError("target_version must be positive")
	}

	rolledBackBy := req.RolledBackBy
	if rolledBackBy == "" {
		rolledBackBy = h.editorID(c)
	}

	doc, err := h.lifecycle.Rollback(c.Context(), slug, req.TargetVersion, rolledBackBy)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(doc))
}

// ListVersions godoc
// @Summary List a quiz's version history
// @Tags admin
// @Produce json
// @Param slug path string true "Quiz slug"
// @Success 200 {array} dto.VersionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug}/versions [get]
func (h *AdminHandler) ListVersions(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	snapshots, err := h.lifecycle.ListVersions(c.Context(), slug)
	if err != nil {
		return err
	}

	responses := make([]dto.VersionResponse, 0, len(snapshots))
	for _, s := range snapshots {
		responses = append(responses, dto.VersionResponse{
			Version:       s.Version,
			CreatedAt:     s.CreatedAt,
			CreatedBy:     s.CreatedBy,
			ChangeSummary: s.ChangeSummary,
		})
	}
	return c.JSON(responses)
}

// SetBranchOverride godoc
// @Summary Override branching flow for an option
// @Description Appends a new override; the latest one for a triple wins
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Quiz slug"
// @Param request body dto.BranchOverrideRequest true "Flow override"
// @Success 204
// @Failure 400 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{slug}/branches [post]
func (h *AdminHandler) SetBranchOverride(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if errs := h.validator.ValidateSlug(slug); len(errs) > 0 {
		return errs
	}

	var req dto.BranchOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if errs := h.validator.ValidateBranchOverride(req.QuestionID, req.OptionID); len(errs) > 0 {
		return errs
	}

	if err := h.branching.SetOverride(c.Context(), slug, req.QuestionID, req.OptionID, req.NextQuestionID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers the admin routes on the given router.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/quizzes", h.CreateQuiz)
	router.Get("/quizzes", h.ListQuizzes)
	router.Get("/quizzes/:slug", h.GetQuiz)
	router.Put("/quizzes/:slug", h.UpdateQuiz)
	router.Post("/quizzes/:slug/publish", h.PublishQuiz)
	router.Post("/quizzes/:slug/schedule", h.ScheduleQuiz)
	router.Post("/quizzes/:slug/archive", h.ArchiveQuiz)
	router.Post("/quizzes/:slug/rollback", h.RollbackQuiz)
	router.Get("/quizzes/:slug/versions", h.ListVersions)
	router.Post("/quizzes/:slug/branches", h.SetBranchOverride)
}
