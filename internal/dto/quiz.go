package dto

import (
	"time"

	"hivequiz/internal/domain"
)

// CreateQuizRequest is the admin payload for creating a new quiz document.
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	Slug          string              `json:"slug"`
	Title         string              `json:"title"`
	Dek           string              `json:"dek,omitempty"`
	HeroImage     string              `json:"hero_image,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	PrimaryColony string              `json:"primary_colony,omitempty"`
	Type          string              `json:"type"`
	Questions     []domain.Question   `json:"questions"`
	Results       []domain.Result     `json:"results,omitempty"`
	PointRanges   []domain.PointRange `json:"point_ranges,omitempty"`
	CreatedBy     string              `json:"created_by,omitempty"`
}

// ToDomain converts the request into a draft document.
func (r *CreateQuizRequest) ToDomain() *domain.QuizDocument {
	return &domain.QuizDocument{
		Slug:          r.Slug,
		Title:         r.Title,
		Dek:           r.Dek,
		HeroImage:     r.HeroImage,
		Tags:          r.Tags,
		PrimaryColony: r.PrimaryColony,
		Type:          domain.QuizType(r.Type),
		Questions:     r.Questions,
		Results:       r.Results,
		PointRanges:   r.PointRanges,
	}
}

// UpdateQuizRequest replaces the content of an existing quiz document.
type UpdateQuizRequest struct {
	Title           string              `json:"title"`
	Dek             string              `json:"dek,omitempty"`
	HeroImage       string              `json:"hero_image,omitempty"`
	Tags            []string            `json:"tags,omitempty"`
	PrimaryColony   string              `json:"primary_colony,omitempty"`
	Type            string              `json:"type"`
	Questions       []domain.Question   `json:"questions"`
	Results         []domain.Result     `json:"results,omitempty"`
	PointRanges     []domain.PointRange `json:"point_ranges,omitempty"`
	ExpectedVersion int                 `json:"expected_version,omitempty"`
	ChangeSummary   string              `json:"change_summary,omitempty"`
	UpdatedBy       string              `json:"updated_by,omitempty"`
}

// ToDomain converts the request into replacement content for slug.
func (r *UpdateQuizRequest) ToDomain(slug string) *domain.QuizDocument {
	return &domain.QuizDocument{
		Slug:          slug,
		Title:         r.Title,
		Dek:           r.Dek,
		HeroImage:     r.HeroImage,
		Tags:          r.Tags,
		PrimaryColony: r.PrimaryColony,
		Type:          domain.QuizType(r.Type),
		Questions:     r.Questions,
		Results:       r.Results,
		PointRanges:   r.PointRanges,
	}
}

// PublishRequest toggles the published state of a quiz.
type PublishRequest struct {
	Publish bool `json:"publish"`
}

// ScheduleRequest schedules a quiz for future publication.
type ScheduleRequest struct {
	PublishAt time.Time `json:"publish_at"`
}

// RollbackRequest restores the content of a prior version.
type RollbackRequest struct {
	TargetVersion int    `json:"target_version"`
	RolledBackBy  string `json:"rolled_back_by,omitempty"`
}

// BranchOverrideRequest records a new branching flow override.
type BranchOverrideRequest struct {
	QuestionID     string `json:"question_id"`
	OptionID       string `json:"option_id"`
	NextQuestionID string `json:"next_question_id"`
}

// QuizResponse is the admin view of a quiz document, any status.
type QuizResponse struct {
	Slug          string              `json:"slug"`
	Title         string              `json:"title"`
	Dek           string              `json:"dek,omitempty"`
	HeroImage     string              `json:"hero_image,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	PrimaryColony string              `json:"primary_colony,omitempty"`
	Type          string              `json:"type"`
	Questions     []domain.Question   `json:"questions"`
	Results       []domain.Result     `json:"results,omitempty"`
	PointRanges   []domain.PointRange `json:"point_ranges,omitempty"`
	Status        string              `json:"status"`
	Version       int                 `json:"version"`
	PublishedAt   *time.Time          `json:"published_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewQuizResponse builds the admin view from a domain document.
func NewQuizResponse(doc *domain.QuizDocument) *QuizResponse {
	return &QuizResponse{
		Slug:          doc.Slug,
		Title:         doc.Title,
		Dek:           doc.Dek,
		HeroImage:     doc.HeroImage,
		Tags:          doc.Tags,
		PrimaryColony: doc.PrimaryColony,
		Type:          string(doc.Type),
		Questions:     doc.Questions,
		Results:       doc.Results,
		PointRanges:   doc.PointRanges,
		Status:        string(doc.Status),
		Version:       doc.Version,
		PublishedAt:   doc.PublishedAt,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// PublicOption is an option as exposed to quiz takers: scoring fields
// (weights, points, correctness, branch targets) are stripped.
type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PublicQuestion is a question as exposed to quiz takers.
type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Type    string         `json:"type,omitempty"`
	Shuffle bool           `json:"shuffle,omitempty"`
	Options []PublicOption `json:"options"`
}

// PublicQuizResponse is the published view served to quiz takers.
type PublicQuizResponse struct {
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Dek           string           `json:"dek,omitempty"`
	HeroImage     string           `json:"hero_image,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	PrimaryColony string           `json:"primary_colony,omitempty"`
	Type          string           `json:"type"`
	Questions     []PublicQuestion `json:"questions"`
}

// NewPublicQuizResponse builds the public view from a published document.
func NewPublicQuizResponse(doc *domain.QuizDocument) *PublicQuizResponse {
	questions := make([]PublicQuestion, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		options := make([]PublicOption, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, PublicOption{ID: o.ID, Text: o.Text})
		}
		questions = append(questions, PublicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Shuffle: q.Shuffle,
			Options: options,
		})
	}
	return &PublicQuizResponse{
		Slug:          doc.Slug,
		Title:         doc.Title,
		Dek:           doc.Dek,
		HeroImage:     doc.HeroImage,
		Tags:          doc.Tags,
		PrimaryColony: doc.PrimaryColony,
		Type:          string(doc.Type),
		Questions:     questions,
	}
}

// VersionResponse describes one snapshot in a quiz's version history.
type VersionResponse struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	ChangeSummary string    `json:"change_summary,omitempty"`
}

// SubmittedAnswer is one answer entry of a public submission.
type SubmittedAnswer struct {
	QuestionID      string   `json:"questionId"`
	SelectedOptions []string `json:"selectedOptions"`
}

// SubmitQuizRequest is the public submission payload.
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers   []SubmittedAnswer `json:"answers"`
	UserID    string            `json:"userId,omitempty"`
	SessionID string            `json:"sessionId,omitempty"`
}

// SubmitQuizResponse carries the scored outcome back to the quiz taker.
type SubmitQuizResponse struct {
	OutcomeKey    string                `json:"outcome_key"`
	Outcome       domain.Result         `json:"outcome"`
	Score         *int                  `json:"score,omitempty"`
	TotalPossible *int                  `json:"total_possible,omitempty"`
	Percentage    *int                  `json:"percentage,omitempty"`
	Scores        []domain.OutcomeScore `json:"scores,omitempty"`
	Path          []string              `json:"path,omitempty"`
	ShareURL      string                `json:"share_url"`
	ShareImage    string                `json:"share_image,omitempty"`
}

// EventRequest records one analytics event from the client.
type EventRequest struct {
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// NextQuestionResponse resolves branching flow for the client.
type NextQuestionResponse struct {
	NextQuestionID string `json:"next_question_id"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
