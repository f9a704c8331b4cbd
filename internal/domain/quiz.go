package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// QuizType selects which scoring algorithm applies to a document.
type QuizType string

const (
	QuizTypePersonality QuizType = "personality"
	QuizTypePoints      QuizType = "points"
	QuizTypeTrivia      QuizType = "trivia"
	QuizTypeBranching   QuizType = "branching"
)

// Valid reports whether the quiz type is one of the known variants.
func (t QuizType) Valid() bool {
	switch t {
	case QuizTypePersonality, QuizTypePoints, QuizTypeTrivia, QuizTypeBranching:
		return true
	}
	return false
}

// Status is the lifecycle state of a quiz document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// OutcomeWeight maps an outcome key to an integer weight (personality mode).
// Weights are kept as an ordered list so that scoring iterates in author order.
type OutcomeWeight struct {
	Outcome string `json:"outcome"`
	Weight  int    `json:"weight"`
}

// Option represents a selectable answer within a question. Its mode-specific
// fields are interpreted according to the document's type, never per option.
type Option struct {
	ID      string          `json:"id"`
	Text    string          `json:"text"`
	Map     []OutcomeWeight `json:"map,omitempty"`     // personality
	Points  *int            `json:"points,omitempty"`  // points / trivia
	Correct *bool           `json:"correct,omitempty"` // trivia
	Next    string          `json:"next,omitempty"`    // branching
}

// Question holds an ordered list of options. Shuffle is presentation-only:
// scoring always operates on option identity, never position.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type,omitempty"` // "single", "multi-select"
	Shuffle bool     `json:"shuffle,omitempty"`
	Options []Option `json:"options"`
}

// Result is one possible outcome of a quiz.
type Result struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	MinScore    *int   `json:"min_score,omitempty"`
	MaxScore    *int   `json:"max_score,omitempty"`
}

// PointRange maps an inclusive score band to a result key.
type PointRange struct {
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Result string `json:"result"`
}

// QuizDocument is the versioned content unit of the platform.
type QuizDocument struct {
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Dek           string       `json:"dek,omitempty"`
	HeroImage     string       `json:"hero_image,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	PrimaryColony string       `json:"primary_colony,omitempty"`
	Type          QuizType     `json:"type"`
	Questions     []Question   `json:"questions"`
	Results       []Result     `json:"results,omitempty"`
	PointRanges   []PointRange `json:"point_ranges,omitempty"`
	Status        Status       `json:"-"`
	Version       int          `json:"-"`
	PublishedAt   *time.Time   `json:"-"`
	CreatedAt     time.Time    `json:"-"`
	UpdatedAt     time.Time    `json:"-"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks structural invariants of the document content.
func (d *QuizDocument) Validate() error {
	if d.Slug == "" {
		return NewValidationError("slug is required")
	}
	if !slugPattern.MatchString(d.Slug) {
		return NewValidationError(fmt.Sprintf("slug must be URL-safe: %s", d.Slug))
	}
	if d.Title == "" {
		return NewValidationError("title is required")
	}
	if !d.Type.Valid() {
		return NewUnsupportedQuizTypeError(string(d.Type))
	}

	questionIDs := make(map[string]struct{}, len(d.Questions))
	for _, q := range d.Questions {
		if q.ID == "" {
			return NewValidationError("question id is required")
		}
		if _, dup := questionIDs[q.ID]; dup {
			return NewValidationError(fmt.Sprintf("duplicate question id: %s", q.ID))
		}
		questionIDs[q.ID] = struct{}{}

		optionIDs := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return NewValidationError(fmt.Sprintf("option id is required in question %s", q.ID))
			}
			if _, dup := optionIDs[o.ID]; dup {
				return NewValidationError(fmt.Sprintf("duplicate option id %s in question %s", o.ID, q.ID))
			}
			optionIDs[o.ID] = struct{}{}

			if err := d.validateOptionMode(q.ID, o); err != nil {
				return err
			}
		}
	}

	resultKeys := make(map[string]struct{}, len(d.Results))
	for _, r := range d.Results {
		if r.Key == "" {
			return NewValidationError("result key is required")
		}
		if _, dup := resultKeys[r.Key]; dup {
			return NewValidationError(fmt.Sprintf("duplicate result key: %s", r.Key))
		}
		resultKeys[r.Key] = struct{}{}
	}

	for _, band := range d.PointRanges {
		if band.Min > band.Max {
			return NewValidationError(fmt.Sprintf("point range min %d exceeds max %d", band.Min, band.Max))
		}
	}

	return nil
}

// validateOptionMode rejects options carrying fields from a scoring mode
// other than the document's. Mixing modes within one document is undefined.
func (d *QuizDocument) validateOptionMode(questionID string, o Option) error {
	mixed := func(field string) error {
		return NewValidationError(fmt.Sprintf(
			"option %s in question %s carries %q, which does not belong to a %s quiz",
			o.ID, questionID, field, d.Type))
	}
	switch d.Type {
	case QuizTypePersonality:
		if o.Points != nil {
			return mixed("points")
		}
		if o.Correct != nil {
			return mixed("correct")
		}
		if o.Next != "" {
			return mixed("next")
		}
	case QuizTypePoints:
		if len(o.Map) > 0 {
			return mixed("map")
		}
		if o.Correct != nil {
			return mixed("correct")
		}
		if o.Next != "" {
			return mixed("next")
		}
	case QuizTypeTrivia:
		if len(o.Map) > 0 {
			return mixed("map")
		}
		if o.Next != "" {
			return mixed("next")
		}
	case QuizTypeBranching:
		// Branching documents may layer a personality-style map under the
		// branch flow, so both next and map are allowed here.
		if o.Points != nil {
			return mixed("points")
		}
		if o.Correct != nil {
			return mixed("correct")
		}
	}
	return nil
}

// ValidateForPublish enforces the stricter invariants required before a
// document becomes publicly visible.
func (d *QuizDocument) ValidateForPublish() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if len(d.Questions) == 0 {
		return NewValidationError("a quiz must have at least one question to publish")
	}
	if len(d.Results) == 0 {
		return NewValidationError("a quiz must have at least one result to publish")
	}
	resultKeys := make(map[string]struct{}, len(d.Results))
	for _, r := range d.Results {
		resultKeys[r.Key] = struct{}{}
	}
	for _, band := range d.PointRanges {
		if _, ok := resultKeys[band.Result]; !ok {
			return NewValidationError(fmt.Sprintf("point range references unknown result key: %s", band.Result))
		}
	}
	return nil
}

// ResultByKey returns the result entry for key, or nil when absent.
func (d *QuizDocument) ResultByKey(key string) *Result {
	for i := range d.Results {
		if d.Results[i].Key == key {
			return &d.Results[i]
		}
	}
	return nil
}

// QuestionByID returns the question with the given id, or nil when absent.
func (d *QuizDocument) QuestionByID(id string) *Question {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i]
		}
	}
	return nil
}

// OptionByID returns the option with the given id, or nil when absent.
func (q *Question) OptionByID(id string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// NextQuestionID returns the id of the question following questionID in
// document order, or "" when questionID is last or unknown.
func (d *QuizDocument) NextQuestionID(questionID string) string {
	for i := range d.Questions {
		if d.Questions[i].ID == questionID && i+1 < len(d.Questions) {
			return d.Questions[i+1].ID
		}
	}
	return ""
}

// ContentJSON serializes the content portion of the document, the unit that
// version snapshots capture. Lifecycle fields (status, version, timestamps)
// are intentionally excluded.
func (d *QuizDocument) ContentJSON() (json.RawMessage, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quiz content: %w", err)
	}
	return data, nil
}

// ApplyContentJSON replaces the content portion of the document from a
// serialized snapshot, leaving lifecycle fields untouched.
func (d *QuizDocument) ApplyContentJSON(data json.RawMessage) error {
	var content QuizDocument
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to unmarshal quiz content: %w", err)
	}
	d.Title = content.Title
	d.Dek = content.Dek
	d.HeroImage = content.HeroImage
	d.Tags = content.Tags
	d.PrimaryColony = content.PrimaryColony
	d.Type = content.Type
	d.Questions = content.Questions
	d.Results = content.Results
	d.PointRanges = content.PointRanges
	return nil
}

// VersionSnapshot is an immutable copy of a document's content at a specific
// version, appended before every content mutation.
type VersionSnapshot struct {
	ID            string
	QuizSlug      string
	Version       int
	QuizData      json.RawMessage
	CreatedAt     time.Time
	CreatedBy     string
	ChangeSummary string
}

// BranchOverride is one append-only row of the branching flow table. Later
// rows for the same (slug, question, option) triple shadow earlier ones.
type BranchOverride struct {
	ID             string
	QuizSlug       string
	QuestionID     string
	OptionID       string
	NextQuestionID string
	Seq            int64
	CreatedAt      time.Time
}

// SubmittedAnswer is one entry of a public submission.
type SubmittedAnswer struct {
	QuestionID        string
	SelectedOptionIDs []string
}

// OutcomeScore is one accumulator entry of a personality-style scoring run,
// in first-encountered document order.
type OutcomeScore struct {
	Outcome string `json:"outcome"`
	Score   int    `json:"score"`
}

// ScoredResult is the output of the scoring engine. It never aliases the
// input document.
type ScoredResult struct {
	OutcomeKey    string         `json:"outcome_key"`
	Outcome       Result         `json:"outcome"`
	Score         *int           `json:"score,omitempty"`
	TotalPossible *int           `json:"total_possible,omitempty"`
	Percentage    *int           `json:"percentage,omitempty"`
	Scores        []OutcomeScore `json:"scores,omitempty"`
	Path          []string       `json:"path,omitempty"`
}
