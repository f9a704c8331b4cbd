package service

import (
	"context"

	"hivequiz/internal/domain"
)

// BranchingResolver resolves the next question for a (question, answer) pair
// in a branching quiz. An empty result means "use default linear order".
type BranchingResolver interface {
	// Resolve returns the next question id for the triple, or "" when no
	// mapping exists.
	Resolve(ctx context.Context, slug, questionID, optionID string) (string, error)

	// SetOverride appends a new flow override. Later overrides shadow
	// earlier ones for the same triple; history is never compacted.
	SetOverride(ctx context.Context, slug, questionID, optionID, nextQuestionID string) error
}

type branchingResolver struct {
	overrides domain.BranchOverrideRepository
}

// NewBranchingResolver creates a resolver backed by the append-only override log.
func NewBranchingResolver(overrides domain.BranchOverrideRepository) BranchingResolver {
	return &branchingResolver{overrides: overrides}
}

// Resolve implements BranchingResolver. The read is last-write-wins: only the
// highest-insertion-order row for the exact triple is consulted, never the
// full history.
func (r *branchingResolver) Resolve(ctx context.Context, slug, questionID, optionID string) (string, error) {
	override, err := r.overrides.Latest(ctx, slug, questionID, optionID)
	if err != nil {
		return "", domain.NewStorageError("failed to resolve branch override", err)
	}
	if override == nil {
		return "", nil
	}
	return override.NextQuestionID, nil
}

// SetOverride implements BranchingResolver
func (r *branchingResolver) SetOverride(ctx context.Context, slug, questionID, optionID, nextQuestionID string) error {
	if slug == "" || questionID == "" || optionID == "" {
		return domain.NewValidationError("slug, question id and option id are required")
	}
	override := &domain.BranchOverride{
		QuizSlug:       slug,
		QuestionID:     questionID,
		OptionID:       optionID,
		NextQuestionID: nextQuestionID,
	}
	if err := r.overrides.Append(ctx, override); err != nil {
		return domain.NewStorageError("failed to append branch override", err)
	}
	return nil
}
