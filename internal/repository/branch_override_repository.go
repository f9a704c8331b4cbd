package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hivequiz/internal/domain"
	"hivequiz/internal/repository/models"
	"hivequiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// BranchOverrideDatabaseAdapter implements domain.BranchOverrideRepository.
// Overrides accumulate append-only; the authoritative mapping is the
// highest-insertion-order row for the exact triple (last write wins).
type BranchOverrideDatabaseAdapter struct {
	db *sqlx.DB
}

// NewBranchOverrideDatabaseAdapter creates a new instance of BranchOverrideDatabaseAdapter
func NewBranchOverrideDatabaseAdapter(db *sqlx.DB) domain.BranchOverrideRepository {
	return &BranchOverrideDatabaseAdapter{db: db}
}

// Append implements domain.BranchOverrideRepository
func (a *BranchOverrideDatabaseAdapter) Append(ctx context.Context, override *domain.BranchOverride) error {
	exec := GetExecutor(ctx, a.db)
	if override == nil {
		return fmt.Errorf("cannot append nil branch override")
	}

	model := &models.BranchOverride{
		ID:             util.NewULID(),
		QuizSlug:       override.QuizSlug,
		QuestionID:     override.QuestionID,
		OptionID:       override.OptionID,
		NextQuestionID: override.NextQuestionID,
		CreatedAt:      time.Now(),
	}

	query := `INSERT INTO branch_overrides (
		id, quiz_slug, question_id, option_id, next_question_id, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) RETURNING seq`

	row := exec.QueryRowxContext(ctx, query,
		model.ID,
		model.QuizSlug,
		model.QuestionID,
		model.OptionID,
		model.NextQuestionID,
		model.CreatedAt,
	)
	if err := row.Scan(&model.Seq); err != nil {
		return fmt.Errorf("failed to append branch override for quiz %s: %w", override.QuizSlug, err)
	}

	override.ID = model.ID
	override.Seq = model.Seq
	override.CreatedAt = model.CreatedAt
	return nil
}

// Latest implements domain.BranchOverrideRepository
func (a *BranchOverrideDatabaseAdapter) Latest(ctx context.Context, slug, questionID, optionID string) (*domain.BranchOverride, error) {
	exec := GetExecutor(ctx, a.db)
	var model models.BranchOverride
	query := `SELECT
		id,
		quiz_slug,
		question_id,
		option_id,
		next_question_id,
		seq,
		created_at
	FROM branch_overrides
	WHERE quiz_slug = $1
	AND question_id = $2
	AND option_id = $3
	ORDER BY seq DESC
	LIMIT 1`

	err := exec.GetContext(ctx, &model, query, slug, questionID, optionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest branch override for quiz %s: %w", slug, err)
	}

	return &domain.BranchOverride{
		ID:             model.ID,
		QuizSlug:       model.QuizSlug,
		QuestionID:     model.QuestionID,
		OptionID:       model.OptionID,
		NextQuestionID: model.NextQuestionID,
		Seq:            model.Seq,
		CreatedAt:      model.CreatedAt,
	}, nil
}
