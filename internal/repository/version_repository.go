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

// VersionDatabaseAdapter implements domain.VersionRepository using sqlx.DB.
// The quiz_versions table is append-only: rows are never updated or deleted.
type VersionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewVersionDatabaseAdapter creates a new instance of VersionDatabaseAdapter
func NewVersionDatabaseAdapter(db *sqlx.DB) domain.VersionRepository {
	return &VersionDatabaseAdapter{db: db}
}

// Append implements domain.VersionRepository
func (a *VersionDatabaseAdapter) Append(ctx context.Context, snapshot *domain.VersionSnapshot) error {
	exec := GetExecutor(ctx, a.db)
	if snapshot == nil {
		return fmt.Errorf("cannot append nil snapshot")
	}

	model := &models.VersionSnapshot{
		ID:            util.NewULID(),
		QuizSlug:      snapshot.QuizSlug,
		Version:       snapshot.Version,
		QuizData:      snapshot.QuizData,
		CreatedAt:     time.Now(),
		CreatedBy:     snapshot.CreatedBy,
		ChangeSummary: snapshot.ChangeSummary,
	}

	query := `INSERT INTO quiz_versions (
		id, quiz_slug, version, quiz_data, created_at, created_by, change_summary
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)`

	_, err := exec.ExecContext(ctx, query,
		model.ID,
		model.QuizSlug,
		model.Version,
		model.QuizData,
		model.CreatedAt,
		model.CreatedBy,
		model.ChangeSummary,
	)
	if err != nil {
		return fmt.Errorf("failed to append version %d for quiz %s: %w", snapshot.Version, snapshot.QuizSlug, err)
	}

	snapshot.ID = model.ID
	snapshot.CreatedAt = model.CreatedAt
	return nil
}

// Get implements domain.VersionRepository
func (a *VersionDatabaseAdapter) Get(ctx context.Context, slug string, version int) (*domain.VersionSnapshot, error) {
	exec := GetExecutor(ctx, a.db)
	var model models.VersionSnapshot
	query := `SELECT
		id,
		quiz_slug,
		version,
		quiz_data,
		created_at,
		created_by,
		change_summary
	FROM quiz_versions
	WHERE quiz_slug = $1
	AND version = $2`

	err := exec.GetContext(ctx, &model, query, slug, version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get version %d for quiz %s: %w", version, slug, err)
	}
	return toDomainSnapshot(&model), nil
}

// ListDescending implements domain.VersionRepository
func (a *VersionDatabaseAdapter) ListDescending(ctx context.Context, slug string) ([]*domain.VersionSnapshot, error) {
	exec := GetExecutor(ctx, a.db)
	var modelSnapshots []*models.VersionSnapshot
	query := `SELECT
		id,
		quiz_slug,
		version,
		quiz_data,
		created_at,
		created_by,
		change_summary
	FROM quiz_versions
	WHERE quiz_slug = $1
	ORDER BY version DESC`

	if err := exec.SelectContext(ctx, &modelSnapshots, query, slug); err != nil {
		return nil, fmt.Errorf("failed to list versions for quiz %s: %w", slug, err)
	}

	snapshots := make([]*domain.VersionSnapshot, 0, len(modelSnapshots))
	for _, m := range modelSnapshots {
		snapshots = append(snapshots, toDomainSnapshot(m))
	}
	return snapshots, nil
}

func toDomainSnapshot(m *models.VersionSnapshot) *domain.VersionSnapshot {
	return &domain.VersionSnapshot{
		ID:            m.ID,
		QuizSlug:      m.QuizSlug,
		Version:       m.Version,
		QuizData:      m.QuizData,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		ChangeSummary: m.ChangeSummary,
	}
}
