package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hivequiz/internal/domain"
	"hivequiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const documentColumns = `
	slug,
	quiz_type,
	quiz_data,
	status,
	version,
	published_at,
	created_at,
	updated_at`

// DocumentDatabaseAdapter implements domain.DocumentRepository using sqlx.DB
type DocumentDatabaseAdapter struct {
	db *sqlx.DB
}

// NewDocumentDatabaseAdapter creates a new instance of DocumentDatabaseAdapter
func NewDocumentDatabaseAdapter(db *sqlx.DB) domain.DocumentRepository {
	return &DocumentDatabaseAdapter{db: db}
}

// GetBySlug implements domain.DocumentRepository. Archived documents still
// resolve here: an archived slug keeps blocking reuse.
func (a *DocumentDatabaseAdapter) GetBySlug(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	exec := GetExecutor(ctx, a.db)
	var model models.QuizDocument
	query := `SELECT` + documentColumns + `
	FROM quizzes
	WHERE slug = $1`

	err := exec.GetContext(ctx, &model, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by slug %s: %w", slug, err)
	}
	return toDomainDocument(&model)
}

// GetPublishedBySlug implements domain.DocumentRepository
func (a *DocumentDatabaseAdapter) GetPublishedBySlug(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	exec := GetExecutor(ctx, a.db)
	var model models.QuizDocument
	query := `SELECT` + documentColumns + `
	FROM quizzes
	WHERE slug = $1
	AND status = $2`

	err := exec.GetContext(ctx, &model, query, slug, string(domain.StatusPublished))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get published quiz by slug %s: %w", slug, err)
	}
	return toDomainDocument(&model)
}

// Create implements domain.DocumentRepository
func (a *DocumentDatabaseAdapter) Create(ctx context.Context, doc *domain.QuizDocument) error {
	exec := GetExecutor(ctx, a.db)
	model, err := toModelDocument(doc)
	if err != nil {
		return err
	}
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	query := `INSERT INTO quizzes (
		slug, quiz_type, quiz_data, status, version, published_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	)`

	_, err = exec.ExecContext(ctx, query,
		model.Slug,
		model.QuizType,
		model.QuizData,
		model.Status,
		model.Version,
		model.PublishedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz %s: %w", doc.Slug, err)
	}

	doc.CreatedAt = model.CreatedAt
	doc.UpdatedAt = model.UpdatedAt
	return nil
}

// Update implements domain.DocumentRepository. The write is guarded by an
// expected-version check; a false return means a concurrent writer won.
func (a *DocumentDatabaseAdapter) Update(ctx context.Context, doc *domain.QuizDocument, expectedVersion int) (bool, error) {
	exec := GetExecutor(ctx, a.db)
	model, err := toModelDocument(doc)
	if err != nil {
		return false, err
	}
	model.UpdatedAt = time.Now()

	query := `UPDATE quizzes SET
		quiz_type = $1,
		quiz_data = $2,
		status = $3,
		version = $4,
		published_at = $5,
		updated_at = $6
	WHERE slug = $7
	AND version = $8`

	result, err := exec.ExecContext(ctx, query,
		model.QuizType,
		model.QuizData,
		model.Status,
		model.Version,
		model.PublishedAt,
		model.UpdatedAt,
		model.Slug,
		expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update quiz %s: %w", doc.Slug, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}
	doc.UpdatedAt = model.UpdatedAt
	return true, nil
}

// ListByStatus implements domain.DocumentRepository
func (a *DocumentDatabaseAdapter) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.QuizDocument, error) {
	exec := GetExecutor(ctx, a.db)
	var modelDocs []*models.QuizDocument
	query := `SELECT` + documentColumns + `
	FROM quizzes
	WHERE status = $1
	ORDER BY updated_at DESC`

	if err := exec.SelectContext(ctx, &modelDocs, query, string(status)); err != nil {
		return nil, fmt.Errorf("failed to list quizzes by status %s: %w", status, err)
	}
	return toDomainDocuments(modelDocs)
}

// ListDueForPublish implements domain.DocumentRepository
func (a *DocumentDatabaseAdapter) ListDueForPublish(ctx context.Context, now time.Time) ([]*domain.QuizDocument, error) {
	exec := GetExecutor(ctx, a.db)
	var modelDocs []*models.QuizDocument
	query := `SELECT` + documentColumns + `
	FROM quizzes
	WHERE status = $1
	AND published_at IS NOT NULL
	AND published_at <= $2
	ORDER BY published_at ASC`

	if err := exec.SelectContext(ctx, &modelDocs, query, string(domain.StatusScheduled), now); err != nil {
		return nil, fmt.Errorf("failed to list quizzes due for publish: %w", err)
	}
	return toDomainDocuments(modelDocs)
}

// Helper functions for model conversion

func toDomainDocument(m *models.QuizDocument) (*domain.QuizDocument, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot convert nil model quiz to domain quiz")
	}
	doc := &domain.QuizDocument{
		Slug:      m.Slug,
		Status:    domain.Status(m.Status),
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if err := doc.ApplyContentJSON(m.QuizData); err != nil {
		return nil, fmt.Errorf("failed to decode quiz_data for slug %s: %w", m.Slug, err)
	}
	if m.PublishedAt.Valid {
		publishedAt := m.PublishedAt.Time
		doc.PublishedAt = &publishedAt
	}
	return doc, nil
}

func toDomainDocuments(modelDocs []*models.QuizDocument) ([]*domain.QuizDocument, error) {
	docs := make([]*domain.QuizDocument, 0, len(modelDocs))
	for _, m := range modelDocs {
		doc, err := toDomainDocument(m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func toModelDocument(d *domain.QuizDocument) (*models.QuizDocument, error) {
	if d == nil {
		return nil, fmt.Errorf("cannot convert nil domain quiz to model quiz")
	}
	content, err := d.ContentJSON()
	if err != nil {
		return nil, err
	}
	model := &models.QuizDocument{
		Slug:      d.Slug,
		QuizType:  string(d.Type),
		QuizData:  content,
		Status:    string(d.Status),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.PublishedAt != nil {
		model.PublishedAt = sql.NullTime{Time: *d.PublishedAt, Valid: true}
	}
	return model, nil
}
