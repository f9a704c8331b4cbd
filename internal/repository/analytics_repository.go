package repository

import (
	"context"
	"fmt"
	"time"

	"hivequiz/internal/domain"
	"hivequiz/internal/repository/models"
	"hivequiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// AnalyticsDatabaseAdapter implements domain.AnalyticsSink using sqlx.DB.
type AnalyticsDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAnalyticsDatabaseAdapter creates a new instance of AnalyticsDatabaseAdapter
func NewAnalyticsDatabaseAdapter(db *sqlx.DB) domain.AnalyticsSink {
	return &AnalyticsDatabaseAdapter{db: db}
}

// Record implements domain.AnalyticsSink. Unknown event types are rejected
// here, at the sink boundary.
func (a *AnalyticsDatabaseAdapter) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	if event == nil {
		return fmt.Errorf("cannot record nil analytics event")
	}
	if !event.Type.Valid() {
		return domain.NewValidationError(fmt.Sprintf("unknown event type: %s", event.Type))
	}

	exec := GetExecutor(ctx, a.db)
	model := &models.AnalyticsEvent{
		ID:        util.NewULID(),
		QuizSlug:  event.QuizSlug,
		EventType: string(event.Type),
		Payload:   models.JSONMap(event.Payload),
		CreatedAt: time.Now(),
	}

	query := `INSERT INTO quiz_events (
		id, quiz_slug, event_type, payload, created_at
	) VALUES (
		$1, $2, $3, $4, $5
	)`

	_, err := exec.ExecContext(ctx, query,
		model.ID,
		model.QuizSlug,
		model.EventType,
		model.Payload,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event for quiz %s: %w", event.Type, event.QuizSlug, err)
	}

	event.ID = model.ID
	event.CreatedAt = model.CreatedAt
	return nil
}
