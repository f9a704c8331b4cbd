package domain

import (
	"context"
	"time"
)

// DocumentRepository is the persistence port for quiz documents, keyed
// uniquely by slug. Lookup methods return (nil, nil) when no row matches.
type DocumentRepository interface {
	// GetBySlug returns the document regardless of status. Archived slugs
	// still resolve here so that slug uniqueness survives archival.
	GetBySlug(ctx context.Context, slug string) (*QuizDocument, error)

	// GetPublishedBySlug returns the document only when status is published.
	GetPublishedBySlug(ctx context.Context, slug string) (*QuizDocument, error)

	// Create inserts a new document row.
	Create(ctx context.Context, doc *QuizDocument) error

	// Update writes the document guarded by an expected-version check.
	// It returns false (and no error) when the guard fails, so callers can
	// surface a Conflict instead of silently overwriting a concurrent edit.
	Update(ctx context.Context, doc *QuizDocument, expectedVersion int) (bool, error)

	// ListByStatus returns all documents in the given lifecycle state.
	ListByStatus(ctx context.Context, status Status) ([]*QuizDocument, error)

	// ListDueForPublish returns scheduled documents whose publish time has
	// passed, for the sweep.
	ListDueForPublish(ctx context.Context, now time.Time) ([]*QuizDocument, error)
}

// VersionRepository is the append-only snapshot log per quiz.
type VersionRepository interface {
	Append(ctx context.Context, snapshot *VersionSnapshot) error
	Get(ctx context.Context, slug string, version int) (*VersionSnapshot, error)
	ListDescending(ctx context.Context, slug string) ([]*VersionSnapshot, error)
}

// BranchOverrideRepository stores branching flow overrides append-only.
// Latest returns the highest-insertion-order row for the exact triple, or
// (nil, nil) when no mapping exists.
type BranchOverrideRepository interface {
	Append(ctx context.Context, override *BranchOverride) error
	Latest(ctx context.Context, slug, questionID, optionID string) (*BranchOverride, error)
}

// AnalyticsSink records submission-lifecycle events. Callers treat it as
// fire-and-forget: failures are logged and swallowed at the boundary.
type AnalyticsSink interface {
	Record(ctx context.Context, event *AnalyticsEvent) error
}

// TransactionManager runs a function within a storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
