package service

import (
	"context"
	"fmt"
	"time"

	"hivequiz/internal/domain"
	"hivequiz/internal/logger"

	"go.uber.org/zap"
)

// LifecycleService governs the draft -> scheduled -> published -> archived
// state machine and the version history of quiz documents.
type LifecycleService interface {
	Create(ctx context.Context, doc *domain.QuizDocument, createdBy string) (*domain.QuizDocument, error)
	Update(ctx context.Context, content *domain.QuizDocument, expectedVersion int, updatedBy, changeSummary string) (*domain.QuizDocument, error)
	Publish(ctx context.Context, slug string, publish bool) (*domain.QuizDocument, error)
	Schedule(ctx context.Context, slug string, publishAt time.Time) (*domain.QuizDocument, error)
	Archive(ctx context.Context, slug string) (*domain.QuizDocument, error)
	Rollback(ctx context.Context, slug string, targetVersion int, rolledBackBy string) (*domain.QuizDocument, error)
	GetDocument(ctx context.Context, slug string) (*domain.QuizDocument, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.QuizDocument, error)
	ListVersions(ctx context.Context, slug string) ([]*domain.VersionSnapshot, error)
}

type lifecycleService struct {
	docs     domain.DocumentRepository
	versions domain.VersionRepository
	txm      domain.TransactionManager
	cache    PublishedQuizCache
}

// NewLifecycleService creates a new instance of lifecycleService
func NewLifecycleService(
	docs domain.DocumentRepository,
	versions domain.VersionRepository,
	txm domain.TransactionManager,
	cache PublishedQuizCache,
) LifecycleService {
	return &lifecycleService{
		docs:     docs,
		versions: versions,
		txm:      txm,
		cache:    cache,
	}
}

// Create implements LifecycleService. New documents start as draft at
// version 1. Archived slugs still collide: archival never frees a slug.
func (s *lifecycleService) Create(ctx context.Context, doc *domain.QuizDocument, createdBy string) (*domain.QuizDocument, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.docs.GetBySlug(ctx, doc.Slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to check slug uniqueness", err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateSlugError(doc.Slug)
	}

	doc.Status = domain.StatusDraft
	doc.Version = 1
	doc.PublishedAt = nil

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, domain.NewStorageError("failed to create quiz", err)
	}

	logger.Get().Info("quiz created",
		zap.String("slug", doc.Slug),
		zap.String("type", string(doc.Type)),
		zap.String("created_by", createdBy))
	return doc, nil
}

// Update implements LifecycleService. The previous content is snapshotted at
// the previous version number before the new content is committed, inside one
// transaction: a failed snapshot aborts the whole update, and a crash between
// the two can never lose the prior version.
func (s *lifecycleService) Update(ctx context.Context, content *domain.QuizDocument, expectedVersion int, updatedBy, changeSummary string) (*domain.QuizDocument, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}

	current, err := s.docs.GetBySlug(ctx, content.Slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if current == nil {
		return nil, domain.NewQuizNotFoundError(content.Slug)
	}
	if expectedVersion > 0 && current.Version != expectedVersion {
		return nil, domain.NewConflictError(content.Slug, expectedVersion)
	}

	updated := *current
	if err := applyContent(&updated, content); err != nil {
		return nil, err
	}
	updated.Version = current.Version + 1

	err = s.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.snapshotCurrent(txCtx, current, updatedBy, changeSummary); err != nil {
			return err
		}
		return s.commitUpdate(txCtx, &updated, current.Version)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.Slug)
	logger.Get().Info("quiz updated",
		zap.String("slug", updated.Slug),
		zap.Int("version", updated.Version),
		zap.String("updated_by", updatedBy))
	return &updated, nil
}

// Publish implements LifecycleService. publish=true makes the document live;
// publish=false reverts it to draft and clears published_at.
func (s *lifecycleService) Publish(ctx context.Context, slug string, publish bool) (*domain.QuizDocument, error) {
	current, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if current == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}

	// Archived is terminal: neither publishing nor unpublishing leaves it.
	if current.Status == domain.StatusArchived {
		target := domain.StatusDraft
		if publish {
			target = domain.StatusPublished
		}
		return nil, domain.NewInvalidTransitionError(current.Status, target)
	}

	if publish {
		if err := current.ValidateForPublish(); err != nil {
			return nil, err
		}
		now := time.Now()
		current.Status = domain.StatusPublished
		current.PublishedAt = &now
	} else {
		current.Status = domain.StatusDraft
		current.PublishedAt = nil
	}

	if err := s.commitUpdate(ctx, current, current.Version); err != nil {
		return nil, err
	}

	s.invalidate(ctx, slug)
	logger.Get().Info("quiz publish state changed",
		zap.String("slug", slug),
		zap.Bool("published", publish))
	return current, nil
}

// Schedule implements LifecycleService. publish_at is stored as given; the
// sweep picks the document up once the time has passed, so a past timestamp
// simply publishes on the next sweep.
func (s *lifecycleService) Schedule(ctx context.Context, slug string, publishAt time.Time) (*domain.QuizDocument, error) {
	if publishAt.IsZero() {
		return nil, domain.NewValidationError("publish_at is required")
	}

	current, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if current == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}
	if current.Status == domain.StatusArchived {
		return nil, domain.NewInvalidTransitionError(current.Status, domain.StatusScheduled)
	}
	if err := current.ValidateForPublish(); err != nil {
		return nil, err
	}

	current.Status = domain.StatusScheduled
	current.PublishedAt = &publishAt

	if err := s.commitUpdate(ctx, current, current.Version); err != nil {
		return nil, err
	}

	s.invalidate(ctx, slug)
	logger.Get().Info("quiz scheduled",
		zap.String("slug", slug),
		zap.Time("publish_at", publishAt))
	return current, nil
}

// Archive implements LifecycleService. Archival is a soft delete: the row
// stays, the slug stays reserved, and the document disappears from public
// listing only.
func (s *lifecycleService) Archive(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	current, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if current == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}
	if current.Status == domain.StatusArchived {
		return nil, domain.NewInvalidTransitionError(current.Status, domain.StatusArchived)
	}

	current.Status = domain.StatusArchived

	if err := s.commitUpdate(ctx, current, current.Version); err != nil {
		return nil, err
	}

	s.invalidate(ctx, slug)
	logger.Get().Info("quiz archived", zap.String("slug", slug))
	return current, nil
}

// Rollback implements LifecycleService. The live content is snapshotted at
// its current version first, then the target snapshot's content is restored
// under an INCREMENTED version number. Reusing the target's version number
// would let a later edit overwrite the original snapshot at that version, so
// the version counter only ever moves forward.
func (s *lifecycleService) Rollback(ctx context.Context, slug string, targetVersion int, rolledBackBy string) (*domain.QuizDocument, error) {
	current, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if current == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}

	snapshot, err := s.versions.Get(ctx, slug, targetVersion)
	if err != nil {
		return nil, domain.NewStorageError("failed to load version snapshot", err)
	}
	if snapshot == nil {
		return nil, domain.NewVersionNotFoundError(slug, targetVersion)
	}

	restored := *current
	if err := restored.ApplyContentJSON(snapshot.QuizData); err != nil {
		return nil, domain.NewInternalError("failed to restore snapshot content", err)
	}
	restored.Version = current.Version + 1

	summary := fmt.Sprintf("rollback to version %d", targetVersion)
	err = s.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.snapshotCurrent(txCtx, current, rolledBackBy, summary); err != nil {
			return err
		}
		return s.commitUpdate(txCtx, &restored, current.Version)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, slug)
	logger.Get().Info("quiz rolled back",
		zap.String("slug", slug),
		zap.Int("target_version", targetVersion),
		zap.Int("new_version", restored.Version))
	return &restored, nil
}

// GetDocument implements LifecycleService. This is the admin/preview read:
// it resolves documents in any lifecycle state.
func (s *lifecycleService) GetDocument(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	doc, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if doc == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}
	return doc, nil
}

// ListByStatus implements LifecycleService
func (s *lifecycleService) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.QuizDocument, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown status: %s", status))
	}
	docs, err := s.docs.ListByStatus(ctx, status)
	if err != nil {
		return nil, domain.NewStorageError("failed to list quizzes", err)
	}
	return docs, nil
}

// ListVersions implements LifecycleService
func (s *lifecycleService) ListVersions(ctx context.Context, slug string) ([]*domain.VersionSnapshot, error) {
	doc, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to load quiz", err)
	}
	if doc == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}
	snapshots, err := s.versions.ListDescending(ctx, slug)
	if err != nil {
		return nil, domain.NewStorageError("failed to list versions", err)
	}
	return snapshots, nil
}

// snapshotCurrent appends the live content at its current version number to
// the version log.
func (s *lifecycleService) snapshotCurrent(ctx context.Context, current *domain.QuizDocument, createdBy, changeSummary string) error {
	content, err := current.ContentJSON()
	if err != nil {
		return domain.NewInternalError("failed to serialize quiz content", err)
	}
	snapshot := &domain.VersionSnapshot{
		QuizSlug:      current.Slug,
		Version:       current.Version,
		QuizData:      content,
		CreatedBy:     createdBy,
		ChangeSummary: changeSummary,
	}
	if err := s.versions.Append(ctx, snapshot); err != nil {
		return domain.NewStorageError("failed to snapshot quiz version", err)
	}
	return nil
}

// commitUpdate writes the document guarded by the expected version and
// translates a lost race into a Conflict.
func (s *lifecycleService) commitUpdate(ctx context.Context, doc *domain.QuizDocument, expectedVersion int) error {
	ok, err := s.docs.Update(ctx, doc, expectedVersion)
	if err != nil {
		return domain.NewStorageError("failed to update quiz", err)
	}
	if !ok {
		return domain.NewConflictError(doc.Slug, expectedVersion)
	}
	return nil
}

// invalidate drops the published cache entry, best effort.
func (s *lifecycleService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, slug); err != nil {
		logger.Get().Warn("failed to invalidate published quiz cache",
			zap.String("slug", slug),
			zap.Error(err))
	}
}

// applyContent replaces the content portion of dst with src, keeping
// lifecycle fields.
func applyContent(dst, src *domain.QuizDocument) error {
	content, err := src.ContentJSON()
	if err != nil {
		return domain.NewInternalError("failed to serialize quiz content", err)
	}
	return dst.ApplyContentJSON(content)
}
