package service

import (
	"context"
	"time"

	"hivequiz/internal/config"
	"hivequiz/internal/domain"
	"hivequiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepService promotes scheduled quizzes whose publish time has passed.
// It runs periodically in the background; one failed document never blocks
// the rest of the batch.
type SweepService interface {
	// Sweep publishes all due scheduled quizzes once and returns how many
	// went live.
	Sweep(ctx context.Context) (int, error)

	// Run loops Sweep on the configured interval until ctx is canceled.
	Run(ctx context.Context)
}

type sweepService struct {
	docs     domain.DocumentRepository
	cache    PublishedQuizCache
	interval time.Duration
	workers  int
}

// NewSweepService creates a new instance of sweepService
func NewSweepService(docs domain.DocumentRepository, cache PublishedQuizCache, cfg *config.Config) SweepService {
	workers := cfg.Scheduler.SweepWorkers
	if workers < 1 {
		workers = 1
	}
	return &sweepService{
		docs:     docs,
		cache:    cache,
		interval: cfg.Scheduler.SweepInterval,
		workers:  workers,
	}
}

// Sweep implements SweepService
func (s *sweepService) Sweep(ctx context.Context) (int, error) {
	due, err := s.docs.ListDueForPublish(ctx, time.Now())
	if err != nil {
		return 0, domain.NewStorageError("failed to list due quizzes", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	published := make(chan string, len(due))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, doc := range due {
		doc := doc
		g.Go(func() error {
			if err := s.publishDue(gctx, doc); err != nil {
				// Isolated: log and keep sweeping the rest.
				logger.Get().Error("failed to publish scheduled quiz",
					zap.String("slug", doc.Slug),
					zap.Error(err))
				return nil
			}
			published <- doc.Slug
			return nil
		})
	}

	_ = g.Wait()
	close(published)

	count := 0
	for slug := range published {
		count++
		logger.Get().Info("scheduled quiz published", zap.String("slug", slug))
	}
	return count, nil
}

func (s *sweepService) publishDue(ctx context.Context, doc *domain.QuizDocument) error {
	doc.Status = domain.StatusPublished

	ok, err := s.docs.Update(ctx, doc, doc.Version)
	if err != nil {
		return domain.NewStorageError("failed to publish quiz", err)
	}
	if !ok {
		// Someone edited or published it between the list and the update.
		// The next sweep will pick it up again if it is still scheduled.
		return domain.NewConflictError(doc.Slug, doc.Version)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, doc.Slug); err != nil {
			logger.Get().Warn("failed to invalidate published quiz cache",
				zap.String("slug", doc.Slug),
				zap.Error(err))
		}
	}
	return nil
}

// Run implements SweepService
func (s *sweepService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Get().Info("publish sweep started",
		zap.Duration("interval", s.interval),
		zap.Int("workers", s.workers))

	for {
		select {
		case <-ctx.Done():
			logger.Get().Info("publish sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				logger.Get().Error("publish sweep failed", zap.Error(err))
			}
		}
	}
}
