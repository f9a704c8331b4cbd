package service

import (
	"context"
	"testing"

	"hivequiz/internal/config"
	"hivequiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sweepConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{SweepWorkers: 2},
	}
}

func scheduledDoc(slug string) *domain.QuizDocument {
	doc := draftDoc()
	doc.Slug = slug
	doc.Status = domain.StatusScheduled
	return doc
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes every due document", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		cache := new(MockPublishedQuizCache)
		svc := NewSweepService(docs, cache, sweepConfig())

		due := []*domain.QuizDocument{scheduledDoc("a"), scheduledDoc("b"), scheduledDoc("c")}
		docs.On("ListDueForPublish", mock.Anything, mock.Anything).Return(due, nil)
		docs.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.QuizDocument) bool {
			return d.Status == domain.StatusPublished
		}), 1).Return(true, nil)
		cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil)

		count, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		docs.AssertNumberOfCalls(t, "Update", 3)
	})

	t.Run("one failure does not block the rest", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		cache := new(MockPublishedQuizCache)
		svc := NewSweepService(docs, cache, sweepConfig())

		good := scheduledDoc("good")
		bad := scheduledDoc("bad")
		docs.On("ListDueForPublish", mock.Anything, mock.Anything).Return([]*domain.QuizDocument{bad, good}, nil)
		docs.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.QuizDocument) bool {
			return d.Slug == "bad"
		}), 1).Return(false, assert.AnError)
		docs.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.QuizDocument) bool {
			return d.Slug == "good"
		}), 1).Return(true, nil)
		cache.On("Invalidate", mock.Anything, "good").Return(nil)

		count, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("lost version guard is skipped, not fatal", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		cache := new(MockPublishedQuizCache)
		svc := NewSweepService(docs, cache, sweepConfig())

		raced := scheduledDoc("raced")
		docs.On("ListDueForPublish", mock.Anything, mock.Anything).Return([]*domain.QuizDocument{raced}, nil)
		docs.On("Update", mock.Anything, mock.Anything, 1).Return(false, nil)

		count, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		svc := NewSweepService(docs, nil, sweepConfig())
		docs.On("ListDueForPublish", mock.Anything, mock.Anything).Return([]*domain.QuizDocument{}, nil)

		count, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
