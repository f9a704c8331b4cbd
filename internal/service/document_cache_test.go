package service

import (
	"context"
	"testing"
	"time"

	"hivequiz/internal/config"
	"hivequiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cacheConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{PublishedQuizTTL: 5 * time.Minute},
	}
}

func TestPublishedQuizCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss reads the repository and fills the cache", func(t *testing.T) {
		cacheClient := new(MockDomainCache)
		repo := new(MockDocumentRepository)
		pqc := NewPublishedQuizCache(cacheClient, repo, cacheConfig())

		doc := publishedDoc()
		cacheClient.On("Get", ctx, mock.Anything).Return("", domain.ErrCacheMiss)
		repo.On("GetPublishedBySlug", ctx, doc.Slug).Return(doc, nil)
		cacheClient.On("Set", ctx, mock.Anything, mock.Anything, 5*time.Minute).Return(nil)

		got, err := pqc.GetPublished(ctx, doc.Slug)
		require.NoError(t, err)
		assert.Equal(t, doc.Slug, got.Slug)
		cacheClient.AssertExpectations(t)
	})

	t.Run("hit skips the repository", func(t *testing.T) {
		cacheClient := new(MockDomainCache)
		repo := new(MockDocumentRepository)
		pqc := NewPublishedQuizCache(cacheClient, repo, cacheConfig())

		doc := publishedDoc()
		raw, err := encodeCachedDocument(doc)
		require.NoError(t, err)
		cacheClient.On("Get", ctx, mock.Anything).Return(raw, nil)

		got, err := pqc.GetPublished(ctx, doc.Slug)
		require.NoError(t, err)
		assert.Equal(t, doc.Title, got.Title)
		assert.Equal(t, doc.Status, got.Status)
		repo.AssertNotCalled(t, "GetPublishedBySlug")
	})

	t.Run("cache errors degrade to the repository", func(t *testing.T) {
		cacheClient := new(MockDomainCache)
		repo := new(MockDocumentRepository)
		pqc := NewPublishedQuizCache(cacheClient, repo, cacheConfig())

		doc := publishedDoc()
		cacheClient.On("Get", ctx, mock.Anything).Return("", assert.AnError)
		repo.On("GetPublishedBySlug", ctx, doc.Slug).Return(doc, nil)
		cacheClient.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		got, err := pqc.GetPublished(ctx, doc.Slug)
		require.NoError(t, err)
		assert.Equal(t, doc.Slug, got.Slug)
	})

	t.Run("corrupt cache entries fall back to the repository", func(t *testing.T) {
		cacheClient := new(MockDomainCache)
		repo := new(MockDocumentRepository)
		pqc := NewPublishedQuizCache(cacheClient, repo, cacheConfig())

		doc := publishedDoc()
		cacheClient.On("Get", ctx, mock.Anything).Return("{not json", nil)
		repo.On("GetPublishedBySlug", ctx, doc.Slug).Return(doc, nil)
		cacheClient.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		got, err := pqc.GetPublished(ctx, doc.Slug)
		require.NoError(t, err)
		assert.Equal(t, doc.Slug, got.Slug)
	})

	t.Run("nil cache client disables caching", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		pqc := NewPublishedQuizCache(nil, repo, cacheConfig())

		doc := publishedDoc()
		repo.On("GetPublishedBySlug", ctx, doc.Slug).Return(doc, nil)

		got, err := pqc.GetPublished(ctx, doc.Slug)
		require.NoError(t, err)
		assert.Equal(t, doc.Slug, got.Slug)

		assert.NoError(t, pqc.Invalidate(ctx, doc.Slug))
	})

	t.Run("invalidate deletes the key", func(t *testing.T) {
		cacheClient := new(MockDomainCache)
		repo := new(MockDocumentRepository)
		pqc := NewPublishedQuizCache(cacheClient, repo, cacheConfig())

		cacheClient.On("Delete", ctx, mock.Anything).Return(nil)
		require.NoError(t, pqc.Invalidate(ctx, "which-hive-is-home"))
		cacheClient.AssertExpectations(t)
	})
}
