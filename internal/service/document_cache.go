package service

import (
	"context"
	"encoding/json"
	"time"

	"hivequiz/internal/cache"
	"hivequiz/internal/config"
	"hivequiz/internal/domain"
	"hivequiz/internal/logger"

	"go.uber.org/zap"
)

const publishedQuizCacheService = "submission"
const publishedQuizCacheObject = "published_quiz"

// cachedDocument is the cache envelope. Lifecycle fields are not part of the
// document's content JSON, so they travel alongside it.
type cachedDocument struct {
	Content     json.RawMessage `json:"content"`
	Status      string          `json:"status"`
	Version     int             `json:"version"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PublishedQuizCache is a read-through TTL cache in front of the published
// document lookup. Cache failures degrade to repository reads and never fail
// the request.
type PublishedQuizCache interface {
	GetPublished(ctx context.Context, slug string) (*domain.QuizDocument, error)
	Invalidate(ctx context.Context, slug string) error
}

type publishedQuizCache struct {
	cache domain.Cache
	repo  domain.DocumentRepository
	ttl   time.Duration
}

// NewPublishedQuizCache creates a read-through cache over the given
// repository. A nil cache client disables caching entirely.
func NewPublishedQuizCache(cacheClient domain.Cache, repo domain.DocumentRepository, cfg *config.Config) PublishedQuizCache {
	return &publishedQuizCache{
		cache: cacheClient,
		repo:  repo,
		ttl:   cfg.Cache.PublishedQuizTTL,
	}
}

func publishedQuizCacheKey(slug string) string {
	return cache.GenerateCacheKey(publishedQuizCacheService, publishedQuizCacheObject, slug)
}

// GetPublished implements PublishedQuizCache
func (c *publishedQuizCache) GetPublished(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	key := publishedQuizCacheKey(slug)

	if c.cache != nil {
		raw, err := c.cache.Get(ctx, key)
		if err == nil {
			doc, decodeErr := decodeCachedDocument(slug, raw)
			if decodeErr == nil {
				return doc, nil
			}
			logger.Get().Warn("failed to decode cached quiz, falling back to repository",
				zap.String("slug", slug),
				zap.Error(decodeErr))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("published quiz cache read failed",
				zap.String("slug", slug),
				zap.Error(err))
		}
	}

	doc, err := c.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	if c.cache != nil {
		if raw, encodeErr := encodeCachedDocument(doc); encodeErr == nil {
			if setErr := c.cache.Set(ctx, key, raw, c.ttl); setErr != nil {
				logger.Get().Warn("published quiz cache write failed",
					zap.String("slug", slug),
					zap.Error(setErr))
			}
		}
	}
	return doc, nil
}

// Invalidate implements PublishedQuizCache
func (c *publishedQuizCache) Invalidate(ctx context.Context, slug string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, publishedQuizCacheKey(slug))
}

func encodeCachedDocument(doc *domain.QuizDocument) (string, error) {
	content, err := doc.ContentJSON()
	if err != nil {
		return "", err
	}
	envelope := cachedDocument{
		Content:     content,
		Status:      string(doc.Status),
		Version:     doc.Version,
		PublishedAt: doc.PublishedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeCachedDocument(slug string, raw string) (*domain.QuizDocument, error) {
	var envelope cachedDocument
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, err
	}
	doc := &domain.QuizDocument{
		Slug:        slug,
		Status:      domain.Status(envelope.Status),
		Version:     envelope.Version,
		PublishedAt: envelope.PublishedAt,
		CreatedAt:   envelope.CreatedAt,
		UpdatedAt:   envelope.UpdatedAt,
	}
	if err := doc.ApplyContentJSON(envelope.Content); err != nil {
		return nil, err
	}
	return doc, nil
}
