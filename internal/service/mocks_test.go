package service

import (
	"context"
	"time"

	"hivequiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockDocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) GetBySlug(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDocument), args.Error(1)
}

func (m *MockDocumentRepository) GetPublishedBySlug(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDocument), args.Error(1)
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.QuizDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *domain.QuizDocument, expectedVersion int) (bool, error) {
	args := m.Called(ctx, doc, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.QuizDocument, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListDueForPublish(ctx context.Context, now time.Time) ([]*domain.QuizDocument, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizDocument), args.Error(1)
}

var _ domain.DocumentRepository = (*MockDocumentRepository)(nil)

// --- MockVersionRepository ---
type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Append(ctx context.Context, snapshot *domain.VersionSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockVersionRepository) Get(ctx context.Context, slug string, version int) (*domain.VersionSnapshot, error) {
	args := m.Called(ctx, slug, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionSnapshot), args.Error(1)
}

func (m *MockVersionRepository) ListDescending(ctx context.Context, slug string) ([]*domain.VersionSnapshot, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VersionSnapshot), args.Error(1)
}

var _ domain.VersionRepository = (*MockVersionRepository)(nil)

// --- MockBranchOverrideRepository ---
type MockBranchOverrideRepository struct {
	mock.Mock
}

func (m *MockBranchOverrideRepository) Append(ctx context.Context, override *domain.BranchOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockBranchOverrideRepository) Latest(ctx context.Context, slug, questionID, optionID string) (*domain.BranchOverride, error) {
	args := m.Called(ctx, slug, questionID, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BranchOverride), args.Error(1)
}

var _ domain.BranchOverrideRepository = (*MockBranchOverrideRepository)(nil)

// --- MockAnalyticsSink ---
type MockAnalyticsSink struct {
	mock.Mock
}

func (m *MockAnalyticsSink) Record(ctx context.Context, event *domain.AnalyticsEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var _ domain.AnalyticsSink = (*MockAnalyticsSink)(nil)

// --- MockTransactionManager ---
// Runs the function inline; transactional semantics are the adapter's
// concern, not the service's.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

var _ domain.TransactionManager = (*MockTransactionManager)(nil)

// --- MockPublishedQuizCache ---
type MockPublishedQuizCache struct {
	mock.Mock
}

func (m *MockPublishedQuizCache) GetPublished(ctx context.Context, slug string) (*domain.QuizDocument, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDocument), args.Error(1)
}

func (m *MockPublishedQuizCache) Invalidate(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

var _ PublishedQuizCache = (*MockPublishedQuizCache)(nil)

// --- MockDomainCache ---
type MockDomainCache struct {
	mock.Mock
}

func (m *MockDomainCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockDomainCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockDomainCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockDomainCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ domain.Cache = (*MockDomainCache)(nil)

// --- MockBranchingResolver ---
type MockBranchingResolver struct {
	mock.Mock
}

func (m *MockBranchingResolver) Resolve(ctx context.Context, slug, questionID, optionID string) (string, error) {
	args := m.Called(ctx, slug, questionID, optionID)
	return args.String(0), args.Error(1)
}

func (m *MockBranchingResolver) SetOverride(ctx context.Context, slug, questionID, optionID, nextQuestionID string) error {
	args := m.Called(ctx, slug, questionID, optionID, nextQuestionID)
	return args.Error(0)
}

var _ BranchingResolver = (*MockBranchingResolver)(nil)
