package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbedder is a mock implementation of Embedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockChunkSearcher is a mock implementation of ChunkSearcher
type MockChunkSearcher struct {
	mock.Mock
}

func (m *MockChunkSearcher) SearchByEmbedding(ctx context.Context, embedding []float32, filter ChunkFilter, limit int) ([]domain.KnowledgeChunk, error) {
	args := m.Called(ctx, embedding, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KnowledgeChunk), args.Error(1)
}

func TestRetrievalService_Retrieve(t *testing.T) {
	ctx := context.Background()
	vec := []float32{0.1, 0.2}

	t.Run("rejects empty query", func(t *testing.T) {
		svc := NewRetrievalService(new(MockEmbedder), new(MockChunkSearcher))

		_, err := svc.Retrieve(ctx, "   ", ChunkFilter{}, 5)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})

	t.Run("returns chunks ordered by descending similarity", func(t *testing.T) {
		embedder := new(MockEmbedder)
		searcher := new(MockChunkSearcher)
		embedder.On("GenerateEmbedding", mock.Anything, "indemnification clause").Return(vec, nil)
		searcher.On("SearchByEmbedding", mock.Anything, vec, ChunkFilter{}, 2).Return([]domain.KnowledgeChunk{
			{ID: "c2", Similarity: 0.61},
			{ID: "c1", Similarity: 0.92},
		}, nil)

		svc := NewRetrievalService(embedder, searcher)
		chunks, err := svc.Retrieve(ctx, "indemnification clause", ChunkFilter{}, 2)

		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "c1", chunks[0].ID)
		assert.Equal(t, "c2", chunks[1].ID)
		embedder.AssertExpectations(t)
		searcher.AssertExpectations(t)
	})

	t.Run("truncates long queries by prefix before embedding", func(t *testing.T) {
		long := strings.Repeat("a", maxEmbedChars+500)

		embedder := new(MockEmbedder)
		searcher := new(MockChunkSearcher)
		embedder.On("GenerateEmbedding", mock.Anything, long[:maxEmbedChars]).Return(vec, nil)
		searcher.On("SearchByEmbedding", mock.Anything, vec, ChunkFilter{}, 1).Return([]domain.KnowledgeChunk{}, nil)

		svc := NewRetrievalService(embedder, searcher)
		_, err := svc.Retrieve(ctx, long, ChunkFilter{}, 1)

		require.NoError(t, err)
		embedder.AssertExpectations(t)
	})

	t.Run("truncation never splits a multibyte character", func(t *testing.T) {
		// Place a three-byte rune straddling the byte ceiling.
		long := strings.Repeat("a", maxEmbedChars-1) + strings.Repeat("€", 200)

		got := truncateQuery(long)

		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), maxEmbedChars)
		assert.Equal(t, strings.Repeat("a", maxEmbedChars-1), got)
	})

	t.Run("embedding failure degrades to empty result", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("provider unreachable"))

		svc := NewRetrievalService(embedder, new(MockChunkSearcher))
		chunks, err := svc.Retrieve(ctx, "query", ChunkFilter{}, 5)

		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("index failure degrades to empty result", func(t *testing.T) {
		embedder := new(MockEmbedder)
		searcher := new(MockChunkSearcher)
		embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(vec, nil)
		searcher.On("SearchByEmbedding", mock.Anything, vec, mock.Anything, mock.Anything).Return(nil, errors.New("index down"))

		svc := NewRetrievalService(embedder, searcher)
		chunks, err := svc.Retrieve(ctx, "query", ChunkFilter{}, 5)

		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("passes type filter through", func(t *testing.T) {
		filter := ChunkFilter{Type: domain.ChunkTypeAlternativeLanguage, Category: "indemnification", ApprovedOnly: true}

		embedder := new(MockEmbedder)
		searcher := new(MockChunkSearcher)
		embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(vec, nil)
		searcher.On("SearchByEmbedding", mock.Anything, vec, filter, 3).Return([]domain.KnowledgeChunk{}, nil)

		svc := NewRetrievalService(embedder, searcher)
		_, err := svc.Retrieve(ctx, "query", filter, 3)

		require.NoError(t, err)
		searcher.AssertExpectations(t)
	})
}

func TestRetrievalService_RetrieveBroad(t *testing.T) {
	ctx := context.Background()
	vec := []float32{0.5}

	t.Run("no retry when targeted query has results", func(t *testing.T) {
		embedder := new(MockEmbedder)
		searcher := new(MockChunkSearcher)
		embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(vec, nil).Once()
		searcher.On("SearchByEmbedding", mock.Anything, vec, mock.Anything, mock.Anything).
			Return([]domain.KnowledgeChunk{{ID: "c1", Similarity: 0.8}}, nil).Once()

		svc := NewRetrievalService(embedder, searcher)
		chunks, err := svc.RetrieveBroad(ctx, "liability limitation clause", ChunkFilter{}, 5)

		require.NoError(t, err)
		assert.Len(t, chunks, 1)
		embedder.AssertExpectations(t)
		searcher.AssertExpectations(t)
	})

	t.Run("retries once with keyword query when targeted search is empty", func(t *testing.T) {
		embedder := new(MockEmbedder)
		searcher := new(MockChunkSearcher)

		query := "the contractor agrees to unlimited liability obligations"
		embedder.On("GenerateEmbedding", mock.Anything, query).Return(vec, nil).Once()
		// Loosened query keeps only the top keywords, so it differs from
		// the original and is strictly shorter.
		embedder.On("GenerateEmbedding", mock.Anything, mock.MatchedBy(func(q string) bool {
			return q != query && len(q) < len(query) && strings.Contains(q, "liability")
		})).Return(vec, nil).Once()
		searcher.On("SearchByEmbedding", mock.Anything, vec, mock.Anything, mock.Anything).
			Return([]domain.KnowledgeChunk{}, nil).Once()
		searcher.On("SearchByEmbedding", mock.Anything, vec, mock.Anything, mock.Anything).
			Return([]domain.KnowledgeChunk{{ID: "broad", Similarity: 0.4}}, nil).Once()

		svc := NewRetrievalService(embedder, searcher)
		chunks, err := svc.RetrieveBroad(ctx, query, ChunkFilter{}, 5)

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "broad", chunks[0].ID)
		embedder.AssertExpectations(t)
	})
}

func TestBroadQuery(t *testing.T) {
	t.Run("keeps top keywords by frequency and length", func(t *testing.T) {
		query := broadQuery("liability liability indemnification the and fee fee fee")
		assert.Contains(t, query, "liability")
		assert.Contains(t, query, "indemnification")
	})

	t.Run("empty for stopword-only input", func(t *testing.T) {
		assert.Equal(t, "", broadQuery("a an of to"))
	})

	t.Run("caps keyword count", func(t *testing.T) {
		query := broadQuery("alpha bravo charlie delta echo foxtrot golf hotel")
		assert.LessOrEqual(t, len(strings.Fields(query)), broadQueryKeywords)
	})
}
