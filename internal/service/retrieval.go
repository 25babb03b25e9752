package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/lexical"
	"github.com/clauselens/clauselens/internal/telemetry"
)

const (
	// maxEmbedChars is the input-length ceiling of the embedding
	// provider. Long contracts are truncated by simple prefix
	// truncation to keep behavior reproducible.
	maxEmbedChars = 30000

	// broadQueryKeywords is how many top keywords the fallback broad
	// search keeps from the original query.
	broadQueryKeywords = 5

	defaultRetrieveLimit = 5
)

// Embedder defines the interface for generating embeddings
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkFilter narrows a knowledge-store query
type ChunkFilter struct {
	Type         domain.ChunkType
	Category     string
	DocumentID   string
	ApprovedOnly bool
}

// ChunkSearcher defines the nearest-neighbor query the external vector
// index provides
type ChunkSearcher interface {
	SearchByEmbedding(ctx context.Context, embedding []float32, filter ChunkFilter, limit int) ([]domain.KnowledgeChunk, error)
}

// RetrievalService turns a contract excerpt into a ranked set of
// knowledge chunks from the pre-indexed store. Retrieval is an
// enrichment, not a correctness-critical path: provider and index
// failures degrade to an empty result with a log entry, and no retries
// happen here. Retry policy, if any, belongs to the caller.
type RetrievalService struct {
	embedder Embedder
	searcher ChunkSearcher
}

// NewRetrievalService creates a new RetrievalService instance
func NewRetrievalService(embedder Embedder, searcher ChunkSearcher) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		searcher: searcher,
	}
}

// Retrieve returns the k chunks most similar to the query text,
// optionally filtered, ordered by descending similarity. The only
// error it returns is for empty query text; external failures yield an
// empty slice.
func (s *RetrievalService) Retrieve(ctx context.Context, queryText string, filter ChunkFilter, k int) ([]domain.KnowledgeChunk, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		k = defaultRetrieveLimit
	}

	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		ChunkType: string(filter.Type),
		Operation: "retrieve",
	})
	defer span.End()

	embedding, err := s.embedder.GenerateEmbedding(ctx, truncateQuery(queryText))
	if err != nil {
		span.SetError(err)
		log.Printf("retrieval degraded: embedding failed: %v", err)
		return []domain.KnowledgeChunk{}, nil
	}

	chunks, err := s.searcher.SearchByEmbedding(ctx, embedding, filter, k)
	if err != nil {
		span.SetError(err)
		log.Printf("retrieval degraded: vector search failed: %v", err)
		return []domain.KnowledgeChunk{}, nil
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Similarity > chunks[j].Similarity
	})
	return chunks, nil
}

// RetrieveBroad runs a targeted query and, if it comes back empty,
// retries once with a loosened query built from the top keywords of
// the original text.
func (s *RetrievalService) RetrieveBroad(ctx context.Context, queryText string, filter ChunkFilter, k int) ([]domain.KnowledgeChunk, error) {
	chunks, err := s.Retrieve(ctx, queryText, filter, k)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		return chunks, nil
	}

	broad := broadQuery(queryText)
	if broad == "" || broad == queryText {
		return chunks, nil
	}

	return s.Retrieve(ctx, broad, filter, k)
}

// truncateQuery bounds query text to the embedding provider's input
// ceiling by prefix truncation, backing off to the nearest rune
// boundary so the provider never sees a split multibyte character.
func truncateQuery(text string) string {
	if len(text) <= maxEmbedChars {
		return text
	}
	cut := maxEmbedChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// broadQuery extracts the top keywords of the text, scored by
// frequency weighted by token length.
func broadQuery(text string) string {
	tokens := lexical.Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]]*len(order[i]) > counts[order[j]]*len(order[j])
	})

	if len(order) > broadQueryKeywords {
		order = order[:broadQueryKeywords]
	}
	return strings.Join(order, " ")
}
