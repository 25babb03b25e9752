package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/lexical"
)

// listCandidateLimit bounds how many stored chunks the lexical path
// scores per query. The knowledge store is small and fixed, so a flat
// scan is acceptable here.
const listCandidateLimit = 500

// ChunkLister defines the read path the lexical fallback needs from
// the knowledge store
type ChunkLister interface {
	ListChunks(ctx context.Context, filter ChunkFilter, limit int) ([]domain.KnowledgeChunk, error)
}

// LexicalRetriever ranks stored chunks with the term-weighting model
// instead of embeddings. It serves deployments without an embedding
// provider and keeps retrieval available during provider outages.
type LexicalRetriever struct {
	model  *lexical.Model
	lister ChunkLister
}

// NewLexicalRetriever creates a new LexicalRetriever instance
func NewLexicalRetriever(model *lexical.Model, lister ChunkLister) *LexicalRetriever {
	return &LexicalRetriever{
		model:  model,
		lister: lister,
	}
}

// Retrieve scores chunks by TF-IDF cosine similarity against the query
// and returns the top k with nonzero scores, descending. Store errors
// degrade to an empty result, matching the semantic client.
func (r *LexicalRetriever) Retrieve(ctx context.Context, queryText string, filter ChunkFilter, k int) ([]domain.KnowledgeChunk, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		k = defaultRetrieveLimit
	}

	chunks, err := r.lister.ListChunks(ctx, filter, listCandidateLimit)
	if err != nil {
		log.Printf("lexical retrieval degraded: chunk listing failed: %v", err)
		return []domain.KnowledgeChunk{}, nil
	}

	scored := make([]domain.KnowledgeChunk, 0, len(chunks))
	for _, chunk := range chunks {
		sim := r.model.Similarity(queryText, chunk.Content)
		if sim == 0 {
			continue
		}
		chunk.Similarity = sim
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// RetrieveBroad retries an empty targeted query once with the top
// keywords of the original text, mirroring the semantic client.
func (r *LexicalRetriever) RetrieveBroad(ctx context.Context, queryText string, filter ChunkFilter, k int) ([]domain.KnowledgeChunk, error) {
	chunks, err := r.Retrieve(ctx, queryText, filter, k)
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

	return r.Retrieve(ctx, broad, filter, k)
}
