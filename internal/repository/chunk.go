package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ChunkRepository implements chunk lookups and vector search over the
// externally ingested knowledge base.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// SearchByEmbedding runs a nearest-neighbor query over chunk embeddings,
// optionally narrowed by type, category, document, and approval state.
func (r *ChunkRepository) SearchByEmbedding(ctx context.Context, embedding []float32, filter service.ChunkFilter, limit int) ([]domain.KnowledgeChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	query := `
		SELECT id, document_id, type, category, content, approved,
		       1.0 / (1.0 + (embedding <=> $1)) AS similarity
		FROM knowledge_chunks
		WHERE embedding IS NOT NULL`
	args := []interface{}{vec}

	query, args = applyChunkFilter(query, args, filter)

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY similarity DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunkRows(rows, true)
}

// ListChunks returns stored chunks matching the filter, newest first.
// The lexical fallback ranks these in memory, so no embedding is loaded.
func (r *ChunkRepository) ListChunks(ctx context.Context, filter service.ChunkFilter, limit int) ([]domain.KnowledgeChunk, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, document_id, type, category, content, approved
		FROM knowledge_chunks
		WHERE content <> ''`
	args := []interface{}{}

	query, args = applyChunkFilter(query, args, filter)

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunkRows(rows, false)
}

func (r *ChunkRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeChunk, error) {
	var c domain.KnowledgeChunk
	var category *string
	err := r.pool.QueryRow(ctx,
		`SELECT id, document_id, type, category, content, approved, created_at, updated_at
		 FROM knowledge_chunks WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.DocumentID, &c.Type, &category, &c.Content, &c.Approved, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChunkNotFound
		}
		return nil, err
	}
	if category != nil {
		c.Category = *category
	}
	return &c, nil
}

func applyChunkFilter(query string, args []interface{}, filter service.ChunkFilter) (string, []interface{}) {
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.DocumentID != "" {
		args = append(args, filter.DocumentID)
		query += fmt.Sprintf(" AND document_id = $%d", len(args))
	}
	if filter.ApprovedOnly {
		query += " AND approved"
	}
	return query, args
}

func scanChunkRows(rows pgx.Rows, withSimilarity bool) ([]domain.KnowledgeChunk, error) {
	results := make([]domain.KnowledgeChunk, 0)
	for rows.Next() {
		var c domain.KnowledgeChunk
		var category *string
		var err error
		if withSimilarity {
			err = rows.Scan(&c.ID, &c.DocumentID, &c.Type, &category, &c.Content, &c.Approved, &c.Similarity)
		} else {
			err = rows.Scan(&c.ID, &c.DocumentID, &c.Type, &category, &c.Content, &c.Approved)
		}
		if err != nil {
			return nil, err
		}
		if category != nil {
			c.Category = *category
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
