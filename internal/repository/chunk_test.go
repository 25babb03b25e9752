//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/clauselens/clauselens/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertChunk(ctx context.Context, t *testing.T, pool *pgxpool.Pool, c domain.KnowledgeChunk) domain.KnowledgeChunk {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	var embedding interface{}
	if c.Embedding != nil {
		embedding = pgvector.NewVector(c.Embedding)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO knowledge_chunks (id, document_id, type, category, content, approved, embedding, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.DocumentID, string(c.Type), nullableString(c.Category), c.Content, c.Approved, embedding, c.CreatedAt, c.UpdatedAt,
	)
	require.NoError(t, err)
	return c
}

func testEmbedding(dims int, hot int) []float32 {
	v := make([]float32, dims)
	v[hot] = 1
	return v
}

func TestChunkRepository_SearchByEmbedding(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	near := insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-1",
		Type:       domain.ChunkTypePolicy,
		Category:   "liability",
		Content:    "Liability shall be capped at the contract value.",
		Approved:   true,
		Embedding:  testEmbedding(1536, 0),
	})
	insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-2",
		Type:       domain.ChunkTypePolicy,
		Category:   "termination",
		Content:    "Either party may terminate with thirty days notice.",
		Approved:   true,
		Embedding:  testEmbedding(1536, 700),
	})
	// No embedding, must never surface in vector search.
	insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-3",
		Type:       domain.ChunkTypePolicy,
		Content:    "Unembedded chunk.",
	})

	results, err := repo.SearchByEmbedding(ctx, testEmbedding(1536, 0), service.ChunkFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestChunkRepository_SearchByEmbedding_Filters(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	approved := insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-1",
		Type:       domain.ChunkTypeAlternativeLanguage,
		Category:   "indemnification",
		Content:    "Each party bears its own losses to the extent of its fault.",
		Approved:   true,
		Embedding:  testEmbedding(1536, 1),
	})
	insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-1",
		Type:       domain.ChunkTypeAlternativeLanguage,
		Category:   "indemnification",
		Content:    "Draft alternative, not yet reviewed.",
		Approved:   false,
		Embedding:  testEmbedding(1536, 2),
	})
	insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-2",
		Type:       domain.ChunkTypePolicy,
		Category:   "indemnification",
		Content:    "Indemnification clauses require legal review.",
		Approved:   true,
		Embedding:  testEmbedding(1536, 3),
	})

	results, err := repo.SearchByEmbedding(ctx, testEmbedding(1536, 1), service.ChunkFilter{
		Type:         domain.ChunkTypeAlternativeLanguage,
		Category:     "indemnification",
		ApprovedOnly: true,
	}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, approved.ID, results[0].ID)
}

func TestChunkRepository_ListChunks(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	older := insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-1",
		Type:       domain.ChunkTypeFARRequirement,
		Content:    "FAR 52.245-1 governs government property.",
		Approved:   true,
		UpdatedAt:  time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
		CreatedAt:  time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
	})
	newer := insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-2",
		Type:       domain.ChunkTypeFARRequirement,
		Content:    "FAR 52.227-14 governs data rights.",
		Approved:   true,
	})

	list, err := repo.ListChunks(ctx, service.ChunkFilter{Type: domain.ChunkTypeFARRequirement}, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestChunkRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	c := insertChunk(ctx, t, pool, domain.KnowledgeChunk{
		DocumentID: "doc-1",
		Type:       domain.ChunkTypeContractTemplate,
		Category:   "services",
		Content:    "Standard services agreement template.",
		Approved:   true,
	})

	retrieved, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, retrieved.ID)
	assert.Equal(t, c.DocumentID, retrieved.DocumentID)
	assert.Equal(t, c.Type, retrieved.Type)
	assert.Equal(t, c.Category, retrieved.Category)
	assert.Equal(t, c.Content, retrieved.Content)
}

func TestChunkRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrChunkNotFound)
}

func TestAnalysisLogRepository_CreateAndListRecent(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAnalysisLogRepository(pool)

	first := &domain.AnalysisLog{
		ID:              uuid.NewString(),
		TextChars:       1200,
		FindingCount:    3,
		RiskTier:        domain.SeverityHigh,
		RiskScore:       2.1,
		ComplianceScore: 85,
		DurationMS:      42,
		CreatedAt:       time.Now().UTC().Add(-time.Minute).Truncate(time.Microsecond),
	}
	second := &domain.AnalysisLog{
		ID:              uuid.NewString(),
		TextChars:       300,
		FindingCount:    0,
		RiskTier:        domain.SeverityLow,
		RiskScore:       0,
		ComplianceScore: 100,
		DurationMS:      7,
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, domain.SeverityHigh, list[1].RiskTier)
	assert.Equal(t, 85, list[1].ComplianceScore)
}
