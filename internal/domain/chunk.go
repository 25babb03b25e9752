package domain

import "time"

// ChunkType represents the type of an ingested knowledge chunk
type ChunkType string

const (
	ChunkTypeFARRequirement      ChunkType = "far_requirement"
	ChunkTypePolicy              ChunkType = "policy"
	ChunkTypeAlternativeLanguage ChunkType = "alternative_language"
	ChunkTypeContractTemplate    ChunkType = "contract_template"
)

// KnowledgeChunk represents a unit of previously ingested, embedded
// policy or contract text held in the external store. Chunks are
// produced by the ingestion pipeline and read-only to this service.
type KnowledgeChunk struct {
	ID         string
	DocumentID string
	Type       ChunkType
	Category   string // policy category or term-type tag
	Content    string
	Approved   bool
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Similarity is populated only on query results, never stored.
	Similarity float64
}

// IsValidChunkType checks if a ChunkType is valid
func IsValidChunkType(t ChunkType) bool {
	switch t {
	case ChunkTypeFARRequirement, ChunkTypePolicy,
		ChunkTypeAlternativeLanguage, ChunkTypeContractTemplate:
		return true
	}
	return false
}
