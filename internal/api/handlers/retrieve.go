package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/service"
)

type RetrieveService interface {
	Retrieve(ctx context.Context, queryText string, filter service.ChunkFilter, k int) ([]domain.KnowledgeChunk, error)
	RetrieveBroad(ctx context.Context, queryText string, filter service.ChunkFilter, k int) ([]domain.KnowledgeChunk, error)
}

type RetrieveHandler struct {
	svc RetrieveService
}

func NewRetrieveHandler(svc RetrieveService) *RetrieveHandler {
	return &RetrieveHandler{svc: svc}
}

type RetrieveRequest struct {
	Query        string `json:"query"`
	Type         string `json:"type,omitempty"`
	Category     string `json:"category,omitempty"`
	DocumentID   string `json:"document_id,omitempty"`
	ApprovedOnly bool   `json:"approved_only,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Broad        bool   `json:"broad,omitempty"`
}

type ChunkResponse struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Type       string  `json:"type"`
	Category   string  `json:"category,omitempty"`
	Content    string  `json:"content"`
	Approved   bool    `json:"approved"`
	Similarity float64 `json:"similarity"`
}

type RetrieveResponse struct {
	Results []*ChunkResponse `json:"results"`
}

func (h *RetrieveHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Type != "" && !domain.IsValidChunkType(domain.ChunkType(req.Type)) {
		api.Error(w, http.StatusBadRequest, "invalid chunk type")
		return
	}

	filter := service.ChunkFilter{
		Type:         domain.ChunkType(req.Type),
		Category:     req.Category,
		DocumentID:   req.DocumentID,
		ApprovedOnly: req.ApprovedOnly,
	}

	retrieve := h.svc.Retrieve
	if req.Broad {
		retrieve = h.svc.RetrieveBroad
	}

	chunks, err := retrieve(r.Context(), req.Query, filter, req.Limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, RetrieveResponse{Results: chunkResponses(chunks)})
}

func chunkResponses(chunks []domain.KnowledgeChunk) []*ChunkResponse {
	responses := make([]*ChunkResponse, len(chunks))
	for i, c := range chunks {
		responses[i] = &ChunkResponse{
			ID:         c.ID,
			DocumentID: c.DocumentID,
			Type:       string(c.Type),
			Category:   c.Category,
			Content:    c.Content,
			Approved:   c.Approved,
			Similarity: c.Similarity,
		}
	}
	return responses
}
