package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/service"
)

type AnalyzeService interface {
	Analyze(ctx context.Context, contractText string, opts service.Options) (*domain.ComplianceReport, error)
}

type AnalyzeHandler struct {
	svc AnalyzeService
}

func NewAnalyzeHandler(svc AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

type AnalyzeRequest struct {
	Text                    string   `json:"text"`
	CheckMissingClauses     *bool    `json:"check_missing_clauses,omitempty"`
	CheckProhibitedLanguage *bool    `json:"check_prohibited_language,omitempty"`
	IncludeAlternatives     *bool    `json:"include_alternatives,omitempty"`
	MinConfidence           *float64 `json:"min_confidence,omitempty"`
}

type FindingResponse struct {
	ID                   string           `json:"id"`
	RuleID               string           `json:"rule_id"`
	Kind                 string           `json:"kind"`
	Severity             string           `json:"severity"`
	IsMissingClause      bool             `json:"is_missing_clause"`
	Start                *int             `json:"start,omitempty"`
	End                  *int             `json:"end,omitempty"`
	ProblematicText      string           `json:"problematic_text,omitempty"`
	Confidence           float64          `json:"confidence"`
	Description          string           `json:"description"`
	Citation             string           `json:"citation,omitempty"`
	Category             string           `json:"category,omitempty"`
	SuggestedAlternative string           `json:"suggested_alternative,omitempty"`
	Alternatives         []*ChunkResponse `json:"alternatives,omitempty"`
}

type AnalyzeResponse struct {
	Findings        []*FindingResponse `json:"findings"`
	RiskTier        string             `json:"risk_tier"`
	RiskScore       float64            `json:"risk_score"`
	ComplianceScore int                `json:"compliance_score"`
	AnalyzedAt      string             `json:"analyzed_at"`
}

func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := service.DefaultOptions()
	if req.CheckMissingClauses != nil {
		opts.CheckMissingClauses = *req.CheckMissingClauses
	}
	if req.CheckProhibitedLanguage != nil {
		opts.CheckProhibitedLanguage = *req.CheckProhibitedLanguage
	}
	if req.IncludeAlternatives != nil {
		opts.IncludeAlternatives = *req.IncludeAlternatives
	}
	if req.MinConfidence != nil {
		if *req.MinConfidence < 0 || *req.MinConfidence > 1 {
			api.Error(w, http.StatusBadRequest, "min_confidence must be in [0,1]")
			return
		}
		opts.MinConfidence = *req.MinConfidence
	}

	report, err := h.svc.Analyze(r.Context(), req.Text, opts)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	findings := make([]*FindingResponse, len(report.Findings))
	for i, f := range report.Findings {
		fr := &FindingResponse{
			ID:                   f.ID,
			RuleID:               f.RuleID,
			Kind:                 string(f.Kind),
			Severity:             string(f.Severity),
			IsMissingClause:      f.IsMissingClause,
			ProblematicText:      f.ProblematicText,
			Confidence:           f.Confidence,
			Description:          f.Description,
			Citation:             f.Citation,
			Category:             f.Category,
			SuggestedAlternative: f.SuggestedAlternative,
		}
		if !f.IsMissingClause {
			start, end := f.Start, f.End
			fr.Start = &start
			fr.End = &end
		}
		if chunks, ok := report.Alternatives[f.ID]; ok {
			fr.Alternatives = chunkResponses(chunks)
		}
		findings[i] = fr
	}

	api.Success(w, http.StatusOK, AnalyzeResponse{
		Findings:        findings,
		RiskTier:        string(report.RiskTier),
		RiskScore:       report.RiskScore,
		ComplianceScore: report.ComplianceScore,
		AnalyzedAt:      report.AnalyzedAt.UTC().Format(time.RFC3339Nano),
	})
}
