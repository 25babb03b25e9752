package handlers

import (
	"net/http"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/rules"
)

type RulesHandler struct {
	table *rules.Table
}

func NewRulesHandler(table *rules.Table) *RulesHandler {
	return &RulesHandler{table: table}
}

type RuleResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Pattern     string `json:"pattern"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Replacement string `json:"replacement,omitempty"`
	Citation    string `json:"citation,omitempty"`
	Category    string `json:"category,omitempty"`
}

type RulesResponse struct {
	Rules []*RuleResponse `json:"rules"`
	Count int             `json:"count"`
}

// List returns the active rule table.
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.table.All()
	responses := make([]*RuleResponse, len(all))
	for i, rule := range all {
		responses[i] = &RuleResponse{
			ID:          rule.ID,
			Kind:        string(rule.Kind),
			Pattern:     rule.Pattern.String(),
			Severity:    string(rule.Severity),
			Description: rule.Description,
			Replacement: rule.Replacement,
			Citation:    rule.Citation,
			Category:    rule.Category,
		}
	}

	api.Success(w, http.StatusOK, RulesResponse{Rules: responses, Count: len(responses)})
}
