package rules

import (
	"fmt"
	"hash/fnv"

	"github.com/clauselens/clauselens/internal/domain"
)

const (
	// missingClauseConfidence is fixed: the absence of required language
	// is treated as near-certain, not probabilistic.
	missingClauseConfidence = 0.95

	// Prohibited-language matches are lexically certain but contextually
	// imperfect, so confidence sits in a narrow high band derived
	// deterministically from the matched text.
	prohibitedConfidenceBase = 0.85
	prohibitedConfidenceSpan = 0.10
)

// Engine evaluates contract text against the compiled rule table.
// It is pure and synchronous; detection never suspends or errors.
type Engine struct {
	table *Table
}

// NewEngine creates a new Engine over an already-validated rule table.
func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Table returns the engine's rule table.
func (e *Engine) Table() *Table {
	return e.table
}

// Detect runs both detection passes over the contract text and returns
// raw findings in table order: missing-clause findings first, then
// prohibited-language findings. Empty input is valid and yields one
// finding per missing-clause rule. Overlapping matches from different
// rules are not merged here; deduplication is the aggregator's job.
func (e *Engine) Detect(contractText string) []domain.Finding {
	findings := make([]domain.Finding, 0)

	for _, rule := range e.table.MissingClause {
		if rule.Pattern.MatchString(contractText) {
			continue
		}
		findings = append(findings, domain.Finding{
			ID:                   fmt.Sprintf("%s-missing", rule.ID),
			RuleID:               rule.ID,
			Kind:                 domain.RuleKindMissingClause,
			Severity:             rule.Severity,
			IsMissingClause:      true,
			Confidence:           missingClauseConfidence,
			Description:          rule.Description,
			Citation:             rule.Citation,
			Category:             rule.Category,
			SuggestedAlternative: rule.Replacement,
		})
	}

	for _, rule := range e.table.ProhibitedLanguage {
		matches := rule.Pattern.FindAllStringIndex(contractText, -1)
		for _, match := range matches {
			start, end := match[0], match[1]
			matched := contractText[start:end]
			findings = append(findings, domain.Finding{
				ID:                   fmt.Sprintf("%s-%d", rule.ID, start),
				RuleID:               rule.ID,
				Kind:                 domain.RuleKindProhibitedLanguage,
				Severity:             rule.Severity,
				Start:                start,
				End:                  end,
				ProblematicText:      matched,
				Confidence:           matchConfidence(matched),
				Description:          rule.Description,
				Citation:             rule.Citation,
				Category:             rule.Category,
				SuggestedAlternative: rule.Replacement,
			})
		}
	}

	return findings
}

// matchConfidence maps matched text into [0.85, 0.95). Deterministic:
// identical matches always score identically across runs.
func matchConfidence(matched string) float64 {
	h := fnv.New32a()
	h.Write([]byte(matched))
	return prohibitedConfidenceBase + prohibitedConfidenceSpan*float64(h.Sum32()%1000)/1000.0
}
