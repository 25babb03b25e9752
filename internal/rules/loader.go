// Package rules loads the compliance rule tables and evaluates contract
// text against them. Tables load once at startup; a malformed table is a
// fatal configuration error because a silently skipped rule would produce
// false negatives.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/clauselens/clauselens/internal/domain"
)

// RuleSpec is the on-disk representation of one policy rule.
type RuleSpec struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Pattern     string `json:"pattern"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Replacement string `json:"replacement"`
	Citation    string `json:"citation,omitempty"`
	Category    string `json:"category,omitempty"`
}

// TableSpec is the on-disk representation of the full rule table.
type TableSpec struct {
	Rules []RuleSpec `json:"rules"`
}

// Table holds the compiled rule tables, split by kind and kept in
// declaration order. It is immutable for the process lifetime.
type Table struct {
	MissingClause      []*domain.PolicyRule
	ProhibitedLanguage []*domain.PolicyRule
}

// Len returns the total number of rules in the table.
func (t *Table) Len() int {
	return len(t.MissingClause) + len(t.ProhibitedLanguage)
}

// All returns every rule in output order: missing-clause rules first,
// then prohibited-language rules, each in table order.
func (t *Table) All() []*domain.PolicyRule {
	out := make([]*domain.PolicyRule, 0, t.Len())
	out = append(out, t.MissingClause...)
	out = append(out, t.ProhibitedLanguage...)
	return out
}

// Load compiles a TableSpec into a Table. Every pattern compiles
// case-insensitively. Any invalid rule fails the whole load.
func Load(spec TableSpec) (*Table, error) {
	if len(spec.Rules) == 0 {
		return nil, domain.ErrEmptyRuleTable
	}

	table := &Table{}
	seen := make(map[string]bool, len(spec.Rules))

	for i, rs := range spec.Rules {
		if rs.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id", i)
		}
		if seen[rs.ID] {
			return nil, fmt.Errorf("rule %s: duplicate id", rs.ID)
		}
		seen[rs.ID] = true

		kind := domain.RuleKind(rs.Kind)
		if !domain.IsValidRuleKind(kind) {
			return nil, fmt.Errorf("rule %s: %w: %s", rs.ID, domain.ErrInvalidRuleKind, rs.Kind)
		}

		severity := domain.Severity(rs.Severity)
		if !domain.IsValidSeverity(severity) {
			return nil, fmt.Errorf("rule %s: %w: %s", rs.ID, domain.ErrInvalidSeverity, rs.Severity)
		}

		pattern, err := regexp.Compile("(?i)" + rs.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: invalid pattern: %w", rs.ID, err)
		}

		rule := domain.NewPolicyRule(rs.ID, kind, pattern, severity, rs.Description, rs.Replacement, rs.Citation, rs.Category)
		if err := domain.ValidatePolicyRule(rule); err != nil {
			return nil, err
		}

		switch kind {
		case domain.RuleKindMissingClause:
			table.MissingClause = append(table.MissingClause, rule)
		case domain.RuleKindProhibitedLanguage:
			table.ProhibitedLanguage = append(table.ProhibitedLanguage, rule)
		}
	}

	return table, nil
}

// LoadFile reads and compiles a rule-table JSON file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table: %w", err)
	}

	var spec TableSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse rule table: %w", err)
	}

	return Load(spec)
}
