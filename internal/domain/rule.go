package domain

import (
	"fmt"
	"regexp"
)

// RuleKind represents the violation class a policy rule detects
type RuleKind string

const (
	RuleKindMissingClause      RuleKind = "missing_clause"
	RuleKindProhibitedLanguage RuleKind = "prohibited_language"
)

// Severity represents the severity tier of a rule or finding
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SeverityWeight returns the numeric risk weight for a severity tier.
// Unknown severities weigh zero.
func SeverityWeight(s Severity) int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 7
	case SeverityMedium:
		return 4
	case SeverityLow:
		return 2
	}
	return 0
}

// severityRank orders severities from LOW to CRITICAL for tier comparison
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// MaxSeverity returns the higher of two severity tiers.
func MaxSeverity(a, b Severity) Severity {
	if severityRank(a) >= severityRank(b) {
		return a
	}
	return b
}

// PolicyRule represents one entry in the fixed compliance rule table.
// Rules are created at process start from configuration and never mutated.
type PolicyRule struct {
	ID          string
	Kind        RuleKind
	Pattern     *regexp.Regexp
	Severity    Severity
	Description string
	Replacement string // suggested replacement language template
	Citation    string // policy or regulation reference, e.g. a FAR clause code
	Category    string // knowledge category used to scope alternative retrieval
}

// NewPolicyRule creates a new PolicyRule instance
func NewPolicyRule(
	id string,
	kind RuleKind,
	pattern *regexp.Regexp,
	severity Severity,
	description, replacement, citation, category string,
) *PolicyRule {
	return &PolicyRule{
		ID:          id,
		Kind:        kind,
		Pattern:     pattern,
		Severity:    severity,
		Description: description,
		Replacement: replacement,
		Citation:    citation,
		Category:    category,
	}
}

// ValidatePolicyRule validates a PolicyRule instance
func ValidatePolicyRule(r *PolicyRule) error {
	if r == nil {
		return fmt.Errorf("policy rule cannot be nil")
	}

	if r.ID == "" {
		return fmt.Errorf("policy rule ID is required")
	}

	if r.Pattern == nil {
		return fmt.Errorf("policy rule %s: Pattern is required", r.ID)
	}

	if r.Description == "" {
		return fmt.Errorf("policy rule %s: Description is required", r.ID)
	}

	if !IsValidRuleKind(r.Kind) {
		return fmt.Errorf("policy rule %s: Kind is invalid: %s", r.ID, r.Kind)
	}

	if !IsValidSeverity(r.Severity) {
		return fmt.Errorf("policy rule %s: Severity is invalid: %s", r.ID, r.Severity)
	}

	return nil
}

// IsValidRuleKind checks if a RuleKind is valid
func IsValidRuleKind(k RuleKind) bool {
	switch k {
	case RuleKindMissingClause, RuleKindProhibitedLanguage:
		return true
	}
	return false
}

// IsValidSeverity checks if a Severity is valid
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}
