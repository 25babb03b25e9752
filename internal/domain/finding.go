package domain

import "fmt"

// Finding represents one detected compliance issue: either a missing
// required clause or a prohibited language match at a specific span.
type Finding struct {
	ID              string
	RuleID          string
	Kind            RuleKind
	Severity        Severity
	IsMissingClause bool
	Start           int // span start, inclusive; meaningless when IsMissingClause
	End             int // span end, exclusive; meaningless when IsMissingClause
	ProblematicText string
	Confidence      float64 // in [0,1]
	Description     string
	Citation        string
	Category        string
	// SuggestedAlternative starts as the rule-table template and may be
	// replaced by retrieved approved alternative language.
	SuggestedAlternative string
}

// ValidateFinding validates a Finding against the text it was detected in.
// A missing-clause finding must not carry a span; any other finding must
// carry a span inside the text bounds.
func ValidateFinding(f *Finding, textLen int) error {
	if f == nil {
		return fmt.Errorf("finding cannot be nil")
	}

	if f.ID == "" {
		return fmt.Errorf("finding ID is required")
	}

	if f.RuleID == "" {
		return fmt.Errorf("finding RuleID is required")
	}

	if !IsValidRuleKind(f.Kind) {
		return fmt.Errorf("finding Kind is invalid: %s", f.Kind)
	}

	if !IsValidSeverity(f.Severity) {
		return fmt.Errorf("finding Severity is invalid: %s", f.Severity)
	}

	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("finding Confidence must be in [0,1]: %f", f.Confidence)
	}

	if f.IsMissingClause {
		if f.Start != 0 || f.End != 0 {
			return fmt.Errorf("missing-clause finding cannot carry a text span")
		}
		return nil
	}

	if f.Start < 0 || f.Start >= f.End || f.End > textLen {
		return fmt.Errorf("finding span [%d,%d) is invalid for text of length %d", f.Start, f.End, textLen)
	}

	return nil
}
