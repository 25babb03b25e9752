package domain

import (
	"fmt"
	"time"
)

// AnalysisLog is the audit record of one analyze call. Only shape
// metadata is recorded, never the contract text itself.
type AnalysisLog struct {
	ID              string
	TextChars       int
	FindingCount    int
	RiskTier        Severity
	RiskScore       float64
	ComplianceScore int
	DurationMS      int64
	CreatedAt       time.Time
}

// ValidateAnalysisLog validates an AnalysisLog instance
func ValidateAnalysisLog(l *AnalysisLog) error {
	if l == nil {
		return fmt.Errorf("analysis log cannot be nil")
	}

	if l.ID == "" {
		return fmt.Errorf("analysis log ID is required")
	}

	if l.TextChars < 0 {
		return fmt.Errorf("analysis log TextChars cannot be negative")
	}

	if l.FindingCount < 0 {
		return fmt.Errorf("analysis log FindingCount cannot be negative")
	}

	if !IsValidSeverity(l.RiskTier) {
		return fmt.Errorf("analysis log RiskTier is invalid: %s", l.RiskTier)
	}

	return nil
}
