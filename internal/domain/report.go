package domain

import "time"

const (
	riskScoreCap         = 10.0
	compliancePenalty    = 5
	complianceScoreCeil  = 100
	complianceScoreFloor = 0
)

// ComplianceReport is the aggregate result of one analysis call.
// It is immutable after construction and never persisted by the core.
type ComplianceReport struct {
	Findings        []Finding
	RiskTier        Severity
	RiskScore       float64 // 0..10
	ComplianceScore int     // 0..100
	// Alternatives maps a finding ID to the knowledge chunks retrieved
	// in support of it, ordered by descending similarity. Empty when
	// alternatives were not requested or retrieval was unavailable.
	Alternatives map[string][]KnowledgeChunk
	AnalyzedAt   time.Time
}

// ComputeRiskScore sums severity weights over findings, divided by 10
// and capped at 10.
func ComputeRiskScore(findings []Finding) float64 {
	sum := 0
	for _, f := range findings {
		sum += SeverityWeight(f.Severity)
	}
	score := float64(sum) / 10.0
	if score > riskScoreCap {
		return riskScoreCap
	}
	return score
}

// ComputeComplianceScore applies a linear penalty of 5 points per
// finding. This is a documented heuristic, not a calibrated model.
func ComputeComplianceScore(findingCount int) int {
	score := complianceScoreCeil - compliancePenalty*findingCount
	if score < complianceScoreFloor {
		return complianceScoreFloor
	}
	return score
}

// ComputeRiskTier returns the highest severity present among findings,
// or LOW when there are none.
func ComputeRiskTier(findings []Finding) Severity {
	tier := SeverityLow
	for _, f := range findings {
		tier = MaxSeverity(tier, f.Severity)
	}
	return tier
}
