package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func findingsWithSeverities(severities ...Severity) []Finding {
	findings := make([]Finding, len(severities))
	for i, s := range severities {
		findings[i] = Finding{Severity: s}
	}
	return findings
}

func TestComputeRiskScore(t *testing.T) {
	assert.Equal(t, 0.0, ComputeRiskScore(nil))
	assert.Equal(t, 1.0, ComputeRiskScore(findingsWithSeverities(SeverityCritical)))
	assert.Equal(t, 1.7, ComputeRiskScore(findingsWithSeverities(SeverityCritical, SeverityHigh)))
	assert.Equal(t, 2.3, ComputeRiskScore(findingsWithSeverities(SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow)))
}

func TestComputeRiskScore_CappedAtTen(t *testing.T) {
	many := findingsWithSeverities()
	for i := 0; i < 12; i++ {
		many = append(many, Finding{Severity: SeverityCritical})
	}
	assert.Equal(t, 10.0, ComputeRiskScore(many))
}

func TestComputeComplianceScore(t *testing.T) {
	assert.Equal(t, 100, ComputeComplianceScore(0))
	assert.Equal(t, 95, ComputeComplianceScore(1))
	assert.Equal(t, 50, ComputeComplianceScore(10))
	assert.Equal(t, 0, ComputeComplianceScore(20))
	assert.Equal(t, 0, ComputeComplianceScore(25), "score floors at zero")
}

func TestComputeRiskTier(t *testing.T) {
	assert.Equal(t, SeverityLow, ComputeRiskTier(nil), "no findings means LOW")
	assert.Equal(t, SeverityMedium, ComputeRiskTier(findingsWithSeverities(SeverityLow, SeverityMedium)))
	assert.Equal(t, SeverityCritical, ComputeRiskTier(findingsWithSeverities(SeverityLow, SeverityCritical, SeverityHigh)))
}
