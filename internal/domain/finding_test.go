package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFinding() *Finding {
	return &Finding{
		ID:              "f-1",
		RuleID:          "POL-IND",
		Kind:            RuleKindProhibitedLanguage,
		Severity:        SeverityCritical,
		Start:           5,
		End:             14,
		ProblematicText: "indemnify",
		Confidence:      0.9,
		Description:     "Broad indemnification",
	}
}

func TestValidateFinding(t *testing.T) {
	assert.NoError(t, ValidateFinding(validFinding(), 100))
}

func TestValidateFinding_Nil(t *testing.T) {
	assert.Error(t, ValidateFinding(nil, 100))
}

func TestValidateFinding_RequiredFields(t *testing.T) {
	f := validFinding()
	f.ID = ""
	assert.Error(t, ValidateFinding(f, 100))

	f = validFinding()
	f.RuleID = ""
	assert.Error(t, ValidateFinding(f, 100))

	f = validFinding()
	f.Kind = RuleKind("bogus")
	assert.Error(t, ValidateFinding(f, 100))

	f = validFinding()
	f.Severity = Severity("bogus")
	assert.Error(t, ValidateFinding(f, 100))
}

func TestValidateFinding_ConfidenceBounds(t *testing.T) {
	f := validFinding()
	f.Confidence = -0.1
	assert.Error(t, ValidateFinding(f, 100))

	f = validFinding()
	f.Confidence = 1.1
	assert.Error(t, ValidateFinding(f, 100))

	f = validFinding()
	f.Confidence = 1.0
	assert.NoError(t, ValidateFinding(f, 100))
}

func TestValidateFinding_MissingClauseCarriesNoSpan(t *testing.T) {
	f := &Finding{
		ID:              "f-2",
		RuleID:          "FAR-52.245-1",
		Kind:            RuleKindMissingClause,
		Severity:        SeverityHigh,
		IsMissingClause: true,
		Confidence:      0.95,
		Description:     "Missing government property clause",
	}
	assert.NoError(t, ValidateFinding(f, 0))

	f.Start = 3
	f.End = 10
	assert.Error(t, ValidateFinding(f, 100))
}

func TestValidateFinding_SpanBounds(t *testing.T) {
	f := validFinding()
	f.Start = -1
	assert.Error(t, ValidateFinding(f, 100))

	f = validFinding()
	f.Start = 14
	f.End = 14
	assert.Error(t, ValidateFinding(f, 100), "empty span is invalid")

	f = validFinding()
	f.End = 101
	assert.Error(t, ValidateFinding(f, 100), "span must stay inside the text")

	f = validFinding()
	f.Start = 91
	f.End = 100
	assert.NoError(t, ValidateFinding(f, 100), "span may end exactly at text length")
}
