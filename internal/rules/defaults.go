package rules

// DefaultTableSpec returns the built-in federal acquisition and
// negotiation policy rule set, used when no rule-table file is
// configured. Policy owners override it with CLAUSELENS_RULES_PATH.
func DefaultTableSpec() TableSpec {
	return TableSpec{Rules: []RuleSpec{
		{
			ID:          "FAR-52.245-1",
			Kind:        "missing_clause",
			Pattern:     `government\s+property`,
			Severity:    "HIGH",
			Description: "Missing required Government Property clause (FAR 52.245-1)",
			Replacement: "Government property furnished under this contract shall be managed in accordance with FAR 52.245-1, Government Property.",
			Citation:    "FAR 52.245-1",
			Category:    "government_property",
		},
		{
			ID:          "FAR-52.227-14",
			Kind:        "missing_clause",
			Pattern:     `rights\s+in\s+data|data\s+rights`,
			Severity:    "HIGH",
			Description: "Missing required Rights in Data clause (FAR 52.227-14)",
			Replacement: "Rights in data first produced under this contract shall be governed by FAR 52.227-14, Rights in Data - General.",
			Citation:    "FAR 52.227-14",
			Category:    "data_rights",
		},
		{
			ID:          "FAR-52.232-40",
			Kind:        "missing_clause",
			Pattern:     `prompt\s+payment|accelerated\s+payment`,
			Severity:    "MEDIUM",
			Description: "Missing required accelerated payment provision (FAR 52.232-40)",
			Replacement: "Payments shall be made in accordance with FAR 52.232-40, Providing Accelerated Payments to Small Business Subcontractors.",
			Citation:    "FAR 52.232-40",
			Category:    "payment_terms",
		},
		{
			ID:          "POL-TERMINATION",
			Kind:        "missing_clause",
			Pattern:     `terminat(e|ion)\s+for\s+convenience`,
			Severity:    "MEDIUM",
			Description: "Missing termination for convenience clause required by negotiation policy",
			Replacement: "Either party may terminate this agreement for convenience upon thirty (30) days prior written notice.",
			Citation:    "Negotiation Policy 4.2",
			Category:    "termination",
		},
		{
			ID:          "POL-INDEMNIFICATION",
			Kind:        "prohibited_language",
			Pattern:     `indemnif(y|ies|ication)|hold\s+harmless`,
			Severity:    "CRITICAL",
			Description: "Indemnification or hold harmless obligation is prohibited for state institutions",
			Replacement: "Each party shall be responsible for its own acts and omissions to the extent permitted by applicable law.",
			Citation:    "Negotiation Policy 2.1",
			Category:    "indemnification",
		},
		{
			ID:          "POL-UNLIMITED-LIABILITY",
			Kind:        "prohibited_language",
			Pattern:     `unlimited\s+liability|liability\s+without\s+limit`,
			Severity:    "CRITICAL",
			Description: "Unlimited liability exposure is prohibited",
			Replacement: "Each party's aggregate liability under this agreement shall not exceed the total amount paid or payable hereunder.",
			Citation:    "Negotiation Policy 2.3",
			Category:    "liability",
		},
		{
			ID:          "POL-GOVERNING-LAW",
			Kind:        "prohibited_language",
			Pattern:     `governed\s+by\s+the\s+laws\s+of\s+(?:the\s+state\s+of\s+)?(?:delaware|new\s+york|california)`,
			Severity:    "HIGH",
			Description: "Out-of-state governing law conflicts with institutional policy",
			Replacement: "This agreement shall be governed by the laws of the state in which the institution is located, without regard to conflict of law principles.",
			Citation:    "Negotiation Policy 3.1",
			Category:    "governing_law",
		},
		{
			ID:          "POL-AUTO-RENEWAL",
			Kind:        "prohibited_language",
			Pattern:     `automatic(ally)?\s+renew`,
			Severity:    "MEDIUM",
			Description: "Automatic renewal terms are prohibited without affirmative written consent",
			Replacement: "This agreement may be renewed only by written amendment executed by both parties.",
			Citation:    "Negotiation Policy 5.4",
			Category:    "renewal",
		},
		{
			ID:          "POL-ADVANCE-PAYMENT",
			Kind:        "prohibited_language",
			Pattern:     `payment\s+in\s+advance|prepay(ment)?\s+of\s+the\s+full`,
			Severity:    "HIGH",
			Description: "Advance payment of the full contract value is prohibited",
			Replacement: "Payment shall be made within thirty (30) days following receipt of a proper invoice for goods delivered or services rendered.",
			Citation:    "Negotiation Policy 6.2",
			Category:    "payment_terms",
		},
	}}
}

// DefaultCorpus returns the built-in reference corpus of policy
// statements that seeds the term-weighting model.
func DefaultCorpus() []string {
	return []string{
		"Government property furnished under a federal contract must be managed in accordance with FAR 52.245-1.",
		"Rights in data first produced under a contract are governed by FAR 52.227-14.",
		"Accelerated payments to small business subcontractors are required by FAR 52.232-40.",
		"Contracts must include a termination for convenience clause with thirty days written notice.",
		"State institutions may not agree to indemnify or hold harmless another party.",
		"Unlimited liability exposure is prohibited; liability must be capped at amounts paid under the agreement.",
		"Agreements must be governed by the laws of the institution's home state.",
		"Automatic renewal terms require affirmative written consent from the institution.",
		"Advance payment of the full contract value is prohibited; payment follows delivery and proper invoicing.",
		"Confidentiality obligations must yield to state public records law.",
	}
}
