package repository

import (
	"context"
	"time"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisLogRepository stores per-analysis audit rows for evaluation
// and reporting.
type AnalysisLogRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisLogRepository(pool *pgxpool.Pool) *AnalysisLogRepository {
	return &AnalysisLogRepository{pool: pool}
}

func (r *AnalysisLogRepository) Create(ctx context.Context, entry *domain.AnalysisLog) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO analysis_logs (id, text_chars, finding_count, risk_tier, risk_score, compliance_score, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.TextChars,
		entry.FindingCount,
		string(entry.RiskTier),
		entry.RiskScore,
		entry.ComplianceScore,
		entry.DurationMS,
		createdAt,
	)
	return err
}

func (r *AnalysisLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, text_chars, finding_count, risk_tier, risk_score, compliance_score, duration_ms, created_at
		 FROM analysis_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.AnalysisLog, 0)
	for rows.Next() {
		var entry domain.AnalysisLog
		var tier string
		if err := rows.Scan(&entry.ID, &entry.TextChars, &entry.FindingCount, &tier, &entry.RiskScore, &entry.ComplianceScore, &entry.DurationMS, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.RiskTier = domain.Severity(tier)
		results = append(results, &entry)
	}
	return results, rows.Err()
}
