package service

import (
	"context"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/google/uuid"
)

// AnalysisLogRepository defines the audit-log persistence the
// aggregator writes to, one row per analyze call.
type AnalysisLogRepository interface {
	Create(ctx context.Context, entry *domain.AnalysisLog) error
}

// UUIDGenerator defines the interface for generating unique identifiers
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator generates random UUIDs
type DefaultUUIDGenerator struct{}

func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}
