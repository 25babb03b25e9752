package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/clauselens/clauselens/internal/domain"
	"github.com/clauselens/clauselens/internal/lexical"
	"github.com/clauselens/clauselens/internal/rules"
	"github.com/clauselens/clauselens/internal/telemetry"
)

const (
	// DefaultMinConfidence drops findings below this confidence unless
	// the caller overrides it.
	DefaultMinConfidence = 0.7

	defaultRetrievalTimeout = 5 * time.Second
	defaultRetrievalLimit   = 3
	defaultConcurrency      = 4

	// Alternative candidates are re-ranked by combining the store's
	// vector similarity with lexical similarity to the finding.
	vectorRankWeight  = 0.7
	lexicalRankWeight = 0.3
)

// ChunkRetriever defines the retrieval capability the aggregator
// consumes; both the semantic client and the lexical fallback satisfy it.
type ChunkRetriever interface {
	RetrieveBroad(ctx context.Context, queryText string, filter ChunkFilter, k int) ([]domain.KnowledgeChunk, error)
}

// Options controls a single analyze call
type Options struct {
	CheckMissingClauses     bool
	CheckProhibitedLanguage bool
	IncludeAlternatives     bool
	MinConfidence           float64
}

// DefaultOptions returns the options used when the caller specifies none
func DefaultOptions() Options {
	return Options{
		CheckMissingClauses:     true,
		CheckProhibitedLanguage: true,
		IncludeAlternatives:     true,
		MinConfidence:           DefaultMinConfidence,
	}
}

// AnalysisConfig controls aggregator behavior
type AnalysisConfig struct {
	RetrievalTimeout time.Duration
	RetrievalLimit   int
	Concurrency      int
}

// DefaultAnalysisConfig returns the default aggregator configuration
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		RetrievalTimeout: defaultRetrievalTimeout,
		RetrievalLimit:   defaultRetrievalLimit,
		Concurrency:      defaultConcurrency,
	}
}

// AnalysisService merges rule-engine findings with retrieved alternative
// language into a risk-scored compliance report. Per-finding retrieval
// fans out over a bounded worker pool; results are reassembled by
// finding identity so output order stays deterministic regardless of
// retrieval latency.
type AnalysisService struct {
	engine    *rules.Engine
	model     *lexical.Model
	retriever ChunkRetriever
	logRepo   AnalysisLogRepository
	uuidGen   UUIDGenerator
	dedup     DedupFunc
	pool      *ants.Pool
	cfg       AnalysisConfig
}

// NewAnalysisService creates an AnalysisService without retrieval or
// audit logging; alternatives are served from rule templates only.
func NewAnalysisService(engine *rules.Engine, model *lexical.Model) (*AnalysisService, error) {
	return NewAnalysisServiceWithConfig(engine, model, nil, nil, DefaultAnalysisConfig())
}

// NewAnalysisServiceWithConfig creates a fully wired AnalysisService.
// retriever and logRepo may be nil.
func NewAnalysisServiceWithConfig(
	engine *rules.Engine,
	model *lexical.Model,
	retriever ChunkRetriever,
	logRepo AnalysisLogRepository,
	cfg AnalysisConfig,
) (*AnalysisService, error) {
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = defaultRetrievalTimeout
	}
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = defaultRetrievalLimit
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	return &AnalysisService{
		engine:    engine,
		model:     model,
		retriever: retriever,
		logRepo:   logRepo,
		uuidGen:   &DefaultUUIDGenerator{},
		dedup:     ExactDedup(),
		pool:      pool,
		cfg:       cfg,
	}, nil
}

// SetDedup replaces the duplicate-finding predicate. Intended for
// wiring at startup, before the service handles requests.
func (s *AnalysisService) SetDedup(dedup DedupFunc) {
	if dedup != nil {
		s.dedup = dedup
	}
}

// Close releases the retrieval worker pool.
func (s *AnalysisService) Close() {
	s.pool.Release()
}

// Analyze evaluates contract text and returns a compliance report.
// Empty text is valid input: every required clause is missing by
// definition. A report is always returned for valid input, even under
// full retrieval outage; in that case suggested alternatives fall back
// to the static rule-table templates.
func (s *AnalysisService) Analyze(ctx context.Context, contractText string, opts Options) (*domain.ComplianceReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnalysisService.Analyze", telemetry.SpanAttributes{
		RuleCount: s.engine.Table().Len(),
		Operation: "analyze",
	})
	defer span.End()

	started := time.Now()

	minConfidence := opts.MinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	raw := s.engine.Detect(contractText)
	findings := make([]domain.Finding, 0, len(raw))
	for _, f := range raw {
		if f.Kind == domain.RuleKindMissingClause && !opts.CheckMissingClauses {
			continue
		}
		if f.Kind == domain.RuleKindProhibitedLanguage && !opts.CheckProhibitedLanguage {
			continue
		}
		if f.Confidence < minConfidence {
			continue
		}
		findings = append(findings, f)
	}

	findings = dedupe(findings, s.dedup)

	report := &domain.ComplianceReport{
		Findings:        findings,
		RiskTier:        domain.ComputeRiskTier(findings),
		RiskScore:       domain.ComputeRiskScore(findings),
		ComplianceScore: domain.ComputeComplianceScore(len(findings)),
		Alternatives:    make(map[string][]domain.KnowledgeChunk),
		AnalyzedAt:      time.Now().UTC(),
	}

	if opts.IncludeAlternatives && s.retriever != nil && len(report.Findings) > 0 {
		s.attachAlternatives(ctx, report)
	}

	s.recordLog(ctx, len(contractText), report, time.Since(started))

	return report, nil
}

// attachAlternatives fans out one retrieval per finding over the worker
// pool, bounded by the configured concurrency and per-call timeout.
// Each result lands in its finding's slot, so completion order never
// affects the report. Cancellation mid-flight leaves the affected
// findings on their rule-template alternatives.
func (s *AnalysisService) attachAlternatives(ctx context.Context, report *domain.ComplianceReport) {
	results := make([][]domain.KnowledgeChunk, len(report.Findings))

	var wg sync.WaitGroup
	for i := range report.Findings {
		finding := report.Findings[i]
		slot := i

		wg.Add(1)
		task := func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
			defer cancel()

			filter := ChunkFilter{
				Type:         domain.ChunkTypeAlternativeLanguage,
				Category:     finding.Category,
				ApprovedOnly: true,
			}
			chunks, err := s.retriever.RetrieveBroad(callCtx, alternativeQuery(finding), filter, s.cfg.RetrievalLimit)
			if err != nil {
				return
			}
			results[slot] = chunks
		}

		if err := s.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	for i := range report.Findings {
		chunks := results[i]
		if len(chunks) == 0 {
			continue
		}
		finding := &report.Findings[i]
		report.Alternatives[finding.ID] = chunks

		if best, ok := s.bestAlternative(*finding, chunks); ok {
			finding.SuggestedAlternative = best.Content
		}
	}
}

// bestAlternative picks the approved candidate with the highest
// combined vector and lexical similarity to the finding.
func (s *AnalysisService) bestAlternative(finding domain.Finding, chunks []domain.KnowledgeChunk) (domain.KnowledgeChunk, bool) {
	query := alternativeQuery(finding)

	var best domain.KnowledgeChunk
	bestScore := -1.0
	for _, chunk := range chunks {
		if !chunk.Approved {
			continue
		}
		score := vectorRankWeight*chunk.Similarity + lexicalRankWeight*s.model.Similarity(query, chunk.Content)
		if score > bestScore {
			best = chunk
			bestScore = score
		}
	}

	return best, bestScore >= 0
}

// alternativeQuery builds the retrieval query for a finding: the
// matched text plus the rule description, or the description alone for
// missing clauses, which have no text by definition.
func alternativeQuery(f domain.Finding) string {
	if f.IsMissingClause || f.ProblematicText == "" {
		return f.Description
	}
	return f.ProblematicText + " " + f.Description
}

// recordLog writes a best-effort audit row; failures never affect the
// report.
func (s *AnalysisService) recordLog(ctx context.Context, textChars int, report *domain.ComplianceReport, elapsed time.Duration) {
	if s.logRepo == nil {
		return
	}

	entry := &domain.AnalysisLog{
		ID:              s.uuidGen.NewString(),
		TextChars:       textChars,
		FindingCount:    len(report.Findings),
		RiskTier:        report.RiskTier,
		RiskScore:       report.RiskScore,
		ComplianceScore: report.ComplianceScore,
		DurationMS:      elapsed.Milliseconds(),
		CreatedAt:       time.Now().UTC(),
	}

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.logRepo.Create(logCtx, entry); err != nil {
		telemetry.CaptureError(ctx, err)
	}
}

// dedupe keeps the first of each duplicate group, preserving order.
func dedupe(findings []domain.Finding, same DedupFunc) []domain.Finding {
	out := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		duplicate := false
		for _, kept := range out {
			if same(kept, f) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, f)
		}
	}
	return out
}

// DedupFunc reports whether two findings describe the same issue.
type DedupFunc func(a, b domain.Finding) bool

// ExactDedup treats findings as duplicates only when kind and
// description match exactly. This is the default.
func ExactDedup() DedupFunc {
	return func(a, b domain.Finding) bool {
		return a.Kind == b.Kind && a.Description == b.Description
	}
}

// PrefixDedup reproduces the short-prefix heuristic: duplicates share
// kind and the first n description characters, or kind, severity, and
// the first m description characters. It can both over-merge and
// under-merge; policy owners opt into it knowingly.
func PrefixDedup(n, m int) DedupFunc {
	return func(a, b domain.Finding) bool {
		if a.Kind != b.Kind {
			return false
		}
		if prefix(a.Description, n) == prefix(b.Description, n) {
			return true
		}
		return a.Severity == b.Severity && prefix(a.Description, m) == prefix(b.Description, m)
	}
}

// LexicalDedup treats findings of the same kind as duplicates when
// their descriptions exceed the similarity threshold under the
// term-weighting model.
func LexicalDedup(model *lexical.Model, threshold float64) DedupFunc {
	return func(a, b domain.Finding) bool {
		return a.Kind == b.Kind && model.Similarity(a.Description, b.Description) >= threshold
	}
}

func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = strings.ToLower(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
