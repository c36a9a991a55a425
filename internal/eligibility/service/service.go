package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"beneficios/internal/eligibility/engine"
	"beneficios/internal/eligibility/metrics"
	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
	"beneficios/pkg/platform/circuit"
	"beneficios/pkg/requestcontext"
)

// DefaultWorkers bounds concurrent benefit evaluations per catalog run.
const DefaultWorkers = 8

// Catalog is the read-only benefit source. *catalog.Catalog satisfies it.
type Catalog interface {
	Benefits() []models.Benefit
	Get(id string) (models.Benefit, bool)
	ForState(uf string) []models.Benefit
	Version() string
}

// SummaryCache stores whole-catalog summaries. *cache.SummaryCache satisfies it.
type SummaryCache interface {
	Get(ctx context.Context, catalogVersion string, profile *models.CitizenProfile) (*models.EvaluationSummary, bool, error)
	Set(ctx context.Context, catalogVersion string, profile *models.CitizenProfile, summary *models.EvaluationSummary) error
}

// Service runs the eligibility engine against the loaded catalog.
type Service struct {
	catalog Catalog
	cache   SummaryCache
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	workers int
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables the summary cache.
func WithCache(c SummaryCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithCacheBreaker replaces the default circuit breaker guarding the cache.
func WithCacheBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

// WithWorkers sets how many benefits are evaluated at once. Values below one
// are ignored.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the time source used for EvaluatedAt. By default it is
// the request time pinned in the context.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the service. Panics if catalog is nil - fail fast at startup.
func New(catalog Catalog, opts ...Option) *Service {
	if catalog == nil {
		panic("service.New: catalog is required")
	}
	s := &Service{
		catalog: catalog,
		logger:  slog.Default(),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("beneficios/eligibility")
	}
	if s.cache != nil && s.breaker == nil {
		s.breaker = circuit.New("summary-cache")
	}
	return s
}

// slot is what one worker produces for one catalog position.
type slot struct {
	result     *models.EligibilityResult
	err        error
	outOfScope bool
}

// EvaluateAll evaluates the whole catalog for the profile. Benefits are
// evaluated concurrently but reported in catalog order. A benefit with a
// configuration error is logged, counted and listed in Skipped; it never
// fails the call. Only a cancelled context does.
func (s *Service) EvaluateAll(ctx context.Context, profile *models.CitizenProfile) (*models.EvaluationSummary, error) {
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	version := s.catalog.Version()
	ctx, span := s.tracer.Start(ctx, "eligibility.EvaluateAll",
		trace.WithAttributes(attribute.String("catalog.version", version)))
	defer span.End()

	if cached := s.cachedSummary(ctx, version, profile); cached != nil {
		cached.EvaluatedAt = s.clock(ctx).UTC()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	start := time.Now()
	benefits := s.catalog.Benefits()
	slots := make([]slot, len(benefits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, benefit := range benefits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !engine.Applies(profile, benefit) {
				slots[i].outOfScope = true
				return nil
			}
			slots[i].result, slots[i].err = engine.EvaluateBenefit(profile, benefit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, contextError(err)
	}

	summary := s.assemble(ctx, profile, benefits, slots)
	summary.CatalogVersion = version
	summary.EvaluatedAt = s.clock(ctx).UTC()

	if s.metrics != nil {
		s.metrics.ObserveCatalogEvaluation(time.Since(start).Seconds(), summary.OutOfScope)
	}
	span.SetAttributes(
		attribute.Int("benefits.analyzed", summary.TotalAnalyzed),
		attribute.Int("benefits.out_of_scope", summary.OutOfScope),
		attribute.Int("benefits.skipped", len(summary.Skipped)),
		attribute.Int("benefits.eligible", len(summary.Eligible)),
	)

	s.storeSummary(ctx, version, profile, summary)
	return summary, nil
}

func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}

func (s *Service) assemble(ctx context.Context, profile *models.CitizenProfile, benefits []models.Benefit, slots []slot) *models.EvaluationSummary {
	results := make([]models.EligibilityResult, 0, len(slots))
	var skipped []models.SkippedBenefit
	outOfScope := 0

	for i, sl := range slots {
		switch {
		case sl.outOfScope:
			outOfScope++
		case sl.err != nil:
			s.logger.WarnContext(ctx, "benefit skipped: configuration error",
				"benefit_id", benefits[i].ID,
				"error", sl.err,
				"request_id", requestcontext.RequestID(ctx),
			)
			if s.metrics != nil {
				s.metrics.IncrementSkipped(benefits[i].ID)
			}
			skipped = append(skipped, models.SkippedBenefit{BenefitID: benefits[i].ID, Error: sl.err.Error()})
		default:
			if s.metrics != nil {
				s.metrics.ObserveVerdict(string(sl.result.Status))
			}
			results = append(results, *sl.result)
		}
	}

	summary := engine.Summarize(profile, results)
	summary.OutOfScope = outOfScope
	summary.Skipped = skipped
	return summary
}

func (s *Service) cachedSummary(ctx context.Context, version string, profile *models.CitizenProfile) *models.EvaluationSummary {
	if s.cache == nil || !s.breaker.Allow() {
		return nil
	}
	summary, hit, err := s.cache.Get(ctx, version, profile)
	if err != nil {
		s.cacheFailed(ctx, "get", err)
		return nil
	}
	s.cacheSucceeded(ctx)
	if s.metrics != nil {
		if hit {
			s.metrics.IncrementCacheHit()
		} else {
			s.metrics.IncrementCacheMiss()
		}
	}
	if !hit {
		return nil
	}
	return summary
}

func (s *Service) storeSummary(ctx context.Context, version string, profile *models.CitizenProfile, summary *models.EvaluationSummary) {
	if s.cache == nil || !s.breaker.Allow() {
		return
	}
	if err := s.cache.Set(ctx, version, profile, summary); err != nil {
		s.cacheFailed(ctx, "set", err)
		return
	}
	s.cacheSucceeded(ctx)
}

// cacheFailed logs and counts a cache failure. Cache failures never fail the
// evaluation.
func (s *Service) cacheFailed(ctx context.Context, op string, err error) {
	s.logger.WarnContext(ctx, "summary cache "+op+" failed", "error", err,
		"request_id", requestcontext.RequestID(ctx))
	if s.metrics != nil {
		s.metrics.IncrementCacheError(op)
	}
	if change := s.breaker.RecordFailure(); change.Opened {
		s.logger.WarnContext(ctx, "summary cache circuit opened", "breaker", s.breaker.Name())
	}
}

func (s *Service) cacheSucceeded(ctx context.Context) {
	if change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "summary cache circuit closed", "breaker", s.breaker.Name())
	}
}

// EvaluateBenefit evaluates one benefit by id. A benefit not offered where
// the citizen lives (or inactive) yields not_applicable.
//
// Errors: CodeNotFound for unknown ids, CodeConfiguration for a malformed
// benefit.
func (s *Service) EvaluateBenefit(ctx context.Context, profile *models.CitizenProfile, benefitID string) (*models.EligibilityResult, error) {
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	_, span := s.tracer.Start(ctx, "eligibility.EvaluateBenefit",
		trace.WithAttributes(attribute.String("benefit.id", benefitID)))
	defer span.End()

	benefit, err := s.benefit(benefitID)
	if err != nil {
		return nil, err
	}
	if !engine.Applies(profile, benefit) {
		span.SetAttributes(attribute.String("eligibility.status", string(models.StatusNotApplicable)))
		return engine.NotApplicable(benefit), nil
	}

	result, err := engine.EvaluateBenefit(profile, benefit)
	if err != nil {
		s.logger.ErrorContext(ctx, "benefit misconfigured", "benefit_id", benefitID, "error", err,
			"request_id", requestcontext.RequestID(ctx))
		span.RecordError(err)
		span.SetStatus(codes.Error, "benefit misconfigured")
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveVerdict(string(result.Status))
	}
	span.SetAttributes(attribute.String("eligibility.status", string(result.Status)))
	return result, nil
}

// Criteria groups a benefit's rules for display and lists the profile fields
// they need. With a nil profile every criterion is pending.
func (s *Service) Criteria(ctx context.Context, benefitID string, profile *models.CitizenProfile) (*models.BenefitCriteria, error) {
	benefit, err := s.benefit(benefitID)
	if err != nil {
		return nil, err
	}
	fields, err := engine.RequiredFields(benefit.EligibilityRules)
	if err != nil {
		return nil, err
	}
	view := &models.BenefitCriteria{BenefitID: benefit.ID, RequiredFields: fields}

	var result *models.EligibilityResult
	if profile != nil {
		result, err = s.EvaluateBenefit(ctx, profile, benefitID)
		if err != nil {
			return nil, err
		}
		view.Status = result.Status
	}
	view.Groups = engine.GroupCriteria(benefit.EligibilityRules, result)
	return view, nil
}

// ListBenefits returns the active benefits a citizen of uf can be offered.
// An empty uf lists every active benefit.
func (s *Service) ListBenefits(_ context.Context, uf string) []models.Benefit {
	return s.catalog.ForState(uf)
}

func (s *Service) benefit(id string) (models.Benefit, error) {
	benefit, ok := s.catalog.Get(id)
	if !ok {
		return models.Benefit{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("benefit %q not found", id))
	}
	return benefit, nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "evaluation timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "evaluation cancelled")
}
