package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"beneficios/internal/eligibility/cache"
	"beneficios/internal/eligibility/engine"
	"beneficios/internal/eligibility/metrics"
	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
	"beneficios/pkg/platform/circuit"
	"beneficios/pkg/testutil"
)

// fakeCatalog serves benefits as given, without the load-time validation of
// the real catalog, so misconfigured entries can reach the service.
type fakeCatalog struct {
	benefits []models.Benefit
	version  string
}

func (f *fakeCatalog) Benefits() []models.Benefit {
	out := make([]models.Benefit, len(f.benefits))
	copy(out, f.benefits)
	return out
}

func (f *fakeCatalog) Get(id string) (models.Benefit, bool) {
	for _, b := range f.benefits {
		if b.ID == strings.TrimSpace(id) {
			return b, true
		}
	}
	return models.Benefit{}, false
}

func (f *fakeCatalog) ForState(uf string) []models.Benefit {
	var out []models.Benefit
	for _, b := range f.benefits {
		if !b.IsActive() {
			continue
		}
		if b.Scope == models.ScopeState || b.Scope == models.ScopeMunicipal {
			if uf != "" && !strings.EqualFold(b.State, uf) {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

func (f *fakeCatalog) Version() string { return f.version }

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	catalog  *fakeCatalog
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	service  *Service
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 2, 15, 4, 5, 0, time.FixedZone("BRT", -3*60*60))

	bolsa := testutil.NewBenefitBuilder().WithID("bolsa-familia").WithName("Bolsa Família").
		WithRule(engine.FieldRendaPerCapita, models.OpLte, 218, "Renda por pessoa de até R$ 218").
		WithRule(engine.FieldCadastradoCadunico, models.OpEq, true, "Inscrição no CadÚnico").
		Monthly(600, 900).WithDocuments("CPF").Build()
	bpc := testutil.NewBenefitBuilder().WithID("bpc-idoso").
		WithRule(engine.FieldIdade, models.OpGte, 65, "Ter 65 anos ou mais").
		Monthly(1518, 1518).Build()
	paulista := testutil.NewBenefitBuilder().WithID("renda-paulista").State("SP").
		WithRule(engine.FieldRendaPerCapita, models.OpLte, 300, "Renda por pessoa de até R$ 300").
		Annual(1200).Build()
	carioca := testutil.NewBenefitBuilder().WithID("cartao-carioca").Municipal("RJ", "3304557").
		WithRule(engine.FieldRendaPerCapita, models.OpLte, 300, "Renda por pessoa de até R$ 300").Build()
	retired := testutil.NewBenefitBuilder().WithID("auxilio-antigo").Inactive().Build()

	s.catalog = &fakeCatalog{
		benefits: []models.Benefit{bolsa, bpc, paulista, carioca, retired},
		version:  "abc123",
	}
	s.registry = prometheus.NewRegistry()
	s.metrics = metrics.NewWithRegisterer(s.registry)
	s.service = New(s.catalog,
		WithMetrics(s.metrics),
		WithWorkers(2),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) lowIncomeProfile() *models.CitizenProfile {
	return testutil.NewProfileBuilder().InState("SP").WithIncome(600).WithHousehold(3).Cadunico(true).Build()
}

func (s *ServiceSuite) TestNew() {
	s.Run("panics without catalog", func() {
		s.Panics(func() { New(nil) })
	})

	s.Run("ignores non-positive worker counts", func() {
		svc := New(s.catalog, WithWorkers(0))
		s.Equal(DefaultWorkers, svc.workers)
	})
}

func (s *ServiceSuite) TestEvaluateAll() {
	s.Run("evaluates in catalog order and stamps the run", func() {
		summary, err := s.service.EvaluateAll(s.ctx, s.lowIncomeProfile())
		s.Require().NoError(err)

		s.Equal(3, summary.TotalAnalyzed)
		s.Equal(2, summary.OutOfScope, "municipal benefit of another city and inactive benefit")
		s.Empty(summary.Skipped)
		s.Equal("abc123", summary.CatalogVersion)
		s.Equal(s.now.UTC(), summary.EvaluatedAt)

		s.Require().Len(summary.Eligible, 2)
		s.Equal("bolsa-familia", summary.Eligible[0].Benefit.ID)
		s.Equal("renda-paulista", summary.Eligible[1].Benefit.ID)
		s.Require().Len(summary.LikelyEligible, 1)
		s.Equal("bpc-idoso", summary.LikelyEligible[0].Benefit.ID)
		s.InDelta(750+1518, summary.TotalPotentialMonthly, 0.001)
		s.InDelta(1200, summary.TotalPotentialAnnual, 0.001)
	})

	s.Run("order is stable across worker counts", func() {
		profile := s.lowIncomeProfile()
		want, err := New(s.catalog, WithWorkers(1)).EvaluateAll(s.ctx, profile)
		s.Require().NoError(err)
		for _, workers := range []int{2, 4, 16} {
			got, err := New(s.catalog, WithWorkers(workers)).EvaluateAll(s.ctx, profile)
			s.Require().NoError(err)
			s.Equal(resultIDs(want), resultIDs(got), "workers=%d", workers)
		}
	})

	s.Run("misconfigured benefit is skipped, not fatal", func() {
		broken := testutil.NewBenefitBuilder().WithID("quebrado").
			WithRule("rendaDoVizinho", models.OpLte, 100, "Renda do vizinho").Build()
		s.catalog.benefits = append(s.catalog.benefits, broken)

		summary, err := s.service.EvaluateAll(s.ctx, s.lowIncomeProfile())
		s.Require().NoError(err)

		s.Require().Len(summary.Skipped, 1)
		s.Equal("quebrado", summary.Skipped[0].BenefitID)
		s.Contains(summary.Skipped[0].Error, "rendaDoVizinho")
		s.Equal(len(s.catalog.benefits), summary.TotalAnalyzed+summary.OutOfScope+len(summary.Skipped))
		s.Equal(1.0, promtestutil.ToFloat64(s.metrics.BenefitsSkipped.WithLabelValues("quebrado")))
	})

	s.Run("records verdict metrics", func() {
		s.Positive(promtestutil.ToFloat64(s.metrics.Verdicts.WithLabelValues(string(models.StatusEligible))))
		s.Positive(promtestutil.ToFloat64(s.metrics.CatalogEvaluations))
	})

	s.Run("nil profile is a bad request", func() {
		_, err := s.service.EvaluateAll(s.ctx, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("cancelled context stops the run", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		_, err := s.service.EvaluateAll(ctx, s.lowIncomeProfile())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("expired deadline is a timeout", func() {
		ctx, cancel := context.WithDeadline(s.ctx, time.Now().Add(-time.Second))
		defer cancel()
		_, err := s.service.EvaluateAll(ctx, s.lowIncomeProfile())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func (s *ServiceSuite) TestEvaluateAllConcurrent() {
	profiles := []*models.CitizenProfile{
		s.lowIncomeProfile(),
		testutil.NewProfileBuilder().InState("RJ").InMunicipality("3304557").WithIncome(200).Build(),
		testutil.NewProfileBuilder().WithAge(70).Build(),
	}

	result := testutil.RunConcurrentCtx(s.ctx, 30, func(ctx context.Context, idx int) error {
		profile := profiles[idx%len(profiles)]
		summary, err := s.service.EvaluateAll(ctx, profile)
		if err != nil {
			return err
		}
		if got := summary.TotalAnalyzed + summary.OutOfScope; got != len(s.catalog.benefits) {
			return fmt.Errorf("profile %d: %d benefits accounted for", idx, got)
		}
		return nil
	})

	s.Equal(int32(30), result.Successes)
	s.Zero(result.Errors)
}

func (s *ServiceSuite) TestEvaluateAllCache() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	svc := New(s.catalog,
		WithMetrics(s.metrics),
		WithCache(cache.NewSummaryCache(client, time.Minute)),
		WithClock(func() time.Time { return s.now }),
	)
	profile := s.lowIncomeProfile()

	first, err := svc.EvaluateAll(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CacheMisses))

	s.now = s.now.Add(time.Hour)
	second, err := svc.EvaluateAll(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CacheHits))
	s.Equal(s.now.UTC(), second.EvaluatedAt, "a cached summary carries the current request time")
	s.True(second.EvaluatedAt.After(first.EvaluatedAt))
	s.Equal(resultIDs(first), resultIDs(second))

	s.Run("redis outage falls back to evaluation", func() {
		mr.Close()
		summary, err := svc.EvaluateAll(s.ctx, profile)
		s.Require().NoError(err)
		s.Equal(3, summary.TotalAnalyzed)
		s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CacheErrors.WithLabelValues("get")))
		s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CacheErrors.WithLabelValues("set")))
	})
}

func (s *ServiceSuite) TestEvaluateAllCacheBreaker() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	breaker := circuit.New("summary-cache", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	svc := New(s.catalog,
		WithMetrics(s.metrics),
		WithCache(cache.NewSummaryCache(client, time.Minute)),
		WithCacheBreaker(breaker),
	)
	profile := s.lowIncomeProfile()

	_, err = svc.EvaluateAll(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(circuit.StateOpen, breaker.State(), "get and set failures trip the breaker")

	summary, err := svc.EvaluateAll(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(3, summary.TotalAnalyzed)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CacheErrors.WithLabelValues("get")), "open circuit skips redis")
}

func (s *ServiceSuite) TestEvaluateBenefit() {
	s.Run("evaluates an applicable benefit", func() {
		result, err := s.service.EvaluateBenefit(s.ctx, s.lowIncomeProfile(), "bolsa-familia")
		s.Require().NoError(err)
		s.Equal(models.StatusEligible, result.Status)
	})

	s.Run("benefit of another municipality is not applicable", func() {
		result, err := s.service.EvaluateBenefit(s.ctx, s.lowIncomeProfile(), "cartao-carioca")
		s.Require().NoError(err)
		s.Equal(models.StatusNotApplicable, result.Status)
		s.Empty(result.MatchedRules)
	})

	s.Run("inactive benefit is not applicable", func() {
		result, err := s.service.EvaluateBenefit(s.ctx, s.lowIncomeProfile(), "auxilio-antigo")
		s.Require().NoError(err)
		s.Equal(models.StatusNotApplicable, result.Status)
		s.NotEqual(engine.NotApplicable(s.catalog.benefits[3]).Reason, result.Reason)
	})

	s.Run("unknown benefit is not found", func() {
		_, err := s.service.EvaluateBenefit(s.ctx, s.lowIncomeProfile(), "nao-existe")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("misconfigured benefit is a configuration error", func() {
		s.catalog.benefits = append(s.catalog.benefits, testutil.NewBenefitBuilder().WithID("quebrado").
			WithRule(engine.FieldGestante, models.OpGt, true, "Gestante").Build())
		_, err := s.service.EvaluateBenefit(s.ctx, s.lowIncomeProfile(), "quebrado")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	s.Run("nil profile is a bad request", func() {
		_, err := s.service.EvaluateBenefit(s.ctx, nil, "bolsa-familia")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestCriteria() {
	s.Run("without profile every criterion is pending", func() {
		view, err := s.service.Criteria(s.ctx, "bolsa-familia", nil)
		s.Require().NoError(err)
		s.Equal("bolsa-familia", view.BenefitID)
		s.Empty(view.Status)
		s.ElementsMatch([]string{engine.FieldCadastradoCadunico, engine.FieldPessoasNaCasa, engine.FieldRendaFamiliarMensal}, view.RequiredFields)
		for _, g := range view.Groups {
			for _, c := range g.Criteria {
				s.Equal(models.CriterionPending, c.Status)
			}
		}
	})

	s.Run("with profile criteria carry the verdict", func() {
		profile := testutil.NewProfileBuilder().WithIncome(2000).WithHousehold(2).Cadunico(true).Build()
		view, err := s.service.Criteria(s.ctx, "bolsa-familia", profile)
		s.Require().NoError(err)
		s.Equal(models.StatusNotEligible, view.Status)

		statuses := map[string]models.CriterionStatus{}
		for _, g := range view.Groups {
			for _, c := range g.Criteria {
				statuses[c.Rule.Description] = c.Status
			}
		}
		s.Equal(models.CriterionNotMet, statuses["Renda por pessoa de até R$ 218"])
		s.Equal(models.CriterionMet, statuses["Inscrição no CadÚnico"])
	})

	s.Run("unknown benefit is not found", func() {
		_, err := s.service.Criteria(s.ctx, "nao-existe", nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestListBenefits() {
	s.Equal([]string{"bolsa-familia", "bpc-idoso", "renda-paulista"}, benefitIDs(s.service.ListBenefits(s.ctx, "sp")))
	s.Equal([]string{"bolsa-familia", "bpc-idoso", "cartao-carioca"}, benefitIDs(s.service.ListBenefits(s.ctx, "RJ")))
	s.Len(s.service.ListBenefits(s.ctx, ""), 4)
}

func resultIDs(summary *models.EvaluationSummary) []string {
	var ids []string
	for _, bucket := range [][]models.EligibilityResult{
		summary.Eligible, summary.LikelyEligible, summary.Maybe, summary.AlreadyReceiving, summary.NotEligible,
	} {
		for _, r := range bucket {
			ids = append(ids, r.Benefit.ID)
		}
	}
	return ids
}

func benefitIDs(benefits []models.Benefit) []string {
	ids := make([]string, 0, len(benefits))
	for _, b := range benefits {
		ids = append(ids, b.ID)
	}
	return ids
}
