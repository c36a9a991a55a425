package engine

import (
	"slices"
	"testing"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
	"beneficios/pkg/testutil"

	"github.com/stretchr/testify/suite"
)

// EngineSuite exercises single benefit evaluation and catalog aggregation
// against synthetic catalogs.
type EngineSuite struct {
	suite.Suite
	bolsaFamilia models.Benefit
	bpcIdoso     models.Benefit
	paulista     models.Benefit
	auxilioGas   models.Benefit
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.bolsaFamilia = testutil.NewBenefitBuilder().
		WithID("bolsa-familia").
		WithName("Bolsa Família").
		WithRule(FieldRendaPerCapita, models.OpLte, 218, "Renda por pessoa de até R$ 218").
		WithRule(FieldCadastradoCadunico, models.OpEq, true, "Inscrição no CadÚnico").
		Monthly(600, 900).
		WithDocuments("CPF", "Comprovante de residência").
		WithSteps("Atualize o CadÚnico no CRAS").
		Build()
	s.bpcIdoso = testutil.NewBenefitBuilder().
		WithID("bpc-idoso").
		WithRule(FieldIdade, models.OpGte, 65, "Ter 65 anos ou mais").
		WithRule(FieldRendaPerCapita, models.OpLte, 353, "Renda por pessoa de até 1/4 do salário mínimo").
		Monthly(1518, 1518).
		WithDocuments("cpf", "Documento com foto").
		WhereToApply("INSS").
		Build()
	s.paulista = testutil.NewBenefitBuilder().
		WithID("renda-paulista").
		State("SP").
		WithRule(FieldRendaPerCapita, models.OpLte, 300, "Renda por pessoa de até R$ 300").
		Annual(1200).
		Build()
	s.auxilioGas = testutil.NewBenefitBuilder().
		WithID("auxilio-gas").
		WithRule(FieldCadastradoCadunico, models.OpEq, true, "Inscrição no CadÚnico").
		WithRule(FieldRendaPerCapita, models.OpLte, 759, "Renda por pessoa de até meio salário mínimo").
		OneTime(108).
		WithSteps("atualize o cadúnico no CRAS").
		Build()
}

func (s *EngineSuite) TestEvaluateBenefit() {
	s.Run("bolsa familia match", func() {
		p := testutil.NewProfileBuilder().WithIncome(400).WithHousehold(4).Cadunico(true).Build()

		result, err := EvaluateBenefit(p, s.bolsaFamilia)

		s.Require().NoError(err)
		s.Equal(models.StatusEligible, result.Status)
		s.Len(result.MatchedRules, 2)
		s.Empty(result.FailedRules)
		s.Empty(result.InconclusiveRules)
		s.Require().NotNil(result.EstimatedValue)
		s.InDelta(750.0, *result.EstimatedValue, 0.001)
		s.Equal(reasonEligible, result.Reason)
	})

	s.Run("already receiving short-circuits failing rules", func() {
		p := testutil.NewProfileBuilder().WithIncome(10000).WithHousehold(1).Cadunico(false).
			ReceivingBolsaFamilia(650).Build()

		result, err := EvaluateBenefit(p, s.bolsaFamilia)

		s.Require().NoError(err)
		s.Equal(models.StatusAlreadyReceiving, result.Status)
		s.Empty(result.MatchedRules)
		s.Empty(result.FailedRules)
		s.Require().NotNil(result.EstimatedValue)
		s.Equal(650.0, *result.EstimatedValue)
	})

	s.Run("already receiving through the current benefits list", func() {
		p := testutil.NewProfileBuilder().Receiving(" Renda-Paulista ").Build()

		result, err := EvaluateBenefit(p, s.paulista)

		s.Require().NoError(err)
		s.Equal(models.StatusAlreadyReceiving, result.Status)
		s.Require().NotNil(result.EstimatedValue)
		s.Equal(1200.0, *result.EstimatedValue)
	})

	s.Run("program code links the receiving flag", func() {
		renamed := s.bolsaFamilia
		renamed.ID = "bolsa-familia-2025"
		renamed.ProgramCode = "bolsa-familia"
		p := testutil.NewProfileBuilder().ReceivingBolsaFamilia(0).Build()

		result, err := EvaluateBenefit(p, renamed)

		s.Require().NoError(err)
		s.Equal(models.StatusAlreadyReceiving, result.Status)
		s.Require().NotNil(result.EstimatedValue)
		s.InDelta(750.0, *result.EstimatedValue, 0.001)
	})

	s.Run("single unknown income is likely eligible", func() {
		p := testutil.NewProfileBuilder().WithHousehold(3).Cadunico(true).Build()

		result, err := EvaluateBenefit(p, s.bolsaFamilia)

		s.Require().NoError(err)
		s.Equal(models.StatusLikelyEligible, result.Status)
		s.Equal([]string{"Inscrição no CadÚnico"}, result.MatchedRules)
		s.Equal([]string{"Renda por pessoa de até R$ 218"}, result.InconclusiveRules)
		s.Contains(result.Reason, "Renda por pessoa de até R$ 218")
		s.NotNil(result.EstimatedValue)
	})

	s.Run("two unknowns fall back to maybe", func() {
		p := testutil.NewProfileBuilder().WithHousehold(3).Build()

		result, err := EvaluateBenefit(p, s.bolsaFamilia)

		s.Require().NoError(err)
		s.Equal(models.StatusMaybe, result.Status)
		s.Len(result.InconclusiveRules, 2)
		s.Nil(result.EstimatedValue)
	})

	s.Run("failed rule reason is its description", func() {
		p := testutil.NewProfileBuilder().WithIncome(5000).WithHousehold(2).Cadunico(true).Build()

		result, err := EvaluateBenefit(p, s.bolsaFamilia)

		s.Require().NoError(err)
		s.Equal(models.StatusNotEligible, result.Status)
		s.Equal("Renda por pessoa de até R$ 218", result.Reason)
		s.Nil(result.EstimatedValue)
	})

	s.Run("benefit without rules is maybe", func() {
		b := testutil.NewBenefitBuilder().WithID("sem-regras").Build()

		result, err := EvaluateBenefit(testutil.NewProfileBuilder().Build(), b)

		s.Require().NoError(err)
		s.Equal(models.StatusMaybe, result.Status)
		s.Equal(reasonNoRules, result.Reason)
	})

	s.Run("configuration error aborts the benefit", func() {
		b := testutil.NewBenefitBuilder().WithID("quebrado").
			WithRule("campoInexistente", models.OpEq, true, "Campo inexistente").Build()

		result, err := EvaluateBenefit(testutil.NewProfileBuilder().Build(), b)

		s.Require().Error(err)
		s.Nil(result)
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
		s.Contains(err.Error(), "quebrado")
	})

	s.Run("profile is not mutated", func() {
		p := testutil.NewProfileBuilder().WithIncome(400).WithHousehold(4).Build()
		before := *p

		_, err := EvaluateBenefit(p, s.bolsaFamilia)

		s.Require().NoError(err)
		s.Equal(before, *p)
	})
}

func (s *EngineSuite) TestEvaluationProperties() {
	profiles := []*models.CitizenProfile{
		testutil.NewProfileBuilder().Build(),
		testutil.NewProfileBuilder().WithAge(70).WithIncome(300).WithHousehold(2).Build(),
		testutil.NewProfileBuilder().WithAge(30).WithIncome(5000).WithHousehold(1).Cadunico(true).Build(),
		testutil.NewProfileBuilder().WithIncome(100).Cadunico(false).Build(),
	}
	benefits := []models.Benefit{s.bolsaFamilia, s.bpcIdoso, s.paulista, s.auxilioGas}

	s.Run("rule lists partition the rules", func() {
		for _, p := range profiles {
			for _, b := range benefits {
				result, err := EvaluateBenefit(p, b)
				s.Require().NoError(err)

				total := len(result.MatchedRules) + len(result.FailedRules) + len(result.InconclusiveRules)
				s.Equal(len(b.EligibilityRules), total, b.ID)

				seen := map[string]int{}
				for _, list := range [][]string{result.MatchedRules, result.FailedRules, result.InconclusiveRules} {
					for _, d := range list {
						seen[d]++
					}
				}
				for d, n := range seen {
					s.Equal(1, n, "%s listed twice for %s", d, b.ID)
				}
			}
		}
	})

	s.Run("an added failing rule always wins", func() {
		for _, p := range profiles {
			for _, b := range benefits {
				b.EligibilityRules = append(append([]models.EligibilityRule{}, b.EligibilityRules...), models.EligibilityRule{
					Field:       FieldPessoasNaCasa,
					Operator:    models.OpGt,
					Value:       models.Number(1000),
					Description: "Família com mais de mil pessoas",
				})

				result, err := EvaluateBenefit(p, b)
				s.Require().NoError(err)
				s.Equal(models.StatusNotEligible, result.Status, b.ID)
			}
		}
	})

	s.Run("removing data degrades eligible to likely then maybe", func() {
		p := testutil.NewProfileBuilder().WithAge(70).WithIncome(300).WithHousehold(2).Build()

		result, err := EvaluateBenefit(p, s.bpcIdoso)
		s.Require().NoError(err)
		s.Equal(models.StatusEligible, result.Status)

		p.Idade = nil
		result, err = EvaluateBenefit(p, s.bpcIdoso)
		s.Require().NoError(err)
		s.Equal(models.StatusLikelyEligible, result.Status)

		p.RendaFamiliarMensal = nil
		result, err = EvaluateBenefit(p, s.bpcIdoso)
		s.Require().NoError(err)
		s.Equal(models.StatusMaybe, result.Status)
	})
}

func (s *EngineSuite) TestApplies() {
	sp := testutil.NewProfileBuilder().InState("SP").InMunicipality("3550308").Build()
	ba := testutil.NewProfileBuilder().InState("BA").Build()
	municipal := testutil.NewBenefitBuilder().Municipal("SP", "3550308").Build()

	s.True(Applies(ba, s.bolsaFamilia))
	s.True(Applies(sp, s.paulista))
	s.True(Applies(testutil.NewProfileBuilder().InState("sp").Build(), s.paulista))
	s.False(Applies(ba, s.paulista))
	s.False(Applies(testutil.NewProfileBuilder().InState("").Build(), s.paulista))
	s.True(Applies(sp, municipal))
	s.False(Applies(testutil.NewProfileBuilder().InState("SP").InMunicipality("3509502").Build(), municipal))
	s.False(Applies(testutil.NewProfileBuilder().InState("SP").Build(), municipal))
	s.False(Applies(testutil.NewProfileBuilder().InState("RJ").InMunicipality("3550308").Build(), municipal))
	s.False(Applies(sp, testutil.NewBenefitBuilder().Inactive().Build()))
	s.True(Applies(nil, s.bolsaFamilia))
	s.False(Applies(nil, s.paulista))
}

func (s *EngineSuite) TestEvaluateAll() {
	s.Run("scope mismatch is left out of the totals", func() {
		p := testutil.NewProfileBuilder().InState("BA").WithIncome(400).WithHousehold(4).Cadunico(true).Build()

		summary := EvaluateAll(p, []models.Benefit{s.bolsaFamilia, s.paulista})

		s.Equal(1, summary.TotalAnalyzed)
		s.Equal(1, summary.OutOfScope)
		s.Len(summary.Eligible, 1)
		s.Equal("bolsa-familia", summary.Eligible[0].Benefit.ID)
	})

	s.Run("buckets, totals, documents and steps", func() {
		p := testutil.NewProfileBuilder().InState("SP").WithAge(70).WithIncome(200).WithHousehold(2).Build()
		catalog := []models.Benefit{s.bolsaFamilia, s.bpcIdoso, s.paulista, s.auxilioGas}

		summary := EvaluateAll(p, catalog)

		// bolsa-familia and auxilio-gas miss cadastradoCadunico only.
		s.Equal(4, summary.TotalAnalyzed)
		s.Equal(summary.Bucketed(), summary.TotalAnalyzed)
		s.Equal([]string{"bpc-idoso", "renda-paulista"}, ids(summary.Eligible))
		s.Equal([]string{"bolsa-familia", "auxilio-gas"}, ids(summary.LikelyEligible))
		s.InDelta(750.0+1518.0, summary.TotalPotentialMonthly, 0.001)
		s.InDelta(1200.0, summary.TotalPotentialAnnual, 0.001)
		s.InDelta(108.0, summary.TotalPotentialOneTime, 0.001)
		s.Equal([]string{"cpf", "Documento com foto", "Comprovante de residência"}, summary.DocumentsNeeded)
		s.Equal([]string{stepCadunico, "Procure: INSS", "Procure: CRAS", "Atualize o CadÚnico no CRAS"}, summary.PrioritySteps)
	})

	s.Run("registered citizens are not told to register", func() {
		p := testutil.NewProfileBuilder().WithIncome(100).WithHousehold(1).Cadunico(true).Build()

		summary := EvaluateAll(p, []models.Benefit{s.bolsaFamilia})

		s.NotContains(summary.PrioritySteps, stepCadunico)
		s.Equal([]string{"Atualize o CadÚnico no CRAS"}, summary.PrioritySteps)
	})

	s.Run("priority steps are capped", func() {
		var catalog []models.Benefit
		for i := 0; i < 8; i++ {
			catalog = append(catalog, testutil.NewBenefitBuilder().
				WithRule(FieldIdade, models.OpGte, 18, "Maior de idade").
				WithSteps(string(rune('A'+i))+": leve os documentos").Build())
		}

		summary := EvaluateAll(testutil.NewProfileBuilder().WithAge(40).Build(), catalog)

		s.Len(summary.Eligible, 8)
		s.Len(summary.PrioritySteps, MaxPrioritySteps)
	})

	s.Run("one malformed benefit does not blank the others", func() {
		broken := testutil.NewBenefitBuilder().WithID("quebrado").
			WithRule(FieldGestante, models.OpGte, true, "Ordenação em booleano").Build()
		p := testutil.NewProfileBuilder().WithIncome(400).WithHousehold(4).Cadunico(true).Build()

		summary := EvaluateAll(p, []models.Benefit{broken, s.bolsaFamilia})

		s.Equal(1, summary.TotalAnalyzed)
		s.Require().Len(summary.Skipped, 1)
		s.Equal("quebrado", summary.Skipped[0].BenefitID)
		s.Len(summary.Eligible, 1)
	})

	s.Run("conservation holds for every profile", func() {
		catalog := []models.Benefit{s.bolsaFamilia, s.bpcIdoso, s.paulista, s.auxilioGas,
			testutil.NewBenefitBuilder().Inactive().Build()}
		for _, p := range []*models.CitizenProfile{
			testutil.NewProfileBuilder().Build(),
			testutil.NewProfileBuilder().InState("RJ").ReceivingBolsaFamilia(600).Build(),
			testutil.NewProfileBuilder().WithAge(80).WithIncome(0).Cadunico(true).Build(),
		} {
			summary := EvaluateAll(p, catalog)
			s.Equal(summary.Bucketed(), summary.TotalAnalyzed)
			s.Equal(len(catalog), summary.TotalAnalyzed+summary.OutOfScope+len(summary.Skipped))
		}
	})

	s.Run("empty catalog yields empty lists", func() {
		summary := EvaluateAll(testutil.NewProfileBuilder().Build(), nil)

		s.Zero(summary.TotalAnalyzed)
		s.NotNil(summary.Eligible)
		s.NotNil(summary.DocumentsNeeded)
		s.NotNil(summary.PrioritySteps)
	})
}

func (s *EngineSuite) TestGroupCriteria() {
	s.Run("without a result every rule is pending", func() {
		groups := GroupCriteria(s.bolsaFamilia.EligibilityRules, nil)

		s.Require().Len(groups, 2)
		s.Equal(models.CategoryDocumentation, groups[0].Category)
		s.Equal(models.CategoryIncome, groups[1].Category)
		for _, g := range groups {
			for _, c := range g.Criteria {
				s.Equal(models.CriterionPending, c.Status)
			}
		}
	})

	s.Run("statuses come from the result", func() {
		p := testutil.NewProfileBuilder().WithHousehold(2).Cadunico(false).Build()
		result, err := EvaluateBenefit(p, s.bolsaFamilia)
		s.Require().NoError(err)

		groups := GroupCriteria(s.bolsaFamilia.EligibilityRules, result)

		s.Require().Len(groups, 2)
		s.Equal(models.CriterionNotMet, groups[0].Criteria[0].Status)
		s.Equal(models.CriterionInconclusive, groups[1].Criteria[0].Status)
	})

	s.Run("fixed display order and catalog order inside groups", func() {
		rules := []models.EligibilityRule{
			rule(FieldSituacaoMoradia, models.OpEq, models.Text("alugada")),
			rule(FieldIndigena, models.OpEq, models.Bool(true)),
			rule(FieldIdade, models.OpGte, models.Number(18)),
			rule(FieldTemNis, models.OpEq, models.Bool(true)),
			rule(FieldQuantidadeFilhos, models.OpGte, models.Number(1)),
			rule(FieldDesempregado, models.OpEq, models.Bool(true)),
		}

		groups := GroupCriteria(rules, &models.EligibilityResult{MatchedRules: []string{rules[2].Description}})

		var cats []models.CriterionCategory
		for _, g := range groups {
			cats = append(cats, g.Category)
		}
		s.Equal([]models.CriterionCategory{
			models.CategoryDocumentation,
			models.CategoryHousehold,
			models.CategoryEmployment,
			models.CategoryHousing,
			models.CategoryOther,
		}, cats)
		s.Equal(FieldIdade, groups[1].Criteria[0].Rule.Field)
		s.Equal(FieldQuantidadeFilhos, groups[1].Criteria[1].Rule.Field)
		s.Equal(models.CriterionMet, groups[1].Criteria[0].Status)
		s.Equal(models.CriterionPending, groups[1].Criteria[1].Status)
		s.Equal("Composição familiar", groups[1].Label)
	})
}

func (s *EngineSuite) TestRequiredFields() {
	fields, err := RequiredFields(slices.Concat(s.bpcIdoso.EligibilityRules, s.bolsaFamilia.EligibilityRules))

	s.Require().NoError(err)
	s.Equal([]string{FieldIdade, FieldRendaFamiliarMensal, FieldPessoasNaCasa, FieldCadastradoCadunico}, fields)

	_, err = RequiredFields([]models.EligibilityRule{rule("desconhecido", models.OpEq, models.Bool(true))})
	s.ErrorIs(err, ErrUnknownField)
}

func (s *EngineSuite) TestValidateBenefit() {
	s.NoError(ValidateBenefit(s.bolsaFamilia))
	s.NoError(ValidateBenefit(s.paulista))

	bad := testutil.NewBenefitBuilder().WithID("ruim").
		WithRule(FieldIdade, models.OpGte, 65, "Idade").
		WithRule(FieldIdade, models.OpLte, 80, "Idade").
		WithRule(FieldGestante, models.OpGt, true, "Gestante").
		Monthly(900, 100).
		Build()
	bad.Scope = models.ScopeState

	err := ValidateBenefit(bad)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	s.ErrorIs(err, ErrOperatorMismatch)
	s.Contains(err.Error(), "state scope requires state")
	s.Contains(err.Error(), "duplicate description")
	s.Contains(err.Error(), "greater than max")

	s.Run("municipal benefits name their state", func() {
		noState := testutil.NewBenefitBuilder().WithID("sem-uf").Municipal("", "3304557").Build()

		err := ValidateBenefit(noState)

		s.Require().Error(err)
		s.Contains(err.Error(), "municipal scope requires state")
	})
}

func ids(results []models.EligibilityResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Benefit.ID)
	}
	return out
}
