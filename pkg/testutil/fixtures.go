package testutil

import (
	"github.com/google/uuid"

	"beneficios/internal/eligibility/models"
)

// Ptr returns a pointer to v. Profile fields are pointers so "not informed"
// stays distinct from zero.
func Ptr[T any](v T) *T {
	return &v
}

// ProfileBuilder provides a fluent interface for building citizen profiles.
type ProfileBuilder struct {
	profile *models.CitizenProfile
}

// NewProfileBuilder starts from a minimal valid profile: a one-person household
// in São Paulo with nothing else informed.
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{
		profile: &models.CitizenProfile{
			Estado:        "SP",
			PessoasNaCasa: Ptr(1),
		},
	}
}

func (b *ProfileBuilder) InState(uf string) *ProfileBuilder {
	b.profile.Estado = uf
	return b
}

func (b *ProfileBuilder) InMunicipality(ibge string) *ProfileBuilder {
	b.profile.MunicipioIbge = ibge
	return b
}

func (b *ProfileBuilder) WithAge(age int) *ProfileBuilder {
	b.profile.Idade = Ptr(age)
	return b
}

func (b *ProfileBuilder) WithHousehold(people int) *ProfileBuilder {
	b.profile.PessoasNaCasa = Ptr(people)
	return b
}

func (b *ProfileBuilder) WithoutHousehold() *ProfileBuilder {
	b.profile.PessoasNaCasa = nil
	return b
}

func (b *ProfileBuilder) WithIncome(monthly float64) *ProfileBuilder {
	b.profile.RendaFamiliarMensal = Ptr(monthly)
	return b
}

func (b *ProfileBuilder) WithChildren(total, under6 int) *ProfileBuilder {
	b.profile.QuantidadeFilhos = Ptr(total)
	b.profile.FilhosMenores6 = Ptr(under6)
	return b
}

func (b *ProfileBuilder) Cadunico(registered bool) *ProfileBuilder {
	b.profile.CadastradoCadunico = Ptr(registered)
	return b
}

func (b *ProfileBuilder) Disabled(disabled bool) *ProfileBuilder {
	b.profile.TemDeficiencia = Ptr(disabled)
	return b
}

func (b *ProfileBuilder) ReceivingBolsaFamilia(value float64) *ProfileBuilder {
	b.profile.RecebeBolsaFamilia = Ptr(true)
	b.profile.ValorBolsaFamilia = Ptr(value)
	return b
}

func (b *ProfileBuilder) Receiving(benefitIDs ...string) *ProfileBuilder {
	b.profile.BeneficiosAtuais = append(b.profile.BeneficiosAtuais, benefitIDs...)
	return b
}

func (b *ProfileBuilder) WithEmployment(situacao string) *ProfileBuilder {
	b.profile.SituacaoEmprego = situacao
	return b
}

func (b *ProfileBuilder) Build() *models.CitizenProfile {
	return b.profile
}

// BenefitBuilder provides a fluent interface for building catalog entries.
type BenefitBuilder struct {
	benefit models.Benefit
}

// NewBenefitBuilder creates an active federal benefit with a random id and no
// rules.
func NewBenefitBuilder() *BenefitBuilder {
	return &BenefitBuilder{
		benefit: models.Benefit{
			ID:               "beneficio-" + uuid.NewString()[:8],
			Name:             "Benefício de teste",
			ShortDescription: "Benefício usado em testes",
			Scope:            models.ScopeFederal,
			WhereToApply:     "CRAS",
			Status:           models.BenefitActive,
		},
	}
}

func (b *BenefitBuilder) WithID(id string) *BenefitBuilder {
	b.benefit.ID = id
	return b
}

func (b *BenefitBuilder) WithName(name string) *BenefitBuilder {
	b.benefit.Name = name
	return b
}

func (b *BenefitBuilder) WithProgramCode(code string) *BenefitBuilder {
	b.benefit.ProgramCode = code
	return b
}

func (b *BenefitBuilder) State(uf string) *BenefitBuilder {
	b.benefit.Scope = models.ScopeState
	b.benefit.State = uf
	return b
}

func (b *BenefitBuilder) Municipal(uf, ibge string) *BenefitBuilder {
	b.benefit.Scope = models.ScopeMunicipal
	b.benefit.State = uf
	b.benefit.MunicipalityIbge = ibge
	return b
}

func (b *BenefitBuilder) Inactive() *BenefitBuilder {
	b.benefit.Status = models.BenefitInactive
	return b
}

// WithRule appends a rule. value may be an int, float64, bool or string.
func (b *BenefitBuilder) WithRule(field string, op models.Operator, value any, description string) *BenefitBuilder {
	b.benefit.EligibilityRules = append(b.benefit.EligibilityRules, models.EligibilityRule{
		Field:       field,
		Operator:    op,
		Value:       valueOf(value),
		Description: description,
	})
	return b
}

func (b *BenefitBuilder) Monthly(lo, hi float64) *BenefitBuilder {
	b.benefit.EstimatedValue = &models.EstimatedValue{Type: models.ValueMonthly, Min: Ptr(lo), Max: Ptr(hi)}
	return b
}

func (b *BenefitBuilder) Annual(value float64) *BenefitBuilder {
	b.benefit.EstimatedValue = &models.EstimatedValue{Type: models.ValueAnnual, Max: Ptr(value)}
	return b
}

func (b *BenefitBuilder) OneTime(value float64) *BenefitBuilder {
	b.benefit.EstimatedValue = &models.EstimatedValue{Type: models.ValueOneTime, Min: Ptr(value)}
	return b
}

func (b *BenefitBuilder) WithDocuments(docs ...string) *BenefitBuilder {
	b.benefit.DocumentsRequired = append(b.benefit.DocumentsRequired, docs...)
	return b
}

func (b *BenefitBuilder) WithSteps(steps ...string) *BenefitBuilder {
	b.benefit.HowToApply = append(b.benefit.HowToApply, steps...)
	return b
}

func (b *BenefitBuilder) WhereToApply(where string) *BenefitBuilder {
	b.benefit.WhereToApply = where
	return b
}

func (b *BenefitBuilder) Build() models.Benefit {
	return b.benefit
}

func valueOf(v any) models.Value {
	switch x := v.(type) {
	case int:
		return models.Number(float64(x))
	case float64:
		return models.Number(x)
	case bool:
		return models.Bool(x)
	case string:
		return models.Text(x)
	case models.Value:
		return x
	default:
		return models.Value{}
	}
}
