package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
)

// Field names a rule can reference. They match the JSON names of
// models.CitizenProfile, plus the derived fields.
const (
	FieldEstado                 = "estado"
	FieldMunicipioIbge          = "municipioIbge"
	FieldIdade                  = "idade"
	FieldPessoasNaCasa          = "pessoasNaCasa"
	FieldQuantidadeFilhos       = "quantidadeFilhos"
	FieldFilhosMenores6         = "filhosMenores6"
	FieldQuantidadeIdosos       = "quantidadeIdosos"
	FieldGestante               = "gestante"
	FieldAmamentando            = "amamentando"
	FieldTemDeficiencia         = "temDeficiencia"
	FieldRendaFamiliarMensal    = "rendaFamiliarMensal"
	FieldRendaPerCapita         = "rendaPerCapita"
	FieldRecebeBolsaFamilia     = "recebeBolsaFamilia"
	FieldValorBolsaFamilia      = "valorBolsaFamilia"
	FieldRecebeBPC              = "recebeBPC"
	FieldValorBPC               = "valorBPC"
	FieldRecebeTarifaSocial     = "recebeTarifaSocial"
	FieldSituacaoEmprego        = "situacaoEmprego"
	FieldTemCarteiraAssinada    = "temCarteiraAssinada"
	FieldTrabalhadorInformal    = "trabalhadorInformal"
	FieldMei                    = "mei"
	FieldDesempregado           = "desempregado"
	FieldRecebeSeguroDesemprego = "recebeSeguroDesemprego"
	FieldAgricultorFamiliar     = "agricultorFamiliar"
	FieldPescadorArtesanal      = "pescadorArtesanal"
	FieldSituacaoMoradia        = "situacaoMoradia"
	FieldTemCasaPropria         = "temCasaPropria"
	FieldSituacaoRua            = "situacaoRua"
	FieldCadastradoCadunico     = "cadastradoCadunico"
	FieldTemCpf                 = "temCpf"
	FieldTemNis                 = "temNis"
	FieldEstudante              = "estudante"
	FieldEscolaPublica          = "escolaPublica"
	FieldIndigena               = "indigena"
	FieldQuilombola             = "quilombola"
)

// ErrUnknownField is returned for rule fields missing from the registry.
var ErrUnknownField = errors.New("unknown eligibility field")

type resolveFunc func(p *models.CitizenProfile) (models.Value, bool)

// fieldSpec describes one resolvable field. Derived fields list the direct
// fields they are computed from in inputs.
type fieldSpec struct {
	kind     models.Kind
	category models.CriterionCategory
	inputs   []string
	resolve  resolveFunc
}

// FieldInfo is the public description of a registered field.
type FieldInfo struct {
	Name     string                   `json:"name"`
	Kind     models.Kind              `json:"kind"`
	Category models.CriterionCategory `json:"category"`
	Derived  bool                     `json:"derived"`
	Inputs   []string                 `json:"inputs,omitempty"`
}

var registry = map[string]fieldSpec{
	FieldEstado:        text(models.CategoryOther, func(p *models.CitizenProfile) string { return p.Estado }),
	FieldMunicipioIbge: text(models.CategoryOther, func(p *models.CitizenProfile) string { return p.MunicipioIbge }),

	FieldIdade:            count(models.CategoryHousehold, func(p *models.CitizenProfile) *int { return p.Idade }),
	FieldPessoasNaCasa:    count(models.CategoryHousehold, func(p *models.CitizenProfile) *int { return p.PessoasNaCasa }),
	FieldQuantidadeFilhos: count(models.CategoryHousehold, func(p *models.CitizenProfile) *int { return p.QuantidadeFilhos }),
	FieldFilhosMenores6:   count(models.CategoryHousehold, func(p *models.CitizenProfile) *int { return p.FilhosMenores6 }),
	FieldQuantidadeIdosos: count(models.CategoryHousehold, func(p *models.CitizenProfile) *int { return p.QuantidadeIdosos }),
	FieldGestante:         flag(models.CategoryHousehold, func(p *models.CitizenProfile) *bool { return p.Gestante }),
	FieldAmamentando:      flag(models.CategoryHousehold, func(p *models.CitizenProfile) *bool { return p.Amamentando }),
	FieldTemDeficiencia:   flag(models.CategoryHousehold, func(p *models.CitizenProfile) *bool { return p.TemDeficiencia }),

	FieldRendaFamiliarMensal: money(models.CategoryIncome, func(p *models.CitizenProfile) *float64 { return p.RendaFamiliarMensal }),
	FieldRendaPerCapita: {
		kind:     models.KindNumber,
		category: models.CategoryIncome,
		inputs:   []string{FieldRendaFamiliarMensal, FieldPessoasNaCasa},
		resolve:  resolvePerCapita,
	},
	FieldRecebeBolsaFamilia: flag(models.CategoryIncome, func(p *models.CitizenProfile) *bool { return p.RecebeBolsaFamilia }),
	FieldValorBolsaFamilia:  money(models.CategoryIncome, func(p *models.CitizenProfile) *float64 { return p.ValorBolsaFamilia }),
	FieldRecebeBPC:          flag(models.CategoryIncome, func(p *models.CitizenProfile) *bool { return p.RecebeBPC }),
	FieldValorBPC:           money(models.CategoryIncome, func(p *models.CitizenProfile) *float64 { return p.ValorBPC }),
	FieldRecebeTarifaSocial: flag(models.CategoryHousing, func(p *models.CitizenProfile) *bool { return p.RecebeTarifaSocial }),

	FieldSituacaoEmprego:        text(models.CategoryEmployment, func(p *models.CitizenProfile) string { return p.SituacaoEmprego }),
	FieldTemCarteiraAssinada:    flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.TemCarteiraAssinada }),
	FieldTrabalhadorInformal:    flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.TrabalhadorInformal }),
	FieldMei:                    flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.Mei }),
	FieldDesempregado:           flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.Desempregado }),
	FieldRecebeSeguroDesemprego: flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.RecebeSeguroDesemprego }),
	FieldAgricultorFamiliar:     flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.AgricultorFamiliar }),
	FieldPescadorArtesanal:      flag(models.CategoryEmployment, func(p *models.CitizenProfile) *bool { return p.PescadorArtesanal }),

	FieldSituacaoMoradia: text(models.CategoryHousing, func(p *models.CitizenProfile) string { return p.SituacaoMoradia }),
	FieldTemCasaPropria:  flag(models.CategoryHousing, func(p *models.CitizenProfile) *bool { return p.TemCasaPropria }),
	FieldSituacaoRua:     flag(models.CategoryHousing, func(p *models.CitizenProfile) *bool { return p.SituacaoRua }),

	FieldCadastradoCadunico: flag(models.CategoryDocumentation, func(p *models.CitizenProfile) *bool { return p.CadastradoCadunico }),
	FieldTemCpf:             flag(models.CategoryDocumentation, func(p *models.CitizenProfile) *bool { return p.TemCpf }),
	FieldTemNis:             flag(models.CategoryDocumentation, func(p *models.CitizenProfile) *bool { return p.TemNis }),

	FieldEstudante:     flag(models.CategoryOther, func(p *models.CitizenProfile) *bool { return p.Estudante }),
	FieldEscolaPublica: flag(models.CategoryOther, func(p *models.CitizenProfile) *bool { return p.EscolaPublica }),
	FieldIndigena:      flag(models.CategoryOther, func(p *models.CitizenProfile) *bool { return p.Indigena }),
	FieldQuilombola:    flag(models.CategoryOther, func(p *models.CitizenProfile) *bool { return p.Quilombola }),
}

func count(cat models.CriterionCategory, get func(*models.CitizenProfile) *int) fieldSpec {
	return fieldSpec{kind: models.KindNumber, category: cat, resolve: func(p *models.CitizenProfile) (models.Value, bool) {
		v := get(p)
		if v == nil {
			return models.Value{}, false
		}
		return models.Number(float64(*v)), true
	}}
}

func money(cat models.CriterionCategory, get func(*models.CitizenProfile) *float64) fieldSpec {
	return fieldSpec{kind: models.KindNumber, category: cat, resolve: func(p *models.CitizenProfile) (models.Value, bool) {
		v := get(p)
		if v == nil {
			return models.Value{}, false
		}
		return models.Number(*v), true
	}}
}

func flag(cat models.CriterionCategory, get func(*models.CitizenProfile) *bool) fieldSpec {
	return fieldSpec{kind: models.KindBool, category: cat, resolve: func(p *models.CitizenProfile) (models.Value, bool) {
		v := get(p)
		if v == nil {
			return models.Value{}, false
		}
		return models.Bool(*v), true
	}}
}

func text(cat models.CriterionCategory, get func(*models.CitizenProfile) string) fieldSpec {
	return fieldSpec{kind: models.KindText, category: cat, resolve: func(p *models.CitizenProfile) (models.Value, bool) {
		v := strings.TrimSpace(get(p))
		if v == "" {
			return models.Value{}, false
		}
		return models.Text(v), true
	}}
}

// resolvePerCapita divides household income by household size. A household
// size below one is treated as one.
func resolvePerCapita(p *models.CitizenProfile) (models.Value, bool) {
	if p.RendaFamiliarMensal == nil || p.PessoasNaCasa == nil {
		return models.Value{}, false
	}
	people := max(*p.PessoasNaCasa, 1)
	return models.Number(*p.RendaFamiliarMensal / float64(people)), true
}

func lookup(field string) (fieldSpec, error) {
	def, ok := registry[field]
	if !ok {
		return fieldSpec{}, &dErrors.Error{
			Code:    dErrors.CodeConfiguration,
			Message: fmt.Sprintf("unknown eligibility field %q", field),
			Err:     ErrUnknownField,
		}
	}
	return def, nil
}

// Resolve returns the value of field for the profile. known is false when the
// profile does not carry the data (or any input of a derived field). Unknown
// field names are configuration errors. A nil profile resolves every field as
// unknown.
func Resolve(field string, profile *models.CitizenProfile) (value models.Value, known bool, err error) {
	def, err := lookup(field)
	if err != nil {
		return models.Value{}, false, err
	}
	if profile == nil {
		return models.Value{}, false, nil
	}
	value, known = def.resolve(profile)
	return value, known, nil
}

// LookupField describes a registered field.
func LookupField(field string) (FieldInfo, error) {
	def, err := lookup(field)
	if err != nil {
		return FieldInfo{}, err
	}
	return FieldInfo{
		Name:     field,
		Kind:     def.kind,
		Category: def.category,
		Derived:  len(def.inputs) > 0,
		Inputs:   slices.Clone(def.inputs),
	}, nil
}

// Fields lists every registered field, sorted by name.
func Fields() []FieldInfo {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]FieldInfo, 0, len(names))
	for _, name := range names {
		info, _ := LookupField(name)
		out = append(out, info)
	}
	return out
}
