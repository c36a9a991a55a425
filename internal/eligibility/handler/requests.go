package handler

import (
	"strings"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
	s "beneficios/pkg/string"
	"beneficios/pkg/validation"
)

// EvaluateRequest carries the citizen profile to evaluate.
type EvaluateRequest struct {
	Profile *models.CitizenProfile `json:"profile"`
}

// Normalize trims free text and upper-cases the state code.
func (r *EvaluateRequest) Normalize() {
	if r == nil {
		return
	}
	normalizeProfile(r.Profile)
}

// Validate checks that a profile is present and well-formed.
func (r *EvaluateRequest) Validate() error {
	if r == nil || r.Profile == nil {
		return dErrors.New(dErrors.CodeValidation, "profile is required")
	}
	return validateProfile(r.Profile)
}

// CriteriaRequest carries an optional profile; without one every criterion is
// reported as pending.
type CriteriaRequest struct {
	Profile *models.CitizenProfile `json:"profile,omitempty"`
}

func (r *CriteriaRequest) Normalize() {
	if r == nil {
		return
	}
	normalizeProfile(r.Profile)
}

func (r *CriteriaRequest) Validate() error {
	if r == nil || r.Profile == nil {
		return nil
	}
	return validateProfile(r.Profile)
}

func validateProfile(p *models.CitizenProfile) error {
	if err := validation.Validate(p); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("beneficiosAtuais", len(p.BeneficiosAtuais), validation.MaxCurrentBenefits); err != nil {
		return err
	}
	return validation.CheckEachStringLength("beneficiosAtuais", p.BeneficiosAtuais, validation.MaxBenefitIDLength)
}

func normalizeProfile(p *models.CitizenProfile) {
	if p == nil {
		return
	}
	s.TrimStrings(&p.Estado, &p.MunicipioIbge, &p.SituacaoEmprego, &p.SituacaoMoradia)
	p.Estado = strings.ToUpper(p.Estado)
	p.SituacaoEmprego = strings.ToLower(p.SituacaoEmprego)
	p.SituacaoMoradia = strings.ToLower(p.SituacaoMoradia)
	s.TrimSlice(p.BeneficiosAtuais)
}
