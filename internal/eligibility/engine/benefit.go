package engine

import (
	"fmt"

	"beneficios/internal/eligibility/models"
	s "beneficios/pkg/string"
)

const (
	reasonEligible         = "Você atende a todos os critérios deste benefício."
	reasonAlreadyReceiving = "Você informou que já recebe este benefício."
	reasonNoRules          = "Este benefício não tem critérios automáticos; confirme as condições no local de atendimento."
	reasonNotApplicable    = "Este benefício não é oferecido no seu estado ou município."
	reasonInactive         = "Este benefício não está recebendo novos pedidos no momento."
)

// receivingIndicator links a benefit key to the profile fields that say the
// citizen already gets it and, optionally, how much.
type receivingIndicator struct {
	flag  string
	value string
}

var receivingIndicators = map[string]receivingIndicator{
	"bolsa-familia":         {flag: FieldRecebeBolsaFamilia, value: FieldValorBolsaFamilia},
	"bpc":                   {flag: FieldRecebeBPC, value: FieldValorBPC},
	"bpc-idoso":             {flag: FieldRecebeBPC, value: FieldValorBPC},
	"bpc-deficiencia":       {flag: FieldRecebeBPC, value: FieldValorBPC},
	"tarifa-social-energia": {flag: FieldRecebeTarifaSocial},
	"seguro-desemprego":     {flag: FieldRecebeSeguroDesemprego},
}

// EvaluateBenefit evaluates every rule of the benefit against the profile and
// classifies the result. A benefit the citizen already receives short-circuits
// to already_receiving without running rules. Configuration errors in any rule
// abort the benefit.
func EvaluateBenefit(profile *models.CitizenProfile, benefit models.Benefit) (*models.EligibilityResult, error) {
	if receiving, current := alreadyReceiving(profile, benefit); receiving {
		value := current
		if value == nil {
			value = EstimateValue(benefit.EstimatedValue)
		}
		return &models.EligibilityResult{
			Benefit:           benefit,
			Status:            models.StatusAlreadyReceiving,
			MatchedRules:      []string{},
			FailedRules:       []string{},
			InconclusiveRules: []string{},
			EstimatedValue:    value,
			Reason:            reasonAlreadyReceiving,
		}, nil
	}

	result := &models.EligibilityResult{
		Benefit:           benefit,
		MatchedRules:      []string{},
		FailedRules:       []string{},
		InconclusiveRules: []string{},
	}
	for _, rule := range benefit.EligibilityRules {
		outcome, err := EvaluateRule(rule, profile)
		if err != nil {
			return nil, fmt.Errorf("benefit %s: %w", benefit.ID, err)
		}
		switch outcome {
		case models.OutcomeMatched:
			result.MatchedRules = append(result.MatchedRules, rule.Description)
		case models.OutcomeFailed:
			result.FailedRules = append(result.FailedRules, rule.Description)
		case models.OutcomeInconclusive:
			result.InconclusiveRules = append(result.InconclusiveRules, rule.Description)
		}
	}

	result.Status = Classify(len(result.MatchedRules), len(result.FailedRules), len(result.InconclusiveRules))
	if result.Status.IsPositive() {
		result.EstimatedValue = EstimateValue(benefit.EstimatedValue)
	}
	result.Reason = reasonFor(result)
	return result, nil
}

// NotApplicable builds the result for a benefit outside the citizen's state
// or municipality, or no longer active. No rule is evaluated.
func NotApplicable(benefit models.Benefit) *models.EligibilityResult {
	reason := reasonNotApplicable
	if !benefit.IsActive() {
		reason = reasonInactive
	}
	return &models.EligibilityResult{
		Benefit:           benefit,
		Status:            models.StatusNotApplicable,
		MatchedRules:      []string{},
		FailedRules:       []string{},
		InconclusiveRules: []string{},
		Reason:            reason,
	}
}

// alreadyReceiving checks the dedicated flag for the benefit key first, then
// the free list of current benefits. The returned value is what the citizen
// reported receiving, when known and positive.
func alreadyReceiving(profile *models.CitizenProfile, benefit models.Benefit) (bool, *float64) {
	if profile == nil {
		return false, nil
	}
	if ind, ok := receivingIndicators[benefit.Key()]; ok {
		flagValue, known, err := Resolve(ind.flag, profile)
		if err == nil && known && flagValue.Bool {
			return true, reportedValue(profile, ind.value)
		}
	}
	keys := []string{s.Fold(benefit.Key()), s.Fold(benefit.ID)}
	for _, current := range profile.BeneficiosAtuais {
		folded := s.Fold(current)
		if folded != "" && (folded == keys[0] || folded == keys[1]) {
			return true, nil
		}
	}
	return false, nil
}

func reportedValue(profile *models.CitizenProfile, field string) *float64 {
	if field == "" {
		return nil
	}
	v, known, err := Resolve(field, profile)
	if err != nil || !known || v.Number <= 0 {
		return nil
	}
	n := v.Number
	return &n
}

// EstimateValue returns the midpoint of the catalog range, the single bound
// when only one is present, or nil when the benefit pays no money.
func EstimateValue(ev *models.EstimatedValue) *float64 {
	if ev == nil {
		return nil
	}
	var v float64
	switch {
	case ev.Min != nil && ev.Max != nil:
		v = (*ev.Min + *ev.Max) / 2
	case ev.Min != nil:
		v = *ev.Min
	case ev.Max != nil:
		v = *ev.Max
	default:
		return nil
	}
	return &v
}

func reasonFor(r *models.EligibilityResult) string {
	switch r.Status {
	case models.StatusNotEligible:
		return r.FailedRules[0]
	case models.StatusEligible:
		return reasonEligible
	case models.StatusLikelyEligible:
		return fmt.Sprintf("Você provavelmente tem direito. Falta confirmar: %s.", r.InconclusiveRules[0])
	case models.StatusMaybe:
		if len(r.InconclusiveRules) == 0 {
			return reasonNoRules
		}
		return fmt.Sprintf("Faltam informações para %d critérios; eles precisam ser verificados pessoalmente no atendimento.",
			len(r.InconclusiveRules))
	default:
		return ""
	}
}
