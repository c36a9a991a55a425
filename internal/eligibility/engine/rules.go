package engine

import (
	"errors"
	"fmt"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
)

var (
	// ErrUnknownOperator is returned for operators outside eq/neq/lte/lt/gte/gt.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrOperatorMismatch is returned when an ordering operator targets a
	// boolean or text field.
	ErrOperatorMismatch = errors.New("operator not applicable to field type")
	// ErrValueKind is returned when the rule value's type differs from the field's.
	ErrValueKind = errors.New("rule value does not match field type")
)

func ruleError(rule models.EligibilityRule, cause error) error {
	msg := fmt.Sprintf("rule %q (%s %s %s): %v",
		rule.Description, rule.Field, rule.Operator, rule.Value, cause)
	return &dErrors.Error{Code: dErrors.CodeConfiguration, Message: msg, Err: cause}
}

// CheckRule validates a rule against the field registry without a profile:
// the field must be known, the operator must fit the field type, and the
// value must have the field's type.
func CheckRule(rule models.EligibilityRule) error {
	spec, err := lookup(rule.Field)
	if err != nil {
		return ruleError(rule, err)
	}
	if !rule.Operator.IsValid() {
		return ruleError(rule, ErrUnknownOperator)
	}
	if rule.Operator.IsOrdering() && spec.kind != models.KindNumber {
		return ruleError(rule, ErrOperatorMismatch)
	}
	if rule.Value.Kind != spec.kind {
		return ruleError(rule, ErrValueKind)
	}
	return nil
}

// EvaluateRule applies one rule to the profile. Missing profile data yields
// OutcomeInconclusive; it never fails a rule. Malformed rules return a
// CodeConfiguration error.
func EvaluateRule(rule models.EligibilityRule, profile *models.CitizenProfile) (models.RuleOutcome, error) {
	if err := CheckRule(rule); err != nil {
		return "", err
	}

	actual, known, err := Resolve(rule.Field, profile)
	if err != nil {
		return "", err
	}
	if !known {
		return models.OutcomeInconclusive, nil
	}

	if compare(actual, rule.Operator, rule.Value) {
		return models.OutcomeMatched, nil
	}
	return models.OutcomeFailed, nil
}

// compare assumes CheckRule passed: both values share a kind and ordering
// operators only reach numbers.
func compare(actual models.Value, op models.Operator, expected models.Value) bool {
	switch op {
	case models.OpEq:
		return equal(actual, expected)
	case models.OpNeq:
		return !equal(actual, expected)
	case models.OpLte:
		return actual.Number <= expected.Number
	case models.OpLt:
		return actual.Number < expected.Number
	case models.OpGte:
		return actual.Number >= expected.Number
	case models.OpGt:
		return actual.Number > expected.Number
	default:
		return false
	}
}

func equal(a, b models.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case models.KindNumber:
		return a.Number == b.Number
	case models.KindBool:
		return a.Bool == b.Bool
	case models.KindText:
		return a.Text == b.Text
	default:
		return false
	}
}

// Classify maps rule outcome counts to a status:
//
//	failed > 0                          → not_eligible
//	no rules at all                     → maybe
//	every rule matched                  → eligible
//	exactly one inconclusive, rest met  → likely_eligible
//	two or more inconclusive, rest met  → maybe
//
// already_receiving and not_applicable are decided before rules run.
func Classify(matched, failed, inconclusive int) models.EligibilityStatus {
	switch {
	case failed > 0:
		return models.StatusNotEligible
	case matched+inconclusive == 0:
		return models.StatusMaybe
	case inconclusive == 0:
		return models.StatusEligible
	case inconclusive == 1:
		return models.StatusLikelyEligible
	default:
		return models.StatusMaybe
	}
}
