package engine

import (
	"errors"
	"fmt"
	"strings"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
)

// ValidateBenefit checks a catalog entry for authoring mistakes: identity,
// scope consistency, rule fields/operators/values, unique non-empty rule
// descriptions and the estimated value range. All problems are returned
// joined, wrapped in a CodeConfiguration error.
func ValidateBenefit(b models.Benefit) error {
	var errs []error
	problem := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(b.ID) == "" {
		problem("id is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		problem("name is required")
	}
	if !b.Scope.IsValid() {
		problem("scope %q is not one of federal, state, municipal, sectoral", b.Scope)
	}
	if b.Scope == models.ScopeState && strings.TrimSpace(b.State) == "" {
		problem("state scope requires state")
	}
	if b.Scope == models.ScopeMunicipal {
		if strings.TrimSpace(b.State) == "" {
			problem("municipal scope requires state")
		}
		if strings.TrimSpace(b.MunicipalityIbge) == "" {
			problem("municipal scope requires municipalityIbge")
		}
	}
	switch b.Status {
	case "", models.BenefitActive, models.BenefitInactive:
	default:
		problem("status %q is not active or inactive", b.Status)
	}

	descriptions := make(map[string]struct{}, len(b.EligibilityRules))
	for i, rule := range b.EligibilityRules {
		if strings.TrimSpace(rule.Description) == "" {
			problem("rule %d: description is required", i)
		} else if _, dup := descriptions[rule.Description]; dup {
			problem("rule %d: duplicate description %q", i, rule.Description)
		}
		descriptions[rule.Description] = struct{}{}
		if err := CheckRule(rule); err != nil {
			errs = append(errs, err)
		}
	}

	if ev := b.EstimatedValue; ev != nil {
		if !ev.Type.IsValid() {
			problem("estimatedValue.type %q is not monthly, annual or one_time", ev.Type)
		}
		if ev.Min != nil && ev.Max != nil && *ev.Min > *ev.Max {
			problem("estimatedValue.min %.2f is greater than max %.2f", *ev.Min, *ev.Max)
		}
		if (ev.Min != nil && *ev.Min < 0) || (ev.Max != nil && *ev.Max < 0) {
			problem("estimatedValue bounds must not be negative")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs...)
	return &dErrors.Error{
		Code:    dErrors.CodeConfiguration,
		Message: fmt.Sprintf("benefit %q is misconfigured: %v", b.ID, joined),
		Err:     joined,
	}
}
