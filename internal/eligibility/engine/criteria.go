package engine

import (
	"fmt"

	"beneficios/internal/eligibility/models"
)

var categoryOrder = []models.CriterionCategory{
	models.CategoryDocumentation,
	models.CategoryIncome,
	models.CategoryHousehold,
	models.CategoryEmployment,
	models.CategoryHousing,
	models.CategoryOther,
}

var categoryLabels = map[models.CriterionCategory]string{
	models.CategoryDocumentation: "Documentação",
	models.CategoryIncome:        "Renda",
	models.CategoryHousehold:     "Composição familiar",
	models.CategoryEmployment:    "Trabalho",
	models.CategoryHousing:       "Moradia",
	models.CategoryOther:         "Outros critérios",
}

// CategoryOf returns the display category of a rule field. Fields outside the
// registry fall into "other".
func CategoryOf(field string) models.CriterionCategory {
	if spec, ok := registry[field]; ok {
		return spec.category
	}
	return models.CategoryOther
}

// GroupCriteria buckets rules by category in a fixed display order
// (documentation, income, household, employment, housing, other), keeping
// catalog order inside each group and omitting empty groups. Each rule's status
// comes from the result lists by description; with a nil result every rule is
// pending. A description found in several lists resolves as not_met first,
// then inconclusive, then met.
func GroupCriteria(rules []models.EligibilityRule, result *models.EligibilityResult) []models.GroupedCriteria {
	byCategory := make(map[models.CriterionCategory][]models.EvaluatedCriterion, len(categoryOrder))
	status := statusLookup(result)
	for _, rule := range rules {
		cat := CategoryOf(rule.Field)
		byCategory[cat] = append(byCategory[cat], models.EvaluatedCriterion{
			Rule:   rule,
			Status: status(rule.Description),
		})
	}

	groups := make([]models.GroupedCriteria, 0, len(byCategory))
	for _, cat := range categoryOrder {
		criteria, ok := byCategory[cat]
		if !ok {
			continue
		}
		groups = append(groups, models.GroupedCriteria{
			Category: cat,
			Label:    categoryLabels[cat],
			Criteria: criteria,
		})
	}
	return groups
}

func statusLookup(result *models.EligibilityResult) func(string) models.CriterionStatus {
	if result == nil {
		return func(string) models.CriterionStatus { return models.CriterionPending }
	}
	failed := toSet(result.FailedRules)
	inconclusive := toSet(result.InconclusiveRules)
	matched := toSet(result.MatchedRules)
	return func(description string) models.CriterionStatus {
		if _, ok := failed[description]; ok {
			return models.CriterionNotMet
		}
		if _, ok := inconclusive[description]; ok {
			return models.CriterionInconclusive
		}
		if _, ok := matched[description]; ok {
			return models.CriterionMet
		}
		return models.CriterionPending
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// RequiredFields lists the distinct profile fields the rules need, in first
// use order. Derived fields are replaced by their inputs, so rendaPerCapita
// asks for rendaFamiliarMensal and pessoasNaCasa.
func RequiredFields(rules []models.EligibilityRule) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(rules))
	add := func(field string) {
		if _, ok := seen[field]; ok {
			return
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}

	for _, rule := range rules {
		spec, err := lookup(rule.Field)
		if err != nil {
			return nil, fmt.Errorf("required fields: %w", err)
		}
		if len(spec.inputs) == 0 {
			add(rule.Field)
			continue
		}
		for _, input := range spec.inputs {
			add(input)
		}
	}
	return out, nil
}
