package engine

import (
	"strings"

	"beneficios/internal/eligibility/models"
	s "beneficios/pkg/string"
)

// MaxPrioritySteps caps the next-steps punch list.
const MaxPrioritySteps = 5

const stepCadunico = "Faça ou atualize sua inscrição no CadÚnico no CRAS mais próximo"

// EvaluateAll evaluates every applicable benefit of the catalog, one after
// the other, and summarizes the results. Benefits outside the citizen's
// location or inactive are counted in OutOfScope and left out of
// TotalAnalyzed. A benefit with a configuration error is recorded in Skipped
// and does not stop the others.
func EvaluateAll(profile *models.CitizenProfile, benefits []models.Benefit) *models.EvaluationSummary {
	results := make([]models.EligibilityResult, 0, len(benefits))
	var skipped []models.SkippedBenefit
	outOfScope := 0

	for _, benefit := range benefits {
		if !Applies(profile, benefit) {
			outOfScope++
			continue
		}
		result, err := EvaluateBenefit(profile, benefit)
		if err != nil {
			skipped = append(skipped, models.SkippedBenefit{BenefitID: benefit.ID, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}

	summary := Summarize(profile, results)
	summary.OutOfScope = outOfScope
	summary.Skipped = skipped
	return summary
}

// Summarize buckets results by status and derives totals, documents and next
// steps from the eligible and likely eligible ones. Results are expected in
// catalog order; bucket order follows it. not_applicable results are dropped.
func Summarize(profile *models.CitizenProfile, results []models.EligibilityResult) *models.EvaluationSummary {
	summary := &models.EvaluationSummary{
		Eligible:         []models.EligibilityResult{},
		LikelyEligible:   []models.EligibilityResult{},
		Maybe:            []models.EligibilityResult{},
		AlreadyReceiving: []models.EligibilityResult{},
		NotEligible:      []models.EligibilityResult{},
	}

	for _, r := range results {
		switch r.Status {
		case models.StatusEligible:
			summary.Eligible = append(summary.Eligible, r)
		case models.StatusLikelyEligible:
			summary.LikelyEligible = append(summary.LikelyEligible, r)
		case models.StatusMaybe:
			summary.Maybe = append(summary.Maybe, r)
		case models.StatusAlreadyReceiving:
			summary.AlreadyReceiving = append(summary.AlreadyReceiving, r)
		case models.StatusNotEligible:
			summary.NotEligible = append(summary.NotEligible, r)
		}
	}
	summary.TotalAnalyzed = summary.Bucketed()

	positives := make([]models.EligibilityResult, 0, len(summary.Eligible)+len(summary.LikelyEligible))
	positives = append(positives, summary.Eligible...)
	positives = append(positives, summary.LikelyEligible...)

	for _, r := range positives {
		addPotential(summary, r)
	}
	summary.DocumentsNeeded = documentsNeeded(positives)
	summary.PrioritySteps = prioritySteps(profile, positives)
	return summary
}

func addPotential(summary *models.EvaluationSummary, r models.EligibilityResult) {
	if r.EstimatedValue == nil || r.Benefit.EstimatedValue == nil {
		return
	}
	switch r.Benefit.EstimatedValue.Type {
	case models.ValueMonthly:
		summary.TotalPotentialMonthly += *r.EstimatedValue
	case models.ValueAnnual:
		summary.TotalPotentialAnnual += *r.EstimatedValue
	case models.ValueOneTime:
		summary.TotalPotentialOneTime += *r.EstimatedValue
	}
}

func documentsNeeded(positives []models.EligibilityResult) []string {
	var docs []string
	for _, r := range positives {
		docs = append(docs, r.Benefit.DocumentsRequired...)
	}
	return s.DedupeFolded(docs)
}

// prioritySteps puts the CadÚnico registration first when a positive benefit
// depends on it and the citizen is not registered, then the first application
// step of each positive benefit. Duplicates are merged by folded text.
func prioritySteps(profile *models.CitizenProfile, positives []models.EligibilityResult) []string {
	var steps []string
	if needsCadunico(profile, positives) {
		steps = append(steps, stepCadunico)
	}
	for _, r := range positives {
		if step := nextStep(r.Benefit); step != "" {
			steps = append(steps, step)
		}
	}

	steps = s.DedupeFolded(steps)
	if len(steps) > MaxPrioritySteps {
		steps = steps[:MaxPrioritySteps]
	}
	return steps
}

func needsCadunico(profile *models.CitizenProfile, positives []models.EligibilityResult) bool {
	if profile != nil && profile.CadastradoCadunico != nil && *profile.CadastradoCadunico {
		return false
	}
	for _, r := range positives {
		for _, rule := range r.Benefit.EligibilityRules {
			if rule.Field == FieldCadastradoCadunico {
				return true
			}
		}
	}
	return false
}

func nextStep(b models.Benefit) string {
	for _, step := range b.HowToApply {
		if strings.TrimSpace(step) != "" {
			return strings.TrimSpace(step)
		}
	}
	if where := strings.TrimSpace(b.WhereToApply); where != "" {
		return "Procure: " + where
	}
	return ""
}
