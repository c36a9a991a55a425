package models

import (
	"time"

	dErrors "beneficios/pkg/domain-errors"
)

// EligibilityStatus is the verdict for one benefit and one profile.
type EligibilityStatus string

const (
	StatusEligible         EligibilityStatus = "eligible"
	StatusLikelyEligible   EligibilityStatus = "likely_eligible"
	StatusMaybe            EligibilityStatus = "maybe"
	StatusNotEligible      EligibilityStatus = "not_eligible"
	StatusAlreadyReceiving EligibilityStatus = "already_receiving"
	StatusNotApplicable    EligibilityStatus = "not_applicable"
)

// ParseStatus validates a status string.
//
// Errors: returns CodeBadRequest for unknown statuses.
func ParseStatus(s string) (EligibilityStatus, error) {
	switch st := EligibilityStatus(s); st {
	case StatusEligible, StatusLikelyEligible, StatusMaybe, StatusNotEligible,
		StatusAlreadyReceiving, StatusNotApplicable:
		return st, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported eligibility status: "+s)
	}
}

// IsPositive reports whether the verdict counts toward potential values,
// documents and next steps.
func (s EligibilityStatus) IsPositive() bool {
	return s == StatusEligible || s == StatusLikelyEligible
}

// RuleOutcome is the three-valued result of one rule.
type RuleOutcome string

const (
	OutcomeMatched      RuleOutcome = "matched"
	OutcomeFailed       RuleOutcome = "failed"
	OutcomeInconclusive RuleOutcome = "inconclusive"
)

// EligibilityResult is the verdict for one benefit. The three rule lists hold
// rule descriptions and together partition the benefit's rules.
type EligibilityResult struct {
	Benefit           Benefit           `json:"benefit"`
	Status            EligibilityStatus `json:"status"`
	MatchedRules      []string          `json:"matchedRules"`
	FailedRules       []string          `json:"failedRules"`
	InconclusiveRules []string          `json:"inconclusiveRules"`
	EstimatedValue    *float64          `json:"estimatedValue,omitempty"`
	Reason            string            `json:"reason,omitempty"`
}

// SkippedBenefit records a catalog entry that could not be evaluated because
// of a configuration error.
type SkippedBenefit struct {
	BenefitID string `json:"benefitId"`
	Error     string `json:"error"`
}

// EvaluationSummary aggregates the verdicts of a whole catalog for one profile.
type EvaluationSummary struct {
	Eligible              []EligibilityResult `json:"eligible"`
	LikelyEligible        []EligibilityResult `json:"likelyEligible"`
	Maybe                 []EligibilityResult `json:"maybe"`
	AlreadyReceiving      []EligibilityResult `json:"alreadyReceiving"`
	NotEligible           []EligibilityResult `json:"notEligible"`
	TotalAnalyzed         int                 `json:"totalAnalyzed"`
	TotalPotentialMonthly float64             `json:"totalPotentialMonthly"`
	TotalPotentialAnnual  float64             `json:"totalPotentialAnnual"`
	TotalPotentialOneTime float64             `json:"totalPotentialOneTime"`
	PrioritySteps         []string            `json:"prioritySteps"`
	DocumentsNeeded       []string            `json:"documentsNeeded"`

	// OutOfScope counts benefits dropped before evaluation: another state or
	// municipality, or inactive. They are not part of TotalAnalyzed.
	OutOfScope     int              `json:"outOfScope"`
	Skipped        []SkippedBenefit `json:"skipped,omitempty"`
	CatalogVersion string           `json:"catalogVersion,omitempty"`
	EvaluatedAt    time.Time        `json:"evaluatedAt"`
}

// Bucketed returns the number of results across the five buckets.
func (s *EvaluationSummary) Bucketed() int {
	return len(s.Eligible) + len(s.LikelyEligible) + len(s.Maybe) +
		len(s.AlreadyReceiving) + len(s.NotEligible)
}

// CriterionCategory groups rules for presentation.
type CriterionCategory string

const (
	CategoryDocumentation CriterionCategory = "documentation"
	CategoryIncome        CriterionCategory = "income"
	CategoryHousehold     CriterionCategory = "household"
	CategoryEmployment    CriterionCategory = "employment"
	CategoryHousing       CriterionCategory = "housing"
	CategoryOther         CriterionCategory = "other"
)

// CriterionStatus is the per-rule state shown next to a criterion.
type CriterionStatus string

const (
	CriterionMet          CriterionStatus = "met"
	CriterionNotMet       CriterionStatus = "not_met"
	CriterionInconclusive CriterionStatus = "inconclusive"
	CriterionPending      CriterionStatus = "pending"
)

// EvaluatedCriterion is a rule with its presentation status.
type EvaluatedCriterion struct {
	Rule   EligibilityRule `json:"rule"`
	Status CriterionStatus `json:"status"`
}

// GroupedCriteria is one category of criteria, rules in catalog order.
type GroupedCriteria struct {
	Category CriterionCategory    `json:"category"`
	Label    string               `json:"label"`
	Criteria []EvaluatedCriterion `json:"criteria"`
}

// BenefitCriteria is the criteria view of one benefit: rules grouped for
// display plus the profile fields needed to evaluate them. Status is set only
// when a profile was given.
type BenefitCriteria struct {
	BenefitID      string            `json:"benefitId"`
	Status         EligibilityStatus `json:"status,omitempty"`
	Groups         []GroupedCriteria `json:"groups"`
	RequiredFields []string          `json:"requiredFields"`
}
