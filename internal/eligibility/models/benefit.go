package models

// Scope is the administrative level that offers a benefit.
type Scope string

const (
	ScopeFederal   Scope = "federal"
	ScopeState     Scope = "state"
	ScopeMunicipal Scope = "municipal"
	ScopeSectoral  Scope = "sectoral"
)

// IsValid reports whether the scope is one of the four known levels.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeFederal, ScopeState, ScopeMunicipal, ScopeSectoral:
		return true
	}
	return false
}

// Operator compares a resolved profile value with a rule value.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNeq Operator = "neq"
	OpLte Operator = "lte"
	OpLt  Operator = "lt"
	OpGte Operator = "gte"
	OpGt  Operator = "gt"
)

// IsValid reports whether the operator is known.
func (o Operator) IsValid() bool {
	return o.IsEquality() || o.IsOrdering()
}

// IsEquality reports whether the operator is eq or neq.
func (o Operator) IsEquality() bool {
	return o == OpEq || o == OpNeq
}

// IsOrdering reports whether the operator only applies to numbers.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpLte, OpLt, OpGte, OpGt:
		return true
	}
	return false
}

// EligibilityRule is one condition a citizen must meet.
type EligibilityRule struct {
	Field          string   `json:"field" yaml:"field"`
	Operator       Operator `json:"operator" yaml:"operator"`
	Value          Value    `json:"value" yaml:"value"`
	Description    string   `json:"description" yaml:"description"`
	LegalReference string   `json:"legalReference,omitempty" yaml:"legalReference,omitempty"`
}

// ValueType tells how often an estimated value is paid.
type ValueType string

const (
	ValueMonthly ValueType = "monthly"
	ValueAnnual  ValueType = "annual"
	ValueOneTime ValueType = "one_time"
)

// IsValid reports whether the value type is known.
func (t ValueType) IsValid() bool {
	switch t {
	case ValueMonthly, ValueAnnual, ValueOneTime:
		return true
	}
	return false
}

// EstimatedValue describes the money a benefit pays. Either bound may be
// missing; benefits with no monetary value (document access, discounts) carry
// no EstimatedValue at all.
type EstimatedValue struct {
	Type        ValueType `json:"type" yaml:"type"`
	Min         *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// LegalBasis lists the laws and decrees backing a benefit.
type LegalBasis struct {
	Laws []string `json:"laws" yaml:"laws"`
}

// BenefitStatus tells whether a catalog entry is currently offered.
type BenefitStatus string

const (
	BenefitActive   BenefitStatus = "active"
	BenefitInactive BenefitStatus = "inactive"
)

// Benefit is one catalog entry.
type Benefit struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name" yaml:"name"`
	ShortDescription  string            `json:"shortDescription" yaml:"shortDescription"`
	Scope             Scope             `json:"scope" yaml:"scope"`
	State             string            `json:"state,omitempty" yaml:"state,omitempty"`
	MunicipalityIbge  string            `json:"municipalityIbge,omitempty" yaml:"municipalityIbge,omitempty"`
	ProgramCode       string            `json:"programCode,omitempty" yaml:"programCode,omitempty"`
	Category          string            `json:"category,omitempty" yaml:"category,omitempty"`
	EligibilityRules  []EligibilityRule `json:"eligibilityRules" yaml:"eligibilityRules"`
	EstimatedValue    *EstimatedValue   `json:"estimatedValue,omitempty" yaml:"estimatedValue,omitempty"`
	WhereToApply      string            `json:"whereToApply" yaml:"whereToApply"`
	DocumentsRequired []string          `json:"documentsRequired" yaml:"documentsRequired"`
	HowToApply        []string          `json:"howToApply,omitempty" yaml:"howToApply,omitempty"`
	LegalBasis        *LegalBasis       `json:"legalBasis,omitempty" yaml:"legalBasis,omitempty"`
	SourceURL         string            `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
	Status            BenefitStatus     `json:"status" yaml:"status"`
	Icon              string            `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Key is the identifier used to match "already receiving" indicators.
func (b Benefit) Key() string {
	if b.ProgramCode != "" {
		return b.ProgramCode
	}
	return b.ID
}

// IsActive reports whether the benefit is offered. An empty status counts as
// active so hand-written catalog files may omit it.
func (b Benefit) IsActive() bool {
	return b.Status != BenefitInactive
}
