// Package catalog holds the benefit catalog: an immutable, validated list of
// benefits loaded once per process and shared read-only by every evaluation.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"

	"beneficios/internal/eligibility/engine"
	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
)

// Catalog is safe for concurrent use; nothing mutates it after New.
type Catalog struct {
	benefits []models.Benefit
	byID     map[string]int
	version  string
}

// New validates every benefit and builds the catalog. Duplicate ids and
// benefits with configuration errors fail the whole catalog, with every
// problem joined into one CodeConfiguration error.
func New(benefits []models.Benefit) (*Catalog, error) {
	c := &Catalog{
		benefits: make([]models.Benefit, 0, len(benefits)),
		byID:     make(map[string]int, len(benefits)),
	}

	var errs []error
	for _, b := range benefits {
		if err := engine.ValidateBenefit(b); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[b.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate benefit id %q", b.ID))
			continue
		}
		c.byID[b.ID] = len(c.benefits)
		c.benefits = append(c.benefits, cloneBenefit(b))
	}
	if len(errs) > 0 {
		joined := errors.Join(errs...)
		return nil, &dErrors.Error{
			Code:    dErrors.CodeConfiguration,
			Message: fmt.Sprintf("invalid catalog (%d problems): %v", len(errs), joined),
			Err:     joined,
		}
	}

	version, err := fingerprint(c.benefits)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint catalog")
	}
	c.version = version
	return c, nil
}

// Benefits returns a copy of the catalog entries in declaration order.
func (c *Catalog) Benefits() []models.Benefit {
	out := make([]models.Benefit, len(c.benefits))
	for i, b := range c.benefits {
		out[i] = cloneBenefit(b)
	}
	return out
}

// Get returns a copy of the benefit with the given id.
func (c *Catalog) Get(id string) (models.Benefit, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return models.Benefit{}, false
	}
	return cloneBenefit(c.benefits[i]), true
}

// Len returns the number of benefits, active or not.
func (c *Catalog) Len() int {
	return len(c.benefits)
}

// Version is a content hash of the catalog. Two catalogs with the same
// benefits in the same order share a version; cached summaries are keyed by it.
func (c *Catalog) Version() string {
	return c.version
}

// ForState lists active benefits offered to a citizen of the given state:
// every federal and sectoral benefit plus the state's own state and
// municipal ones. An empty uf lists everything active.
func (c *Catalog) ForState(uf string) []models.Benefit {
	uf = strings.TrimSpace(uf)
	out := make([]models.Benefit, 0, len(c.benefits))
	for _, b := range c.benefits {
		if !b.IsActive() {
			continue
		}
		if uf != "" && (b.Scope == models.ScopeState || b.Scope == models.ScopeMunicipal) &&
			!strings.EqualFold(b.State, uf) {
			continue
		}
		out = append(out, cloneBenefit(b))
	}
	return out
}

func fingerprint(benefits []models.Benefit) (string, error) {
	data, err := json.Marshal(benefits)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func cloneBenefit(b models.Benefit) models.Benefit {
	b.EligibilityRules = slices.Clone(b.EligibilityRules)
	b.DocumentsRequired = slices.Clone(b.DocumentsRequired)
	b.HowToApply = slices.Clone(b.HowToApply)
	if b.EstimatedValue != nil {
		ev := *b.EstimatedValue
		if ev.Min != nil {
			v := *ev.Min
			ev.Min = &v
		}
		if ev.Max != nil {
			v := *ev.Max
			ev.Max = &v
		}
		b.EstimatedValue = &ev
	}
	if b.LegalBasis != nil {
		b.LegalBasis = &models.LegalBasis{Laws: slices.Clone(b.LegalBasis.Laws)}
	}
	return b
}
