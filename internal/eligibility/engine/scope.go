package engine

import (
	"strings"

	"beneficios/internal/eligibility/models"
)

// Applies reports whether the benefit is offered to the citizen's location and
// currently active. Federal and sectoral benefits apply everywhere; state
// benefits need a matching estado; municipal benefits need a matching estado
// and municipioIbge. A profile that does not say where the citizen lives only
// sees federal and sectoral benefits.
func Applies(profile *models.CitizenProfile, benefit models.Benefit) bool {
	if !benefit.IsActive() {
		return false
	}
	switch benefit.Scope {
	case models.ScopeState:
		return profile != nil && sameState(benefit.State, profile.Estado)
	case models.ScopeMunicipal:
		if profile == nil || !sameState(benefit.State, profile.Estado) {
			return false
		}
		m := strings.TrimSpace(profile.MunicipioIbge)
		return m != "" && m == strings.TrimSpace(benefit.MunicipalityIbge)
	default:
		return true
	}
}

func sameState(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
