package handler

import "beneficios/internal/eligibility/models"

// BenefitListing is the catalog entry shown in listings, without rules.
type BenefitListing struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription string                 `json:"shortDescription,omitempty"`
	Scope            models.Scope           `json:"scope"`
	State            string                 `json:"state,omitempty"`
	MunicipalityIbge string                 `json:"municipalityIbge,omitempty"`
	Category         string                 `json:"category,omitempty"`
	EstimatedValue   *models.EstimatedValue `json:"estimatedValue,omitempty"`
	Icon             string                 `json:"icon,omitempty"`
}

// ListResponse is the body of GET /eligibility/benefits.
type ListResponse struct {
	Benefits []BenefitListing `json:"benefits"`
	Total    int              `json:"total"`
}

func toListResponse(benefits []models.Benefit) ListResponse {
	out := make([]BenefitListing, 0, len(benefits))
	for _, b := range benefits {
		out = append(out, BenefitListing{
			ID:               b.ID,
			Name:             b.Name,
			ShortDescription: b.ShortDescription,
			Scope:            b.Scope,
			State:            b.State,
			MunicipalityIbge: b.MunicipalityIbge,
			Category:         b.Category,
			EstimatedValue:   b.EstimatedValue,
			Icon:             b.Icon,
		})
	}
	return ListResponse{Benefits: out, Total: len(out)}
}
