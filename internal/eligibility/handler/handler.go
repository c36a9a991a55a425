package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
	"beneficios/pkg/platform/httputil"
	"beneficios/pkg/requestcontext"
	"beneficios/pkg/validation"
)

//go:generate mockgen -source=handler.go -destination=mocks/eligibility-mocks.go -package=mocks Service

// Service defines the eligibility operations exposed over HTTP.
type Service interface {
	EvaluateAll(ctx context.Context, profile *models.CitizenProfile) (*models.EvaluationSummary, error)
	EvaluateBenefit(ctx context.Context, profile *models.CitizenProfile, benefitID string) (*models.EligibilityResult, error)
	Criteria(ctx context.Context, benefitID string, profile *models.CitizenProfile) (*models.BenefitCriteria, error)
	ListBenefits(ctx context.Context, uf string) []models.Benefit
}

// Handler handles eligibility endpoints.
type Handler struct {
	logger      *slog.Logger
	eligibility Service
}

// New creates a new eligibility Handler.
func New(eligibility Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		eligibility: eligibility,
	}
}

// Register registers the eligibility routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/eligibility/evaluate", h.HandleEvaluate)
	r.Get("/eligibility/benefits", h.HandleListBenefits)
	r.Post("/eligibility/benefits/{id}/evaluate", h.HandleEvaluateBenefit)
	r.Get("/eligibility/benefits/{id}/criteria", h.HandleCriteria)
	r.Post("/eligibility/benefits/{id}/criteria", h.HandleCriteria)
}

// HandleEvaluate evaluates the whole catalog for the posted profile.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.eligibility.EvaluateAll(ctx, req.Profile)
	if err != nil {
		h.logFailure(ctx, "failed to evaluate catalog", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "catalog evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"analyzed", summary.TotalAnalyzed,
		"eligible", len(summary.Eligible),
		"likely_eligible", len(summary.LikelyEligible),
		"skipped", len(summary.Skipped),
	)
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleEvaluateBenefit evaluates one benefit for the posted profile.
func (h *Handler) HandleEvaluateBenefit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	benefitID, ok := h.benefitID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.eligibility.EvaluateBenefit(ctx, req.Profile, benefitID)
	if err != nil {
		h.logFailure(ctx, "failed to evaluate benefit", err, "benefit_id", benefitID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleCriteria returns the benefit's criteria grouped for display. GET
// reports every criterion as pending; POST with a profile reports each one
// as met, not met or inconclusive.
func (h *Handler) HandleCriteria(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	benefitID, ok := h.benefitID(w, r)
	if !ok {
		return
	}

	var profile *models.CitizenProfile
	if r.Method == http.MethodPost {
		req, ok := httputil.DecodeAndPrepare[CriteriaRequest](w, r, h.logger)
		if !ok {
			return
		}
		profile = req.Profile
	}

	view, err := h.eligibility.Criteria(ctx, benefitID, profile)
	if err != nil {
		h.logFailure(ctx, "failed to build criteria", err, "benefit_id", benefitID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleListBenefits lists the active catalog, optionally narrowed to what a
// citizen of ?estado= can be offered.
func (h *Handler) HandleListBenefits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uf := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("estado")))
	if uf != "" && !validation.IsStateCode(uf) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid estado filter"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toListResponse(h.eligibility.ListBenefits(ctx, uf)))
}

func (h *Handler) benefitID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "benefit id is required"))
		return "", false
	}
	if err := validation.CheckStringLength("benefit id", id, validation.MaxBenefitIDLength); err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return id, true
}

// logFailure logs client-caused failures at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "request_id", requestcontext.RequestID(ctx), "error", err)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNotFound, dErrors.CodeBadRequest, dErrors.CodeValidation:
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
}
