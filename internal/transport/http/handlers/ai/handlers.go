package aihandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/core"
	"hrms/internal/domain/insights"
	"hrms/internal/domain/performance"
	"hrms/internal/domain/staffing"
	"hrms/internal/platform/ai"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

const serviceName = "ai-service"

const defaultCompanyContext = "HRMS Demo Company"

type Handler struct {
	AI          *ai.Client
	Audit       *audit.Service
	Metrics     *metrics.Collector
	Core        *core.Store
	Staffing    *staffing.Store
	Performance *performance.Store
}

func NewHandler(client *ai.Client, auditSvc *audit.Service, collector *metrics.Collector,
	coreStore *core.Store, staffingStore *staffing.Store, performanceStore *performance.Store) *Handler {
	return &Handler{
		AI:          client,
		Audit:       auditSvc,
		Metrics:     collector,
		Core:        coreStore,
		Staffing:    staffingStore,
		Performance: performanceStore,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/generate-onboarding", h.handleGenerateOnboarding)
		r.Get("/skills-match", h.handleSkillsMatch)
		r.Get("/perf-insight", h.handlePerfInsight)
		r.Get("/health", h.handleHealth)
	})
}

// recordCall writes the per-call audit row and feeds the AI counters.
// Auditing must never fail the route, so errors are only logged.
func (h *Handler) recordCall(r *http.Request, endpoint string, started time.Time, fallback bool, modelUsed string) {
	entry := audit.Entry{
		RequestID:  middleware.GetRequestID(r.Context()),
		Action:     "ai:" + endpoint,
		Endpoint:   r.URL.Path,
		Method:     r.Method,
		StatusCode: http.StatusOK,
		IPAddress:  r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		AICall: &audit.AICall{
			Service:    serviceName,
			Endpoint:   endpoint,
			DurationMs: time.Since(started).Milliseconds(),
			Fallback:   fallback,
			ModelUsed:  modelUsed,
		},
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		entry.UserID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("ai audit record failed", "endpoint", endpoint, "err", err)
	}
	if h.Metrics != nil {
		h.Metrics.RecordAICall(fallback)
	}
}

type generateOnboardingRequest struct {
	JobTitle       string         `json:"jobTitle"`
	JobDescription string         `json:"jobDescription"`
	CompanyContext string         `json:"companyContext"`
	Constraints    map[string]any `json:"constraints"`
}

func (h *Handler) handleGenerateOnboarding(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload generateOnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.JobTitle == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "jobTitle is required", reqID)
		return
	}
	if payload.CompanyContext == "" {
		payload.CompanyContext = defaultCompanyContext
	}
	if payload.Constraints == nil {
		payload.Constraints = map[string]any{"maxTasks": 12, "lang": "en", "format": "short"}
	}

	started := time.Now()
	result, err := h.AI.GenerateOnboarding(r.Context(), payload.JobTitle, payload.JobDescription,
		payload.CompanyContext, payload.Constraints)
	if err != nil {
		slog.Warn("ai generate-onboarding unavailable, using template", "err", err)
		h.recordCall(r, "generate-onboarding", started, true, "heuristic-fallback")
		api.Success(w, map[string]any{
			"fallback":  true,
			"tasks":     insights.FallbackChecklist(),
			"rationale": insights.FallbackChecklistRationale,
		}, reqID)
		return
	}

	h.recordCall(r, "generate-onboarding", started, false, "llm")
	api.Success(w, map[string]any{"fallback": false, "result": result}, reqID)
}

func (h *Handler) handleSkillsMatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "projectId is required", reqID)
		return
	}
	topK := insights.DefaultTopK
	if raw := r.URL.Query().Get("topK"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			topK = parsed
		}
	}

	project, err := h.Staffing.GetProject(r.Context(), projectID)
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "skills_match_failed", "failed to load project", reqID)
		return
	}

	started := time.Now()
	result, aiErr := h.AI.MatchSkills(r.Context(), project.ID, project.RequiredSkills, topK)
	if aiErr == nil {
		h.recordCall(r, "skills-match", started, false, "embedding-match")
		api.Success(w, map[string]any{"fallback": false, "project": project.Name, "result": result}, reqID)
		return
	}

	slog.Warn("ai skills-match unavailable, using token overlap", "err", aiErr)
	employees, err := h.Core.ListEmployees(r.Context(), core.EmployeeStatusActive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "skills_match_failed", "failed to load employees", reqID)
		return
	}

	candidates := insights.MatchCandidates(project.RequiredSkills, employees, topK)
	h.recordCall(r, "skills-match", started, true, "token-overlap")
	api.Success(w, map[string]any{
		"fallback":       true,
		"project":        project.Name,
		"requiredSkills": project.RequiredSkills,
		"matches":        candidates,
	}, reqID)
}

func (h *Handler) handlePerfInsight(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return
	}

	reviews, err := h.Performance.RecentReviewsByCreation(r.Context(), employeeID, 3)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "perf_insight_failed", "failed to load reviews", reqID)
		return
	}

	allocationPercent := insights.DefaultAllocationPercent
	employee, err := h.Core.GetEmployee(r.Context(), employeeID)
	if err == nil {
		allocationPercent = employee.CurrentAllocationPercent
	}

	started := time.Now()
	reviewPayloads := make([]map[string]any, 0, len(reviews))
	for _, review := range reviews {
		reviewPayloads = append(reviewPayloads, map[string]any{
			"averageScore": review.AverageScore,
			"periodEnd":    review.ReviewPeriod.EndDate,
		})
	}
	result, aiErr := h.AI.PerformanceInsight(r.Context(), employeeID, reviewPayloads, allocationPercent)
	if aiErr == nil {
		h.recordCall(r, "perf-insight", started, false, "ml-model")
		api.Success(w, map[string]any{"fallback": false, "result": result}, reqID)
		return
	}

	slog.Warn("ai perf-insight unavailable, using rule-based estimate", "err", aiErr)
	estimate := insights.EstimateAttritionRisk(reviews, allocationPercent)
	h.recordCall(r, "perf-insight", started, true, "rule-based")
	api.Success(w, map[string]any{"fallback": true, "insight": estimate}, reqID)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	stats, err := h.Audit.AIStats(r.Context(), time.Now().Add(-24*time.Hour))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ai_health_failed", "failed to aggregate ai stats", reqID)
		return
	}

	status := "ok"
	if _, err := h.AI.Health(r.Context()); err != nil {
		status = "unreachable"
	}

	api.Success(w, map[string]any{
		"service": serviceName,
		"baseUrl": h.AI.BaseURL(),
		"status":  status,
		"last24h": stats,
	}, reqID)
}
