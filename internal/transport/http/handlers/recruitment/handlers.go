package recruitmenthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/recruitment"
	"hrms/internal/platform/ai"
	"hrms/internal/platform/config"
	"hrms/internal/platform/email"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Store  *recruitment.Store
	Core   *core.Store
	AI     *ai.Client
	Audit  *audit.Service
	Mailer email.Mailer
	Cfg    config.Config
}

func NewHandler(store *recruitment.Store, coreStore *core.Store, client *ai.Client,
	auditSvc *audit.Service, mailer email.Mailer, cfg config.Config) *Handler {
	return &Handler{Store: store, Core: coreStore, AI: client, Audit: auditSvc, Mailer: mailer, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recruitment", func(r chi.Router) {
		r.Get("/jobs", h.handleListJobs)
		r.Get("/jobs/{jobID}", h.handleGetJob)
		r.Get("/resumes", h.handleListResumes)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/generate-profile", h.handleGenerateProfile)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/find-matches", h.handleFindMatches)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/generate-questions", h.handleGenerateQuestions)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/hire", h.handleHire)
	})
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	jobs, err := h.Store.ListOpenJobs(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_list_failed", "failed to list job openings", reqID)
		return
	}
	api.Success(w, jobs, reqID)
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	job, err := h.Store.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if errors.Is(err, recruitment.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "job opening not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_get_failed", "failed to load job opening", reqID)
		return
	}
	api.Success(w, job, reqID)
}

func (h *Handler) handleListResumes(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	resumes, err := h.Store.ListResumes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resume_list_failed", "failed to list resumes", reqID)
		return
	}
	api.Success(w, resumes, reqID)
}

func jobPayload(job *recruitment.JobOpening) map[string]any {
	return map[string]any{
		"title":           job.Title,
		"department":      job.Department,
		"description":     job.Description,
		"required_skills": job.RequiredSkills,
	}
}

func resumePayload(resume *recruitment.MockResume) map[string]any {
	return map[string]any{
		"id":               resume.ID,
		"name":             resume.Name,
		"resume_text":      resume.ResumeText,
		"skills":           resume.Skills,
		"experience_years": resume.ExperienceYears,
		"education":        resume.Education,
	}
}

// loadJob resolves the jobId from a request payload, writing the
// failure response itself when the job is absent or missing.
func (h *Handler) loadJob(w http.ResponseWriter, r *http.Request, jobID, reqID string) (*recruitment.JobOpening, bool) {
	if jobID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "jobId is required", reqID)
		return nil, false
	}
	job, err := h.Store.GetJob(r.Context(), jobID)
	if errors.Is(err, recruitment.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "job opening not found", reqID)
		return nil, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_get_failed", "failed to load job opening", reqID)
		return nil, false
	}
	return job, true
}

func (h *Handler) recordAICall(r *http.Request, endpoint string, started time.Time, succeeded bool) {
	entry := audit.Entry{
		RequestID:  middleware.GetRequestID(r.Context()),
		Action:     "ai:" + endpoint,
		Endpoint:   r.URL.Path,
		Method:     r.Method,
		StatusCode: http.StatusOK,
		IPAddress:  r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		AICall: &audit.AICall{
			Service:    "ai-service",
			Endpoint:   endpoint,
			DurationMs: time.Since(started).Milliseconds(),
			Fallback:   !succeeded,
			ModelUsed:  "llm",
		},
	}
	if !succeeded {
		entry.StatusCode = http.StatusInternalServerError
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		entry.UserID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("recruitment audit record failed", "endpoint", endpoint, "err", err)
	}
}

type jobRequest struct {
	JobID string `json:"jobId"`
}

func (h *Handler) handleGenerateProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload jobRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	job, ok := h.loadJob(w, r, payload.JobID, reqID)
	if !ok {
		return
	}

	started := time.Now()
	result, err := h.AI.GenerateIdealProfile(r.Context(), jobPayload(job))
	h.recordAICall(r, "generate-profile", started, err == nil)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ai_unavailable", "profile generation service is unavailable", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleFindMatches(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload jobRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	job, ok := h.loadJob(w, r, payload.JobID, reqID)
	if !ok {
		return
	}

	resumes, err := h.Store.ListResumes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resume_list_failed", "failed to list resumes", reqID)
		return
	}
	resumePayloads := make([]map[string]any, 0, len(resumes))
	for i := range resumes {
		resumePayloads = append(resumePayloads, resumePayload(&resumes[i]))
	}

	started := time.Now()
	result, err := h.AI.RankResumes(r.Context(), jobPayload(job), resumePayloads)
	h.recordAICall(r, "find-matches", started, err == nil)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ai_unavailable", "candidate matching service is unavailable", reqID)
		return
	}
	api.Success(w, result, reqID)
}

type questionsRequest struct {
	JobID        string `json:"jobId"`
	MockResumeID string `json:"mockResumeId"`
}

func (h *Handler) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload questionsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	job, ok := h.loadJob(w, r, payload.JobID, reqID)
	if !ok {
		return
	}
	if payload.MockResumeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "mockResumeId is required", reqID)
		return
	}
	resume, err := h.Store.GetResume(r.Context(), payload.MockResumeID)
	if errors.Is(err, recruitment.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "resume not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resume_get_failed", "failed to load resume", reqID)
		return
	}

	started := time.Now()
	result, err := h.AI.GenerateQuestions(r.Context(), jobPayload(job), resumePayload(resume))
	h.recordAICall(r, "generate-questions", started, err == nil)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ai_unavailable", "question generation service is unavailable", reqID)
		return
	}
	api.Success(w, result, reqID)
}

type hireRequest struct {
	MockResumeID string `json:"mockResumeId"`
	JobID        string `json:"jobId"`
}

func (h *Handler) handleHire(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload hireRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.MockResumeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "mockResumeId is required", reqID)
		return
	}

	resume, err := h.Store.GetResume(r.Context(), payload.MockResumeID)
	if errors.Is(err, recruitment.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "resume not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hire_failed", "failed to load resume", reqID)
		return
	}

	jobTitle := "Software Engineer"
	department := "Engineering"
	if payload.JobID != "" {
		if job, err := h.Store.GetJob(r.Context(), payload.JobID); err == nil {
			jobTitle = job.Title
			department = job.Department
		}
	}

	hash, err := auth.HashPassword(recruitment.DemoPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hire_failed", "failed to hire candidate", reqID)
		return
	}

	firstName, lastName := recruitment.SplitName(resume.Name)
	user, err := h.Core.CreateUser(r.Context(), resume.Email, hash, auth.RoleEmployee, firstName, lastName)
	if err != nil {
		api.Fail(w, http.StatusConflict, "hire_failed", "a user with this email already exists", reqID)
		return
	}

	highest, err := h.Core.HighestEmployeeNumber(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hire_failed", "failed to hire candidate", reqID)
		return
	}
	employeeNumber := recruitment.NextEmployeeNumber(highest)

	employee, err := h.Core.CreateEmployee(r.Context(), core.CreateEmployeeParams{
		UserID:         user.ID,
		EmployeeNumber: employeeNumber,
		JobTitle:       jobTitle,
		Department:     department,
		Skills:         resume.Skills,
		Status:         core.EmployeeStatusOnboarding,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hire_failed", "failed to hire candidate", reqID)
		return
	}

	// Mail delivery is best-effort; the hire stands even if SMTP is down.
	body := email.WelcomeBody(firstName, employeeNumber, jobTitle)
	if err := h.Mailer.Send(r.Context(), h.Cfg.EmailFrom, resume.Email, "Welcome to the team", body); err != nil {
		slog.Warn("welcome mail failed", "employeeNumber", employeeNumber, "err", err)
	}

	api.Created(w, employee, reqID)
}
