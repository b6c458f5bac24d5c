package projectshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/staffing"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *staffing.Store
}

func NewHandler(store *staffing.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Post("/", h.handleCreate)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireRole(auth.RoleHR)).Delete("/", h.handleDelete)
		})
	})
}

var projectStatuses = []string{
	staffing.ProjectStatusPlanning,
	staffing.ProjectStatusActive,
	staffing.ProjectStatusCompleted,
	staffing.ProjectStatusOnHold,
}

var projectPriorities = []string{"low", "medium", "high", "critical"}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_list_failed", "failed to list projects", reqID)
		return
	}
	api.Success(w, projects, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	project, err := h.Store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_get_failed", "failed to load project", reqID)
		return
	}
	api.Success(w, project, reqID)
}

type createProjectRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	ManagerID      string   `json:"managerId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "project name is required")
	v.Enum("status", payload.Status, projectStatuses, "must be one of planning, active, completed, on_hold")
	v.Enum("priority", payload.Priority, projectPriorities, "must be one of low, medium, high, critical")

	startDate, err := shared.ParseOptionalDate(payload.StartDate)
	if err != nil {
		v.Add("startDate", "must be a valid date in YYYY-MM-DD format")
	}
	endDate, err := shared.ParseOptionalDate(payload.EndDate)
	if err != nil {
		v.Add("endDate", "must be a valid date in YYYY-MM-DD format")
	}
	if startDate != nil && endDate != nil {
		v.DateOrder("startDate", *startDate, "endDate", *endDate)
	}
	if v.Reject(w, reqID) {
		return
	}

	highest, err := h.Store.HighestProjectNumber(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_create_failed", "failed to create project", reqID)
		return
	}

	project, err := h.Store.CreateProject(r.Context(), staffing.CreateProjectParams{
		ProjectNumber:  staffing.NextProjectNumber(highest),
		Name:           payload.Name,
		Description:    payload.Description,
		RequiredSkills: payload.RequiredSkills,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         payload.Status,
		Priority:       payload.Priority,
		ManagerID:      payload.ManagerID,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_create_failed", "failed to create project", reqID)
		return
	}
	api.Created(w, project, reqID)
}

type updateProjectRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	ManagerID      *string  `json:"managerId"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.Status != nil {
		v.Enum("status", *payload.Status, projectStatuses, "must be one of planning, active, completed, on_hold")
	}
	if payload.Priority != nil {
		v.Enum("priority", *payload.Priority, projectPriorities, "must be one of low, medium, high, critical")
	}

	params := staffing.UpdateProjectParams{
		Name:           payload.Name,
		Description:    payload.Description,
		RequiredSkills: payload.RequiredSkills,
		Status:         payload.Status,
		Priority:       payload.Priority,
		ManagerID:      payload.ManagerID,
	}
	if payload.StartDate != nil {
		parsed, err := shared.ParseOptionalDate(*payload.StartDate)
		if err != nil {
			v.Add("startDate", "must be a valid date in YYYY-MM-DD format")
		}
		params.StartDate = parsed
	}
	if payload.EndDate != nil {
		parsed, err := shared.ParseOptionalDate(*payload.EndDate)
		if err != nil {
			v.Add("endDate", "must be a valid date in YYYY-MM-DD format")
		}
		params.EndDate = parsed
	}
	if v.Reject(w, reqID) {
		return
	}

	project, err := h.Store.UpdateProject(r.Context(), chi.URLParam(r, "projectID"), params)
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_update_failed", "failed to update project", reqID)
		return
	}
	api.Success(w, project, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	err := h.Store.DeleteProject(r.Context(), chi.URLParam(r, "projectID"))
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_delete_failed", "failed to delete project", reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}
