package onboardinghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/onboarding"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *onboarding.Store
}

func NewHandler(store *onboarding.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.Get("/employee/{employeeID}", h.handleListByEmployee)
		r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Post("/bulk", h.handleBulkCreate)
		r.Route("/{taskID}", func(r chi.Router) {
			r.Patch("/", h.handleUpdate)
			r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Delete("/", h.handleDelete)
		})
	})
}

var taskStatuses = []string{
	onboarding.StatusPending,
	onboarding.StatusInProgress,
	onboarding.StatusCompleted,
}

func (h *Handler) handleListByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	tasks, err := h.Store.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_list_failed", "failed to list onboarding tasks", reqID)
		return
	}
	api.Success(w, tasks, reqID)
}

type createTaskRequest struct {
	EmployeeID    string `json:"employeeId"`
	Phase         string `json:"phase"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Duration      string `json:"duration"`
	Status        string `json:"status"`
	DueDate       string `json:"dueDate"`
	StartDate     string `json:"startDate"`
	AssignedTo    string `json:"assignedTo"`
	GeneratedByAI bool   `json:"generatedByAI"`
	Order         int    `json:"order"`
}

func (in createTaskRequest) toParams(v *shared.Validator) onboarding.CreateTaskParams {
	v.Required("employeeId", in.EmployeeID, "employee id is required")
	v.Required("title", in.Title, "title is required")
	v.Enum("phase", in.Phase, onboarding.Phases, "must be one of day1, week1, month1, month3")
	v.Required("phase", in.Phase, "phase is required")
	v.Enum("status", in.Status, taskStatuses, "must be one of pending, in_progress, completed")

	params := onboarding.CreateTaskParams{
		EmployeeID:    in.EmployeeID,
		Phase:         in.Phase,
		Title:         in.Title,
		Description:   in.Description,
		Duration:      in.Duration,
		Status:        in.Status,
		AssignedTo:    in.AssignedTo,
		GeneratedByAI: in.GeneratedByAI,
		Order:         in.Order,
	}
	dueDate, err := shared.ParseOptionalDate(in.DueDate)
	if err != nil {
		v.Add("dueDate", "must be a valid date in YYYY-MM-DD format")
	}
	params.DueDate = dueDate
	startDate, err := shared.ParseOptionalDate(in.StartDate)
	if err != nil {
		v.Add("startDate", "must be a valid date in YYYY-MM-DD format")
	}
	params.StartDate = startDate
	return params
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	params := payload.toParams(v)
	if v.Reject(w, reqID) {
		return
	}

	task, err := h.Store.CreateTask(r.Context(), params)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_create_failed", "failed to create onboarding task", reqID)
		return
	}
	api.Created(w, task, reqID)
}

type bulkCreateRequest struct {
	EmployeeID string              `json:"employeeId"`
	Tasks      []createTaskRequest `json:"tasks"`
}

func (h *Handler) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload bulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if len(payload.Tasks) == 0 {
		v.Add("tasks", "at least one task is required")
	}
	params := make([]onboarding.CreateTaskParams, 0, len(payload.Tasks))
	for _, task := range payload.Tasks {
		task.EmployeeID = payload.EmployeeID
		params = append(params, task.toParams(v))
	}
	if v.Reject(w, reqID) {
		return
	}

	tasks, err := h.Store.BulkCreate(r.Context(), payload.EmployeeID, params)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_bulk_failed", "failed to create onboarding tasks", reqID)
		return
	}
	api.Created(w, tasks, reqID)
}

type updateTaskRequest struct {
	Phase       *string `json:"phase"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *string `json:"duration"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
	StartDate   *string `json:"startDate"`
	CompletedAt *string `json:"completedAt"`
	AssignedTo  *string `json:"assignedTo"`
	Order       *int    `json:"order"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.Phase != nil {
		v.Enum("phase", *payload.Phase, onboarding.Phases, "must be one of day1, week1, month1, month3")
	}
	if payload.Status != nil {
		v.Enum("status", *payload.Status, taskStatuses, "must be one of pending, in_progress, completed")
	}

	params := onboarding.UpdateTaskParams{
		Phase:       payload.Phase,
		Title:       payload.Title,
		Description: payload.Description,
		Duration:    payload.Duration,
		Status:      payload.Status,
		AssignedTo:  payload.AssignedTo,
		Order:       payload.Order,
	}
	if payload.DueDate != nil {
		parsed, err := shared.ParseOptionalDate(*payload.DueDate)
		if err != nil {
			v.Add("dueDate", "must be a valid date in YYYY-MM-DD format")
		}
		params.DueDate = parsed
	}
	if payload.StartDate != nil {
		parsed, err := shared.ParseOptionalDate(*payload.StartDate)
		if err != nil {
			v.Add("startDate", "must be a valid date in YYYY-MM-DD format")
		}
		params.StartDate = parsed
	}
	if payload.CompletedAt != nil {
		parsed, err := shared.ParseOptionalDate(*payload.CompletedAt)
		if err != nil {
			v.Add("completedAt", "must be a valid date in YYYY-MM-DD format")
		}
		params.CompletedAt = parsed
	}
	if v.Reject(w, reqID) {
		return
	}

	task, err := h.Store.UpdateTask(r.Context(), chi.URLParam(r, "taskID"), params)
	if errors.Is(err, onboarding.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "onboarding task not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_update_failed", "failed to update onboarding task", reqID)
		return
	}
	api.Success(w, task, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	err := h.Store.DeleteTask(r.Context(), chi.URLParam(r, "taskID"))
	if errors.Is(err, onboarding.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "onboarding task not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_delete_failed", "failed to delete onboarding task", reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}
