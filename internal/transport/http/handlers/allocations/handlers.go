package allocationshandler

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
	r.Route("/allocations", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Post("/", h.handleCreate)
		r.Route("/{allocationID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Delete("/", h.handleDelete)
		})
	})
}

var allocationStatuses = []string{
	staffing.AllocationStatusPlanned,
	staffing.AllocationStatusActive,
	staffing.AllocationStatusCompleted,
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	query := r.URL.Query()
	allocations, err := h.Store.ListAllocations(r.Context(), staffing.AllocationFilter{
		EmployeeID: query.Get("employeeId"),
		ProjectID:  query.Get("projectId"),
		Status:     query.Get("status"),
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "allocation_list_failed", "failed to list allocations", reqID)
		return
	}
	api.Success(w, allocations, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	allocation, err := h.Store.GetAllocation(r.Context(), chi.URLParam(r, "allocationID"))
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "allocation not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "allocation_get_failed", "failed to load allocation", reqID)
		return
	}
	api.Success(w, allocation, reqID)
}

type createAllocationRequest struct {
	EmployeeID        string   `json:"employeeId"`
	ProjectID         string   `json:"projectId"`
	AllocationPercent int      `json:"allocationPercent"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	Role              string   `json:"role"`
	Status            string   `json:"status"`
	MatchScore        *float64 `json:"matchScore"`
	MatchExplanation  *string  `json:"matchExplanation"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("projectId", payload.ProjectID, "project id is required")
	v.IntRange("allocationPercent", payload.AllocationPercent, 0, 100)
	v.Enum("status", payload.Status, allocationStatuses, "must be one of planned, active, completed")

	startDate, err := shared.ParseOptionalDate(payload.StartDate)
	if err != nil {
		v.Add("startDate", "must be a valid date in YYYY-MM-DD format")
	}
	endDate, err := shared.ParseOptionalDate(payload.EndDate)
	if err != nil {
		v.Add("endDate", "must be a valid date in YYYY-MM-DD format")
	}
	if v.Reject(w, reqID) {
		return
	}

	allocation, err := h.Store.CreateAllocation(r.Context(), staffing.CreateAllocationParams{
		EmployeeID:        payload.EmployeeID,
		ProjectID:         payload.ProjectID,
		AllocationPercent: payload.AllocationPercent,
		StartDate:         startDate,
		EndDate:           endDate,
		Role:              payload.Role,
		Status:            payload.Status,
		MatchScore:        payload.MatchScore,
		MatchExplanation:  payload.MatchExplanation,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "allocation_create_failed", "failed to create allocation", reqID)
		return
	}
	api.Created(w, allocation, reqID)
}

type updateAllocationRequest struct {
	EmployeeID        *string `json:"employeeId"`
	ProjectID         *string `json:"projectId"`
	AllocationPercent *int    `json:"allocationPercent"`
	StartDate         *string `json:"startDate"`
	EndDate           *string `json:"endDate"`
	Role              *string `json:"role"`
	Status            *string `json:"status"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload updateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.EmployeeID != nil {
		v.Required("employeeId", *payload.EmployeeID, "employee id must not be empty")
	}
	if payload.ProjectID != nil {
		v.Required("projectId", *payload.ProjectID, "project id must not be empty")
	}
	if payload.AllocationPercent != nil {
		v.IntRange("allocationPercent", *payload.AllocationPercent, 0, 100)
	}
	if payload.Status != nil {
		v.Enum("status", *payload.Status, allocationStatuses, "must be one of planned, active, completed")
	}

	params := staffing.UpdateAllocationParams{
		EmployeeID:        payload.EmployeeID,
		ProjectID:         payload.ProjectID,
		AllocationPercent: payload.AllocationPercent,
		Role:              payload.Role,
		Status:            payload.Status,
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

	allocation, err := h.Store.UpdateAllocation(r.Context(), chi.URLParam(r, "allocationID"), params)
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "allocation not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "allocation_update_failed", "failed to update allocation", reqID)
		return
	}
	api.Success(w, allocation, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	err := h.Store.DeleteAllocation(r.Context(), chi.URLParam(r, "allocationID"))
	if errors.Is(err, staffing.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "allocation not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "allocation_delete_failed", "failed to delete allocation", reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}
