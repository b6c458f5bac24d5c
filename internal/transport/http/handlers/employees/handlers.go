package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/recruitment"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *core.Store
}

func NewHandler(store *core.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireRole(auth.RoleHR)).Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employees, err := h.Store.ListEmployees(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

type createEmployeeRequest struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	JobTitle    string   `json:"jobTitle"`
	Department  string   `json:"department"`
	Skills      []string `json:"skills"`
	ManagerID   string   `json:"managerId"`
	Status      string   `json:"status"`
	PhoneNumber string   `json:"phoneNumber"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("jobTitle", payload.JobTitle, "job title is required")
	v.Required("department", payload.Department, "department is required")
	v.Enum("status", payload.Status,
		[]string{core.EmployeeStatusActive, core.EmployeeStatusOnboarding, core.EmployeeStatusInactive},
		"must be one of active, onboarding, inactive")
	if v.Reject(w, reqID) {
		return
	}

	password := payload.Password
	if password == "" {
		password = recruitment.DemoPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)),
		hash, auth.RoleEmployee, payload.FirstName, payload.LastName)
	if err != nil {
		api.Fail(w, http.StatusConflict, "employee_create_failed", "a user with this email already exists", reqID)
		return
	}

	highest, err := h.Store.HighestEmployeeNumber(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}

	employee, err := h.Store.CreateEmployee(r.Context(), core.CreateEmployeeParams{
		UserID:         user.ID,
		EmployeeNumber: recruitment.NextEmployeeNumber(highest),
		JobTitle:       payload.JobTitle,
		Department:     payload.Department,
		Skills:         payload.Skills,
		ManagerID:      payload.ManagerID,
		Status:         payload.Status,
		PhoneNumber:    payload.PhoneNumber,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}
	api.Created(w, employee, reqID)
}

type updateEmployeeRequest struct {
	JobTitle    *string                 `json:"jobTitle"`
	Department  *string                 `json:"department"`
	Skills      []string                `json:"skills"`
	ManagerID   *string                 `json:"managerId"`
	Status      *string                 `json:"status"`
	PhoneNumber *string                 `json:"phoneNumber"`
	Attendance  []attendanceRecordInput `json:"attendance"`
}

type attendanceRecordInput struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload updateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.Status != nil {
		v.Enum("status", *payload.Status,
			[]string{core.EmployeeStatusActive, core.EmployeeStatusOnboarding, core.EmployeeStatusInactive},
			"must be one of active, onboarding, inactive")
	}

	params := core.UpdateEmployeeParams{
		JobTitle:    payload.JobTitle,
		Department:  payload.Department,
		Skills:      payload.Skills,
		ManagerID:   payload.ManagerID,
		Status:      payload.Status,
		PhoneNumber: payload.PhoneNumber,
	}
	if payload.Attendance != nil {
		records := make([]core.AttendanceRecord, 0, len(payload.Attendance))
		for _, record := range payload.Attendance {
			v.Enum("attendance.status", record.Status,
				[]string{core.AttendancePresent, core.AttendanceLate, core.AttendanceAbsent},
				"must be one of Present, Late, Absent")
			parsed, err := shared.ParseDate(record.Date)
			if err != nil || parsed.IsZero() {
				v.Add("attendance.date", "must be a valid date in YYYY-MM-DD format")
				continue
			}
			records = append(records, core.AttendanceRecord{Date: parsed, Status: record.Status})
		}
		params.Attendance = records
	}
	if v.Reject(w, reqID) {
		return
	}

	employee, err := h.Store.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), params)
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true, "deletedAt": time.Now().UTC()}, reqID)
}
