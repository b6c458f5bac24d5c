package performancehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/performance"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *performance.Store
}

func NewHandler(store *performance.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Post("/", h.handleCreate)
		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(auth.RoleHR, auth.RoleManager)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireRole(auth.RoleHR)).Delete("/", h.handleDelete)
		})
	})
}

var reviewStatuses = []string{
	performance.ReviewStatusDraft,
	performance.ReviewStatusSubmitted,
	performance.ReviewStatusReviewed,
	performance.ReviewStatusFinalized,
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	query := r.URL.Query()
	reviews, err := h.Store.ListReviews(r.Context(), performance.ReviewFilter{
		EmployeeID: query.Get("employeeId"),
		Status:     query.Get("status"),
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_list_failed", "failed to list reviews", reqID)
		return
	}
	api.Success(w, reviews, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	review, err := h.Store.GetReview(r.Context(), chi.URLParam(r, "reviewID"))
	if errors.Is(err, performance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "review not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_get_failed", "failed to load review", reqID)
		return
	}
	api.Success(w, review, reqID)
}

type scoresInput struct {
	Technical     *int `json:"technical"`
	Communication *int `json:"communication"`
	Teamwork      *int `json:"teamwork"`
	Leadership    *int `json:"leadership"`
	Initiative    *int `json:"initiative"`
}

func (in *scoresInput) validate(v *shared.Validator) {
	check := func(field string, value *int) {
		if value != nil {
			v.IntRange("scores."+field, *value, 1, 5)
		}
	}
	check("technical", in.Technical)
	check("communication", in.Communication)
	check("teamwork", in.Teamwork)
	check("leadership", in.Leadership)
	check("initiative", in.Initiative)
}

// mergeInto overlays the provided dimensions onto base, leaving the
// rest intact. The store recomputes the stored average from the merged
// result, so a partial score update can never leave a stale average
// behind.
func (in *scoresInput) mergeInto(base performance.Scores) performance.Scores {
	if in.Technical != nil {
		base.Technical = *in.Technical
	}
	if in.Communication != nil {
		base.Communication = *in.Communication
	}
	if in.Teamwork != nil {
		base.Teamwork = *in.Teamwork
	}
	if in.Leadership != nil {
		base.Leadership = *in.Leadership
	}
	if in.Initiative != nil {
		base.Initiative = *in.Initiative
	}
	return base
}

type createReviewRequest struct {
	EmployeeID   string `json:"employeeId"`
	ReviewerID   string `json:"reviewerId"`
	ReviewPeriod struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"reviewPeriod"`
	Scores              scoresInput `json:"scores"`
	Strengths           string      `json:"strengths"`
	AreasForImprovement string      `json:"areasForImprovement"`
	Goals               string      `json:"goals"`
	Status              string      `json:"status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("reviewerId", payload.ReviewerID, "reviewer id is required")
	v.Enum("status", payload.Status, reviewStatuses, "must be one of draft, submitted, reviewed, finalized")
	periodStart, startOK := v.Date("reviewPeriod.startDate", payload.ReviewPeriod.StartDate)
	periodEnd, endOK := v.Date("reviewPeriod.endDate", payload.ReviewPeriod.EndDate)
	if startOK && endOK {
		v.DateOrder("reviewPeriod.startDate", periodStart, "reviewPeriod.endDate", periodEnd)
	}
	payload.Scores.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	review, err := h.Store.CreateReview(r.Context(), performance.CreateReviewParams{
		EmployeeID:  payload.EmployeeID,
		ReviewerID:  payload.ReviewerID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Scores:      payload.Scores.mergeInto(performance.Scores{}),
		Strengths:   payload.Strengths,
		Areas:       payload.AreasForImprovement,
		Goals:       payload.Goals,
		Status:      payload.Status,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_create_failed", "failed to create review", reqID)
		return
	}
	api.Created(w, review, reqID)
}

type updateReviewRequest struct {
	ReviewPeriod *struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"reviewPeriod"`
	Scores              *scoresInput `json:"scores"`
	Strengths           *string      `json:"strengths"`
	AreasForImprovement *string      `json:"areasForImprovement"`
	Goals               *string      `json:"goals"`
	Status              *string      `json:"status"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	existing, err := h.Store.GetReview(r.Context(), chi.URLParam(r, "reviewID"))
	if errors.Is(err, performance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "review not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_update_failed", "failed to update review", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.Status != nil {
		v.Enum("status", *payload.Status, reviewStatuses, "must be one of draft, submitted, reviewed, finalized")
	}

	params := performance.UpdateReviewParams{
		Strengths: payload.Strengths,
		Areas:     payload.AreasForImprovement,
		Goals:     payload.Goals,
		Status:    payload.Status,
	}
	if payload.ReviewPeriod != nil {
		periodStart, startOK := v.Date("reviewPeriod.startDate", payload.ReviewPeriod.StartDate)
		periodEnd, endOK := v.Date("reviewPeriod.endDate", payload.ReviewPeriod.EndDate)
		if startOK && endOK {
			v.DateOrder("reviewPeriod.startDate", periodStart, "reviewPeriod.endDate", periodEnd)
			params.PeriodStart = &periodStart
			params.PeriodEnd = &periodEnd
		}
	}
	if payload.Scores != nil {
		payload.Scores.validate(v)
		merged := payload.Scores.mergeInto(existing.Scores)
		params.Scores = &merged
	}
	if v.Reject(w, reqID) {
		return
	}

	review, err := h.Store.UpdateReview(r.Context(), existing.ID, params)
	if errors.Is(err, performance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "review not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_update_failed", "failed to update review", reqID)
		return
	}
	api.Success(w, review, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	err := h.Store.DeleteReview(r.Context(), chi.URLParam(r, "reviewID"))
	if errors.Is(err, performance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "review not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_delete_failed", "failed to delete review", reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}
