package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{Audit: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleHR)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	query := r.URL.Query()
	page := shared.ParsePagination(r, 50, 200)
	entries, err := h.Audit.List(r.Context(), audit.Filter{
		Action:   query.Get("action"),
		Endpoint: query.Get("endpoint"),
		UserID:   query.Get("userId"),
	}, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit entries", reqID)
		return
	}
	api.Success(w, entries, reqID)
}
