package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Store  *core.Store
	Secret string
}

func NewHandler(store *core.Store, secret string) *Handler {
	return &Handler{Store: store, Secret: secret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", reqID)
		return
	}

	id, hash, role, firstName, lastName, err := h.Store.UserCredentials(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: id, Email: payload.Email, Role: role}, auth.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":        id,
			"email":     payload.Email,
			"role":      role,
			"firstName": firstName,
			"lastName":  lastName,
		},
	}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	record, err := h.Store.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	api.Success(w, record, reqID)
}
