package http

import (
	"log/slog"
	"net/http"

	"github.com/sareehouse/storefront/internal/service"
	"github.com/sareehouse/storefront/pkg/httputil"
	"github.com/sareehouse/storefront/pkg/validator"
)

// AuthHandler serves admin login and logout.
type AuthHandler struct {
	session *service.Session
	logger  *slog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(session *service.Session, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{session: session, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login serves POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, err := h.session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: loginResponse{Token: token},
	})
}

// Logout serves POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
