package http

import (
	"log/slog"
	"net/http"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httputil"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/validator"
)

// AuthHandler handles HTTP requests for login, registration, and logout.
type AuthHandler struct {
	auth   *session.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(auth *session.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// --- Request DTOs ---

// LoginRequest is the JSON request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the JSON request body for registering a customer.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
}

// loginPayload is the response body for a successful login.
type loginPayload struct {
	Customer     *medusa.Customer `json:"customer"`
	Cart         *medusa.Cart     `json:"cart,omitempty"`
	SessionToken string           `json:"session_token"`
}

// --- Handlers ---

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.auth.Login(r.Context(), sessionID, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: loginPayload{
		Customer:     out.Customer,
		Cart:         out.Cart,
		SessionToken: out.SessionToken,
	}})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	out, err := h.auth.Register(r.Context(), sessionID, medusa.CreateCustomerInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: loginPayload{
		Customer:     out.Customer,
		Cart:         out.Cart,
		SessionToken: out.SessionToken,
	}})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	if err := h.auth.Logout(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}
