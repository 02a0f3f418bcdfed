package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httputil"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/validator"
)

// AccountHandler handles HTTP requests for the logged-in customer's account.
type AccountHandler struct {
	auth   *session.AuthService
	logger *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(auth *session.AuthService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		auth:   auth,
		logger: logger,
	}
}

// --- Request DTOs ---

// UpdateProfileRequest is the JSON request body for profile updates. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

// AddressRequest is the JSON request body for creating or replacing an address.
type AddressRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Address1    string `json:"address_1" validate:"required"`
	Address2    string `json:"address_2"`
	City        string `json:"city" validate:"required"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code" validate:"required"`
	CountryCode string `json:"country_code" validate:"required,len=2"`
	Phone       string `json:"phone"`
}

func (req AddressRequest) toAddress() medusa.Address {
	return medusa.Address{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address1:    req.Address1,
		Address2:    req.Address2,
		City:        req.City,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	}
}

// --- Handlers ---

// GetProfile handles GET /api/v1/account
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	customer, err := h.auth.Customer(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

// UpdateProfile handles PUT /api/v1/account
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.auth.UpdateCustomer(r.Context(), sessionID, medusa.UpdateCustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

// ListAddresses handles GET /api/v1/account/addresses
func (h *AccountHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	addresses, err := h.auth.Addresses(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: addresses})
}

// AddAddress handles POST /api/v1/account/addresses
func (h *AccountHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req AddressRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.auth.AddAddress(r.Context(), sessionID, req.toAddress())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: customer})
}

// UpdateAddress handles PUT /api/v1/account/addresses/{addressId}
func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	addressID := chi.URLParam(r, "addressId")
	if addressID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("addressId is required"), h.logger)
		return
	}

	var req AddressRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.auth.UpdateAddress(r.Context(), sessionID, addressID, req.toAddress())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

// DeleteAddress handles DELETE /api/v1/account/addresses/{addressId}
func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	addressID := chi.URLParam(r, "addressId")
	if addressID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("addressId is required"), h.logger)
		return
	}

	customer, err := h.auth.DeleteAddress(r.Context(), sessionID, addressID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}
