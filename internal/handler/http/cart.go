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

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	carts   *session.CartManager
	regions *session.RegionService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *session.CartManager, regions *session.RegionService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		regions: regions,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's
// quantity. Zero and negative quantities remove the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// cartPayload is the cart response body, carrying the cart together with
// how it was obtained.
type cartPayload struct {
	Cart  *medusa.Cart `json:"cart"`
	State string       `json:"state"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	region, err := h.regions.Selected(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if region == nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("a region must be selected before using the cart"), h.logger)
		return
	}

	cart, state, err := h.carts.Resolve(r.Context(), sessionID, region.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: cart, State: state.String()}})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sessionID, req.VariantID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{variantId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	variantID := chi.URLParam(r, "variantId")
	if variantID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("variantId is required"), h.logger)
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.carts.UpdateItemQuantity(r.Context(), sessionID, variantID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/cart/items/{variantId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	variantID := chi.URLParam(r, "variantId")
	if variantID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("variantId is required"), h.logger)
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), sessionID, variantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	cart, err := h.carts.Clear(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}
