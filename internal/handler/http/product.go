package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httputil"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/pagination"
)

// ProductHandler handles HTTP requests for product browsing and search.
type ProductHandler struct {
	catalog *session.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(catalog *session.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())
	params := pagination.FromRequest(r)
	categoryID := r.URL.Query().Get("category_id")

	result, err := h.catalog.List(r.Context(), sessionID, categoryID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// SearchProducts handles GET /api/v1/products/search
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())
	params := pagination.FromRequest(r)
	query := r.URL.Query().Get("q")

	result, err := h.catalog.Search(r.Context(), sessionID, query, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productId is required"), h.logger)
		return
	}

	product, err := h.catalog.ByID(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetProductByHandle handles GET /api/v1/products/handle/{handle}
func (h *ProductHandler) GetProductByHandle(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	handle := chi.URLParam(r, "handle")
	if handle == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("handle is required"), h.logger)
		return
	}

	product, err := h.catalog.ByHandle(r.Context(), sessionID, handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
