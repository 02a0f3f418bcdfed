package http

import (
	"log/slog"
	"net/http"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httputil"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	categories *session.CategoryCache
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(categories *session.CategoryCache, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// RefreshCategories handles POST /api/v1/categories/refresh
func (h *CategoryHandler) RefreshCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Refresh(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}
