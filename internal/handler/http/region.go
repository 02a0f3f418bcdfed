package http

import (
	"log/slog"
	"net/http"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/httputil"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/validator"
)

// RegionHandler handles HTTP requests for region endpoints.
type RegionHandler struct {
	regions *session.RegionService
	logger  *slog.Logger
}

// NewRegionHandler creates a new region HTTP handler.
func NewRegionHandler(regions *session.RegionService, logger *slog.Logger) *RegionHandler {
	return &RegionHandler{
		regions: regions,
		logger:  logger,
	}
}

// SelectRegionRequest is the JSON request body for selecting a region.
type SelectRegionRequest struct {
	Code string `json:"code" validate:"required"`
}

// ListRegions handles GET /api/v1/regions
func (h *RegionHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	options, err := h.regions.Options(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: options})
}

// SelectRegion handles PUT /api/v1/session/region
func (h *RegionHandler) SelectRegion(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req SelectRegionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	option, err := h.regions.Select(r.Context(), sessionID, req.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: option})
}
