package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/obs"
)

// Handler exposes product search and scan-code lookup endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Search handles GET /api/v1/products?q=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	query := r.URL.Query().Get("q")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}
	products, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// Lookup handles GET /api/v1/products/lookup?code=. The code parameter is the
// decoded scanner output or a manually typed short code.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "code is required", nil)
		return
	}
	product, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if obs.LookupMissTotal != nil {
				obs.LookupMissTotal.Inc()
			}
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", map[string]any{"code": code})
			return
		}
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
}
