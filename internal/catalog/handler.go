package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/httpx"
	"github.com/storekit/storefront/internal/page"
)

// CreateProductRequest represents the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateProductRequest represents the JSON request body for a partial update.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ProductResponse represents the JSON shape of a product.
type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Slug        string  `json:"slug"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toProductResponse(p Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Slug:        p.Slug,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// Handler provides HTTP handlers for the product catalog.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// List handles GET /products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	p, err := page.FromQuery(r.URL.Query())
	if err != nil {
		logger.WarnContext(ctx, "invalid pagination parameters", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	products, err := h.service.List(ctx, p)
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, toProductResponse(product))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// GetBySlug handles GET /products/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	product, err := h.service.GetBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Create handles POST /products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[CreateProductRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	product, err := h.service.Create(ctx, CreateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "product created",
		"product_id", product.ID,
		"slug", product.Slug,
	)

	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Update handles PATCH /products/{slug}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[UpdateProductRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	product, err := h.service.Update(ctx, r.PathValue("slug"), UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "product updated",
		"product_id", product.ID,
		"slug", product.Slug,
	)

	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /products/{slug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	product, err := h.service.Delete(ctx, r.PathValue("slug"))
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "product deleted",
		"product_id", product.ID,
		"slug", product.Slug,
	)

	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// handleError maps service errors to HTTP responses.
func (h *Handler) handleError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.NotFound:
		logger.WarnContext(ctx, "product not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"Product not found", nil)

	case errx.Conflict:
		logger.WarnContext(ctx, "product name conflict", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "conflict",
			"Product with such name already exists", nil)

	case errx.Invalid:
		logger.WarnContext(ctx, "invalid product request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)

	default:
		logger.ErrorContext(ctx, "unexpected catalog error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Unable to process this request at this time", nil)
	}
}
