package rewrite

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/storekit/storefront/internal/errx"
	"github.com/storekit/storefront/internal/httpx"
	"github.com/storekit/storefront/internal/page"
)

// CreateRewriteRequest represents the JSON request body for creating a rewrite.
type CreateRewriteRequest struct {
	OldURL string `json:"oldUrl"`
	NewURL string `json:"newUrl"`
}

// RewriteResponse represents the JSON shape of a rewrite rule.
type RewriteResponse struct {
	ID        int64  `json:"id"`
	OldURL    string `json:"oldUrl"`
	NewURL    string `json:"newUrl"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toRewriteResponse(rw Rewrite) RewriteResponse {
	return RewriteResponse{
		ID:        rw.ID,
		OldURL:    rw.OldURL,
		NewURL:    rw.NewURL,
		CreatedAt: rw.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rw.UpdatedAt.Format(time.RFC3339),
	}
}

// Handler provides HTTP handlers for url rewrites.
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

// List handles GET /url-rewrites.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	p, err := page.FromQuery(r.URL.Query())
	if err != nil {
		logger.WarnContext(ctx, "invalid pagination parameters", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	rewrites, err := h.service.List(ctx, p)
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	resp := make([]RewriteResponse, 0, len(rewrites))
	for _, rw := range rewrites {
		resp = append(resp, toRewriteResponse(rw))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /url-rewrites.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[CreateRewriteRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	rw, err := h.service.Create(ctx, CreateRequest{
		OldURL: req.OldURL,
		NewURL: req.NewURL,
	})
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "url rewrite created",
		"rewrite_id", rw.ID,
		"old_url", rw.OldURL,
		"new_url", rw.NewURL,
	)

	httpx.WriteJSON(w, http.StatusOK, toRewriteResponse(rw))
}

// Delete handles DELETE /url-rewrites/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.WarnContext(ctx, "invalid rewrite id", "id", r.PathValue("id"))
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "id must be a number", nil)
		return
	}

	rw, err := h.service.Delete(ctx, id)
	if err != nil {
		h.handleError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "url rewrite deleted", "rewrite_id", rw.ID)

	httpx.WriteJSON(w, http.StatusOK, toRewriteResponse(rw))
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
		logger.WarnContext(ctx, "url rewrite not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"Url rewrite not found", nil)

	case errx.Conflict:
		logger.WarnContext(ctx, "url rewrite conflict", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "conflict",
			"Url rewrite already exists", nil)

	case errx.Invalid:
		logger.WarnContext(ctx, "invalid url rewrite request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)

	default:
		logger.ErrorContext(ctx, "unexpected url rewrite error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Unable to process this request at this time", nil)
	}
}
