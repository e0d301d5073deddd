package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cartlens/backend/internal/domain"
	"github.com/cartlens/backend/internal/infrastructure/events"
)

// enrichTimeout bounds a single enrichment pass; the engine itself never
// blocks, so this only guards pathological batch sizes.
const enrichTimeout = 10 * time.Second

// EnrichmentUsecase is the engine surface the handler depends on.
type EnrichmentUsecase interface {
	EnrichCart(ctx context.Context, cart []domain.CartItem, products []domain.ProductView, opts domain.EnrichmentOptions) (*domain.EnrichedCart, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	enrichment EnrichmentUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(enrichment EnrichmentUsecase) *Handler {
	return &Handler{enrichment: enrichment}
}

// EnrichRequest is the POST /api/v1/cart/enrich body: the session's raw
// cart lines and product views plus optional engine options.
type EnrichRequest struct {
	SessionID string                   `json:"sessionId,omitempty"`
	Cart      []events.RawCartItem     `json:"cart" binding:"dive"`
	Products  []events.RawProductView  `json:"products" binding:"dive"`
	Options   domain.EnrichmentOptions `json:"options"`
}

// EnrichResponse wraps the engine output with request bookkeeping.
type EnrichResponse struct {
	RequestID string              `json:"requestId"`
	SessionID string              `json:"sessionId,omitempty"`
	Result    domain.EnrichedCart `json:"result"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartlens-backend",
		"version": "1.0.0",
	})
}

// EnrichCart handles cart enrichment requests. Malformed bodies are
// rejected by binding before the engine runs; an empty product list is a
// valid request and yields a fully unmatched result.
func (h *Handler) EnrichCart(c *gin.Context) {
	if h.enrichment == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "enrichment service not configured",
		})
		return
	}

	var req EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   domain.ErrInvalidRequest.Error(),
			"details": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), enrichTimeout)
	defer cancel()

	result, err := h.enrichment.EnrichCart(
		ctx,
		events.MapCartItems(req.Cart),
		events.MapProductViews(req.Products),
		req.Options,
	)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, EnrichResponse{
		RequestID: uuid.NewString(),
		SessionID: req.SessionID,
		Result:    *result,
	})
}
