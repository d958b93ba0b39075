// backend-go/internal/api/handlers/po_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Yahiahu/SCM-sub000/internal/client"
	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type POHandler struct {
	poService *service.POService
}

func NewPOHandler(poService *service.POService) *POHandler {
	return &POHandler{poService: poService}
}

type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

// ListPurchaseOrders returns dashboard rows for ?tab= and ?q=
func (h *POHandler) ListPurchaseOrders(c *gin.Context) {
	tab, err := domain.ParseTab(c.Query("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := domain.ListFilter{Tab: tab, Query: strings.TrimSpace(c.Query("q"))}
	rows, err := h.poService.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "failed to fetch purchase orders")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetSummary returns tab counts and value totals
func (h *POHandler) GetSummary(c *gin.Context) {
	summary, err := h.poService.Summary(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to fetch purchase order summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPOAging returns open purchase orders ranked by age
func (h *POHandler) GetPOAging(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), domain.DefaultAnalyticsLimit)

	aging, err := h.poService.Aging(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err, "failed to fetch po aging")
		return
	}

	c.JSON(http.StatusOK, aging)
}

// GetSupplierPerformance returns per-vendor purchase order aggregates
func (h *POHandler) GetSupplierPerformance(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), domain.DefaultAnalyticsLimit)

	perf, err := h.poService.SupplierPerformance(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err, "failed to fetch supplier performance")
		return
	}

	c.JSON(http.StatusOK, perf)
}

func (h *POHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	row, err := h.poService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch purchase order")
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *POHandler) CreatePurchaseOrder(c *gin.Context) {
	var input domain.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	row, err := h.poService.CreatePurchaseOrder(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err, "failed to create purchase order")
		return
	}

	c.JSON(http.StatusCreated, row)
}

// ApplyAction runs one of the row actions. Delete answers 204.
func (h *POHandler) ApplyAction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.poService.ApplyAction(c.Request.Context(), id, action)
	if err != nil {
		h.writeError(c, err, "failed to apply action")
		return
	}
	if row == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *POHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.poService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete purchase order")
		return
	}

	c.Status(http.StatusNoContent)
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if fallback <= 0 {
		fallback = domain.DefaultAnalyticsLimit
	}
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase order id"})
		return 0, false
	}
	return id, true
}

func (h *POHandler) writeError(c *gin.Context, err error, fallback string) {
	var apiErr *client.APIError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "purchase order not found"})
	case errors.Is(err, domain.ErrActionNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, domain.ErrUnknownTab):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		log.Error().Err(err).Int("backend_status", apiErr.StatusCode).Msg(fallback)
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
	default:
		log.Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
