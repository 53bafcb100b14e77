package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"emisor/internal/core/apperror"
	"emisor/internal/core/id"
	"emisor/internal/domain"
	"emisor/internal/domain/receipt"
	"emisor/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler handles HTTP requests for receipts.
type ReceiptHandler struct {
	*BaseHandler
	service *receipt.Service
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(base *BaseHandler, service *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers receipt routes.
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/void", h.Void)
}

// Create handles POST /receipts - issue a new receipt.
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromReceipt(created))
}

// Get handles GET /receipts/:id - fetch a single receipt with items.
func (h *ReceiptHandler) Get(c *gin.Context) {
	receiptID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(rec))
}

// Void handles POST /receipts/:id/void - void an issued receipt.
func (h *ReceiptHandler) Void(c *gin.Context) {
	receiptID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	voided, err := h.service.Void(c.Request.Context(), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.VoidReceiptResponse{
		Message:   "receipt voided successfully",
		ReceiptID: voided.ID.String(),
	})
}

// List handles GET /receipts - paginated listing with filters.
func (h *ReceiptHandler) List(c *gin.Context) {
	filter := receipt.ListFilter{
		PageFilter: domain.DefaultPageFilter(),
	}
	filter.Page = h.ParseIntQuery(c, "page", filter.Page)
	filter.PageSize = h.ParseIntQuery(c, "pageSize", filter.PageSize)

	if kind := c.Query("kind"); kind != "" {
		k := receipt.Kind(kind)
		filter.Kind = &k
	}
	if status := c.Query("status"); status != "" {
		s := receipt.Status(status)
		filter.Status = &s
	}
	if taxID := c.Query("recipientTaxId"); taxID != "" {
		filter.RecipientTaxID = &taxID
	}

	if raw := c.Query("dateFrom"); raw != "" {
		parsed, err := parseDateQuery(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom, expected RFC 3339 or YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &parsed
	}
	if raw := c.Query("dateTo"); raw != "" {
		parsed, err := parseDateQuery(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo, expected RFC 3339 or YYYY-MM-DD"))
			return
		}
		filter.DateTo = &parsed
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceiptList(result))
}

// parseDateQuery accepts a full RFC 3339 timestamp or a bare date.
func parseDateQuery(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
