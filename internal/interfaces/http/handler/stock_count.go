package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/opsboard/backend/internal/application/inventory"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
)

// StockCountHandler handles stock count lifecycle API endpoints
type StockCountHandler struct {
	BaseHandler
	countService          *inventoryapp.StockCountService
	reconciliationService *inventoryapp.ReconciliationService
}

// NewStockCountHandler creates a new StockCountHandler
func NewStockCountHandler(countService *inventoryapp.StockCountService, reconciliationService *inventoryapp.ReconciliationService) *StockCountHandler {
	return &StockCountHandler{
		countService:          countService,
		reconciliationService: reconciliationService,
	}
}

// Create schedules a new stock count for a site. The count's item lines are
// snapshotted from live stock quantities at this moment.
func (h *StockCountHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}

	var req inventoryapp.CreateStockCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.countService.Create(c.Request.Context(), companyID, actorID, getActorName(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a stock count with its item lines
func (h *StockCountHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	result, err := h.countService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByCountNumber retrieves a stock count by its document number
func (h *StockCountHandler) GetByCountNumber(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	countNumber := c.Param("count_number")
	if countNumber == "" {
		h.BadRequest(c, "Count number is required")
		return
	}

	result, err := h.countService.GetByCountNumber(c.Request.Context(), companyID, countNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List retrieves a paginated list of stock counts with optional filtering
func (h *StockCountHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter inventoryapp.StockCountListFilter
	filter.Search = c.Query("search")
	filter.OrderBy = c.Query("order_by")
	filter.OrderDir = c.Query("order_dir")

	if statusStr := c.Query("status"); statusStr != "" {
		status := inventory.StockCountStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status value")
			return
		}
		filter.Status = &status
	}

	if siteIDStr := c.Query("site_id"); siteIDStr != "" {
		siteID, err := uuid.Parse(siteIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid site ID format")
			return
		}
		filter.SiteID = &siteID
	}

	if creatorIDStr := c.Query("created_by_id"); creatorIDStr != "" {
		creatorID, err := uuid.Parse(creatorIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid creator ID format")
			return
		}
		filter.CreatedByID = &creatorID
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		startDate, err := parseDateTime(startDateStr)
		if err != nil {
			h.BadRequest(c, "Invalid start_date format")
			return
		}
		filter.StartDate = &startDate
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		endDate, err := parseDateTime(endDateStr)
		if err != nil {
			h.BadRequest(c, "Invalid end_date format")
			return
		}
		filter.EndDate = &endDate
	}

	filter.Page = parsePositiveInt(c.Query("page"), 1)
	filter.PageSize = parsePositiveInt(c.Query("page_size"), 20)
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	items, total, err := h.countService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetProgress retrieves the counting progress of a stock count
func (h *StockCountHandler) GetProgress(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	result, err := h.countService.GetProgress(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordCount records the counted quantity for a single item line.
// Recording against a draft count implicitly starts it.
func (h *StockCountHandler) RecordCount(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	var req inventoryapp.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.countService.RecordCount(c.Request.Context(), companyID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordCounts records counted quantities for multiple item lines at once
func (h *StockCountHandler) RecordCounts(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	var req inventoryapp.RecordCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.countService.RecordCounts(c.Request.Context(), companyID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Submit moves a fully counted stock count to awaiting_approval
func (h *StockCountHandler) Submit(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	result, err := h.countService.Submit(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Approve records the caller's approval of a submitted stock count.
// The caller must hold an approval role resolved for the count's site.
func (h *StockCountHandler) Approve(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	result, err := h.countService.Approve(c.Request.Context(), companyID, id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reconcile finalizes an approved stock count: stock levels are adjusted to
// the counted quantities and variance records are written, atomically.
func (h *StockCountHandler) Reconcile(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), companyID, id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Lock archives a finalized stock count, making it fully immutable
func (h *StockCountHandler) Lock(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock count ID format")
		return
	}

	result, err := h.countService.Lock(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// parseDateTime parses a date string in either RFC3339 or date-only form
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
