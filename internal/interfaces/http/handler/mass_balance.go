package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/opsboard/backend/internal/application/inventory"
)

// MassBalanceHandler handles variance audit API endpoints
type MassBalanceHandler struct {
	BaseHandler
	massBalanceService *inventoryapp.MassBalanceService
}

// NewMassBalanceHandler creates a new MassBalanceHandler
func NewMassBalanceHandler(massBalanceService *inventoryapp.MassBalanceService) *MassBalanceHandler {
	return &MassBalanceHandler{
		massBalanceService: massBalanceService,
	}
}

// GetVarianceRecords retrieves the variance records written when a stock
// count was reconciled
func (h *MassBalanceHandler) GetVarianceRecords(c *gin.Context) {
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

	result, err := h.massBalanceService.GetVarianceRecords(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetMassBalance folds a reconciled count's variance records into a mass
// balance summary for audit
func (h *MassBalanceHandler) GetMassBalance(c *gin.Context) {
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

	result, err := h.massBalanceService.GetMassBalance(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
