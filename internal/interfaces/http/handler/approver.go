package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	directoryapp "github.com/opsboard/backend/internal/application/directory"
)

// ApproverHandler handles approver resolution API endpoints
type ApproverHandler struct {
	BaseHandler
	approverService *directoryapp.ApproverService
}

// NewApproverHandler creates a new ApproverHandler
func NewApproverHandler(approverService *directoryapp.ApproverService) *ApproverHandler {
	return &ApproverHandler{
		approverService: approverService,
	}
}

// Resolve returns the identities currently eligible to approve stock counts
// at a site. Approvers are resolved fresh on every call: site-scoped holders
// of an approval role first, then company-wide holders as a fallback. A
// resolution with no approvers is a successful response carrying diagnostics.
func (h *ApproverHandler) Resolve(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	siteID, err := uuid.Parse(c.Param("site_id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	result, err := h.approverService.ResolveApprovers(c.Request.Context(), companyID, siteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
