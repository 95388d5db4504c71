package handler

import (
	commissionapp "github.com/estate/backend/internal/application/commission"
	"github.com/gin-gonic/gin"
)

// CommissionHandler records earned commissions and incentives
type CommissionHandler struct {
	BaseHandler
	commissions *commissionapp.Service
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissions *commissionapp.Service) *CommissionHandler {
	return &CommissionHandler{commissions: commissions}
}

// Earn handles POST /commissions
func (h *CommissionHandler) Earn(c *gin.Context) {
	var ev commissionapp.SaleEvent
	if !h.BindJSON(c, &ev) {
		return
	}
	resp, err := h.commissions.EarnForSale(c.Request.Context(), getTenantID(c), ev)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GrantIncentive handles POST /incentives
func (h *CommissionHandler) GrantIncentive(c *gin.Context) {
	var req commissionapp.IncentiveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.commissions.GrantIncentive(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
