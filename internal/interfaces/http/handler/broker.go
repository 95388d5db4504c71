package handler

import (
	brokerapp "github.com/estate/backend/internal/application/broker"
	payoutapp "github.com/estate/backend/internal/application/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BrokerHandler serves the broker directory and each broker's payables
type BrokerHandler struct {
	BaseHandler
	brokers *brokerapp.Service
	payouts *payoutapp.Service
}

// NewBrokerHandler creates a new BrokerHandler
func NewBrokerHandler(brokers *brokerapp.Service, payouts *payoutapp.Service) *BrokerHandler {
	return &BrokerHandler{brokers: brokers, payouts: payouts}
}

// Create handles POST /brokers
func (h *BrokerHandler) Create(c *gin.Context) {
	var req brokerapp.CreateBrokerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.brokers.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /brokers
func (h *BrokerHandler) List(c *gin.Context) {
	var q brokerapp.ListBrokersQuery
	if !h.BindQuery(c, &q) {
		return
	}
	result, err := h.brokers.List(c.Request.Context(), getTenantID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(&h.BaseHandler, c, result)
}

// Get handles GET /brokers/:id
func (h *BrokerHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.brokers.Get(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate handles POST /brokers/:id/deactivate
func (h *BrokerHandler) Deactivate(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.brokers.Deactivate(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// EligibleItems handles GET /brokers/:id/eligible-items
func (h *BrokerHandler) EligibleItems(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	tenantID := getTenantID(c)
	if _, err := h.brokers.Get(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := h.payouts.ListEligible(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Payments handles GET /brokers/:id/payments
func (h *BrokerHandler) Payments(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	filter := shared.Filter{Page: q.Page, PageSize: q.PageSize, OrderBy: q.OrderBy, OrderDir: q.OrderDir}
	result, err := h.payouts.ListPayments(c.Request.Context(), getTenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(&h.BaseHandler, c, result)
}
