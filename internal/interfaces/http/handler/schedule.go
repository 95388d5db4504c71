package handler

import (
	scheduleapp "github.com/estate/backend/internal/application/schedule"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves payment schedules
type ScheduleHandler struct {
	BaseHandler
	schedules *scheduleapp.Service
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(schedules *scheduleapp.Service) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Estimate handles POST /schedules/estimate. Nothing is stored.
func (h *ScheduleHandler) Estimate(c *gin.Context) {
	var req scheduleapp.ScheduleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.schedules.Estimate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GeneratePlan handles POST /contracts/:id/payment-plan, replacing any
// existing plan of the contract
func (h *ScheduleHandler) GeneratePlan(c *gin.Context) {
	contractID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req scheduleapp.ScheduleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.schedules.GenerateForContract(c.Request.Context(), getTenantID(c), contractID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetPlan handles GET /contracts/:id/payment-plan
func (h *ScheduleHandler) GetPlan(c *gin.Context) {
	contractID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.schedules.GetPlan(c.Request.Context(), getTenantID(c), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
