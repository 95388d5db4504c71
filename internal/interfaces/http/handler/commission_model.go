package handler

import (
	commissionapp "github.com/estate/backend/internal/application/commission"
	"github.com/gin-gonic/gin"
)

// CommissionModelHandler manages commission models
type CommissionModelHandler struct {
	BaseHandler
	models *commissionapp.ModelService
}

// NewCommissionModelHandler creates a new CommissionModelHandler
func NewCommissionModelHandler(models *commissionapp.ModelService) *CommissionModelHandler {
	return &CommissionModelHandler{models: models}
}

// Create handles POST /commission-models
func (h *CommissionModelHandler) Create(c *gin.Context) {
	var req commissionapp.ModelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.models.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /commission-models
func (h *CommissionModelHandler) List(c *gin.Context) {
	var q commissionapp.ListModelsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	result, err := h.models.List(c.Request.Context(), getTenantID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(&h.BaseHandler, c, result)
}

// Get handles GET /commission-models/:id
func (h *CommissionModelHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.models.Get(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /commission-models/:id
func (h *CommissionModelHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req commissionapp.ModelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.models.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive handles POST /commission-models/:id/archive
func (h *CommissionModelHandler) Archive(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.models.Archive(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate handles POST /commission-models/:id/activate
func (h *CommissionModelHandler) Activate(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.models.Activate(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /commission-models/:id. A model referenced by
// commission records cannot be deleted (409).
func (h *CommissionModelHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.models.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Resolve handles POST /commission-models/:id/resolve, a dry run that
// records nothing
func (h *CommissionModelHandler) Resolve(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req commissionapp.ResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.models.Resolve(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
