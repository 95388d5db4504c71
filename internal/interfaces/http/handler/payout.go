package handler

import (
	"bytes"
	"io"
	"net/http"

	payoutapp "github.com/estate/backend/internal/application/payout"
	"github.com/estate/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayoutHandler settles broker payables
type PayoutHandler struct {
	BaseHandler
	payouts     *payoutapp.Service
	maxFileSize int64
}

// NewPayoutHandler creates a new PayoutHandler. Uploads larger than
// maxFileSize bytes are rejected before parsing.
func NewPayoutHandler(payouts *payoutapp.Service, maxFileSize int64) *PayoutHandler {
	return &PayoutHandler{payouts: payouts, maxFileSize: maxFileSize}
}

// SettleManual handles POST /payouts/manual
func (h *PayoutHandler) SettleManual(c *gin.Context) {
	var req payoutapp.ManualPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.payouts.SettleManual(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Import handles POST /payouts/import with a multipart "file" field.
// Failing rows are reported in the body; a file with too many unreadable
// rows is rejected with 422 and nothing is settled.
func (h *PayoutHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "file exceeds the maximum upload size")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "failed to read file")
		return
	}

	resp, err := h.payouts.ImportFile(c.Request.Context(), getTenantID(c), header.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.IsTruncated {
		body := dto.NewErrorResponseWithRequestID(dto.ErrCodeValidation, "too many invalid rows; fix the file and upload it again", getRequestID(c))
		body.Data = resp
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	h.Success(c, resp)
}

// Template handles GET /payouts/import/template
func (h *PayoutHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.payouts.Template(&buf); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="payout-import-template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetPayment handles GET /payouts/:id
func (h *PayoutHandler) GetPayment(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.payouts.GetPayment(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
