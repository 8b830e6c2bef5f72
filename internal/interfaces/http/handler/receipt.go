package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// ReceiptHandler serves issued receipts
type ReceiptHandler struct {
	BaseHandler
	receipts *leasingapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receipts *leasingapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Get godoc
// @ID           getReceipt
// @Summary      Get a receipt
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ReceiptDetailResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts/{id} [get]
func (h *ReceiptHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receipts.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// PDF godoc
// @ID           getReceiptPDF
// @Summary      Download a printable receipt
// @Tags         receipts
// @Produce      application/pdf
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {file} binary
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts/{id}/pdf [get]
func (h *ReceiptHandler) PDF(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	pdf, filename, err := h.receipts.RenderPDF(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, "application/pdf", filename, pdf)
}
