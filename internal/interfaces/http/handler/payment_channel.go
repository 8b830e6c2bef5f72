package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// PaymentChannelHandler manages the bank details and QR code customers pay to
type PaymentChannelHandler struct {
	BaseHandler
	channels *leasingapp.PaymentChannelService
}

// NewPaymentChannelHandler creates a new PaymentChannelHandler
func NewPaymentChannelHandler(channels *leasingapp.PaymentChannelService) *PaymentChannelHandler {
	return &PaymentChannelHandler{channels: channels}
}

// Get godoc
// @ID           getOwnPaymentChannel
// @Summary      Get my payment channel
// @Tags         payment-channel
// @Produce      json
// @Success      200 {object} APIResponse[leasing.PaymentChannelResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /owner/payment-channel [get]
func (h *PaymentChannelHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	channel, err := h.channels.Get(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, channel)
}

// Update godoc
// @ID           updatePaymentChannel
// @Summary      Set bank details
// @Tags         payment-channel
// @Accept       json
// @Produce      json
// @Param        request body leasing.UpdatePaymentChannelRequest true "Bank details"
// @Success      200 {object} APIResponse[leasing.PaymentChannelResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /owner/payment-channel [put]
func (h *PaymentChannelHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req leasingapp.UpdatePaymentChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	channel, err := h.channels.Update(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, channel)
}

// UploadQRCode godoc
// @ID           uploadPaymentQRCode
// @Summary      Upload a payment QR code
// @Description  Replaces the QR code image shown to customers
// @Tags         payment-channel
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "JPEG or PNG QR code"
// @Success      200 {object} APIResponse[leasing.PaymentChannelResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /owner/payment-channel/qr [put]
func (h *PaymentChannelHandler) UploadQRCode(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	img, closeImg, err := openUpload(c, "image")
	if err != nil {
		h.BadRequest(c, "image file is required")
		return
	}
	defer closeImg()

	channel, err := h.channels.UploadQRCode(c.Request.Context(), actor, img)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, channel)
}
