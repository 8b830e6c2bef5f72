package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// PortalHandler serves the customer-facing contract views
type PortalHandler struct {
	BaseHandler
	portal *leasingapp.PortalService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(portal *leasingapp.PortalService) *PortalHandler {
	return &PortalHandler{portal: portal}
}

// ListContracts godoc
// @ID           listMyContracts
// @Summary      List my contracts
// @Description  Contracts of the calling customer with paid counts and the next due installment
// @Tags         customer-portal
// @Produce      json
// @Param        status query string false "active, completed or cancelled"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customer/contracts [get]
func (h *PortalHandler) ListContracts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter leasingapp.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	contracts, total, err := h.portal.ListContracts(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// GetContract godoc
// @ID           getMyContract
// @Summary      Get one of my contracts
// @Tags         customer-portal
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customer/contracts/{id} [get]
func (h *PortalHandler) GetContract(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.portal.GetContract(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// GetPaymentChannel godoc
// @ID           getContractPaymentChannel
// @Summary      Where to pay a contract
// @Description  Bank details and QR code of the contract's owner
// @Tags         customer-portal
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.PaymentChannelResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customer/contracts/{id}/payment-channel [get]
func (h *PortalHandler) GetPaymentChannel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	channel, err := h.portal.GetPaymentChannel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, channel)
}
