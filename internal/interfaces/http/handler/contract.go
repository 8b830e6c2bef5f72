package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// XLSXContentType is the media type of exported schedules
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ContractHandler handles contract origination and lookup endpoints
type ContractHandler struct {
	BaseHandler
	contracts *leasingapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contracts *leasingapp.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// Preview godoc
// @ID           previewContract
// @Summary      Preview an installment schedule
// @Description  Computes the schedule for the given terms without storing anything
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body leasing.PreviewRequest true "Contract terms"
// @Success      200 {object} APIResponse[leasing.ScheduleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/preview [post]
func (h *ContractHandler) Preview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req leasingapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	schedule, err := h.contracts.Preview(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schedule)
}

// Create godoc
// @ID           createContract
// @Summary      Create a contract
// @Description  Originates a contract, generates its installments and marks the asset as leased
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body leasing.CreateContractRequest true "Contract"
// @Success      201 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req leasingapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// List godoc
// @ID           listContracts
// @Summary      List contracts
// @Description  Owners see their own contracts, customers the contracts they are party to, admins all
// @Tags         contracts
// @Produce      json
// @Param        search query string false "Contract number, customer name or id card"
// @Param        status query string false "active, completed or cancelled"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter leasingapp.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	contracts, total, err := h.contracts.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getContract
// @Summary      Get a contract
// @Description  Returns the contract with its installments
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id} [get]
func (h *ContractHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Cancel godoc
// @ID           cancelContract
// @Summary      Cancel a contract
// @Description  Cancels an active contract and releases its asset
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.ContractResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id}/cancel [post]
func (h *ContractHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.contracts.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// ExportSchedule godoc
// @ID           exportContractSchedule
// @Summary      Download the installment schedule
// @Description  Returns the schedule with payment status as an XLSX workbook
// @Tags         contracts
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {file} binary
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id}/schedule.xlsx [get]
func (h *ContractHandler) ExportSchedule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.contracts.ExportSchedule(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, XLSXContentType, filename, data)
}
