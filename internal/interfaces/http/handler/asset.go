package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// AssetHandler handles the owner's asset register
type AssetHandler struct {
	BaseHandler
	assets *leasingapp.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets *leasingapp.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Create godoc
// @ID           createAsset
// @Summary      Register an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body leasing.CreateAssetRequest true "Asset"
// @Success      201 {object} APIResponse[leasing.AssetResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req leasingapp.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, asset)
}

// Get godoc
// @ID           getAsset
// @Summary      Get an asset
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.AssetResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assets.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, asset)
}

// List godoc
// @ID           listAssets
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        search query string false "Name search"
// @Param        status query string false "available, leased, rented or sold"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.AssetResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter leasingapp.AssetListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	assets, total, err := h.assets.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, assets, total, filter.Page, filter.PageSize)
}
