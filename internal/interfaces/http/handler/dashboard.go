package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
)

// DashboardHandler serves the owner dashboard
type DashboardHandler struct {
	BaseHandler
	dashboard *leasingapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *leasingapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Owner godoc
// @ID           getOwnerDashboard
// @Summary      Owner dashboard
// @Description  Asset and contract counts, expected monthly revenue, receipts of the last six months and installment status counts
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[leasing.OwnerDashboardResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/owner [get]
func (h *DashboardHandler) Owner(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboard.OwnerDashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
