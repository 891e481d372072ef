package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/oilmart/backend/internal/application/report"
)

// DashboardHandler handles admin reporting HTTP requests
type DashboardHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Dashboard godoc
// @Summary      Back-office dashboard
// @Description  Aggregate order, revenue and catalog stats (admin only)
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.DashboardResponse}
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SalesReport godoc
// @Summary      Sales report
// @Description  Daily sales and top products over a date range (admin only)
// @Tags         admin-reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        top_n query int false "Number of top products"
// @Success      200 {object} dto.Response{data=report.SalesReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/sales [get]
func (h *DashboardHandler) SalesReport(c *gin.Context) {
	var req report.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.dashboardService.SalesReport(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
