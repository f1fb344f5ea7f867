package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard and report requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// GSTReport sums taxable value and tax heads over ?startDate=&endDate=
func (h *DashboardHandler) GSTReport(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}

	report, err := h.dashboardService.GSTReport(c.Request.Context(), companyID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
