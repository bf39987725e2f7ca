package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/dashboard"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
)

// ReportHandler serves the dashboard and /api/reports.
type ReportHandler struct {
	dashboard *dashboard.Service
	reporting *reporting.Service
	logger    *zap.Logger
}

func NewReportHandler(dash *dashboard.Service, rep *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{dashboard: dash, reporting: rep, logger: logger}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	out, err := h.dashboard.Stats(c.Request.Context(), dashboard.Query{
		MilkView:   c.Query("milkView"),
		CattleView: c.Query("cattleView"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard stats")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) DailySummaries(c *gin.Context) {
	out, err := h.reporting.ListSummaries(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch daily summaries")
		return
	}
	c.JSON(http.StatusOK, out)
}

// Export streams an xlsx workbook of one resource.
func (h *ReportHandler) Export(c *gin.Context) {
	wb, err := h.reporting.Export(c.Request.Context(), c.Query("resource"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to export")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", wb.Filename))
	c.Data(http.StatusOK, reporting.XLSXContentType, wb.Data)
}
