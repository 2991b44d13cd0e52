package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gestibat/api/internal/service"
)

// ReportHandler exposes the financial summaries
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	rapports := r.Group("/rapports")
	{
		rapports.GET("/chantiers", h.ChantierSummaries)
		rapports.GET("/chantiers/:id", h.ChantierSummary)
		rapports.GET("/global", h.Global)
		rapports.GET("/couts", h.CostBreakdown)
		rapports.GET("/monteurs", h.MonteurStats)
		rapports.GET("/export", h.ExportFinancial)
	}
}

// RegisterDashboard mounts the landing page counters outside the rapports
// module so every logged-in user sees them.
func (h *ReportHandler) RegisterDashboard(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Dashboard)
}

// ChantierSummaries returns the per-chantier financial summaries
// @Summary Per-chantier financial summaries
// @Tags Rapports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ChantierSummary
// @Router /rapports/chantiers [get]
func (h *ReportHandler) ChantierSummaries(c *gin.Context) {
	summaries, err := h.reportService.ChantierSummaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// ChantierSummary returns the financial summary of one chantier
func (h *ReportHandler) ChantierSummary(c *gin.Context) {
	summary, err := h.reportService.ChantierSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chantier not found"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Global returns the rollup across all chantiers
func (h *ReportHandler) Global(c *gin.Context) {
	global, err := h.reportService.Global(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, global)
}

// CostBreakdown returns totals bucketed by cost category
func (h *ReportHandler) CostBreakdown(c *gin.Context) {
	breakdown, err := h.reportService.CostBreakdown(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// MonteurStats returns cumulative days and pay per monteur
func (h *ReportHandler) MonteurStats(c *gin.Context) {
	stats, err := h.reportService.MonteurStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Dashboard returns the landing page counters
// @Summary Dashboard statistics
// @Tags Rapports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DashboardStats
// @Router /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportFinancial streams the financial report as a workbook
func (h *ReportHandler) ExportFinancial(c *gin.Context) {
	f, err := h.exportService.FinancialWorkbook(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("rapport_financier_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
