package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsecare/pulse-backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler implements wellness report API endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// DownloadWellnessReport generates and streams the wellness report PDF
func (h *ReportHandler) DownloadWellnessReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	doc, err := h.service.GenerateWellnessReport(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "REPORT_FAILED",
			Message: "Failed to generate wellness report",
			Details: stringPtr(err.Error()),
		})
		return
	}

	filename := fmt.Sprintf("wellness-report-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}
