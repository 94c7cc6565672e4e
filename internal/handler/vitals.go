package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsecare/pulse-backend/internal/service"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// VitalsHandler implements vital-sign API endpoints
type VitalsHandler struct {
	service *service.VitalsService
	logger  *zap.Logger
}

// NewVitalsHandler creates a new VitalsHandler
func NewVitalsHandler(service *service.VitalsService, logger *zap.Logger) *VitalsHandler {
	return &VitalsHandler{
		service: service,
		logger:  logger,
	}
}

// RecordReadingRequest is the payload for submitting one reading
type RecordReadingRequest struct {
	Kind       string     `json:"kind" binding:"required"`
	Value      *float64   `json:"value"`
	TextValue  *string    `json:"text_value"`
	Unit       string     `json:"unit"`
	Goal       *float64   `json:"goal"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// RecordReading stores a new vital reading
func (h *VitalsHandler) RecordReading(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	reading := &model.VitalRecord{
		Kind:      req.Kind,
		Value:     req.Value,
		TextValue: req.TextValue,
		Unit:      req.Unit,
		Goal:      req.Goal,
	}
	if req.RecordedAt != nil {
		reading.RecordedAt = *req.RecordedAt
	}

	if err := h.service.RecordReading(c.Request.Context(), userID, reading); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Failed to record reading",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// GetSnapshot returns the latest reading per metric with statuses and score
func (h *VitalsHandler) GetSnapshot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.service.Snapshot(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load vital snapshot",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetHistory returns readings of one kind within a date range
func (h *VitalsHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	kind := c.Query("kind")
	if kind == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Query parameter kind is required",
		})
		return
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -7)

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "start_date must be RFC3339",
			})
			return
		}
		startDate = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "end_date must be RFC3339",
			})
			return
		}
		endDate = parsed
	}

	records, err := h.service.History(c.Request.Context(), userID, kind, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load vital history",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"readings": records, "count": len(records)})
}
