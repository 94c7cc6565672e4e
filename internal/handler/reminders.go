package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsecare/pulse-backend/internal/service"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ReminderHandler implements reminder API endpoints
type ReminderHandler struct {
	service *service.ReminderService
	logger  *zap.Logger
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(service *service.ReminderService, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		logger:  logger,
	}
}

// ReminderRequest is the payload for creating or updating a reminder
type ReminderRequest struct {
	Type       string    `json:"type" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	Dosage     *string   `json:"dosage"`
	Location   *string   `json:"location"`
	Notes      *string   `json:"notes"`
	RemindAt   time.Time `json:"remind_at" binding:"required"`
	RepeatRule string    `json:"repeat_rule"`
	Active     *bool     `json:"active"`
}

// CreateReminder adds a new reminder
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	reminder := reminderFromRequest(&req)

	if err := h.service.CreateReminder(c.Request.Context(), userID, reminder); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Failed to create reminder",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

// ListReminders lists a user's reminders
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	reminders, err := h.service.ListReminders(c.Request.Context(), userID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list reminders",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "count": len(reminders)})
}

// UpdateReminder rewrites an existing reminder
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	reminder := reminderFromRequest(&req)
	reminder.ID = c.Param("id")
	if req.Active != nil {
		reminder.Active = *req.Active
	} else {
		reminder.Active = true
	}

	if err := h.service.UpdateReminder(c.Request.Context(), userID, reminder); err != nil {
		c.JSON(statusForOwnershipError(err), ErrorResponse{
			Code:    "UPDATE_FAILED",
			Message: "Failed to update reminder",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder removes a reminder
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReminder(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(statusForOwnershipError(err), ErrorResponse{
			Code:    "DELETE_FAILED",
			Message: "Failed to delete reminder",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func reminderFromRequest(req *ReminderRequest) *model.Reminder {
	return &model.Reminder{
		Type:       model.ReminderType(req.Type),
		Title:      req.Title,
		Dosage:     req.Dosage,
		Location:   req.Location,
		Notes:      req.Notes,
		RemindAt:   req.RemindAt,
		RepeatRule: req.RepeatRule,
	}
}

func statusForOwnershipError(err error) int {
	if strings.Contains(err.Error(), "does not belong to user") {
		return http.StatusForbidden
	}
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
