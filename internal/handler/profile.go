package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulsecare/pulse-backend/internal/service"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ProfileHandler implements user profile API endpoints
type ProfileHandler struct {
	service *service.ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// UpdateProfileRequest is the payload for saving profile changes
type UpdateProfileRequest struct {
	DisplayName  string     `json:"display_name"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Gender       *string    `json:"gender"`
	HeightCm     *float64   `json:"height_cm"`
	StepsGoal    *float64   `json:"steps_goal"`
	WaterGoalL   *float64   `json:"water_goal_l"`
	MedicalNotes *string    `json:"medical_notes"`
}

// GetProfile returns the authenticated user's profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load profile",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile saves profile changes
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	profile := &model.Profile{
		UserID:       userID,
		DisplayName:  req.DisplayName,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		HeightCm:     req.HeightCm,
		StepsGoal:    req.StepsGoal,
		WaterGoalL:   req.WaterGoalL,
		MedicalNotes: req.MedicalNotes,
	}

	if err := h.service.UpdateProfile(c.Request.Context(), userID, profile); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Failed to update profile",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}
