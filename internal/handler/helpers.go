package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsecare/pulse-backend/internal/middleware"
)

// ErrorResponse is the JSON error envelope every endpoint returns
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// currentUserID returns the authenticated user's ID from the request context.
// It aborts with 401 when the auth middleware did not run.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		})
		return "", false
	}
	return userID, true
}
