package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulsecare/pulse-backend/internal/service"
	"go.uber.org/zap"
)

// ChatHandler implements assistant conversation API endpoints
type ChatHandler struct {
	service *service.ChatService
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// StartSessionRequest is the payload for opening a conversation
type StartSessionRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest is the payload for one user message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StartSession opens a new conversation
func (h *ChatHandler) StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	session, err := h.service.StartSession(c.Request.Context(), userID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to start chat session",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions lists a user's conversations
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list chat sessions",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// GetHistory returns the messages of one conversation
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.service.GetHistory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(statusForOwnershipError(err), ErrorResponse{
			Code:    "HISTORY_FAILED",
			Message: "Failed to load chat history",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// SendMessage posts a user message and returns the assistant's reply
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	reply, err := h.service.SendMessage(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		c.JSON(statusForChatError(err), ErrorResponse{
			Code:    "CHAT_FAILED",
			Message: "Failed to get assistant reply",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func statusForChatError(err error) int {
	if status := statusForOwnershipError(err); status != http.StatusBadRequest {
		return status
	}
	// Upstream model failures surface as 502 so clients can retry.
	if strings.Contains(err.Error(), "assistant is unavailable") {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}
