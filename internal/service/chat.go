package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/pulsecare/pulse-backend/internal/vitals"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// historyWindow caps how much prior conversation travels with each
// completion request
const historyWindow = 20

// ChatRepositoryInterface defines the data access the chat service needs
type ChatRepositoryInterface interface {
	CreateSession(ctx context.Context, session *model.ChatSession) error
	GetSessionByID(ctx context.Context, id string) (*model.ChatSession, error)
	ListSessionsByUserID(ctx context.Context, userID string) ([]model.ChatSession, error)
	SaveMessage(ctx context.Context, message *model.ChatMessage) error
	GetMessagesBySessionID(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error)
}

// CompletionClientInterface is the text-completion boundary. The model
// behind it is opaque; only the prompt and the returned text cross over.
type CompletionClientInterface interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
}

// SnapshotProviderInterface supplies the current vitals evaluation for
// prompt assembly
type SnapshotProviderInterface interface {
	Snapshot(ctx context.Context, userID string) (*VitalSnapshot, error)
}

// ChatService manages assistant conversations
type ChatService struct {
	repo      ChatRepositoryInterface
	aiClient  CompletionClientInterface
	snapshots SnapshotProviderInterface
	logger    *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	repo ChatRepositoryInterface,
	aiClient CompletionClientInterface,
	snapshots SnapshotProviderInterface,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		repo:      repo,
		aiClient:  aiClient,
		snapshots: snapshots,
		logger:    logger,
	}
}

// StartSession creates a new conversation
func (s *ChatService) StartSession(ctx context.Context, userID, title string) (*model.ChatSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if title == "" {
		title = "New conversation"
	}

	session := &model.ChatSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Status:    model.SessionStatusActive,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to create chat session",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	s.logger.Info("chat session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)

	return session, nil
}

// ListSessions returns a user's conversations
func (s *ChatService) ListSessions(ctx context.Context, userID string) ([]model.ChatSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	sessions, err := s.repo.ListSessionsByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list chat sessions",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}

	return sessions, nil
}

// GetHistory returns a session's messages after verifying ownership
func (s *ChatService) GetHistory(ctx context.Context, userID, sessionID string) ([]model.ChatMessage, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	messages, err := s.repo.GetMessagesBySessionID(ctx, sessionID, 0)
	if err != nil {
		s.logger.Error("failed to get chat history",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}

	return messages, nil
}

// SendMessage appends a user message, asks the completion API for a reply
// with the current health context attached, persists both sides, and
// returns the assistant's message.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID, content string) (*model.ChatMessage, error) {
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.GetMessagesBySessionID(ctx, sessionID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	userMsg := &model.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Role:      model.MessageRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	messages := s.assemblePrompt(ctx, userID, history, content)

	reply, err := s.aiClient.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("completion request failed",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return nil, fmt.Errorf("assistant is unavailable: %w", err)
	}

	assistantMsg := &model.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Role:      model.MessageRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, assistantMsg); err != nil {
		// The reply was already generated; losing it would force the
		// user to re-ask. Return it and log the persistence failure.
		s.logger.Error("failed to save assistant message",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
	}

	s.logger.Info("chat exchange completed",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
	)

	return assistantMsg, nil
}

// assemblePrompt builds the completion request: system instructions with the
// user's current vitals context, the recent conversation window, then the
// new user message.
func (s *ChatService) assemblePrompt(ctx context.Context, userID string, history []model.ChatMessage, content string) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.buildSystemPrompt(ctx, userID)),
	}

	for _, msg := range history {
		switch msg.Role {
		case model.MessageRoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case model.MessageRoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	return append(messages, openai.UserMessage(content))
}

// buildSystemPrompt renders the assistant instructions plus the health
// context. A snapshot failure degrades to a prompt without vitals rather
// than blocking the conversation.
func (s *ChatService) buildSystemPrompt(ctx context.Context, userID string) string {
	var b strings.Builder
	b.WriteString("You are a friendly health assistant inside a mobile wellness app. ")
	b.WriteString("Answer briefly and in plain language. You are not a doctor: for ")
	b.WriteString("alarming symptoms, always advise seeing a medical professional.\n")

	snapshot, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load vitals for prompt, continuing without",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		b.WriteString("\nNo recent health readings are available for this user.\n")
		return b.String()
	}

	eval := snapshot.Evaluation
	b.WriteString(fmt.Sprintf("\nThe user's current wellness score is %d/100.\n", eval.Score))

	if len(eval.Statuses) > 0 {
		b.WriteString("Latest readings and their classification:\n")
		for _, kind := range vitals.AllKinds {
			status, present := eval.Statuses[kind]
			if !present {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", kind, status))
		}
	}

	return b.String()
}

func (s *ChatService) ownedSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session does not belong to user")
	}

	return session, nil
}
