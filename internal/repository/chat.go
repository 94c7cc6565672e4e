package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulsecare/pulse-backend/internal/security"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ChatRepository manages assistant conversation sessions and messages.
// Message content is encrypted at rest; rows round-trip through the
// injected Encryptor transparently.
type ChatRepository struct {
	db        *pgxpool.Pool
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool, encryptor *security.Encryptor, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:        db,
		encryptor: encryptor,
		logger:    logger,
	}
}

// CreateSession inserts a chat session
func (r *ChatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, title, status, started_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Status,
		session.StartedAt,
	)

	if err != nil {
		r.logger.Error("failed to create chat session",
			zap.Error(err),
			zap.String("user_id", session.UserID),
		)
		return fmt.Errorf("failed to create chat session: %w", err)
	}

	return nil
}

// GetSessionByID returns a session without its messages
func (r *ChatRepository) GetSessionByID(ctx context.Context, id string) (*model.ChatSession, error) {
	query := `
		SELECT id, user_id, title, status, started_at, updated_at
		FROM chat_sessions
		WHERE id = $1
	`

	var session model.ChatSession
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.Status,
		&session.StartedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to get chat session", zap.Error(err), zap.String("session_id", id))
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	return &session, nil
}

// ListSessionsByUserID returns a user's sessions, most recently active first
func (r *ChatRepository) ListSessionsByUserID(ctx context.Context, userID string) ([]model.ChatSession, error) {
	query := `
		SELECT id, user_id, title, status, started_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list chat sessions", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.ChatSession
	for rows.Next() {
		var session model.ChatSession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Title,
			&session.Status,
			&session.StartedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan chat session", zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating chat sessions", zap.Error(err))
		return nil, fmt.Errorf("error iterating chat sessions: %w", err)
	}

	return sessions, nil
}

// SaveMessage appends a message to a session and bumps the session's
// updated_at so listing order follows activity
func (r *ChatRepository) SaveMessage(ctx context.Context, message *model.ChatMessage) error {
	encrypted, err := r.encryptor.Encrypt(message.Content)
	if err != nil {
		return fmt.Errorf("failed to encrypt message content: %w", err)
	}

	query := `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.Exec(ctx, query,
		message.ID,
		message.SessionID,
		message.Role,
		encrypted,
		message.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to save chat message",
			zap.Error(err),
			zap.String("session_id", message.SessionID),
		)
		return fmt.Errorf("failed to save chat message: %w", err)
	}

	_, err = r.db.Exec(ctx, `UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1`, message.SessionID)
	if err != nil {
		r.logger.Warn("failed to touch chat session", zap.Error(err), zap.String("session_id", message.SessionID))
	}

	return nil
}

// GetMessagesBySessionID returns a session's messages oldest first, capped
// at limit when limit > 0
func (r *ChatRepository) GetMessagesBySessionID(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT id, session_id, role, content, created_at
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT CASE WHEN $2 > 0 THEN $2 ELSE NULL END
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		r.logger.Error("failed to get chat messages", zap.Error(err), zap.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var message model.ChatMessage
		var encrypted string
		err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Role,
			&encrypted,
			&message.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan chat message", zap.Error(err))
			continue
		}

		message.Content, err = r.encryptor.Decrypt(encrypted)
		if err != nil {
			r.logger.Error("failed to decrypt chat message",
				zap.Error(err),
				zap.String("message_id", message.ID),
			)
			continue
		}

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating chat messages", zap.Error(err))
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}
