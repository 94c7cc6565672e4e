package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ReminderRepository manages medication and appointment reminders
type ReminderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *pgxpool.Pool, logger *zap.Logger) *ReminderRepository {
	return &ReminderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a reminder
func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, user_id, type, title, dosage, location, notes,
			remind_at, repeat_rule, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Type,
		reminder.Title,
		reminder.Dosage,
		reminder.Location,
		reminder.Notes,
		reminder.RemindAt,
		reminder.RepeatRule,
		reminder.Active,
	)

	if err != nil {
		r.logger.Error("failed to create reminder",
			zap.Error(err),
			zap.String("user_id", reminder.UserID),
		)
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

// FindByUserID returns a user's reminders, soonest first
func (r *ReminderRepository) FindByUserID(ctx context.Context, userID string, activeOnly bool) ([]model.Reminder, error) {
	query := `
		SELECT
			id, user_id, type, title, dosage, location, notes,
			remind_at, repeat_rule, active, created_at, updated_at
		FROM reminders
		WHERE user_id = $1 AND ($2 = false OR active = true)
		ORDER BY remind_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID, activeOnly)
	if err != nil {
		r.logger.Error("failed to list reminders", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		var reminder model.Reminder
		err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.Type,
			&reminder.Title,
			&reminder.Dosage,
			&reminder.Location,
			&reminder.Notes,
			&reminder.RemindAt,
			&reminder.RepeatRule,
			&reminder.Active,
			&reminder.CreatedAt,
			&reminder.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan reminder", zap.Error(err))
			continue
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating reminders", zap.Error(err))
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	return reminders, nil
}

// FindByID returns a single reminder
func (r *ReminderRepository) FindByID(ctx context.Context, id string) (*model.Reminder, error) {
	query := `
		SELECT
			id, user_id, type, title, dosage, location, notes,
			remind_at, repeat_rule, active, created_at, updated_at
		FROM reminders
		WHERE id = $1
	`

	var reminder model.Reminder
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.Type,
		&reminder.Title,
		&reminder.Dosage,
		&reminder.Location,
		&reminder.Notes,
		&reminder.RemindAt,
		&reminder.RepeatRule,
		&reminder.Active,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("failed to get reminder", zap.Error(err), zap.String("reminder_id", id))
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return &reminder, nil
}

// Update rewrites a reminder's editable fields
func (r *ReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $1, dosage = $2, location = $3, notes = $4,
		    remind_at = $5, repeat_rule = $6, active = $7, updated_at = NOW()
		WHERE id = $8
	`

	result, err := r.db.Exec(ctx, query,
		reminder.Title,
		reminder.Dosage,
		reminder.Location,
		reminder.Notes,
		reminder.RemindAt,
		reminder.RepeatRule,
		reminder.Active,
		reminder.ID,
	)

	if err != nil {
		r.logger.Error("failed to update reminder",
			zap.Error(err),
			zap.String("reminder_id", reminder.ID),
		)
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a reminder
func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete reminder", zap.Error(err), zap.String("reminder_id", id))
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeactivateElapsed marks one-shot reminders whose time has passed inactive.
// Repeating reminders stay active; the client computes their next occurrence.
func (r *ReminderRepository) DeactivateElapsed(ctx context.Context, userID string, before time.Time) error {
	query := `
		UPDATE reminders
		SET active = false, updated_at = NOW()
		WHERE user_id = $1 AND repeat_rule = 'none' AND active = true AND remind_at < $2
	`

	_, err := r.db.Exec(ctx, query, userID, before)
	if err != nil {
		r.logger.Error("failed to deactivate elapsed reminders",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to deactivate elapsed reminders: %w", err)
	}

	return nil
}
