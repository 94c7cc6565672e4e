package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulsecare/pulse-backend/internal/audit"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"go.uber.org/zap"
)

// ReminderRepositoryInterface defines the data access the reminder service needs
type ReminderRepositoryInterface interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	FindByUserID(ctx context.Context, userID string, activeOnly bool) ([]model.Reminder, error)
	FindByID(ctx context.Context, id string) (*model.Reminder, error)
	Update(ctx context.Context, reminder *model.Reminder) error
	Delete(ctx context.Context, id string) error
	DeactivateElapsed(ctx context.Context, userID string, before time.Time) error
}

// AuditLoggerInterface records data-access trail entries
type AuditLoggerInterface interface {
	Log(ctx context.Context, entry audit.Entry)
}

// ReminderService handles medication and appointment reminder business logic
type ReminderService struct {
	repo   ReminderRepositoryInterface
	audit  AuditLoggerInterface
	logger *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(repo ReminderRepositoryInterface, auditLogger AuditLoggerInterface, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		repo:   repo,
		audit:  auditLogger,
		logger: logger,
	}
}

var validRepeatRules = map[string]bool{
	"none":    true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
}

// CreateReminder validates and stores a reminder
func (s *ReminderService) CreateReminder(ctx context.Context, userID string, reminder *model.Reminder) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := validateReminder(reminder); err != nil {
		return err
	}

	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	reminder.UserID = userID
	reminder.Active = true

	now := time.Now()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	if err := s.repo.Create(ctx, reminder); err != nil {
		s.logger.Error("failed to create reminder",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		UserID:        userID,
		OperationType: audit.OperationCreate,
		ResourceType:  audit.ResourceReminder,
		ResourceID:    reminder.ID,
	})

	s.logger.Info("reminder created",
		zap.String("reminder_id", reminder.ID),
		zap.String("user_id", userID),
		zap.String("type", string(reminder.Type)),
	)

	return nil
}

// ListReminders returns a user's reminders. Elapsed one-shot reminders are
// deactivated first so the client never renders a stale active reminder.
func (s *ReminderService) ListReminders(ctx context.Context, userID string, activeOnly bool) ([]model.Reminder, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	if err := s.repo.DeactivateElapsed(ctx, userID, time.Now()); err != nil {
		// Listing still works with stale flags; log and continue.
		s.logger.Warn("failed to deactivate elapsed reminders",
			zap.Error(err),
			zap.String("user_id", userID),
		)
	}

	reminders, err := s.repo.FindByUserID(ctx, userID, activeOnly)
	if err != nil {
		s.logger.Error("failed to list reminders",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	return reminders, nil
}

// UpdateReminder rewrites a reminder the user owns
func (s *ReminderService) UpdateReminder(ctx context.Context, userID string, reminder *model.Reminder) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if reminder.ID == "" {
		return fmt.Errorf("reminder ID is required")
	}
	if err := validateReminder(reminder); err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, reminder.ID)
	if err != nil {
		return fmt.Errorf("failed to load reminder: %w", err)
	}
	if existing.UserID != userID {
		return fmt.Errorf("reminder does not belong to user")
	}

	reminder.UserID = userID
	reminder.Type = existing.Type

	if err := s.repo.Update(ctx, reminder); err != nil {
		s.logger.Error("failed to update reminder",
			zap.Error(err),
			zap.String("reminder_id", reminder.ID),
		)
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		UserID:        userID,
		OperationType: audit.OperationUpdate,
		ResourceType:  audit.ResourceReminder,
		ResourceID:    reminder.ID,
	})

	return nil
}

// DeleteReminder removes a reminder the user owns
func (s *ReminderService) DeleteReminder(ctx context.Context, userID, reminderID string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	existing, err := s.repo.FindByID(ctx, reminderID)
	if err != nil {
		return fmt.Errorf("failed to load reminder: %w", err)
	}
	if existing.UserID != userID {
		return fmt.Errorf("reminder does not belong to user")
	}

	if err := s.repo.Delete(ctx, reminderID); err != nil {
		s.logger.Error("failed to delete reminder",
			zap.Error(err),
			zap.String("reminder_id", reminderID),
		)
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.audit.Log(ctx, audit.Entry{
		UserID:        userID,
		OperationType: audit.OperationDelete,
		ResourceType:  audit.ResourceReminder,
		ResourceID:    reminderID,
	})

	s.logger.Info("reminder deleted",
		zap.String("reminder_id", reminderID),
		zap.String("user_id", userID),
	)

	return nil
}

func validateReminder(reminder *model.Reminder) error {
	if reminder.Type != model.ReminderTypeMedication && reminder.Type != model.ReminderTypeAppointment {
		return fmt.Errorf("reminder type must be medication or appointment")
	}
	if reminder.Title == "" {
		return fmt.Errorf("reminder title is required")
	}
	if reminder.RemindAt.IsZero() {
		return fmt.Errorf("reminder time is required")
	}

	if reminder.RepeatRule == "" {
		reminder.RepeatRule = "none"
	}
	if !validRepeatRules[reminder.RepeatRule] {
		return fmt.Errorf("invalid repeat rule: must be none, daily, weekly, or monthly")
	}

	return nil
}
