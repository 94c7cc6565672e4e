package service

import (
	"context"
	"testing"
	"time"

	"github.com/pulsecare/pulse-backend/internal/audit"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockReminderRepository is a mock implementation of ReminderRepositoryInterface
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) FindByUserID(ctx context.Context, userID string, activeOnly bool) ([]model.Reminder, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reminder), args.Error(1)
}

func (m *MockReminderRepository) FindByID(ctx context.Context, id string) (*model.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reminder), args.Error(1)
}

func (m *MockReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReminderRepository) DeactivateElapsed(ctx context.Context, userID string, before time.Time) error {
	args := m.Called(ctx, userID, before)
	return args.Error(0)
}

// MockAuditLogger records audit entries for inspection
type MockAuditLogger struct {
	Entries []audit.Entry
}

func (m *MockAuditLogger) Log(ctx context.Context, entry audit.Entry) {
	m.Entries = append(m.Entries, entry)
}

func TestCreateReminder_ValidationErrors(t *testing.T) {
	service := &ReminderService{logger: zap.NewNop()}
	ctx := context.Background()
	remindAt := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		userID      string
		reminder    *model.Reminder
		expectedErr string
	}{
		{
			name:        "empty user ID",
			userID:      "",
			reminder:    &model.Reminder{Type: model.ReminderTypeMedication, Title: "Aspirin", RemindAt: remindAt},
			expectedErr: "user ID is required",
		},
		{
			name:        "invalid type",
			userID:      "user-123",
			reminder:    &model.Reminder{Type: "birthday", Title: "Aspirin", RemindAt: remindAt},
			expectedErr: "reminder type must be medication or appointment",
		},
		{
			name:        "empty title",
			userID:      "user-123",
			reminder:    &model.Reminder{Type: model.ReminderTypeMedication, RemindAt: remindAt},
			expectedErr: "reminder title is required",
		},
		{
			name:        "zero remind time",
			userID:      "user-123",
			reminder:    &model.Reminder{Type: model.ReminderTypeAppointment, Title: "Cardiologist"},
			expectedErr: "reminder time is required",
		},
		{
			name:        "invalid repeat rule",
			userID:      "user-123",
			reminder:    &model.Reminder{Type: model.ReminderTypeMedication, Title: "Aspirin", RemindAt: remindAt, RepeatRule: "hourly"},
			expectedErr: "invalid repeat rule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CreateReminder(ctx, tt.userID, tt.reminder)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestCreateReminder_DefaultsAndAudit(t *testing.T) {
	// Arrange
	mockRepo := new(MockReminderRepository)
	auditLog := &MockAuditLogger{}
	service := NewReminderService(mockRepo, auditLog, zap.NewNop())

	ctx := context.Background()
	reminder := &model.Reminder{
		Type:     model.ReminderTypeMedication,
		Title:    "Aspirin",
		RemindAt: time.Now().Add(time.Hour),
	}

	mockRepo.On("Create", ctx, reminder).Return(nil)

	// Act
	err := service.CreateReminder(ctx, "user-123", reminder)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, reminder.ID)
	assert.True(t, reminder.Active)
	assert.Equal(t, "none", reminder.RepeatRule)
	assert.Len(t, auditLog.Entries, 1)
	assert.Equal(t, audit.OperationCreate, auditLog.Entries[0].OperationType)
	assert.Equal(t, audit.ResourceReminder, auditLog.Entries[0].ResourceType)
	mockRepo.AssertExpectations(t)
}

func TestListReminders_DeactivatesElapsedFirst(t *testing.T) {
	// Arrange
	mockRepo := new(MockReminderRepository)
	service := NewReminderService(mockRepo, &MockAuditLogger{}, zap.NewNop())

	ctx := context.Background()
	userID := "user-123"
	expected := []model.Reminder{{ID: "r-1", UserID: userID, Title: "Aspirin"}}

	mockRepo.On("DeactivateElapsed", ctx, userID, mock.AnythingOfType("time.Time")).Return(nil)
	mockRepo.On("FindByUserID", ctx, userID, true).Return(expected, nil)

	// Act
	reminders, err := service.ListReminders(ctx, userID, true)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, expected, reminders)
	mockRepo.AssertExpectations(t)
}

func TestUpdateReminder_RejectsForeignReminder(t *testing.T) {
	// Arrange
	mockRepo := new(MockReminderRepository)
	service := NewReminderService(mockRepo, &MockAuditLogger{}, zap.NewNop())

	ctx := context.Background()
	existing := &model.Reminder{ID: "r-1", UserID: "someone-else", Type: model.ReminderTypeMedication}
	mockRepo.On("FindByID", ctx, "r-1").Return(existing, nil)

	reminder := &model.Reminder{
		ID:       "r-1",
		Type:     model.ReminderTypeMedication,
		Title:    "Aspirin",
		RemindAt: time.Now().Add(time.Hour),
	}

	// Act
	err := service.UpdateReminder(ctx, "user-123", reminder)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to user")
}

func TestUpdateReminder_TypeImmutable(t *testing.T) {
	// Arrange
	mockRepo := new(MockReminderRepository)
	service := NewReminderService(mockRepo, &MockAuditLogger{}, zap.NewNop())

	ctx := context.Background()
	existing := &model.Reminder{ID: "r-1", UserID: "user-123", Type: model.ReminderTypeMedication}
	mockRepo.On("FindByID", ctx, "r-1").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*model.Reminder")).Return(nil)

	reminder := &model.Reminder{
		ID:       "r-1",
		Type:     model.ReminderTypeAppointment,
		Title:    "Aspirin",
		RemindAt: time.Now().Add(time.Hour),
	}

	// Act
	err := service.UpdateReminder(ctx, "user-123", reminder)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.ReminderTypeMedication, reminder.Type)
	mockRepo.AssertExpectations(t)
}

func TestDeleteReminder_AuditsDeletion(t *testing.T) {
	// Arrange
	mockRepo := new(MockReminderRepository)
	auditLog := &MockAuditLogger{}
	service := NewReminderService(mockRepo, auditLog, zap.NewNop())

	ctx := context.Background()
	existing := &model.Reminder{ID: "r-1", UserID: "user-123"}
	mockRepo.On("FindByID", ctx, "r-1").Return(existing, nil)
	mockRepo.On("Delete", ctx, "r-1").Return(nil)

	// Act
	err := service.DeleteReminder(ctx, "user-123", "r-1")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, auditLog.Entries, 1)
	assert.Equal(t, audit.OperationDelete, auditLog.Entries[0].OperationType)
	mockRepo.AssertExpectations(t)
}
