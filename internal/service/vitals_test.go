package service

import (
	"context"
	"testing"
	"time"

	"github.com/pulsecare/pulse-backend/internal/repository"
	"github.com/pulsecare/pulse-backend/internal/vitals"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockVitalsRepository is a mock implementation of VitalsRepositoryInterface
type MockVitalsRepository struct {
	mock.Mock
}

func (m *MockVitalsRepository) SaveReading(ctx context.Context, reading *model.VitalRecord) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func (m *MockVitalsRepository) GetLatestByUserID(ctx context.Context, userID string) ([]model.VitalRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VitalRecord), args.Error(1)
}

func (m *MockVitalsRepository) GetHistory(ctx context.Context, userID, kind string, startDate, endDate time.Time) ([]model.VitalRecord, error) {
	args := m.Called(ctx, userID, kind, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VitalRecord), args.Error(1)
}

// MockProfileReader is a mock implementation of ProfileReaderInterface
type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestRecordReading_ValidationErrors(t *testing.T) {
	service := &VitalsService{logger: zap.NewNop()}
	ctx := context.Background()

	tests := []struct {
		name        string
		userID      string
		reading     *model.VitalRecord
		expectedErr string
	}{
		{
			name:        "empty user ID",
			userID:      "",
			reading:     &model.VitalRecord{Kind: "heart_rate", Value: floatPtr(72)},
			expectedErr: "user ID is required",
		},
		{
			name:        "unknown kind",
			userID:      "user-123",
			reading:     &model.VitalRecord{Kind: "cholesterol", Value: floatPtr(5)},
			expectedErr: "unknown metric kind",
		},
		{
			name:        "numeric metric without value",
			userID:      "user-123",
			reading:     &model.VitalRecord{Kind: "heart_rate"},
			expectedErr: "requires a numeric value",
		},
		{
			name:        "text metric without value",
			userID:      "user-123",
			reading:     &model.VitalRecord{Kind: "blood_pressure"},
			expectedErr: "requires a text value",
		},
		{
			name:        "text metric with empty value",
			userID:      "user-123",
			reading:     &model.VitalRecord{Kind: "sleep", TextValue: strPtr("")},
			expectedErr: "requires a text value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.RecordReading(ctx, tt.userID, tt.reading)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestRecordReading_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockVitalsRepository)
	service := NewVitalsService(mockRepo, new(MockProfileReader), vitals.DefaultGoals(), zap.NewNop())

	ctx := context.Background()
	reading := &model.VitalRecord{Kind: "heart_rate", Value: floatPtr(72), Unit: "bpm"}

	mockRepo.On("SaveReading", ctx, reading).Return(nil)

	// Act
	err := service.RecordReading(ctx, "user-123", reading)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, reading.ID)
	assert.Equal(t, "user-123", reading.UserID)
	assert.False(t, reading.RecordedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestSnapshot_EvaluatesLatestReadings(t *testing.T) {
	// Arrange
	mockRepo := new(MockVitalsRepository)
	mockProfiles := new(MockProfileReader)
	service := NewVitalsService(mockRepo, mockProfiles, vitals.DefaultGoals(), zap.NewNop())

	ctx := context.Background()
	userID := "user-123"

	records := []model.VitalRecord{
		{Kind: "heart_rate", Value: floatPtr(72), Unit: "bpm"},
		{Kind: "blood_pressure", TextValue: strPtr("118/76"), Unit: "mmHg"},
	}

	mockRepo.On("GetLatestByUserID", ctx, userID).Return(records, nil)
	mockProfiles.On("GetByUserID", ctx, userID).Return(nil, repository.ErrNotFound)

	// Act
	snapshot, err := service.Snapshot(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, snapshot.Readings, 2)
	assert.Equal(t, vitals.StatusNormal, snapshot.Evaluation.Statuses[vitals.MetricHeartRate])
	assert.Equal(t, vitals.StatusNormal, snapshot.Evaluation.Statuses[vitals.MetricBloodPressure])
	assert.Equal(t, 100, snapshot.Evaluation.Score)
	mockRepo.AssertExpectations(t)
}

func TestSnapshot_ProfileGoalsOverrideDefaults(t *testing.T) {
	// Arrange
	mockRepo := new(MockVitalsRepository)
	mockProfiles := new(MockProfileReader)
	service := NewVitalsService(mockRepo, mockProfiles, vitals.DefaultGoals(), zap.NewNop())

	ctx := context.Background()
	userID := "user-123"

	// 5000 steps hits 100% of a 5000-step profile goal but only 50% of
	// the 10000-step default.
	records := []model.VitalRecord{
		{Kind: "steps", Value: floatPtr(5000), Unit: "steps"},
	}
	profile := &model.Profile{UserID: userID, StepsGoal: floatPtr(5000)}

	mockRepo.On("GetLatestByUserID", ctx, userID).Return(records, nil)
	mockProfiles.On("GetByUserID", ctx, userID).Return(profile, nil)

	// Act
	snapshot, err := service.Snapshot(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, vitals.StatusAchieved, snapshot.Evaluation.Statuses[vitals.MetricSteps])
	assert.Equal(t, 100, snapshot.Evaluation.Score)
}

func TestSnapshot_EmptyHistory(t *testing.T) {
	// Arrange
	mockRepo := new(MockVitalsRepository)
	mockProfiles := new(MockProfileReader)
	service := NewVitalsService(mockRepo, mockProfiles, vitals.DefaultGoals(), zap.NewNop())

	ctx := context.Background()
	userID := "user-123"

	mockRepo.On("GetLatestByUserID", ctx, userID).Return([]model.VitalRecord{}, nil)
	mockProfiles.On("GetByUserID", ctx, userID).Return(nil, repository.ErrNotFound)

	// Act
	snapshot, err := service.Snapshot(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, snapshot.Readings)
	assert.Equal(t, 0, snapshot.Evaluation.Score)
	assert.Empty(t, snapshot.Evaluation.Breakdown)
}

func TestHistory_RejectsInvertedDateRange(t *testing.T) {
	service := &VitalsService{logger: zap.NewNop()}

	start := time.Now()
	end := start.AddDate(0, 0, -7)

	_, err := service.History(context.Background(), "user-123", "heart_rate", start, end)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "start date must be before")
}
