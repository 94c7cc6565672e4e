package service

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/pulsecare/pulse-backend/internal/vitals"
	"github.com/pulsecare/pulse-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockChatRepository is a mock implementation of ChatRepositoryInterface
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockChatRepository) GetSessionByID(ctx context.Context, id string) (*model.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) ListSessionsByUserID(ctx context.Context, userID string) ([]model.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) SaveMessage(ctx context.Context, message *model.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) GetMessagesBySessionID(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

// MockCompletionClient captures the prompt it was handed and returns a
// canned reply
type MockCompletionClient struct {
	Reply    string
	Err      error
	Received []openai.ChatCompletionMessageParamUnion
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	m.Received = messages
	return m.Reply, m.Err
}

// MockSnapshotProvider is a mock implementation of SnapshotProviderInterface
type MockSnapshotProvider struct {
	mock.Mock
}

func (m *MockSnapshotProvider) Snapshot(ctx context.Context, userID string) (*VitalSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VitalSnapshot), args.Error(1)
}

func TestStartSession_DefaultTitle(t *testing.T) {
	// Arrange
	mockRepo := new(MockChatRepository)
	service := NewChatService(mockRepo, &MockCompletionClient{}, new(MockSnapshotProvider), zap.NewNop())

	ctx := context.Background()
	mockRepo.On("CreateSession", ctx, mock.AnythingOfType("*model.ChatSession")).Return(nil)

	// Act
	session, err := service.StartSession(ctx, "user-123", "")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "New conversation", session.Title)
	assert.Equal(t, model.SessionStatusActive, session.Status)
	assert.NotEmpty(t, session.ID)
	mockRepo.AssertExpectations(t)
}

func TestSendMessage_PersistsBothSides(t *testing.T) {
	// Arrange
	mockRepo := new(MockChatRepository)
	mockSnapshots := new(MockSnapshotProvider)
	client := &MockCompletionClient{Reply: "Drink some water and rest."}
	service := NewChatService(mockRepo, client, mockSnapshots, zap.NewNop())

	ctx := context.Background()
	userID := "user-123"
	session := &model.ChatSession{ID: "sess-1", UserID: userID}

	mockRepo.On("GetSessionByID", ctx, "sess-1").Return(session, nil)
	mockRepo.On("GetMessagesBySessionID", ctx, "sess-1", historyWindow).Return([]model.ChatMessage{}, nil)
	mockRepo.On("SaveMessage", ctx, mock.AnythingOfType("*model.ChatMessage")).Return(nil).Twice()
	mockSnapshots.On("Snapshot", ctx, userID).Return(&VitalSnapshot{
		Evaluation: vitals.Evaluation{
			Score: 80,
			Statuses: map[vitals.MetricKind]vitals.Status{
				vitals.MetricHeartRate: vitals.StatusNormal,
			},
		},
	}, nil)

	// Act
	reply, err := service.SendMessage(ctx, userID, "sess-1", "I have a headache")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.MessageRoleAssistant, reply.Role)
	assert.Equal(t, "Drink some water and rest.", reply.Content)
	// System prompt, then the new user message.
	assert.Len(t, client.Received, 2)
	mockRepo.AssertExpectations(t)
}

func TestSendMessage_RejectsForeignSession(t *testing.T) {
	// Arrange
	mockRepo := new(MockChatRepository)
	service := NewChatService(mockRepo, &MockCompletionClient{}, new(MockSnapshotProvider), zap.NewNop())

	ctx := context.Background()
	session := &model.ChatSession{ID: "sess-1", UserID: "someone-else"}
	mockRepo.On("GetSessionByID", ctx, "sess-1").Return(session, nil)

	// Act
	_, err := service.SendMessage(ctx, "user-123", "sess-1", "hello")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to user")
}

func TestSendMessage_CompletionFailure(t *testing.T) {
	// Arrange
	mockRepo := new(MockChatRepository)
	mockSnapshots := new(MockSnapshotProvider)
	client := &MockCompletionClient{Err: errors.New("upstream timeout")}
	service := NewChatService(mockRepo, client, mockSnapshots, zap.NewNop())

	ctx := context.Background()
	userID := "user-123"
	session := &model.ChatSession{ID: "sess-1", UserID: userID}

	mockRepo.On("GetSessionByID", ctx, "sess-1").Return(session, nil)
	mockRepo.On("GetMessagesBySessionID", ctx, "sess-1", historyWindow).Return([]model.ChatMessage{}, nil)
	mockRepo.On("SaveMessage", ctx, mock.AnythingOfType("*model.ChatMessage")).Return(nil).Once()
	mockSnapshots.On("Snapshot", ctx, userID).Return(nil, errors.New("db down"))

	// Act
	_, err := service.SendMessage(ctx, userID, "sess-1", "hello")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assistant is unavailable")
}

func TestBuildSystemPrompt_IncludesVitalsContext(t *testing.T) {
	// Arrange
	mockSnapshots := new(MockSnapshotProvider)
	service := NewChatService(new(MockChatRepository), &MockCompletionClient{}, mockSnapshots, zap.NewNop())

	ctx := context.Background()
	mockSnapshots.On("Snapshot", ctx, "user-123").Return(&VitalSnapshot{
		Evaluation: vitals.Evaluation{
			Score: 64,
			Statuses: map[vitals.MetricKind]vitals.Status{
				vitals.MetricHeartRate: vitals.StatusHigh,
				vitals.MetricSleep:     vitals.StatusNotEnough,
			},
		},
	}, nil)

	// Act
	prompt := service.buildSystemPrompt(ctx, "user-123")

	// Assert
	assert.Contains(t, prompt, "64/100")
	assert.Contains(t, prompt, "heart_rate: High")
	assert.Contains(t, prompt, "sleep: Not Enough")
	assert.Contains(t, prompt, "not a doctor")
}

func TestBuildSystemPrompt_DegradesWithoutSnapshot(t *testing.T) {
	// Arrange
	mockSnapshots := new(MockSnapshotProvider)
	service := NewChatService(new(MockChatRepository), &MockCompletionClient{}, mockSnapshots, zap.NewNop())

	ctx := context.Background()
	mockSnapshots.On("Snapshot", ctx, "user-123").Return(nil, errors.New("db down"))

	// Act
	prompt := service.buildSystemPrompt(ctx, "user-123")

	// Assert
	assert.Contains(t, prompt, "No recent health readings")
}
