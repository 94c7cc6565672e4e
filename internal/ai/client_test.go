package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		apiKey  string
		baseURL string
		model   string
		wantErr bool
	}{
		{
			name:    "valid configuration",
			apiKey:  "test-key",
			baseURL: "https://api.example.com/v1",
			model:   "gpt-4o-mini",
			wantErr: false,
		},
		{
			name:    "base URL optional",
			apiKey:  "test-key",
			model:   "gpt-4o-mini",
			wantErr: false,
		},
		{
			name:    "missing api key",
			model:   "gpt-4o-mini",
			wantErr: true,
		},
		{
			name:    "missing model",
			apiKey:  "test-key",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, tt.baseURL, tt.model, logger)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, client)
			assert.Equal(t, tt.model, client.model)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"authentication failure", errors.New("authentication failed"), false},
		{"unauthorized", errors.New("401 Unauthorized"), false},
		{"invalid request", errors.New("invalid request payload"), false},
		{"bad request", errors.New("400 Bad Request"), false},
		{"rate limited", errors.New("429 Too Many Requests"), true},
		{"server error", errors.New("503 Service Unavailable"), true},
		{"network error", errors.New("connection reset by peer"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryable(tt.err))
		})
	}
}
