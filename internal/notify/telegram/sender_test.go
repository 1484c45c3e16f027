package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "enabled without bot token",
			config: Config{
				Enabled: true,
			},
			wantErr: "bot token is required",
		},
		{
			name: "disabled - no validation",
			config: Config{
				Enabled: false,
			},
			wantErr: "",
		},
		{
			name: "valid config",
			config: Config{
				Enabled:  true,
				BotToken: "123456:ABC-DEF",
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(tt.config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, sender)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, sender)
			}
		})
	}
}

func TestNewSender_Defaults(t *testing.T) {
	sender, err := NewSender(Config{
		Enabled:  true,
		BotToken: "test-token",
	})
	require.NoError(t, err)

	assert.NotNil(t, sender.limiter)
	assert.NotNil(t, sender.client)
	assert.Equal(t, defaultBaseURL, sender.config.BaseURL)
	assert.Equal(t, float64(defaultRateLimit), sender.config.RateLimit)
}

func TestSender_SendText_Disabled(t *testing.T) {
	sender, err := NewSender(Config{Enabled: false})
	require.NoError(t, err)

	err = sender.SendText(context.Background(), 123456789, "Test message")
	assert.NoError(t, err)
}

func newTestSender(t *testing.T, baseURL string) *Sender {
	t.Helper()
	sender, err := NewSender(Config{
		Enabled:   true,
		BotToken:  "test-token",
		BaseURL:   baseURL,
		RateLimit: 1000,
	})
	require.NoError(t, err)
	return sender
}

func TestSender_SendText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req sendMessageRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, int64(123456789), req.ChatID)
		assert.Equal(t, "Test message", req.Text)
		assert.Nil(t, req.ReplyMarkup)

		_ = json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer server.Close()

	sender := newTestSender(t, server.URL)
	err := sender.SendText(context.Background(), 123456789, "Test message")
	assert.NoError(t, err)
}

func TestSender_SendReplyKeyboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		require.NotNil(t, req.ReplyMarkup)
		assert.True(t, req.ReplyMarkup.ResizeKeyboard)
		require.Len(t, req.ReplyMarkup.Keyboard, 2)
		assert.Equal(t, []string{"/subscribe", "/products"}, req.ReplyMarkup.Keyboard[0])
		assert.Equal(t, []string{"/regdate"}, req.ReplyMarkup.Keyboard[1])

		_ = json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer server.Close()

	sender := newTestSender(t, server.URL)
	err := sender.SendReplyKeyboard(context.Background(), 123456789)
	assert.NoError(t, err)
}

func TestSender_SendText_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(apiResponse{
			OK:          false,
			ErrorCode:   403,
			Description: "Forbidden: bot was blocked by the user",
		})
	}))
	defer server.Close()

	sender := newTestSender(t, server.URL)
	err := sender.SendText(context.Background(), 999999999, "Test message")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "blocked by the user")
}

func TestSender_SendText_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	}))
	defer server.Close()

	sender := newTestSender(t, server.URL)
	err := sender.SendText(context.Background(), 123456789, "Test message")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
