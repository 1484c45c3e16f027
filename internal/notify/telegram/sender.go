// Package telegram implements the chat transport over the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://api.telegram.org"
	defaultRateLimit = 25 // Telegram allows ~30 broadcast messages per second
	defaultTimeout   = 10 * time.Second
)

// Config holds telegram sender configuration.
type Config struct {
	Enabled   bool
	BotToken  string
	RateLimit float64
	BaseURL   string
	Timeout   time.Duration
}

// Sender sends messages through the Telegram Bot API. Outbound calls share
// one rate limiter so broadcast fan-outs stay within the API limits.
type Sender struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewSender creates a new telegram sender.
// Returns error if enabled but required config is missing.
func NewSender(config Config) (*Sender, error) {
	if config.Enabled && config.BotToken == "" {
		return nil, errors.New("telegram sender: bot token is required when enabled")
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.RateLimit <= 0 {
		config.RateLimit = defaultRateLimit
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	slog.Info("telegram sender configured",
		"enabled", config.Enabled,
		"rate_limit", config.RateLimit,
	)

	return &Sender{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type replyMarkup struct {
	Keyboard       [][]string `json:"keyboard"`
	ResizeKeyboard bool       `json:"resize_keyboard"`
}

// apiResponse is the Bot API response envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendText sends a plain text message to the chat.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	return s.send(ctx, sendMessageRequest{ChatID: chatID, Text: text})
}

// SendReplyKeyboard sends the command keyboard shown on /start.
func (s *Sender) SendReplyKeyboard(ctx context.Context, chatID int64) error {
	return s.send(ctx, sendMessageRequest{
		ChatID: chatID,
		Text:   "Choose a command:",
		ReplyMarkup: &replyMarkup{
			Keyboard: [][]string{
				{"/subscribe", "/products"},
				{"/regdate"},
			},
			ResizeKeyboard: true,
		},
	})
}

func (s *Sender) send(ctx context.Context, msg sendMessageRequest) error {
	if !s.config.Enabled {
		slog.Debug("telegram sender disabled, skipping", "chat_id", msg.ChatID)
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.config.BaseURL, s.config.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var apiResp apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if !apiResp.OK {
		return fmt.Errorf("telegram api error %d: %s", apiResp.ErrorCode, apiResp.Description)
	}

	return nil
}
