package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/infrastructure/config"
)

// HTTPEmailSender delivers mail through a transactional email HTTP API
// (Resend-style JSON endpoint with a bearer key).
type HTTPEmailSender struct {
	endpoint   string
	apiKey     string
	fromName   string
	fromEmail  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPEmailSender creates a sender from configuration
func NewHTTPEmailSender(cfg config.EmailConfig, logger *zap.Logger) (*HTTPEmailSender, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("email endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("email api key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("email from address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPEmailSender{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

type emailAPIRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send posts the message to the email API
func (s *HTTPEmailSender) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return errors.New("recipient address is required")
	}
	if msg.Subject == "" {
		return errors.New("subject is required")
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	payload, err := json.Marshal(emailAPIRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Warn("Email API rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return fmt.Errorf("email API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// Ensure HTTPEmailSender implements EmailSender
var _ EmailSender = (*HTTPEmailSender)(nil)
