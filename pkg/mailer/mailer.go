package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
)

// Message is a single outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPMailer posts messages to a JSON mail API.
type HTTPMailer struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	fromName    string
	fromAddress string
	logg        *logger.Logger
}

// NoopMailer drops messages. Used when mail is not configured.
type NoopMailer struct {
	logg *logger.Logger
}

// New returns an HTTP mailer when mail is configured, otherwise a noop
// implementation so callers never need a nil check.
func New(cfg config.MailConfig, logg *logger.Logger) Mailer {
	if cfg.APIBaseURL == "" || cfg.FromAddress == "" {
		return &NoopMailer{logg: logg}
	}
	return &HTTPMailer{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.APIBaseURL,
		apiKey:      cfg.APIKey,
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
		logg:        logg,
	}
}

type sendRequest struct {
	FromName    string `json:"from_name"`
	FromAddress string `json:"from_address"`
	ToName      string `json:"to_name"`
	ToAddress   string `json:"to_address"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// Send posts the message to the mail API and fails on non-2xx responses.
func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.ToAddress == "" {
		return errors.New("recipient address is required")
	}

	payload, err := json.Marshal(sendRequest{
		FromName:    m.fromName,
		FromAddress: m.fromAddress,
		ToName:      msg.ToName,
		ToAddress:   msg.ToAddress,
		Subject:     msg.Subject,
		Body:        msg.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Send logs and drops the message.
func (m *NoopMailer) Send(ctx context.Context, msg Message) error {
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{"to": msg.ToAddress, "subject": msg.Subject})
		m.logg.Info(ctx, "mail delivery skipped (mailer not configured)")
	}
	return nil
}
