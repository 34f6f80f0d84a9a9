package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v18.0"

// Messenger delivers one outbound text to a contact handle.
type Messenger interface {
	Send(ctx context.Context, contactHandle, text string) error
}

// LogMessenger writes messages to the log instead of sending them. Used when
// no WhatsApp credentials are configured.
type LogMessenger struct {
	Logger *logging.Logger
}

func (m LogMessenger) Send(_ context.Context, contactHandle, text string) error {
	logger := m.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.Info("outbound message (log only)", "contact_handle", contactHandle, "text", text)
	return nil
}

// WhatsAppConfig controls the WhatsApp Cloud API client.
type WhatsAppConfig struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *logging.Logger
}

// WhatsAppClient sends texts through the WhatsApp Cloud API. Sends use a
// bounded timeout and at most one retry; beyond that the caller degrades to
// its fallback behavior.
type WhatsAppClient struct {
	baseURL       string
	token         string
	phoneNumberID string
	httpClient    *http.Client
	logger        *logging.Logger
}

// NewWhatsAppClient creates a configured client with sane defaults.
func NewWhatsAppClient(cfg WhatsAppConfig) (*WhatsAppClient, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("notify: whatsapp token is required")
	}
	if strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, errors.New("notify: whatsapp phone number id is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultGraphBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &WhatsAppClient{
		baseURL:       baseURL,
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

type sendMessagePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	Body string `json:"body"`
}

// Send posts a text message, retrying once on transport or 5xx failure.
func (c *WhatsAppClient) Send(ctx context.Context, contactHandle, text string) error {
	if strings.TrimSpace(contactHandle) == "" {
		return errors.New("notify: contact handle is required")
	}

	body, err := json.Marshal(sendMessagePayload{
		MessagingProduct: "whatsapp",
		To:               contactHandle,
		Type:             "text",
		Text:             textPayload{Body: text},
	})
	if err != nil {
		return fmt.Errorf("notify: marshal send payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		lastErr = c.post(ctx, url, body)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		c.logger.Warn("whatsapp send attempt failed", "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

func (c *WhatsAppClient) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("notify: whatsapp send failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}
