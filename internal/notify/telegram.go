package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// Telegram sends messages to a fixed chat through the Telegram bot API
type Telegram struct {
	client *http.Client
	apiURL string
	chatID string
}

// NewTelegram creates new Telegram dispatcher instance
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		apiURL: fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", botToken),
		chatID: chatID,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts text as a Markdown message. The caller decides what to do with
// a failure; order correctness never depends on delivery.
func (t *Telegram) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// Nop is a dispatcher that drops every message. It stands in when no
// Telegram credentials are configured.
type Nop struct{}

// Send does nothing
func (Nop) Send(ctx context.Context, text string) error { return nil }
