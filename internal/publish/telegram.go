package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kiliwatch/tzscan/internal/retry"
)

// Telegram pushes digest lines to a chat or channel.
type Telegram struct {
	token  string
	chatID string
	client *http.Client
}

func NewTelegram(token, chatID string, timeout time.Duration) *Telegram {
	return &Telegram{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether credentials are configured.
func (t *Telegram) Enabled() bool {
	return t != nil && t.token != "" && t.chatID != ""
}

// SendDigest sends the digest text as one plain-text message, retrying
// with backoff on transient failures. Empty text is a no-op.
func (t *Telegram) SendDigest(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	rc := retry.Config{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	return retry.WithRetry(ctx, rc, func() error {
		return t.sendOnce(ctx, text)
	})
}

func (t *Telegram) sendOnce(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	payload := map[string]interface{}{
		"chat_id":                  t.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding telegram payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API: status %d", resp.StatusCode)
	}
	return nil
}
