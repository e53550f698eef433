package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.pushover.net/1/messages.json"

// PushoverNotifier implements Notifier via the Pushover message API.
// Delivery is fire-and-forget: no retries, the caller decides what a
// failure means.
type PushoverNotifier struct {
	token  string
	user   string
	apiURL string
	client *http.Client
}

// PushoverOption configures a PushoverNotifier.
type PushoverOption func(*PushoverNotifier)

// WithAPIURL overrides the Pushover endpoint. Used in tests.
func WithAPIURL(u string) PushoverOption {
	return func(p *PushoverNotifier) {
		p.apiURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) PushoverOption {
	return func(p *PushoverNotifier) {
		p.client = c
	}
}

// NewPushoverNotifier creates a notifier for the given application token
// and recipient user key.
func NewPushoverNotifier(token, user string, opts ...PushoverOption) *PushoverNotifier {
	p := &PushoverNotifier{
		token:  token,
		user:   user,
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send posts one alert as a form-encoded Pushover message.
func (p *PushoverNotifier) Send(ctx context.Context, alert *AlertPayload) error {
	form := url.Values{
		"token":   {p.token},
		"user":    {p.user},
		"message": {alert.Message()},
		"url":     {alert.URL},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.apiURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("creating pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending pushover message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("pushover returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("pushover returned %d: %s", resp.StatusCode, body)
	}

	return nil
}
