package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/session"
)

// Message is one push notification to a single user. Delivery guarantees
// are the dispatcher's concern; from here it is fire-and-forget.
type Message struct {
	UserID   string            `json:"user_id"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	DeepLink string            `json:"deep_link,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Client represents HTTP client for the notification dispatcher
type Client struct {
	client  *http.Client
	baseURL string
	session *session.Manager
}

// NewClient creates new Client instance
func NewClient(baseURL string, sm *session.Manager) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
		session: sm,
	}
}

// Notify hands one message to the dispatcher.
// 202 — message accepted for delivery.
// 401 — credential rejected.
func (c *Client) Notify(ctx context.Context, msg Message) error {
	return c.session.WithRetry(ctx, func(ctx context.Context, token string) error {
		// POST /api/notify
		u, err := url.JoinPath(c.baseURL, "api", "notify")
		if err != nil {
			return err
		}

		body, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.client.Do(req)
		if resp != nil {
			defer resp.Body.Close()
		}
		if err != nil {
			return err
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusAccepted:
			return nil
		case http.StatusUnauthorized:
			return models.ErrAuthExpired
		default:
			return models.ErrInternalError
		}
	})
}
