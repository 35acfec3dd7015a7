package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/session"
)

// default time of retry after
const delaySeconds = 60

// Client represents HTTP client for the external wallet ledger service.
// Every call goes through the session manager's retry entry point.
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

type adjustRequest struct {
	Account string `json:"account"`
	Op      string `json:"op"`
	Amount  int64  `json:"amount"`
}

type adjustResponse struct {
	Balance int64 `json:"balance"`
}

// AdjustBalance applies a single atomic add or subtract on an account
// balance. The ledger owns the value; there is no local read-modify-write.
// 200 — balance adjusted.
// 401 — credential rejected.
// 402 — subtract below zero.
// 429 — too many requests to the service.
// 500 — ledger internal error.
func (c *Client) AdjustBalance(ctx context.Context, accountID, op string, amount int64) (int64, error) {
	var balance int64

	err := c.session.WithRetry(ctx, func(ctx context.Context, token string) error {
		// POST /api/balance/adjust
		u, err := url.JoinPath(c.baseURL, "api", "balance", "adjust")
		if err != nil {
			return err
		}

		body, err := json.Marshal(adjustRequest{
			Account: accountID,
			Op:      op,
			Amount:  amount,
		})
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
		case http.StatusOK:
			adjResp := adjustResponse{}
			if err := json.NewDecoder(resp.Body).Decode(&adjResp); err != nil {
				return err
			}
			balance = adjResp.Balance
			return nil
		case http.StatusUnauthorized:
			return models.ErrAuthExpired
		case http.StatusPaymentRequired:
			return models.ErrInsufficientFunds
		case http.StatusTooManyRequests:
			return models.NewTooManyRequestsError(retryAfter(resp))
		case http.StatusInternalServerError:
			return models.ErrInternalError
		default:
			return models.ErrInternalError
		}
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// retryAfter extracts the delay from the Retry-After header
func retryAfter(resp *http.Response) time.Duration {
	val := resp.Header.Get("Retry-After")
	t, err := strconv.Atoi(val)
	if err != nil || t <= 0 {
		t = delaySeconds
	}
	return time.Duration(t) * time.Second
}
