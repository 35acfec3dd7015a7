package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/session"
)

// Client represents HTTP client for the external geocoder
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

type distanceResponse struct {
	Meters int64 `json:"meters"`
}

// DistanceFrom resolves a free-text destination address to a distance in
// meters from the merchant zone.
// 200 — address resolved.
// 204 — address could not be resolved.
// 401 — credential rejected.
func (c *Client) DistanceFrom(ctx context.Context, address string) (int64, error) {
	var meters int64

	err := c.session.WithRetry(ctx, func(ctx context.Context, token string) error {
		// GET /api/distance?address={address}
		u, err := url.JoinPath(c.baseURL, "api", "distance")
		if err != nil {
			return err
		}
		u += "?address=" + url.QueryEscape(address)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
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
			distResp := distanceResponse{}
			if err := json.NewDecoder(resp.Body).Decode(&distResp); err != nil {
				return err
			}
			meters = distResp.Meters
			return nil
		case http.StatusNoContent:
			return models.ErrDataNotFound
		case http.StatusUnauthorized:
			return models.ErrAuthExpired
		default:
			return models.ErrInternalError
		}
	})
	if err != nil {
		return 0, err
	}

	return meters, nil
}
