package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/session"
	"github.com/golang-jwt/jwt/v4"
)

// default time of retry after
const delaySeconds = 60

// Client represents HTTP client for the external identity provider
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// BearerToken requests a bearer credential from the provider.
// 200 — credential issued.
// 204 — no credential available for this caller.
// 429 — too many requests to the provider.
// 500 — provider internal error.
func (c *Client) BearerToken(ctx context.Context, forceRefresh bool) (session.Token, error) {
	// POST /api/token?force={forceRefresh}
	u, err := url.JoinPath(c.baseURL, "api", "token")
	if err != nil {
		return session.Token{}, err
	}
	u += "?force=" + strconv.FormatBool(forceRefresh)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return session.Token{}, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return session.Token{}, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		tokResp := tokenResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&tokResp); err != nil {
			return session.Token{}, err
		}
		return session.Token{
			Value:     tokResp.Token,
			ExpiresAt: tokenExpiry(tokResp),
		}, nil
	case http.StatusNoContent:
		return session.Token{}, models.ErrNoCredential
	case http.StatusTooManyRequests:
		return session.Token{}, models.NewTooManyRequestsError(retryAfter(resp))
	case http.StatusInternalServerError:
		return session.Token{}, models.ErrInternalError
	default:
		return session.Token{}, models.ErrInternalError
	}
}

// tokenExpiry derives the credential expiry, preferring the explicit
// expires_in field and falling back to the token's own exp claim.
func tokenExpiry(tr tokenResponse) time.Time {
	if tr.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	var c jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tr.Token, &c); err == nil && c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}

	// opaque token without expiry hints, assume a short lifetime
	return time.Now().Add(time.Minute)
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
