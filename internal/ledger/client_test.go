package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticSource hands out one fixed credential
type staticSource struct{}

func (staticSource) BearerToken(context.Context, bool) (session.Token, error) {
	return session.Token{Value: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func newTestClient(srvURL string) *Client {
	return NewClient(srvURL, session.NewManager(staticSource{}, zap.NewNop()))
}

func TestClient_AdjustBalance(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantBalance int64
		wantErr     error
	}{
		{
			name: "adjusted_returns_balance",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/balance/adjust", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

				var req adjustRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, adjustRequest{Account: "alice", Op: models.LedgerOpSubtract, Amount: 4300}, req)

				json.NewEncoder(w).Encode(adjustResponse{Balance: 5700})
			},
			wantBalance: 5700,
		},
		{
			name: "subtract_below_zero",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPaymentRequired)
			},
			wantErr: models.ErrInsufficientFunds,
		},
		{
			name: "ledger_failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: models.ErrInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			balance, err := newTestClient(srv.URL).AdjustBalance(
				context.Background(), "alice", models.LedgerOpSubtract, 4300)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
		})
	}
}

func TestClient_AdjustBalanceRetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(adjustResponse{Balance: 100})
	}))
	defer srv.Close()

	balance, err := newTestClient(srv.URL).AdjustBalance(
		context.Background(), "alice", models.LedgerOpAdd, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	assert.Equal(t, 2, calls)
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "explicit_seconds", header: "30", want: 30 * time.Second},
		{name: "missing_header", header: "", want: 60 * time.Second},
		{name: "garbage_header", header: "soon", want: 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, retryAfter(resp))
		})
	}
}
