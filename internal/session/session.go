package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// cached credential is treated as expired this long before the
	// provider's real expiry
	expiryMargin = 30 * time.Second

	maxAttempts = 3
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 8 * time.Second
)

// Token is a bearer credential with its provider-side expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Source obtains a bearer credential from the identity provider.
type Source interface {
	// BearerToken returns a credential, requesting a fresh one when
	// forceRefresh is set
	BearerToken(ctx context.Context, forceRefresh bool) (Token, error)
}

// Operation is one remote call executed under a bearer credential.
type Operation func(ctx context.Context, token string) error

// Manager caches a single bearer credential and wraps every outbound call
// with refresh-on-expiry and bounded retry. Concurrent callers that observe
// an invalid credential share one in-flight refresh.
type Manager struct {
	src    Source
	logger *zap.Logger

	mu  sync.Mutex
	tok Token

	group singleflight.Group
}

// NewManager creates new Manager instance
func NewManager(src Source, logger *zap.Logger) *Manager {
	return &Manager{
		src:    src,
		logger: logger,
	}
}

// Token returns a credential valid for at least the expiry margin,
// refreshing the cached one when needed.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	tok := m.tok
	m.mu.Unlock()

	if tok.Value != "" && time.Until(tok.ExpiresAt) > expiryMargin {
		return tok.Value, nil
	}

	return m.refresh(ctx, false)
}

// ForceRefresh discards the cached credential and obtains a new one.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.tok = Token{}
	m.mu.Unlock()

	return m.refresh(ctx, true)
}

func (m *Manager) refresh(ctx context.Context, force bool) (string, error) {
	// single-slot refresh: every caller awaiting an invalid credential
	// joins the same in-flight request
	v, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		m.logger.Debug("refreshing bearer credential", zap.Bool("force", force))

		tok, err := m.src.BearerToken(ctx, force)
		if err != nil {
			return nil, err
		}
		if tok.Value == "" {
			return nil, models.ErrNoCredential
		}

		m.mu.Lock()
		m.tok = tok
		m.mu.Unlock()

		return tok.Value, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// WithRetry ensures a valid credential, executes op and classifies failures:
// an expired credential triggers exactly one forced refresh and a retry,
// rate limits are retried with capped exponential backoff, anything else
// propagates unchanged. After the attempt cap the last error is fatal.
func (m *Manager) WithRetry(ctx context.Context, op Operation) error {
	token, err := m.Token(ctx)
	if err != nil {
		return err
	}

	var (
		refreshed bool
		backoff   = baseBackoff
	)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = op(ctx, token)
		if err == nil {
			return nil
		}

		var errTooManyReq models.TooManyRequestsError
		switch {
		case errors.Is(err, models.ErrAuthExpired) && !refreshed:
			refreshed = true
			m.logger.Debug("credential rejected, forcing refresh")
			token, err = m.ForceRefresh(ctx)
			if err != nil {
				return err
			}
		case errors.As(err, &errTooManyReq):
			delay := errTooManyReq.RetryAfter
			if delay <= 0 {
				delay = backoff
			}
			m.logger.Debug("rate limited", zap.Duration("retry-after", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		default:
			return err
		}
	}

	return err
}
