package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned when Start is called on a running watcher
var ErrAlreadyStarted = errors.New("watcher already started")

// Feed delivers status writes for a single order as they happen. The feed
// may redeliver and replay events.
type Feed interface {
	// Subscribe opens a delivery channel for one order; the returned
	// function closes the subscription
	Subscribe(ctx context.Context, orderID string) (<-chan models.StatusEvent, func(), error)
}

// Watcher consumes one order's change stream and converts it into
// de-duplicated updates: an event whose status equals the last observed
// one is dropped, everything else is forwarded to exactly one callback.
// Stop closes the subscription and clears the last-observed cursor so a
// later Start compares fresh.
type Watcher struct {
	feed   Feed
	logger *zap.Logger

	mu      sync.Mutex
	active  bool
	orderID string
	last    string
	seen    bool
	unsub   func()
}

// NewWatcher creates new Watcher instance
func NewWatcher(feed Feed, logger *zap.Logger) *Watcher {
	return &Watcher{
		feed:   feed,
		logger: logger,
	}
}

// Start subscribes to the order's change stream and invokes onChange for
// every event that changes the observed status.
func (w *Watcher) Start(ctx context.Context, orderID string, onChange func(models.StatusEvent)) error {
	// the slot is claimed before the subscription is opened, so two
	// concurrent Start calls cannot both subscribe
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.active = true
	w.orderID = orderID
	w.mu.Unlock()

	events, unsub, err := w.feed.Subscribe(ctx, orderID)
	if err != nil {
		w.mu.Lock()
		w.active = false
		w.orderID = ""
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	w.unsub = unsub
	w.mu.Unlock()

	go func() {
		for ev := range events {
			if ev.OrderID != orderID {
				continue
			}
			if w.observe(ev.Status) {
				onChange(ev)
			}
		}
	}()

	return nil
}

// observe records the status and reports whether it changed
func (w *Watcher) observe(status string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seen && w.last == status {
		w.logger.Debug("dropping duplicate status event",
			zap.String("order", w.orderID),
			zap.String("status", status))
		return false
	}

	w.last = status
	w.seen = true
	return true
}

// Stop closes the subscription and clears the cursor. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	unsub := w.unsub
	w.unsub = nil
	w.active = false
	w.last = ""
	w.seen = false
	w.orderID = ""
	w.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
