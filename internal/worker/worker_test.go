package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/notify"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeDispatchStore struct {
	mu       sync.Mutex
	ready    []models.Order
	notified []string
	markErr  error
}

func (f *fakeDispatchStore) OrdersAwaitingAgent(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready, nil
}

func (f *fakeDispatchStore) MarkAgentNotified(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.notified = append(f.notified, orderID)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestDispatcher_AnnouncesReadyOrders(t *testing.T) {
	store := &fakeDispatchStore{}
	notifier := &fakeNotifier{}
	d := NewDispatcher(store, notifier, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orders := make(chan models.Order, 2)
	orders <- models.Order{ID: "o1", Status: models.OrderStatusCompleted}
	orders <- models.Order{ID: "o2", Status: models.OrderStatusCompleted}
	close(orders)

	done := make(chan struct{})
	go func() {
		d.announce(ctx, orders)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("announce did not drain the queue")
	}

	assert.Len(t, notifier.msgs, 2)
	assert.Equal(t, agentPoolID, notifier.msgs[0].UserID)
	assert.Equal(t, "orders/o1", notifier.msgs[0].DeepLink)
	assert.Equal(t, []string{"o1", "o2"}, store.notified)
}

func TestDispatcher_DoublePollEnqueuesOnce(t *testing.T) {
	store := &fakeDispatchStore{
		ready: []models.Order{{ID: "o1", Status: models.OrderStatusCompleted}},
	}
	d := NewDispatcher(store, &fakeNotifier{}, zap.NewNop())

	ctx := context.Background()
	orders := make(chan models.Order, 4)

	// the store still lists the order on the second tick because the
	// announcement has not been processed yet
	d.poll(ctx, orders)
	d.poll(ctx, orders)

	assert.Len(t, orders, 1)

	// once announced, a later poll may claim it again
	d.announceOne(ctx, <-orders)
	d.poll(ctx, orders)
	assert.Len(t, orders, 1)
}

func TestDispatcher_FailedAnnouncementStaysUnmarked(t *testing.T) {
	store := &fakeDispatchStore{}
	notifier := &fakeNotifier{err: models.ErrInternalError}
	d := NewDispatcher(store, notifier, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orders := make(chan models.Order, 1)
	orders <- models.Order{ID: "o1", Status: models.OrderStatusCompleted}
	close(orders)

	done := make(chan struct{})
	go func() {
		d.announce(ctx, orders)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("announce did not drain the queue")
	}

	// the next poll will pick the order up again
	assert.Empty(t, store.notified)
}
