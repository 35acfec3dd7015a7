package worker

import (
	"context"
	"sync"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/notify"
	"go.uber.org/zap"
)

// delivery agents listen on a shared dispatch topic
const agentPoolID = "delivery-agents"

const pollInterval = 5 * time.Second

// DispatchStore lists ready orders and records their announcement
type DispatchStore interface {
	// OrdersAwaitingAgent returns completed orders not yet announced
	OrdersAwaitingAgent(ctx context.Context) ([]models.Order, error)
	// MarkAgentNotified records that agents were told about an order
	MarkAgentNotified(ctx context.Context, orderID string) error
}

// Notifier delivers push notifications
type Notifier interface {
	Notify(ctx context.Context, msg notify.Message) error
}

// Dispatcher announces ready orders to the delivery agent pool so one of
// them can pick the order up. An order sits in the queued set from the
// poll that picked it up until its announcement is processed, so two
// polls racing one announcement cannot enqueue it twice.
type Dispatcher struct {
	store    DispatchStore
	notifier Notifier
	logger   *zap.Logger

	mu     sync.Mutex
	queued map[string]struct{}
}

// NewDispatcher creates new Dispatcher instance
func NewDispatcher(store DispatchStore, notifier Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		logger:   logger,
		queued:   map[string]struct{}{},
	}
}

// Run polls for ready orders and announces each one once
func (d *Dispatcher) Run(ctx context.Context) {
	orders := make(chan models.Order, 10)

	go d.announce(ctx, orders)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("dispatcher is done")
			return
		case <-ticker.C:
			d.poll(ctx, orders)
		}
	}
}

func (d *Dispatcher) poll(ctx context.Context, orders chan<- models.Order) {
	ready, err := d.store.OrdersAwaitingAgent(ctx)
	if err != nil {
		d.logger.Error("listing orders awaiting agent", zap.Error(err))
		return
	}
	for _, order := range ready {
		if !d.enqueue(order.ID) {
			continue
		}
		orders <- order
	}
}

// enqueue claims an order for announcement, false when already claimed
func (d *Dispatcher) enqueue(orderID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.queued[orderID]; ok {
		return false
	}
	d.queued[orderID] = struct{}{}
	return true
}

func (d *Dispatcher) dequeue(orderID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.queued, orderID)
}

func (d *Dispatcher) announce(ctx context.Context, orders <-chan models.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-orders:
			if !ok {
				return
			}
			d.announceOne(ctx, order)
		}
	}
}

func (d *Dispatcher) announceOne(ctx context.Context, order models.Order) {
	// a failed announcement is released for the next poll to retry
	defer d.dequeue(order.ID)

	err := d.notifier.Notify(ctx, notify.Message{
		UserID:   agentPoolID,
		Title:    "Order ready for pickup",
		Body:     "An order is waiting for a delivery agent",
		DeepLink: "orders/" + order.ID,
		Metadata: map[string]string{"order_id": order.ID},
	})
	if err != nil {
		d.logger.Error("announcing order", zap.String("order", order.ID), zap.Error(err))
		return
	}

	if err := d.store.MarkAgentNotified(ctx, order.ID); err != nil {
		d.logger.Error("marking order announced", zap.String("order", order.ID), zap.Error(err))
		return
	}

	d.logger.Debug("order announced to agents", zap.String("order", order.ID))
}
