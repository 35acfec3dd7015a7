package service

import (
	"context"
	"sync"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transition table: (actor, source status) -> allowed targets. Anything
// outside the table is rejected locally before any remote call.
var transitions = map[models.Actor]map[string][]string{
	models.ActorMerchant: {
		models.OrderStatusPending:  {models.OrderStatusAccepted, models.OrderStatusRejected},
		models.OrderStatusAccepted: {models.OrderStatusCompleted},
	},
	models.ActorAgent: {
		models.OrderStatusCompleted:  {models.OrderStatusDelivering},
		models.OrderStatusDelivering: {models.OrderStatusDelivered},
	},
	models.ActorConsumer: {
		models.OrderStatusPending: {models.OrderStatusCanceled},
	},
}

// allowedTransition reports whether actor may move an order from one
// status to another
func allowedTransition(actor models.Actor, from, to string) bool {
	for _, t := range transitions[actor][from] {
		if t == to {
			return true
		}
	}
	return false
}

// OrderStore is the authoritative document store for orders. Writing a
// transition through it is the single action that changes a status; every
// observer reacts to the write's confirmation or to the change feed.
type OrderStore interface {
	// CreateOrder inserts a new order with its item snapshot
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrder returns an order with its items
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	// UpdateOrderStatus sets the status iff the stored status equals from,
	// otherwise ErrConflict
	UpdateOrderStatus(ctx context.Context, orderID, from, to string) error
	// AssignAgent records the delivery agent on an order
	AssignAgent(ctx context.Context, orderID, agentID string) error
}

// Carts is the slice of the cart aggregator consumed at checkout.
type Carts interface {
	Lines(ctx context.Context, consumerID, merchantID string) ([]models.CartItem, error)
	TotalPrice(ctx context.Context, consumerID, merchantID string) (int64, error)
	ClearMerchant(ctx context.Context, consumerID, merchantID string) error
}

// Settler runs the settlement bound to a transition, if any.
type Settler interface {
	SettleOnTransition(ctx context.Context, order *models.Order, from, to string) error
}

// Geocoder resolves a destination address to meters of distance.
type Geocoder interface {
	DistanceFrom(ctx context.Context, address string) (int64, error)
}

// Publisher pushes authoritative status changes onto the change feed.
type Publisher interface {
	PublishStatus(ctx context.Context, event models.StatusEvent) error
}

// Notifier delivers push notifications, fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, msg notify.Message) error
}

// OrderService owns the order state machine. It validates transitions,
// issues the authoritative store write, interposes settlement between the
// write and its resolution, and publishes the confirmed change.
type OrderService struct {
	store    OrderStore
	carts    Carts
	settler  Settler
	geocoder Geocoder
	feed     Publisher
	notifier Notifier
	logger   *zap.Logger

	cancelTTL time.Duration
	mu        sync.Mutex
	windows   map[string]*CancelWindow
}

// NewOrderService creates new OrderService instance
func NewOrderService(store OrderStore, carts Carts, settler Settler, geocoder Geocoder, feed Publisher, notifier Notifier, cancelTTL time.Duration, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		carts:     carts,
		settler:   settler,
		geocoder:  geocoder,
		feed:      feed,
		notifier:  notifier,
		logger:    logger,
		cancelTTL: cancelTTL,
		windows:   map[string]*CancelWindow{},
	}
}

// CheckoutRequest places the consumer's cart for one merchant as an order.
type CheckoutRequest struct {
	ConsumerID   string
	MerchantID   string
	Method       string
	Address      string
	Instructions string
}

// Checkout consolidates the cart into an order: items are snapshotted with
// their unit price at order time, the delivery fee and ETA come from the
// distance bucket, and total = subtotal + fee. On success the merchant
// cart is cleared and the cancellation window opens.
func (os *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	lines, err := os.carts.Lines(ctx, req.ConsumerID, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	subtotal, err := os.carts.TotalPrice(ctx, req.ConsumerID, req.MerchantID)
	if err != nil {
		return nil, err
	}

	meters, err := os.geocoder.DistanceFrom(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	quote, err := QuoteForDistance(meters)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			MenuID:         line.MenuID,
			Name:           line.Name,
			UnitPrice:      line.UnitPrice(),
			Quantity:       line.Quantity,
			Customizations: models.CanonicalCustomizations(line.Customizations),
		})
	}

	order := &models.Order{
		ID:               uuid.NewString(),
		ConsumerID:       req.ConsumerID,
		MerchantID:       req.MerchantID,
		Subtotal:         subtotal,
		DeliveryFee:      quote.DeliveryFee,
		Total:            subtotal + quote.DeliveryFee,
		Method:           req.Method,
		PaymentStatus:    models.PaymentStatusUnpaid,
		Status:           models.OrderStatusPending,
		Address:          req.Address,
		Instructions:     req.Instructions,
		EstimatedMinutes: quote.EstimatedMinutes,
		Items:            items,
	}

	order, err = os.store.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := os.carts.ClearMerchant(ctx, req.ConsumerID, req.MerchantID); err != nil {
		os.logger.Error("clearing cart after checkout", zap.Error(err))
	}

	os.mu.Lock()
	os.windows[order.ID] = NewCancelWindow(os.cancelTTL)
	os.mu.Unlock()

	os.publish(ctx, models.StatusEvent{OrderID: order.ID, Status: order.Status})
	os.notify(ctx, order.MerchantID, "New order",
		"You have a new order waiting for confirmation", order.ID)

	os.logger.Info("order placed",
		zap.String("order", order.ID),
		zap.Int64("total", order.Total))

	return order, nil
}

// GetOrder returns one order
func (os *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return os.store.GetOrder(ctx, orderID)
}

// Window returns the cancellation window of an order, nil when none is open
func (os *OrderService) Window(orderID string) *CancelWindow {
	os.mu.Lock()
	defer os.mu.Unlock()
	return os.windows[orderID]
}

// Transition moves an order to a new status on behalf of an actor. The
// request is validated against the transition table and the actor's
// binding to the order before the remote write; a settlement bound to
// the transition must complete before the write is resolved to the
// caller, and a failed settlement rolls the status back to its prior
// value. Consumer cancellation additionally requires an open window, so
// the countdown cannot be sidestepped through the generic status path.
func (os *OrderService) Transition(ctx context.Context, actor models.Actor, actorID, orderID, to string) (*models.Order, error) {
	order, err := os.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !allowedTransition(actor, from, to) {
		return nil, models.ErrInvalidTransition
	}

	// the transition must come from the order's own party
	switch actor {
	case models.ActorConsumer:
		if order.ConsumerID != actorID {
			return nil, models.ErrInvalidTransition
		}
		if to == models.OrderStatusCanceled && !os.Window(orderID).Open() {
			return nil, models.ErrCancelWindowClosed
		}
	case models.ActorMerchant:
		if order.MerchantID != actorID {
			return nil, models.ErrInvalidTransition
		}
	case models.ActorAgent:
		// pickup is open to the whole pool, handoff only to the
		// agent who picked the order up
		if to == models.OrderStatusDelivered &&
			(order.AgentID == nil || *order.AgentID != actorID) {
			return nil, models.ErrInvalidTransition
		}
	}

	if err := os.store.UpdateOrderStatus(ctx, orderID, from, to); err != nil {
		return nil, err
	}
	order.Status = to

	if err := os.settler.SettleOnTransition(ctx, order, from, to); err != nil {
		// the transition must not stand with settlement unresolved
		if rbErr := os.store.UpdateOrderStatus(ctx, orderID, to, from); rbErr != nil {
			os.logger.Error("status rollback failed",
				zap.String("order", orderID),
				zap.Error(rbErr))
		}
		order.Status = from
		return nil, err
	}

	if actor == models.ActorAgent && to == models.OrderStatusDelivering {
		if err := os.store.AssignAgent(ctx, orderID, actorID); err != nil {
			os.logger.Error("assigning agent", zap.String("order", orderID), zap.Error(err))
		} else {
			order.AgentID = &actorID
		}
	}

	if models.IsTerminalStatus(to) {
		os.mu.Lock()
		delete(os.windows, orderID)
		os.mu.Unlock()
	}

	os.publish(ctx, models.StatusEvent{OrderID: orderID, Status: to})
	os.notifyTransition(ctx, order, to)

	os.logger.Info("order status changed",
		zap.String("order", orderID),
		zap.String("from", from),
		zap.String("to", to))

	return order, nil
}

// Cancel withdraws a pending order on behalf of its consumer. It is
// permitted only while the order is still pending and the countdown has
// not elapsed; both conditions are re-checked here so a queued action
// cannot fire after expiry.
func (os *OrderService) Cancel(ctx context.Context, consumerID, orderID string) (*models.Order, error) {
	if !os.Window(orderID).Open() {
		return nil, models.ErrCancelWindowClosed
	}

	order, err := os.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ConsumerID != consumerID {
		return nil, models.ErrInvalidTransition
	}

	order, err = os.Transition(ctx, models.ActorConsumer, consumerID, orderID, models.OrderStatusCanceled)
	if err != nil {
		return nil, err
	}

	os.notify(ctx, order.MerchantID, "Order canceled",
		"The consumer canceled the order", order.ID)

	return order, nil
}

func (os *OrderService) publish(ctx context.Context, event models.StatusEvent) {
	if err := os.feed.PublishStatus(ctx, event); err != nil {
		os.logger.Error("publishing status event",
			zap.String("order", event.OrderID),
			zap.Error(err))
	}
}

func (os *OrderService) notify(ctx context.Context, userID, title, body, orderID string) {
	err := os.notifier.Notify(ctx, notify.Message{
		UserID:   userID,
		Title:    title,
		Body:     body,
		DeepLink: "orders/" + orderID,
		Metadata: map[string]string{"order_id": orderID},
	})
	if err != nil {
		os.logger.Error("notify failed", zap.String("user", userID), zap.Error(err))
	}
}

// notifyTransition tells the consumer about every confirmed status change
func (os *OrderService) notifyTransition(ctx context.Context, order *models.Order, to string) {
	var title, body string

	switch to {
	case models.OrderStatusAccepted:
		title, body = "Order accepted", "The merchant is preparing your order"
	case models.OrderStatusRejected:
		title, body = "Order rejected", "The merchant could not take your order"
	case models.OrderStatusCompleted:
		title, body = "Order ready", "Your order is ready and waiting for pickup"
	case models.OrderStatusDelivering:
		title, body = "Order picked up", "Your order is on its way"
	case models.OrderStatusDelivered:
		title, body = "Order delivered", "Enjoy your order"
	default:
		return
	}

	os.notify(ctx, order.ConsumerID, title, body, order.ID)
}
