package service

import (
	"sync"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
)

// OrderView is the screen-facing projection of one order, recomputed on
// every realtime event and every local action result.
type OrderView struct {
	Status           string `json:"status"`
	TotalPrice       int64  `json:"total_price"`
	PaymentStatus    string `json:"payment_status"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Cancellable      bool   `json:"cancellable"`
}

// BuildOrderView computes the view from an order and its cancellation gate.
func BuildOrderView(order *models.Order, window *CancelWindow) OrderView {
	return OrderView{
		Status:           order.Status,
		TotalPrice:       order.Total,
		PaymentStatus:    order.PaymentStatus,
		EstimatedMinutes: order.EstimatedMinutes,
		Cancellable:      order.Status == models.OrderStatusPending && window.Open(),
	}
}

// Viewer holds the current view of a single order and re-emits it whenever
// the order changes, either through the change feed or a local action.
type Viewer struct {
	mu     sync.Mutex
	order  models.Order
	window *CancelWindow
	onView func(OrderView)
}

// NewViewer creates new Viewer instance; onView may be nil
func NewViewer(order models.Order, window *CancelWindow, onView func(OrderView)) *Viewer {
	return &Viewer{
		order:  order,
		window: window,
		onView: onView,
	}
}

// Current returns the view as of the latest known order state
func (v *Viewer) Current() OrderView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return BuildOrderView(&v.order, v.window)
}

// ApplyStatus feeds one realtime status into the view
func (v *Viewer) ApplyStatus(status string) {
	v.mu.Lock()
	v.order.Status = status
	view := BuildOrderView(&v.order, v.window)
	cb := v.onView
	v.mu.Unlock()

	if cb != nil {
		cb(view)
	}
}

// ApplyOrder feeds a local action result into the view
func (v *Viewer) ApplyOrder(order models.Order) {
	v.mu.Lock()
	v.order = order
	view := BuildOrderView(&v.order, v.window)
	cb := v.onView
	v.mu.Unlock()

	if cb != nil {
		cb(view)
	}
}
