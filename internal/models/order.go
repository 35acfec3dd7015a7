package models

import "time"

// pending — order placed, waiting for the merchant decision;
// accepted — merchant is preparing the order;
// rejected — merchant refused the order (terminal);
// canceled — consumer withdrew the order inside the window (terminal);
// completed — order is ready for pickup;
// delivering — delivery agent picked the order up;
// delivered — delivery agent handed the order over (terminal).
const (
	OrderStatusPending    = "pending"
	OrderStatusAccepted   = "accepted"
	OrderStatusRejected   = "rejected"
	OrderStatusCanceled   = "canceled"
	OrderStatusCompleted  = "completed"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
)

// payment method and status
const (
	PaymentMethodCash   = "cash"
	PaymentMethodWallet = "wallet"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Actor identifies which party is requesting an order status transition.
type Actor string

const (
	ActorConsumer Actor = "consumer"
	ActorMerchant Actor = "merchant"
	ActorAgent    Actor = "agent"
)

// OrderItem is a single order line captured at checkout time.
// Menu price changes after checkout never reach a placed order.
type OrderItem struct {
	MenuID         string
	Name           string
	UnitPrice      int64
	Quantity       int
	Customizations []Customization
}

// Order is the central entity. All amounts are minor currency units.
type Order struct {
	ID               string
	ConsumerID       string
	MerchantID       string
	AgentID          *string
	Subtotal         int64
	DeliveryFee      int64
	Total            int64
	Method           string
	PaymentStatus    string
	Status           string
	Address          string
	Instructions     string
	NotifiedAgent    bool
	EstimatedMinutes int
	Items            []OrderItem
	CreatedAt        time.Time
}

// StatusEvent is one change-feed record for an order.
type StatusEvent struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// IsTerminalStatus reports whether no further transition can leave status.
func IsTerminalStatus(status string) bool {
	switch status {
	case OrderStatusRejected, OrderStatusCanceled, OrderStatusDelivered:
		return true
	}
	return false
}
