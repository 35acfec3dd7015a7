package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, consumer_id, merchant_id, subtotal, delivery_fee, total,
						                    method, payment_status, status, address, instructions, estimated_minutes)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
						RETURNING created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, menu_id, name, unit_price, quantity, customizations)
						VALUES ($1, $2, $3, $4, $5, $6)
`
	selectOrderQuery = `
						SELECT id, consumer_id, merchant_id, agent_id, subtotal, delivery_fee, total,
						       method, payment_status, status, address, instructions, notified_agent,
						       estimated_minutes, created_at
						FROM orders
						WHERE id = $1
`
	selectOrderItemsQuery = `
						SELECT menu_id, name, unit_price, quantity, customizations
						FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1
						WHERE id = $2 AND status = $3
`
	selectOrderStatusQuery = `
						SELECT status FROM orders WHERE id = $1
`
	updatePaymentStatusQuery = `
						UPDATE orders
						SET payment_status = $1
						WHERE id = $2
`
	assignAgentQuery = `
						UPDATE orders
						SET agent_id = $1
						WHERE id = $2
`
	selectAwaitingAgentQuery = `
						SELECT id, consumer_id, merchant_id, agent_id, subtotal, delivery_fee, total,
						       method, payment_status, status, address, instructions, notified_agent,
						       estimated_minutes, created_at
						FROM orders
						WHERE status = 'completed' AND notified_agent = false
						ORDER BY created_at
`
	markAgentNotifiedQuery = `
						UPDATE orders
						SET notified_agent = true
						WHERE id = $1
`
)

// OrderRepository is the postgres-backed document store for orders
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts a new order together with its item snapshot
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.ID, order.ConsumerID, order.MerchantID, order.Subtotal, order.DeliveryFee,
		order.Total, order.Method, order.PaymentStatus, order.Status, order.Address,
		order.Instructions, order.EstimatedMinutes).Scan(&order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == postgres.ErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for _, item := range order.Items {
		customizations, err := json.Marshal(item.Customizations)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, insertOrderItemQuery,
			order.ID, item.MenuID, item.Name, item.UnitPrice, item.Quantity, customizations)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder returns an order with its items
func (or *OrderRepository) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderQuery, orderID).Scan(
		&order.ID, &order.ConsumerID, &order.MerchantID, &order.AgentID, &order.Subtotal,
		&order.DeliveryFee, &order.Total, &order.Method, &order.PaymentStatus, &order.Status,
		&order.Address, &order.Instructions, &order.NotifiedAgent, &order.EstimatedMinutes,
		&order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		var customizations []byte
		if err := rows.Scan(&item.MenuID, &item.Name, &item.UnitPrice, &item.Quantity, &customizations); err != nil {
			continue
		}
		if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
			continue
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateOrderStatus sets the status only when the stored status equals
// from. Any other stored value is a conflict: the caller's view of the
// order is stale.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID, from, to string) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, to, orderID, from)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		var status string
		if err := or.db.QueryRow(ctx, selectOrderStatusQuery, orderID).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrDataNotFound
			}
			return err
		}
		return models.ErrConflict
	}

	return nil
}

// UpdatePaymentStatus sets the payment status of an order
func (or *OrderRepository) UpdatePaymentStatus(ctx context.Context, orderID, status string) error {
	cmd, err := or.db.Exec(ctx, updatePaymentStatusQuery, status, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// AssignAgent records the delivery agent on an order
func (or *OrderRepository) AssignAgent(ctx context.Context, orderID, agentID string) error {
	cmd, err := or.db.Exec(ctx, assignAgentQuery, agentID, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// OrdersAwaitingAgent returns completed orders not yet announced to agents
func (or *OrderRepository) OrdersAwaitingAgent(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectAwaitingAgentQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(&order.ID, &order.ConsumerID, &order.MerchantID, &order.AgentID,
			&order.Subtotal, &order.DeliveryFee, &order.Total, &order.Method,
			&order.PaymentStatus, &order.Status, &order.Address, &order.Instructions,
			&order.NotifiedAgent, &order.EstimatedMinutes, &order.CreatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkAgentNotified records that agents were told about a ready order
func (or *OrderRepository) MarkAgentNotified(ctx context.Context, orderID string) error {
	cmd, err := or.db.Exec(ctx, markAgentNotifiedQuery, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
