package service

import (
	"context"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"go.uber.org/zap"
)

// Ledger is the settlement port onto the external wallet ledger. Balances
// are only ever touched through this single atomic primitive.
type Ledger interface {
	AdjustBalance(ctx context.Context, accountID, op string, amount int64) (int64, error)
}

// PaymentStore persists an order's payment status.
type PaymentStore interface {
	// UpdatePaymentStatus sets the payment status, a no-op when the order
	// is already paid
	UpdatePaymentStatus(ctx context.Context, orderID, status string) error
}

// SettlementService binds money movement to specific status transitions and
// guarantees at-most-once settlement per order:
//   - wallet orders settle when the agent accepts pickup (completed ->
//     delivering): the consumer wallet is debited and the merchant credited;
//   - cash orders settle at handoff (delivering -> delivered), where the
//     agent collects the cash.
type SettlementService struct {
	ledger Ledger
	store  PaymentStore
	logger *zap.Logger
}

// NewSettlementService creates new SettlementService instance
func NewSettlementService(ledger Ledger, store PaymentStore, logger *zap.Logger) *SettlementService {
	return &SettlementService{
		ledger: ledger,
		store:  store,
		logger: logger,
	}
}

// SettleOnTransition runs the settlement bound to the order's payment
// method and the given transition, if any. Transitions without a
// settlement rule and orders already paid are no-ops.
func (ss *SettlementService) SettleOnTransition(ctx context.Context, order *models.Order, from, to string) error {
	switch {
	case order.Method == models.PaymentMethodWallet &&
		from == models.OrderStatusCompleted && to == models.OrderStatusDelivering:
		return ss.settleWallet(ctx, order)
	case order.Method == models.PaymentMethodCash &&
		from == models.OrderStatusDelivering && to == models.OrderStatusDelivered:
		return ss.settleCash(ctx, order)
	}

	return nil
}

func (ss *SettlementService) settleWallet(ctx context.Context, order *models.Order) error {
	// duplicate settlement attempt, e.g. a retried screen action
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}

	if _, err := ss.ledger.AdjustBalance(ctx, order.ConsumerID, models.LedgerOpSubtract, order.Total); err != nil {
		return err
	}

	if _, err := ss.ledger.AdjustBalance(ctx, order.MerchantID, models.LedgerOpAdd, order.Total); err != nil {
		// compensate the debit so no money is stranded
		if _, rbErr := ss.ledger.AdjustBalance(ctx, order.ConsumerID, models.LedgerOpAdd, order.Total); rbErr != nil {
			ss.logger.Error("debit compensation failed",
				zap.String("order", order.ID),
				zap.Error(rbErr))
		}
		return err
	}

	if err := ss.store.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPaid); err != nil {
		// the paid mark is what makes retries no-ops; without it a
		// retried transition would debit again, so unwind both moves
		if _, rbErr := ss.ledger.AdjustBalance(ctx, order.MerchantID, models.LedgerOpSubtract, order.Total); rbErr != nil {
			ss.logger.Error("credit compensation failed",
				zap.String("order", order.ID),
				zap.Error(rbErr))
		}
		if _, rbErr := ss.ledger.AdjustBalance(ctx, order.ConsumerID, models.LedgerOpAdd, order.Total); rbErr != nil {
			ss.logger.Error("debit compensation failed",
				zap.String("order", order.ID),
				zap.Error(rbErr))
		}
		return err
	}
	order.PaymentStatus = models.PaymentStatusPaid

	ss.logger.Info("wallet order settled",
		zap.String("order", order.ID),
		zap.Int64("amount", order.Total))

	return nil
}

func (ss *SettlementService) settleCash(ctx context.Context, order *models.Order) error {
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}

	// the agent self-reports cash collection at handoff
	if err := ss.store.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPaid); err != nil {
		return err
	}
	order.PaymentStatus = models.PaymentStatusPaid

	ss.logger.Info("cash order settled",
		zap.String("order", order.ID),
		zap.Int64("amount", order.Total))

	return nil
}
