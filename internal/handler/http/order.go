package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderService is the order engine surface used by the handlers
type OrderService interface {
	// Checkout places the caller's merchant cart as an order
	Checkout(ctx context.Context, req service.CheckoutRequest) (*models.Order, error)
	// GetOrder returns one order
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	// Transition moves an order to a new status on behalf of an actor
	Transition(ctx context.Context, actor models.Actor, actorID, orderID, to string) (*models.Order, error)
	// Cancel withdraws a pending order inside the cancellation window
	Cancel(ctx context.Context, consumerID, orderID string) (*models.Order, error)
	// Window returns the order's cancellation window, nil when closed
	Window(orderID string) *service.CancelWindow
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type checkoutRequest struct {
	MerchantID   string `json:"merchant_id"`
	Method       string `json:"method"`
	Address      string `json:"address"`
	Instructions string `json:"instructions,omitempty"`
}

type orderItemResponse struct {
	MenuID         string                 `json:"menu_id"`
	Name           string                 `json:"name"`
	UnitPrice      int64                  `json:"unit_price"`
	Quantity       int                    `json:"quantity"`
	Customizations []customizationPayload `json:"customizations,omitempty"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	Subtotal         int64               `json:"subtotal"`
	DeliveryFee      int64               `json:"delivery_fee"`
	Total            int64               `json:"total"`
	Method           string              `json:"method"`
	PaymentStatus    string              `json:"payment_status"`
	Address          string              `json:"address"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	Items            []orderItemResponse `json:"items,omitempty"`
	CreatedAt        string              `json:"created_at"`
}

func toOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:               order.ID,
		Status:           order.Status,
		Subtotal:         order.Subtotal,
		DeliveryFee:      order.DeliveryFee,
		Total:            order.Total,
		Method:           order.Method,
		PaymentStatus:    order.PaymentStatus,
		Address:          order.Address,
		EstimatedMinutes: order.EstimatedMinutes,
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
	}

	for _, item := range order.Items {
		itemResp := orderItemResponse{
			MenuID:    item.MenuID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
		for _, c := range item.Customizations {
			itemResp.Customizations = append(itemResp.Customizations, customizationPayload{
				ID:            c.ID,
				Name:          c.Name,
				Price:         c.Price,
				Quantity:      c.Quantity,
				Accompaniment: c.Accompaniment,
			})
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}

// Checkout places the caller's merchant cart as an order
// 201 — order placed;
// 400 — bad request body or empty cart;
// 401 — user is not authenticated;
// 403 — caller is not a consumer;
// 422 — destination is out of delivery range or cannot be resolved;
// 500 — internal error.
func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if payload.Actor != models.ActorConsumer {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Method != models.PaymentMethodCash && req.Method != models.PaymentMethodWallet {
			http.Error(w, "unknown payment method", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.Checkout(r.Context(), service.CheckoutRequest{
			ConsumerID:   payload.UserID,
			MerchantID:   req.MerchantID,
			Method:       req.Method,
			Address:      req.Address,
			Instructions: req.Instructions,
		})
		if err != nil {
			switch {
			case errors.Is(err, models.ErrEmptyCart):
				http.Error(w, "cart is empty", http.StatusBadRequest)
			case errors.Is(err, models.ErrOutOfRange), errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "address out of delivery range", http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(toOrderResponse(order)); err != nil {
			return
		}
	}
}

// GetOrder returns one order
// 200 — order found;
// 401 — user is not authenticated;
// 404 — order does not exist;
// 500 — internal error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")

		order, err := oh.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(toOrderResponse(order)); err != nil {
			return
		}
	}
}

// GetOrderView returns the screen-facing projection of one order
// 200 — view computed;
// 401 — user is not authenticated;
// 404 — order does not exist;
// 500 — internal error.
func (oh *OrderHandler) GetOrderView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")

		order, err := oh.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		view := service.BuildOrderView(order, oh.svc.Window(orderID))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(view); err != nil {
			return
		}
	}
}

type transitionRequest struct {
	Status string `json:"status"`
}

// UpdateStatus requests a status transition on behalf of the caller
// 200 — transition written;
// 400 — bad request body;
// 401 — user is not authenticated;
// 402 — wallet settlement failed with insufficient funds;
// 404 — order does not exist;
// 409 — transition is not allowed for this caller, from the current
// status, or past the cancellation window;
// 500 — internal error.
func (oh *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		orderID := chi.URLParam(r, "orderID")

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := oh.svc.Transition(r.Context(), payload.Actor, payload.UserID, orderID, req.Status)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidTransition),
				errors.Is(err, models.ErrConflict),
				errors.Is(err, models.ErrCancelWindowClosed):
				http.Error(w, "invalid transition", http.StatusConflict)
			case errors.Is(err, models.ErrInsufficientFunds):
				http.Error(w, "insufficient funds", http.StatusPaymentRequired)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(toOrderResponse(order)); err != nil {
			return
		}
	}
}

// Cancel withdraws a pending order inside the cancellation window
// 200 — order canceled;
// 401 — user is not authenticated;
// 403 — caller is not a consumer;
// 404 — order does not exist;
// 409 — order is no longer pending or the window has closed;
// 500 — internal error.
func (oh *OrderHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if payload.Actor != models.ActorConsumer {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		orderID := chi.URLParam(r, "orderID")

		order, err := oh.svc.Cancel(r.Context(), payload.UserID, orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrCancelWindowClosed),
				errors.Is(err, models.ErrInvalidTransition),
				errors.Is(err, models.ErrConflict):
				http.Error(w, "cancellation refused", http.StatusConflict)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(toOrderResponse(order)); err != nil {
			return
		}
	}
}
