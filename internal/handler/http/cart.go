package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -destination mocks/mocks.go -package mocks github.com/AdamGeniusDev/Gozem-app-sub000/internal/handler/http CartService,OrderService

// CartService is the cart aggregator surface used by the handlers
type CartService interface {
	// AddItem adds a line, merging with an equal-configuration line
	AddItem(ctx context.Context, consumerID string, item models.CartItem) error
	// UpdateItem patches the line matched by menu id and customization set
	UpdateItem(ctx context.Context, consumerID, merchantID, menuID string, match []models.Customization, patch service.CartPatch) error
	// Clear removes the consumer's whole cart set
	Clear(ctx context.Context, consumerID string) error
	// TotalPrice returns the merchant cart total
	TotalPrice(ctx context.Context, consumerID, merchantID string) (int64, error)
}

// CartHandler represents HTTP handler for cart-related requests
type CartHandler struct {
	svc CartService
}

// NewCartHandler creates new CartHandler instance
func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type customizationPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	Accompaniment bool   `json:"accompaniment,omitempty"`
}

func toCustomizations(payload []customizationPayload) []models.Customization {
	out := make([]models.Customization, 0, len(payload))
	for _, c := range payload {
		out = append(out, models.Customization{
			ID:            c.ID,
			Name:          c.Name,
			Price:         c.Price,
			Quantity:      c.Quantity,
			Accompaniment: c.Accompaniment,
		})
	}
	return out
}

type addItemRequest struct {
	MerchantID     string                 `json:"merchant_id"`
	MenuID         string                 `json:"menu_id"`
	Name           string                 `json:"name"`
	BasePrice      int64                  `json:"base_price"`
	DiscountPrice  *int64                 `json:"discount_price,omitempty"`
	Quantity       int                    `json:"quantity"`
	Customizations []customizationPayload `json:"customizations,omitempty"`
}

// AddItem adds a line to the caller's cart
// 200 — line added or merged;
// 400 — bad request body or quantity;
// 401 — user is not authenticated;
// 500 — internal error.
func (ch *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		item := models.CartItem{
			MenuID:         req.MenuID,
			MerchantID:     req.MerchantID,
			Name:           req.Name,
			BasePrice:      req.BasePrice,
			DiscountPrice:  req.DiscountPrice,
			Quantity:       req.Quantity,
			Customizations: toCustomizations(req.Customizations),
		}

		if err := ch.svc.AddItem(r.Context(), payload.UserID, item); err != nil {
			if errors.Is(err, service.ErrInvalidQuantity) {
				http.Error(w, "invalid quantity", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type updateItemRequest struct {
	MerchantID     string                 `json:"merchant_id"`
	MenuID         string                 `json:"menu_id"`
	Match          []customizationPayload `json:"match,omitempty"`
	Quantity       *int                   `json:"quantity,omitempty"`
	Customizations []customizationPayload `json:"customizations,omitempty"`
}

// UpdateItem patches one cart line
// 200 — line updated, removed or merged;
// 400 — bad request body;
// 401 — user is not authenticated;
// 404 — no line matches;
// 500 — internal error.
func (ch *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		patch := service.CartPatch{Quantity: req.Quantity}
		if req.Customizations != nil {
			patch.Customizations = toCustomizations(req.Customizations)
		}

		err := ch.svc.UpdateItem(r.Context(), payload.UserID, req.MerchantID, req.MenuID,
			toCustomizations(req.Match), patch)
		if err != nil {
			if errors.Is(err, models.ErrCartLineNotFound) {
				http.Error(w, "cart line not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// Clear removes the caller's whole cart set
// 200 — cart cleared;
// 401 — user is not authenticated;
// 500 — internal error.
func (ch *CartHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := ch.svc.Clear(r.Context(), payload.UserID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type totalResponse struct {
	Total int64 `json:"total"`
}

// GetTotal returns the caller's cart total for one merchant
// 200 — total computed;
// 401 — user is not authenticated;
// 500 — internal error.
func (ch *CartHandler) GetTotal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context())
		if !ok {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		merchantID := chi.URLParam(r, "merchantID")

		total, err := ch.svc.TotalPrice(r.Context(), payload.UserID, merchantID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(totalResponse{Total: total}); err != nil {
			return
		}
	}
}
