package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/handler/http/mocks"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_AddItem(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockCartService
		wantStatusCode int
	}{
		{
			// 200 — line added or merged;
			name: "valid_request_return_200",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{"merchant_id":"r1","menu_id":"m1","name":"burger","base_price":1000,"quantity":2}`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), "alice", gomock.Any()).Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 400 — bad request body;
			name: "malformed_body_return_400",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{not json`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — invalid quantity;
			name: "invalid_quantity_return_400",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{"merchant_id":"r1","menu_id":"m1","base_price":1000,"quantity":0}`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any()).Return(service.ErrInvalidQuantity).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 500 — internal error.
			name: "storage_failure_return_500",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{"merchant_id":"r1","menu_id":"m1","base_price":1000,"quantity":1}`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewCartHandler(st)
			h := handler.AddItem()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestCartHandler_AddItemPassesCustomizations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var got models.CartItem
	svcMock := mocks.NewMockCartService(ctrl)
	svcMock.EXPECT().AddItem(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, item models.CartItem) error {
			got = item
			return nil
		})

	body := `{
		"merchant_id":"r1","menu_id":"m1","name":"burger","base_price":1000,"quantity":2,
		"customizations":[{"id":"c1","name":"extra cheese","price":200,"quantity":1}]
	}`
	req, err := http.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	require.NoError(t, err)
	ctx := context.WithValue(req.Context(), authPayloadKey,
		&models.TokenPayload{UserID: "alice", Actor: models.ActorConsumer})

	w := httptest.NewRecorder()
	h := NewCartHandler(svcMock).AddItem()
	h(w, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	want := models.CartItem{
		MenuID:     "m1",
		MerchantID: "r1",
		Name:       "burger",
		BasePrice:  1000,
		Quantity:   2,
		Customizations: []models.Customization{
			{ID: "c1", Name: "extra cheese", Price: 200, Quantity: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AddItem item mismatch (-want +got):\n%s", diff)
	}
}

func TestCartHandler_UpdateItem(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockCartService
		wantStatusCode int
	}{
		{
			// 200 — line updated, removed or merged;
			name: "valid_request_return_200",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{"merchant_id":"r1","menu_id":"m1","quantity":3}`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().UpdateItem(gomock.Any(), "alice", "r1", "m1", gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 404 — no line matches;
			name: "unknown_line_return_404",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{"merchant_id":"r1","menu_id":"nope","quantity":3}`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().UpdateItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.ErrCartLineNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 400 — bad request body;
			name: "malformed_body_return_400",
			token: &models.TokenPayload{
				UserID: "alice",
				Actor:  models.ActorConsumer,
			},
			body: `{`,
			setup: func(t *testing.T) *mocks.MockCartService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCartService(ctrl)
				svcMock.EXPECT().UpdateItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPatch, "/api/cart/items", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewCartHandler(st)
			h := handler.UpdateItem()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestCartHandler_GetTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockCartService(ctrl)
	svcMock.EXPECT().TotalPrice(gomock.Any(), "alice", "r1").Return(int64(4300), nil)

	req, err := http.NewRequest(http.MethodGet, "/api/cart/r1/total", nil)
	require.NoError(t, err)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("merchantID", "r1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = context.WithValue(ctx, authPayloadKey,
		&models.TokenPayload{UserID: "alice", Actor: models.ActorConsumer})

	w := httptest.NewRecorder()
	h := NewCartHandler(svcMock).GetTotal()
	h(w, req.WithContext(ctx))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp totalResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.Equal(t, int64(4300), resp.Total)
}

func TestCartHandler_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockCartService(ctrl)
	svcMock.EXPECT().Clear(gomock.Any(), "alice").Return(nil)

	req, err := http.NewRequest(http.MethodDelete, "/api/cart", nil)
	require.NoError(t, err)
	ctx := context.WithValue(req.Context(), authPayloadKey,
		&models.TokenPayload{UserID: "alice", Actor: models.ActorConsumer})

	w := httptest.NewRecorder()
	h := NewCartHandler(svcMock).Clear()
	h(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}
