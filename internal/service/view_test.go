package service

import (
	"testing"
	"time"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildOrderView(t *testing.T) {
	order := &models.Order{
		Status:           models.OrderStatusPending,
		Total:            4300,
		PaymentStatus:    models.PaymentStatusUnpaid,
		EstimatedMinutes: 25,
	}

	view := BuildOrderView(order, NewCancelWindow(25*time.Second))
	assert.True(t, view.Cancellable)
	assert.Equal(t, int64(4300), view.TotalPrice)

	// cancellable goes away with the window
	view = BuildOrderView(order, nil)
	assert.False(t, view.Cancellable)

	// and with any status past pending
	order.Status = models.OrderStatusAccepted
	view = BuildOrderView(order, NewCancelWindow(25*time.Second))
	assert.False(t, view.Cancellable)
}

func TestViewer_ReemitsOnEveryChange(t *testing.T) {
	var views []OrderView
	v := NewViewer(models.Order{
		Status:        models.OrderStatusPending,
		Total:         4300,
		PaymentStatus: models.PaymentStatusUnpaid,
	}, nil, func(view OrderView) {
		views = append(views, view)
	})

	v.ApplyStatus(models.OrderStatusAccepted)
	v.ApplyOrder(models.Order{
		Status:        models.OrderStatusDelivering,
		Total:         4300,
		PaymentStatus: models.PaymentStatusPaid,
	})

	assert.Equal(t, []OrderView{
		{Status: models.OrderStatusAccepted, TotalPrice: 4300, PaymentStatus: models.PaymentStatusUnpaid},
		{Status: models.OrderStatusDelivering, TotalPrice: 4300, PaymentStatus: models.PaymentStatusPaid},
	}, views)

	assert.Equal(t, models.OrderStatusDelivering, v.Current().Status)
}
