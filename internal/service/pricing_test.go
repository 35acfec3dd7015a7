package service

import (
	"testing"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteForDistance(t *testing.T) {
	tests := []struct {
		name    string
		meters  int64
		want    Quote
		wantErr error
	}{
		{name: "first_bucket", meters: 400, want: Quote{DeliveryFee: 500, EstimatedMinutes: 15}},
		{name: "bucket_boundary_inclusive", meters: 1000, want: Quote{DeliveryFee: 500, EstimatedMinutes: 15}},
		{name: "second_bucket", meters: 1001, want: Quote{DeliveryFee: 700, EstimatedMinutes: 25}},
		{name: "last_bucket", meters: 10000, want: Quote{DeliveryFee: 1500, EstimatedMinutes: 50}},
		{name: "beyond_last_bucket", meters: 10001, wantErr: models.ErrOutOfRange},
		{name: "negative_distance", meters: -1, wantErr: models.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteForDistance(tt.meters)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
