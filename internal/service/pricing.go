package service

import "github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"

// delivery fee and ETA are step functions of the distance bucket
type priceBucket struct {
	maxMeters int64
	fee       int64
	etaMin    int
}

var priceBuckets = []priceBucket{
	{maxMeters: 1000, fee: 500, etaMin: 15},
	{maxMeters: 3000, fee: 700, etaMin: 25},
	{maxMeters: 7000, fee: 1000, etaMin: 35},
	{maxMeters: 10000, fee: 1500, etaMin: 50},
}

// Quote is the pricing result for one delivery distance.
type Quote struct {
	DeliveryFee      int64
	EstimatedMinutes int
}

// QuoteForDistance maps a distance in meters onto the fee and ETA step
// function. A distance beyond the last bucket is out of delivery range,
// which blocks checkout.
func QuoteForDistance(meters int64) (Quote, error) {
	if meters < 0 {
		return Quote{}, models.ErrOutOfRange
	}

	for _, b := range priceBuckets {
		if meters <= b.maxMeters {
			return Quote{DeliveryFee: b.fee, EstimatedMinutes: b.etaMin}, nil
		}
	}

	return Quote{}, models.ErrOutOfRange
}
