package repository

import (
	"context"
	"errors"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	selectCartSnapshotQuery = `
						SELECT snapshot FROM cart_snapshots
						WHERE consumer_id = $1
`
	upsertCartSnapshotQuery = `
						INSERT INTO cart_snapshots (consumer_id, snapshot, updated_at)
						VALUES ($1, $2, now())
						ON CONFLICT (consumer_id)
						DO UPDATE SET snapshot = $2, updated_at = now()
`
)

// CartRepository persists raw cart snapshots per consumer
type CartRepository struct {
	db *postgres.DB
}

// NewCartRepository creates new CartRepository instance
func NewCartRepository(db *postgres.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ReadSnapshot returns the raw snapshot of one consumer
func (cr *CartRepository) ReadSnapshot(ctx context.Context, consumerID string) ([]byte, error) {
	var raw []byte
	err := cr.db.QueryRow(ctx, selectCartSnapshotQuery, consumerID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return raw, nil
}

// WriteSnapshot replaces the raw snapshot of one consumer
func (cr *CartRepository) WriteSnapshot(ctx context.Context, consumerID string, raw []byte) error {
	_, err := cr.db.Exec(ctx, upsertCartSnapshotQuery, consumerID, raw)
	return err
}
