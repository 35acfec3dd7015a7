package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/models"
)

// current cart snapshot schema version
const cartSnapshotVersion = 2

// ErrInvalidQuantity is returned for non-positive add quantities
var ErrInvalidQuantity = errors.New("quantity must be positive")

// CartStore is the persistence port for per-consumer cart snapshots.
// Snapshots are opaque JSON so the schema can evolve behind the
// migration function below.
type CartStore interface {
	// ReadSnapshot returns the raw snapshot, ErrDataNotFound when absent
	ReadSnapshot(ctx context.Context, consumerID string) ([]byte, error)
	// WriteSnapshot replaces the raw snapshot
	WriteSnapshot(ctx context.Context, consumerID string, raw []byte) error
}

// cartSnapshot is the persisted cart state of one consumer, partitioned
// per merchant. Switching the active consumer swaps the whole set.
type cartSnapshot struct {
	Version   int                          `json:"version"`
	Merchants map[string][]models.CartItem `json:"merchants"`
}

// migrateCartSnapshot upgrades an older snapshot schema to the current
// version. Version 1 kept a flat line list without the merchant partition.
func migrateCartSnapshot(raw []byte) (cartSnapshot, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return cartSnapshot{}, err
	}

	switch probe.Version {
	case cartSnapshotVersion:
		snap := cartSnapshot{}
		if err := json.Unmarshal(raw, &snap); err != nil {
			return cartSnapshot{}, err
		}
		if snap.Merchants == nil {
			snap.Merchants = map[string][]models.CartItem{}
		}
		return snap, nil
	case 0, 1:
		var v1 struct {
			Version int               `json:"version"`
			Lines   []models.CartItem `json:"lines"`
		}
		if err := json.Unmarshal(raw, &v1); err != nil {
			return cartSnapshot{}, err
		}
		snap := cartSnapshot{
			Version:   cartSnapshotVersion,
			Merchants: map[string][]models.CartItem{},
		}
		for _, line := range v1.Lines {
			snap.Merchants[line.MerchantID] = append(snap.Merchants[line.MerchantID], line)
		}
		return snap, nil
	default:
		return cartSnapshot{}, fmt.Errorf("unknown cart snapshot version %d", probe.Version)
	}
}

// CartPatch describes an update to one cart line. Nil fields are left
// unchanged.
type CartPatch struct {
	Quantity       *int
	Customizations []models.Customization
}

// CartService holds per-consumer, per-merchant cart lines and computes
// totals. It is consulted at checkout and cleared once the order is
// confirmed.
type CartService struct {
	store CartStore
}

// NewCartService creates new CartService instance
func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

func (cs *CartService) load(ctx context.Context, consumerID string) (cartSnapshot, error) {
	raw, err := cs.store.ReadSnapshot(ctx, consumerID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return cartSnapshot{
				Version:   cartSnapshotVersion,
				Merchants: map[string][]models.CartItem{},
			}, nil
		}
		return cartSnapshot{}, err
	}

	return migrateCartSnapshot(raw)
}

func (cs *CartService) save(ctx context.Context, consumerID string, snap cartSnapshot) error {
	snap.Version = cartSnapshotVersion
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return cs.store.WriteSnapshot(ctx, consumerID, raw)
}

// AddItem adds a line to the consumer's cart. When a line with the same
// menu id, merchant id and customization set already exists the
// quantities are summed instead of appending a duplicate line.
func (cs *CartService) AddItem(ctx context.Context, consumerID string, item models.CartItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	snap, err := cs.load(ctx, consumerID)
	if err != nil {
		return err
	}

	item.Customizations = models.CanonicalCustomizations(item.Customizations)
	lines := snap.Merchants[item.MerchantID]

	merged := false
	for i := range lines {
		if lines[i].MenuID == item.MenuID &&
			models.EqualCustomizations(lines[i].Customizations, item.Customizations) {
			lines[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, item)
	}

	snap.Merchants[item.MerchantID] = lines

	return cs.save(ctx, consumerID, snap)
}

// UpdateItem patches the unique line identified by menu id and
// customization set. Quantity zero removes the line. When the patched
// customization set collides with another existing line the two lines are
// merged, which prevents duplicate lines for the same configuration.
func (cs *CartService) UpdateItem(ctx context.Context, consumerID, merchantID, menuID string, match []models.Customization, patch CartPatch) error {
	snap, err := cs.load(ctx, consumerID)
	if err != nil {
		return err
	}

	lines := snap.Merchants[merchantID]

	idx := -1
	for i := range lines {
		if lines[i].MenuID == menuID &&
			models.EqualCustomizations(lines[i].Customizations, match) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrCartLineNotFound
	}

	line := lines[idx]
	if patch.Customizations != nil {
		line.Customizations = models.CanonicalCustomizations(patch.Customizations)
	}
	if patch.Quantity != nil {
		line.Quantity = *patch.Quantity
	}

	if line.Quantity <= 0 {
		snap.Merchants[merchantID] = append(lines[:idx], lines[idx+1:]...)
		if len(snap.Merchants[merchantID]) == 0 {
			delete(snap.Merchants, merchantID)
		}
		return cs.save(ctx, consumerID, snap)
	}

	// merge into a colliding line when the new customization set now
	// matches another one
	for i := range lines {
		if i == idx {
			continue
		}
		if lines[i].MenuID == line.MenuID &&
			models.EqualCustomizations(lines[i].Customizations, line.Customizations) {
			lines[i].Quantity += line.Quantity
			snap.Merchants[merchantID] = append(lines[:idx], lines[idx+1:]...)
			return cs.save(ctx, consumerID, snap)
		}
	}

	lines[idx] = line
	snap.Merchants[merchantID] = lines

	return cs.save(ctx, consumerID, snap)
}

// Lines returns the consumer's cart lines for one merchant
func (cs *CartService) Lines(ctx context.Context, consumerID, merchantID string) ([]models.CartItem, error) {
	snap, err := cs.load(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	return snap.Merchants[merchantID], nil
}

// TotalPrice sums, per line, (unit price + customization prices) times the
// line quantity. The unit price is the discounted price when a discount is
// present, the base price otherwise.
func (cs *CartService) TotalPrice(ctx context.Context, consumerID, merchantID string) (int64, error) {
	snap, err := cs.load(ctx, consumerID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, line := range snap.Merchants[merchantID] {
		total += lineTotal(line)
	}

	return total, nil
}

// ClearMerchant removes all lines of one merchant, used on checkout success
func (cs *CartService) ClearMerchant(ctx context.Context, consumerID, merchantID string) error {
	snap, err := cs.load(ctx, consumerID)
	if err != nil {
		return err
	}

	delete(snap.Merchants, merchantID)

	return cs.save(ctx, consumerID, snap)
}

// Clear removes the consumer's whole cart set
func (cs *CartService) Clear(ctx context.Context, consumerID string) error {
	return cs.save(ctx, consumerID, cartSnapshot{
		Version:   cartSnapshotVersion,
		Merchants: map[string][]models.CartItem{},
	})
}

// lineTotal is (unit price + sum of customization price*qty) * line qty
func lineTotal(line models.CartItem) int64 {
	unit := line.UnitPrice()
	for _, c := range line.Customizations {
		unit += c.Price * int64(c.Quantity)
	}
	return unit * int64(line.Quantity)
}
