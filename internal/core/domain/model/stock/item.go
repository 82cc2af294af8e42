// Package stock contains the ledger side of inventory: one Item per SKU
// holding the committed and reserved counters that every reservation,
// release and commit flows through.
package stock

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item bypassed NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("stock Item must be created via NewItem or RestoreItem constructor")

// Item is the stock-ledger entry for one SKU. It is the source of truth for
// availability and enforces the ledger invariant on every mutation:
//
//	0 <= reserved <= onHand
//
// Items are never destroyed; a retired SKU is deactivated and refuses new
// reservations. Callers must serialize mutations per SKU (the ledger holds
// a per-SKU lock around load-mutate-persist); the aggregate itself only
// guarantees that no single operation can break the invariant.
type Item struct {
	sku      string
	onHand   int
	reserved int
	active   bool

	guard guard.ConstructorGuard
}

// NewItem registers a new SKU in the ledger with an initial on-hand count
// and nothing reserved.
func NewItem(sku string, onHand int) (*Item, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if onHand < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("onHand",
			fmt.Errorf("%d is negative", onHand))
	}

	return &Item{
		sku:    sku,
		onHand: onHand,
		active: true,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// RestoreItem reconstructs a ledger entry from persistence.
func RestoreItem(sku string, onHand, reserved int, active bool) (*Item, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if onHand < 0 || reserved < 0 || reserved > onHand {
		return nil, errs.NewValueIsInvalidErrorWithCause("stock counters",
			fmt.Errorf("onHand=%d reserved=%d violates 0 <= reserved <= onHand", onHand, reserved))
	}

	return &Item{
		sku:      sku,
		onHand:   onHand,
		reserved: reserved,
		active:   active,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate rejects items that bypassed the constructors.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// SKU returns the stock-keeping unit identifier.
func (i *Item) SKU() string { return i.sku }

// OnHand returns the physically present quantity.
func (i *Item) OnHand() int { return i.onHand }

// Reserved returns the quantity claimed by outstanding reservations.
func (i *Item) Reserved() int { return i.reserved }

// Available returns the quantity open to new reservations.
func (i *Item) Available() int { return i.onHand - i.reserved }

// IsActive reports whether the SKU accepts new reservations.
func (i *Item) IsActive() bool { return i.active }

// Reserve claims qty units. It fails with an InsufficientStockError when
// fewer than qty units are available, leaving both counters unchanged.
func (i *Item) Reserve(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if !i.active {
		return errs.NewValueIsInvalidErrorWithCause("sku",
			fmt.Errorf("%s is deactivated", i.sku))
	}
	if i.Available() < qty {
		return errs.NewInsufficientStockError(i.sku, qty, i.Available())
	}

	i.reserved += qty
	return nil
}

// Release returns qty previously reserved units to the available pool,
// used when an order is cancelled or an item removed before assembly.
func (i *Item) Release(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if qty > i.reserved {
		return errs.NewValueIsOutOfRangeError("release quantity", qty, 1, i.reserved)
	}

	i.reserved -= qty
	return nil
}

// Commit converts qty reserved units into a permanent decrement of onHand,
// consuming physical stock at assembly completion. onHand and reserved
// drop together so the invariant holds throughout.
func (i *Item) Commit(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if qty > i.reserved {
		return errs.NewValueIsOutOfRangeError("commit quantity", qty, 1, i.reserved)
	}

	i.onHand -= qty
	i.reserved -= qty
	return nil
}

// AdjustOnHand applies a restock, correction, or return compensation.
// The adjustment is rejected if it would push onHand below the reserved
// quantity or below zero.
func (i *Item) AdjustOnHand(delta int) error {
	adjusted := i.onHand + delta
	if adjusted < 0 || adjusted < i.reserved {
		return errs.NewValueIsInvalidErrorWithCause("onHand adjustment",
			fmt.Errorf("delta %d would leave onHand=%d below reserved=%d", delta, adjusted, i.reserved))
	}

	i.onHand = adjusted
	return nil
}

// Deactivate soft-retires the SKU. Existing reservations remain releasable
// and committable; new reservations are refused.
func (i *Item) Deactivate() {
	i.active = false
}
