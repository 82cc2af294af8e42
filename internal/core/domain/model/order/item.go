package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item bypassed NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("order Item must be created via NewItem or RestoreItem constructor")

// Item is one line of an Order: a SKU, a quantity, and the handling
// attributes route packing needs. Items are immutable after intake except
// for the reservation, assembly, defect and cancellation flags advanced by
// the pipeline.
type Item struct {
	id              kernel.UUID
	sku             string
	quantity        int
	load            kernel.Load
	specialHandling bool

	reserved  bool
	assembled bool
	defective bool
	cancelled bool

	guard guard.ConstructorGuard
}

// NewItem creates a line item. The load carries the total weight and volume
// for the full quantity; its item count must equal quantity.
func NewItem(id kernel.UUID, sku string, quantity int, load kernel.Load, specialHandling bool) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if load.Items() != quantity {
		return nil, errs.NewValueIsInvalidErrorWithCause("load",
			fmt.Errorf("load item count %d does not match quantity %d", load.Items(), quantity))
	}

	return &Item{
		id:              id,
		sku:             sku,
		quantity:        quantity,
		load:            load,
		specialHandling: specialHandling,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// RestoreItem reconstructs a line item from persistence with its pipeline flags.
func RestoreItem(
	id kernel.UUID,
	sku string,
	quantity int,
	load kernel.Load,
	specialHandling, reserved, assembled, defective, cancelled bool,
) (*Item, error) {
	item, err := NewItem(id, sku, quantity, load, specialHandling)
	if err != nil {
		return nil, err
	}

	item.reserved = reserved
	item.assembled = assembled
	item.defective = defective
	item.cancelled = cancelled
	return item, nil
}

// Validate rejects items that bypassed the constructors.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID { return i.id }

// SKU returns the stock-keeping unit the item draws from.
func (i *Item) SKU() string { return i.sku }

// Quantity returns the ordered unit count.
func (i *Item) Quantity() int { return i.quantity }

// Load returns the physical footprint of the full quantity.
func (i *Item) Load() kernel.Load { return i.load }

// NeedsSpecialHandling reports whether the item pins its delivery to a
// compatible vehicle type.
func (i *Item) NeedsSpecialHandling() bool { return i.specialHandling }

// IsReserved reports whether stock is claimed for the item.
func (i *Item) IsReserved() bool { return i.reserved }

// IsAssembled reports whether the item's assembly task completed.
func (i *Item) IsAssembled() bool { return i.assembled }

// IsDefective reports an unresolved assembly defect.
func (i *Item) IsDefective() bool { return i.defective }

// IsCancelled reports whether the item was removed from the order.
func (i *Item) IsCancelled() bool { return i.cancelled }

func (i *Item) markReserved() {
	i.reserved = true
}

func (i *Item) releaseReservation() {
	i.reserved = false
}

func (i *Item) markAssembled() {
	i.assembled = true
	i.defective = false
}

func (i *Item) markDefective() {
	i.defective = true
	i.assembled = false
}

func (i *Item) resolveDefect() {
	i.defective = false
}

func (i *Item) cancel() {
	i.cancelled = true
}
