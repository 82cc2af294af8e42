package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// entityType tags the aggregate's transition events.
const entityType = "order"

var (
	// ErrOrderIsNotConstructed is returned when an Order bypassed NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrItemsAreRequired is returned when an order is created without line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("order items")
	// ErrItemNotFound is returned when an item ID does not belong to the order.
	ErrItemNotFound = errors.New("order item not found")
)

// Order is the aggregate root of the fulfillment pipeline. It owns its line
// items by composition and carries the authoritative status; every pipeline
// stage advances the order through the status machine in status.go and each
// transition is recorded as a DomainEvent.
//
// A backorder puts the order on hold (a sub-state of Processing, not a
// distinct status) with a bounded retry counter that resets once every item
// is reserved.
type Order struct {
	kernel.EventRecorder

	id         kernel.UUID
	customerID kernel.UUID
	address    kernel.Address
	window     kernel.TimeWindow
	priority   Priority
	items      []*Item
	status     Status

	onHold            bool
	holdReason        string
	backorderAttempts int

	guard guard.ConstructorGuard
}

// NewOrder creates an order at intake in Received status. At least one line
// item is required; the address must be a validated, geocoded destination.
func NewOrder(
	id, customerID kernel.UUID,
	address kernel.Address,
	window kernel.TimeWindow,
	priority Priority,
	items []*Item,
) (*Order, error) {
	o := &Order{
		status: Received,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setAddress(address),
		o.setPriority(priority),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.window = window
	return o, nil
}

// RestoreOrder reconstructs an order from persistence with its full
// pipeline state.
func RestoreOrder(
	id, customerID kernel.UUID,
	address kernel.Address,
	window kernel.TimeWindow,
	priority Priority,
	status Status,
	onHold bool,
	holdReason string,
	backorderAttempts int,
	items []*Item,
) (*Order, error) {
	o, err := NewOrder(id, customerID, address, window, priority, items)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	o.status = status
	o.onHold = onHold
	o.holdReason = holdReason
	o.backorderAttempts = backorderAttempts
	return o, nil
}

// Validate rejects orders that bypassed the constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the owning customer reference.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Address returns the delivery destination.
func (o *Order) Address() kernel.Address { return o.address }

// Window returns the requested delivery window; may be zero for unscheduled orders.
func (o *Order) Window() kernel.TimeWindow { return o.window }

// Priority returns the planning priority.
func (o *Order) Priority() Priority { return o.priority }

// Status returns the current pipeline status.
func (o *Order) Status() Status { return o.status }

// Items returns all line items, including cancelled ones.
func (o *Order) Items() []*Item { return o.items }

// ItemByID finds a line item or returns ErrItemNotFound.
func (o *Order) ItemByID(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, ErrItemNotFound
}

// ActiveItems returns the non-cancelled line items.
func (o *Order) ActiveItems() []*Item {
	active := make([]*Item, 0, len(o.items))
	for _, item := range o.items {
		if !item.IsCancelled() {
			active = append(active, item)
		}
	}
	return active
}

// Load returns the combined physical footprint of the active items, the
// quantity route packing accounts against driver capacity.
func (o *Order) Load() kernel.Load {
	var total kernel.Load
	for _, item := range o.ActiveItems() {
		total = total.Add(item.Load())
	}
	return total
}

// NeedsSpecialHandling reports whether any active item pins the delivery to
// a compatible vehicle type.
func (o *Order) NeedsSpecialHandling() bool {
	for _, item := range o.ActiveItems() {
		if item.NeedsSpecialHandling() {
			return true
		}
	}
	return false
}

// AllItemsReserved reports whether every active item holds a reservation.
func (o *Order) AllItemsReserved() bool {
	for _, item := range o.ActiveItems() {
		if !item.IsReserved() {
			return false
		}
	}
	return true
}

// AllItemsAssembled reports whether every active item is assembled with no
// unresolved defect. Gates ReadyForDelivery and OutForDelivery.
func (o *Order) AllItemsAssembled() bool {
	for _, item := range o.ActiveItems() {
		if !item.IsAssembled() || item.IsDefective() {
			return false
		}
	}
	return true
}

// HasUnresolvedDefects reports whether any active item awaits defect resolution.
func (o *Order) HasUnresolvedDefects() bool {
	for _, item := range o.ActiveItems() {
		if item.IsDefective() {
			return true
		}
	}
	return false
}

// MarkValidated records successful validation of customer and item data.
func (o *Order) MarkValidated() error {
	return o.transition(Validated)
}

// BeginProcessing records that every item has a reservation attempt in flight.
func (o *Order) BeginProcessing() error {
	return o.transition(Processing)
}

// BeginAssembly moves the order into assembly once every item is reserved.
func (o *Order) BeginAssembly() error {
	if !o.AllItemsReserved() {
		return errs.NewInvalidTransitionError(entityType, o.status.String(), InAssembly.String())
	}
	return o.transition(InAssembly)
}

// MarkReadyForDelivery fires once all assembly tasks completed. Items
// marked defective must be resolved before this transition is allowed.
func (o *Order) MarkReadyForDelivery() error {
	if !o.AllItemsAssembled() {
		return errs.NewInvalidTransitionError(entityType, o.status.String(), ReadyForDelivery.String())
	}
	return o.transition(ReadyForDelivery)
}

// MarkOutForDelivery fires when the order's delivery rides a dispatched
// route. The assembly gate is re-checked here: an order never leaves the
// depot with an incomplete non-cancelled item.
func (o *Order) MarkOutForDelivery() error {
	if !o.AllItemsAssembled() {
		return errs.NewInvalidTransitionError(entityType, o.status.String(), OutForDelivery.String())
	}
	return o.transition(OutForDelivery)
}

// MarkDelivered records the successful terminal delivery outcome.
func (o *Order) MarkDelivered() error {
	return o.transition(Delivered)
}

// MarkFailed records the terminal failure outcome, reached when delivery
// attempts are exhausted or the pipeline gives up on the order.
func (o *Order) MarkFailed() error {
	return o.transition(Failed)
}

// Cancel moves the order to Cancelled. Cancelling an already-cancelled
// order is a no-op, making concurrent cancellation requests safe; the
// caller releases outstanding stock reservations alongside.
func (o *Order) Cancel() error {
	if o.status == Cancelled {
		return nil
	}
	if err := o.transition(Cancelled); err != nil {
		return err
	}
	o.onHold = false
	o.holdReason = ""
	return nil
}

// MarkReturned records a return; the caller compensates committed stock
// through the ledger.
func (o *Order) MarkReturned() error {
	return o.transition(Returned)
}

// MarkItemReserved flags an item's successful stock reservation.
func (o *Order) MarkItemReserved(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	item.markReserved()
	return nil
}

// ReleaseItemReservation clears an item's reservation flag after the ledger
// released its stock.
func (o *Order) ReleaseItemReservation(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	item.releaseReservation()
	return nil
}

// MarkItemAssembled flags an item's assembly completion.
func (o *Order) MarkItemAssembled(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	item.markAssembled()
	return nil
}

// MarkItemDefective records an assembly defect; the item is no longer
// considered assembled until the defect is resolved.
func (o *Order) MarkItemDefective(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	item.markDefective()
	return nil
}

// ResolveItemDefect clears a defect after replacement; the item goes back
// through assembly.
func (o *Order) ResolveItemDefect(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	item.resolveDefect()
	return nil
}

// CancelItem removes an item from the order, resolving its defect state.
// The caller releases the item's stock reservation if one is outstanding.
func (o *Order) CancelItem(itemID kernel.UUID) error {
	item, err := o.ItemByID(itemID)
	if err != nil {
		return err
	}
	item.cancel()
	item.releaseReservation()
	return nil
}

// PlaceOnHold parks the order in the backorder sub-state.
func (o *Order) PlaceOnHold(reason string) {
	o.onHold = true
	o.holdReason = reason
}

// ReleaseHold clears the backorder sub-state and resets the retry counter.
func (o *Order) ReleaseHold() {
	o.onHold = false
	o.holdReason = ""
	o.backorderAttempts = 0
}

// IsOnHold reports whether the order awaits backordered stock.
func (o *Order) IsOnHold() bool { return o.onHold }

// HoldReason returns the reason the order was parked.
func (o *Order) HoldReason() string { return o.holdReason }

// BackorderAttempts returns how many reservation re-attempts have run.
func (o *Order) BackorderAttempts() int { return o.backorderAttempts }

// RecordBackorderAttempt increments and returns the re-attempt counter.
func (o *Order) RecordBackorderAttempt() int {
	o.backorderAttempts++
	return o.backorderAttempts
}

func (o *Order) transition(next Status) error {
	prior := o.status
	updated, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = updated
	o.RecordTransition(entityType, o.id, prior.String(), updated.String())
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return fmt.Errorf("customer: %w", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}
