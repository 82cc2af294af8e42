// Package delivery contains the Delivery aggregate tracking a single
// physical attempt to hand an order to its customer. An order may
// accumulate several deliveries across retries, but at most one of them is
// active (non-terminal) at a time; that invariant is guarded at the
// application layer when a successor attempt is opened.
package delivery

import (
	"errors"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const entityType = "delivery"

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery bypassed NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")
	// ErrReasonIsRequired is returned when a failure or return carries no reason.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")
)

// ProofKind distinguishes the accepted forms of proof of delivery.
type ProofKind int

const (
	ProofNone ProofKind = iota
	ProofSignature
	ProofPhoto
)

// Proof is the evidence captured on handover: a signature or a photo,
// stored as an opaque reference to the captured artifact.
type Proof struct {
	kind      ProofKind
	reference string
}

// NewProof creates proof of delivery. The reference must point at a stored
// artifact; an empty reference is no proof at all.
func NewProof(kind ProofKind, reference string) (Proof, error) {
	if kind != ProofSignature && kind != ProofPhoto {
		return Proof{}, errs.NewValueIsInvalidError("proof kind")
	}
	if reference == "" {
		return Proof{}, errs.NewValueIsRequiredError("proof reference")
	}
	return Proof{kind: kind, reference: reference}, nil
}

// Kind returns the proof kind.
func (p Proof) Kind() ProofKind { return p.kind }

// Reference returns the stored artifact reference.
func (p Proof) Reference() string { return p.reference }

// IsZero reports whether no proof was captured.
func (p Proof) IsZero() bool { return p.kind == ProofNone }

// Delivery is one attempt to deliver an order. It snapshots the order's
// destination, window and load so route planning and execution never reach
// back into the order aggregate.
type Delivery struct {
	kernel.EventRecorder

	id              kernel.UUID
	orderID         kernel.UUID
	routeID         *kernel.UUID
	driverID        *kernel.UUID
	address         kernel.Address
	window          kernel.TimeWindow
	load            kernel.Load
	specialHandling bool
	adHoc           bool
	attempt         int
	status          Status
	failureReason   string
	proof           Proof
	deliveredAt     *time.Time

	guard guard.ConstructorGuard
}

// NewDelivery opens a delivery attempt for an order. Attempt numbering
// starts at 1 and increments across reschedules of the same order.
func NewDelivery(
	id, orderID kernel.UUID,
	address kernel.Address,
	window kernel.TimeWindow,
	load kernel.Load,
	specialHandling bool,
	attempt int,
	adHoc bool,
) (*Delivery, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), address.Validate()); err != nil {
		return nil, err
	}
	if attempt < 1 {
		return nil, errs.NewValueIsOutOfRangeError("attempt", attempt, 1, math.MaxInt)
	}

	status := Scheduled
	if adHoc {
		status = ScheduledAdHoc
	}

	return &Delivery{
		id:              id,
		orderID:         orderID,
		address:         address,
		window:          window,
		load:            load,
		specialHandling: specialHandling,
		adHoc:           adHoc,
		attempt:         attempt,
		status:          status,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// RestoreDelivery reconstructs a delivery from persistence.
func RestoreDelivery(
	id, orderID kernel.UUID,
	routeID, driverID *kernel.UUID,
	address kernel.Address,
	window kernel.TimeWindow,
	load kernel.Load,
	specialHandling, adHoc bool,
	attempt int,
	status Status,
	failureReason string,
	proof Proof,
	deliveredAt *time.Time,
) (*Delivery, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Delivery{
		id:              id,
		orderID:         orderID,
		routeID:         routeID,
		driverID:        driverID,
		address:         address,
		window:          window,
		load:            load,
		specialHandling: specialHandling,
		adHoc:           adHoc,
		attempt:         attempt,
		status:          status,
		failureReason:   failureReason,
		proof:           proof,
		deliveredAt:     deliveredAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate rejects deliveries that bypassed the constructors.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// OrderID returns the order this attempt belongs to.
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }

// RouteID returns the carrying route, nil while pooled.
func (d *Delivery) RouteID() *kernel.UUID { return d.routeID }

// DriverID returns the executing driver, nil while pooled.
func (d *Delivery) DriverID() *kernel.UUID { return d.driverID }

// Address returns the snapshotted destination.
func (d *Delivery) Address() kernel.Address { return d.address }

// Window returns the scheduled delivery window.
func (d *Delivery) Window() kernel.TimeWindow { return d.window }

// Load returns the snapshotted order load.
func (d *Delivery) Load() kernel.Load { return d.load }

// NeedsSpecialHandling reports whether only special-equipped vehicles qualify.
func (d *Delivery) NeedsSpecialHandling() bool { return d.specialHandling }

// Attempt returns the 1-based attempt number.
func (d *Delivery) Attempt() int { return d.attempt }

// Status returns the current delivery status.
func (d *Delivery) Status() Status { return d.status }

// FailureReason returns the recorded reason for a failed, rescheduled or
// returned attempt.
func (d *Delivery) FailureReason() string { return d.failureReason }

// ProofOfDelivery returns the captured proof; zero until delivered.
func (d *Delivery) ProofOfDelivery() Proof { return d.proof }

// DeliveredAt returns the handover time, nil until delivered.
func (d *Delivery) DeliveredAt() *time.Time { return d.deliveredAt }

// IsActive reports whether this attempt still blocks opening a new one.
func (d *Delivery) IsActive() bool { return !d.status.IsTerminal() }

// IsAdHoc reports whether the delivery bypasses batch planning.
func (d *Delivery) IsAdHoc() bool { return d.adHoc }

// AssignToRoute attaches the delivery to a planned route.
func (d *Delivery) AssignToRoute(routeID, driverID kernel.UUID) error {
	if err := errors.Join(routeID.Validate(), driverID.Validate()); err != nil {
		return err
	}
	if err := d.transition(Assigned); err != nil {
		return err
	}
	d.routeID = &routeID
	d.driverID = &driverID
	return nil
}

// Unassign returns the delivery to the scheduling pool after its route was
// reverted or cancelled.
func (d *Delivery) Unassign() error {
	target := Scheduled
	if d.adHoc {
		target = ScheduledAdHoc
	}
	if err := d.transition(target); err != nil {
		return err
	}
	d.routeID = nil
	d.driverID = nil
	return nil
}

// Dispatch marks the delivery as on board of a started route.
func (d *Delivery) Dispatch() error {
	return d.transition(Dispatched)
}

// MarkInTransit records the driver moving towards this stop.
func (d *Delivery) MarkInTransit() error {
	return d.transition(InTransit)
}

// MarkArrived records the driver at the destination.
func (d *Delivery) MarkArrived() error {
	return d.transition(Arrived)
}

// Complete closes the attempt successfully. Proof is mandatory: without a
// signature or photo the delivery stays arrived.
func (d *Delivery) Complete(proof Proof, at time.Time) error {
	if proof.IsZero() {
		return errs.ErrMissingProofOfDelivery
	}
	if err := d.transition(Delivered); err != nil {
		return err
	}
	d.proof = proof
	d.deliveredAt = &at
	return nil
}

// Fail closes the attempt as the order's last one. The caller decides
// between Fail and Reschedule based on the remaining attempt budget.
func (d *Delivery) Fail(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	if err := d.transition(Failed); err != nil {
		return err
	}
	d.failureReason = reason
	return nil
}

// Reschedule closes the attempt in favour of a successor delivery.
func (d *Delivery) Reschedule(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	if err := d.transition(Rescheduled); err != nil {
		return err
	}
	d.failureReason = reason
	return nil
}

// Return records a customer refusal; the goods travel back to the warehouse.
func (d *Delivery) Return(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	if err := d.transition(Returned); err != nil {
		return err
	}
	d.failureReason = reason
	return nil
}

// Cancel withdraws a delivery at any point before handover and is
// idempotent. A cancelled en-route stop is the driver's recall signal.
func (d *Delivery) Cancel() error {
	if d.status == Cancelled {
		return nil
	}
	return d.transition(Cancelled)
}

func (d *Delivery) transition(next Status) error {
	prior := d.status
	updated, err := d.status.TransitionTo(next)
	if err != nil {
		return err
	}

	d.status = updated
	d.RecordTransition(entityType, d.id, prior.String(), updated.String())
	return nil
}
