package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand closes a delivery attempt with proof of delivery.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID  kernel.UUID
	proof       delivery.Proof
	deliveredAt time.Time

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a completion command. Proof of delivery
// is mandatory.
func NewCompleteDeliveryCommand(
	deliveryID kernel.UUID,
	proofKind delivery.ProofKind,
	proofReference string,
	deliveredAt time.Time,
) (CompleteDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	proof, err := delivery.NewProof(proofKind, proofReference)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	if deliveredAt.IsZero() {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredError("deliveredAt")
	}

	return CompleteDeliveryCommand{
		deliveryID:  deliveryID,
		proof:       proof,
		deliveredAt: deliveredAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being completed.
func (c CompleteDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// Proof returns the captured proof of delivery.
func (c CompleteDeliveryCommand) Proof() delivery.Proof { return c.proof }

// DeliveredAt returns the handover timestamp reported by the driver.
func (c CompleteDeliveryCommand) DeliveredAt() time.Time { return c.deliveredAt }
