package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrResolveAssemblyDefectCommandIsNotConstructed = errors.New(
	"ResolveAssemblyDefectCommand must be created via NewResolveAssemblyDefectCommand constructor",
)

// DefectResolution decides what happens to a defective item.
type DefectResolution int

const (
	ResolutionUnknown DefectResolution = iota

	// ResolutionReplace swaps the defective unit and re-queues the task.
	ResolutionReplace

	// ResolutionRemove cancels the item, releasing its reservation; the
	// order continues with the remaining items.
	ResolutionRemove
)

// Validate rejects unknown resolutions.
func (r DefectResolution) Validate() error {
	if r != ResolutionReplace && r != ResolutionRemove {
		return errs.NewValueIsInvalidError("resolution")
	}
	return nil
}

// ResolveAssemblyDefectCommand resolves a reported defect by replacement
// or removal.
type ResolveAssemblyDefectCommand struct { //nolint:recvcheck //using for validation
	taskID     kernel.UUID
	resolution DefectResolution

	guard guard.ConstructorGuard
}

// NewResolveAssemblyDefectCommand creates a defect resolution command.
func NewResolveAssemblyDefectCommand(taskID kernel.UUID, resolution DefectResolution) (ResolveAssemblyDefectCommand, error) {
	if err := errors.Join(taskID.Validate(), resolution.Validate()); err != nil {
		return ResolveAssemblyDefectCommand{}, err
	}
	return ResolveAssemblyDefectCommand{
		taskID:     taskID,
		resolution: resolution,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveAssemblyDefectCommand) Validate() error {
	return c.guard.Validate(ErrResolveAssemblyDefectCommandIsNotConstructed)
}

// TaskID returns the defective task.
func (c ResolveAssemblyDefectCommand) TaskID() kernel.UUID { return c.taskID }

// Resolution returns the chosen resolution.
func (c ResolveAssemblyDefectCommand) Resolution() DefectResolution { return c.resolution }
