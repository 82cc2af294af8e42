package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimAssemblyTaskCommandIsNotConstructed = errors.New(
	"ClaimAssemblyTaskCommand must be created via NewClaimAssemblyTaskCommand constructor",
)

// ClaimAssemblyTaskCommand requests exclusive ownership of a pending
// assembly task for one worker.
type ClaimAssemblyTaskCommand struct { //nolint:recvcheck //using for validation
	taskID   kernel.UUID
	workerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimAssemblyTaskCommand creates a claim command.
func NewClaimAssemblyTaskCommand(taskID, workerID kernel.UUID) (ClaimAssemblyTaskCommand, error) {
	if err := errors.Join(taskID.Validate(), workerID.Validate()); err != nil {
		return ClaimAssemblyTaskCommand{}, err
	}
	return ClaimAssemblyTaskCommand{
		taskID:   taskID,
		workerID: workerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimAssemblyTaskCommand) Validate() error {
	return c.guard.Validate(ErrClaimAssemblyTaskCommandIsNotConstructed)
}

// TaskID returns the task being claimed.
func (c ClaimAssemblyTaskCommand) TaskID() kernel.UUID { return c.taskID }

// WorkerID returns the claiming worker.
func (c ClaimAssemblyTaskCommand) WorkerID() kernel.UUID { return c.workerID }
