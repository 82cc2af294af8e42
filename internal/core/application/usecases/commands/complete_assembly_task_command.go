package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteAssemblyTaskCommandIsNotConstructed = errors.New(
	"CompleteAssemblyTaskCommand must be created via NewCompleteAssemblyTaskCommand constructor",
)

// CompleteAssemblyTaskCommand reports a finished assembly task.
type CompleteAssemblyTaskCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteAssemblyTaskCommand creates a completion command.
func NewCompleteAssemblyTaskCommand(taskID kernel.UUID) (CompleteAssemblyTaskCommand, error) {
	if err := taskID.Validate(); err != nil {
		return CompleteAssemblyTaskCommand{}, err
	}
	return CompleteAssemblyTaskCommand{
		taskID: taskID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteAssemblyTaskCommand) Validate() error {
	return c.guard.Validate(ErrCompleteAssemblyTaskCommandIsNotConstructed)
}

// TaskID returns the finished task.
func (c CompleteAssemblyTaskCommand) TaskID() kernel.UUID { return c.taskID }
