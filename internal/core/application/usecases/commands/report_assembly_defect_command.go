package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReportAssemblyDefectCommandIsNotConstructed = errors.New(
	"ReportAssemblyDefectCommand must be created via NewReportAssemblyDefectCommand constructor",
)

// ReportAssemblyDefectCommand flags a defect discovered while preparing an
// item. The task parks in Defective and the item stops counting as
// assembled until the defect is resolved.
type ReportAssemblyDefectCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReportAssemblyDefectCommand creates a defect report command.
func NewReportAssemblyDefectCommand(taskID kernel.UUID) (ReportAssemblyDefectCommand, error) {
	if err := taskID.Validate(); err != nil {
		return ReportAssemblyDefectCommand{}, err
	}
	return ReportAssemblyDefectCommand{
		taskID: taskID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportAssemblyDefectCommand) Validate() error {
	return c.guard.Validate(ErrReportAssemblyDefectCommandIsNotConstructed)
}

// TaskID returns the task whose item is defective.
func (c ReportAssemblyDefectCommand) TaskID() kernel.UUID { return c.taskID }
