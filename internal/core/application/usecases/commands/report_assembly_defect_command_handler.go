package commands

import (
	"context"
)

// ReportAssemblyDefectCommandHandler records an assembly defect on the
// task and the owning order item in one transaction.
type ReportAssemblyDefectCommandHandler struct {
	uowFactory AssemblyUoWFactory
}

// NewReportAssemblyDefectCommandHandler creates a handler for defect reports.
func NewReportAssemblyDefectCommandHandler(uowFactory AssemblyUoWFactory) ReportAssemblyDefectCommandHandler {
	return ReportAssemblyDefectCommandHandler{uowFactory: uowFactory}
}

// Handle processes the defect report.
func (h ReportAssemblyDefectCommandHandler) Handle(ctx context.Context, cmd ReportAssemblyDefectCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.AssemblyTaskRepository()
	task, err := taskRepo.Get(ctx, cmd.TaskID())
	if err != nil {
		return err
	}
	if err = task.MarkDefective(); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, task.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.MarkItemDefective(task.ItemID()); err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, task); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
