package commands

import (
	"context"
)

// ClaimAssemblyTaskCommandHandler hands a pending task to exactly one
// worker. The domain rejects claims on non-pending tasks, and the
// repository backs that up with a conditional update on the persisted
// status, so of two concurrent claimants exactly one wins and the loser
// surfaces ErrConcurrencyConflict.
type ClaimAssemblyTaskCommandHandler struct {
	uowFactory AssemblyUoWFactory
}

// NewClaimAssemblyTaskCommandHandler creates a handler for task claims.
func NewClaimAssemblyTaskCommandHandler(uowFactory AssemblyUoWFactory) ClaimAssemblyTaskCommandHandler {
	return ClaimAssemblyTaskCommandHandler{uowFactory: uowFactory}
}

// Handle processes the claim command.
func (h ClaimAssemblyTaskCommandHandler) Handle(ctx context.Context, cmd ClaimAssemblyTaskCommand) error {
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

	if err = task.Claim(cmd.WorkerID()); err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, task); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
