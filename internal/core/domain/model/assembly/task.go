package assembly

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const entityType = "assembly_task"

var (
	// ErrTaskIsNotConstructed is returned when a Task bypassed NewTask or RestoreTask.
	ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask constructor")
	// ErrTaskAlreadyClaimed is returned when a claim loses the race for a
	// pending task. Wraps ErrConcurrencyConflict for classification.
	ErrTaskAlreadyClaimed = errs.NewConcurrencyConflictError("assembly task claim", nil)
)

// Task is the unit of work of the assembly scheduler. It is created in the
// same transaction as the stock reservation it depends on, so a task always
// implies claimed stock. At most one worker holds a task: claiming is a
// compare-and-set from Pending that the repository enforces with a
// conditional update, mirrored here for in-process callers.
type Task struct {
	kernel.EventRecorder

	id       kernel.UUID
	orderID  kernel.UUID
	itemID   kernel.UUID
	sku      string
	priority order.Priority
	assignee *kernel.UUID
	status   Status

	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// NewTask creates a pending task for a freshly reserved order item.
func NewTask(id, orderID, itemID kernel.UUID, sku string, priority order.Priority) (*Task, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), itemID.Validate()); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if err := priority.Validate(); err != nil {
		return nil, err
	}

	return &Task{
		id:        id,
		orderID:   orderID,
		itemID:    itemID,
		sku:       sku,
		priority:  priority,
		status:    Pending,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreTask reconstructs a task from persistence.
func RestoreTask(
	id, orderID, itemID kernel.UUID,
	sku string,
	priority order.Priority,
	status Status,
	assignee *kernel.UUID,
	createdAt time.Time,
	startedAt, completedAt *time.Time,
) (*Task, error) {
	task, err := NewTask(id, orderID, itemID, sku, priority)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	task.status = status
	task.assignee = assignee
	task.createdAt = createdAt
	task.startedAt = startedAt
	task.completedAt = completedAt
	return task, nil
}

// Validate rejects tasks that bypassed the constructors.
func (t *Task) Validate() error {
	if t == nil {
		return ErrTaskIsNotConstructed
	}
	return t.guard.Validate(ErrTaskIsNotConstructed)
}

// ID returns the task's unique identifier.
func (t *Task) ID() kernel.UUID { return t.id }

// OrderID returns the owning order.
func (t *Task) OrderID() kernel.UUID { return t.orderID }

// ItemID returns the order item being prepared.
func (t *Task) ItemID() kernel.UUID { return t.itemID }

// SKU returns the stock-keeping unit being prepared.
func (t *Task) SKU() string { return t.sku }

// Priority returns the owning order's planning priority.
func (t *Task) Priority() order.Priority { return t.priority }

// Status returns the current task status.
func (t *Task) Status() Status { return t.status }

// Assignee returns the worker holding the task, nil when unclaimed.
func (t *Task) Assignee() *kernel.UUID { return t.assignee }

// CreatedAt returns when the task was queued.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// StartedAt returns when the task was claimed, nil when unclaimed.
func (t *Task) StartedAt() *time.Time { return t.startedAt }

// CompletedAt returns when the task completed, nil otherwise.
func (t *Task) CompletedAt() *time.Time { return t.completedAt }

// Claim moves the task from Pending to InProgress for worker. A task that
// is not Pending returns ErrTaskAlreadyClaimed, so a losing racer sees a
// ConcurrencyConflict rather than an invalid transition.
func (t *Task) Claim(worker kernel.UUID) error {
	if err := worker.Validate(); err != nil {
		return err
	}
	if t.status != Pending {
		return ErrTaskAlreadyClaimed
	}
	if err := t.transition(InProgress); err != nil {
		return err
	}

	t.assignee = &worker
	now := time.Now().UTC()
	t.startedAt = &now
	return nil
}

// Complete finishes the task.
func (t *Task) Complete() error {
	if err := t.transition(Completed); err != nil {
		return err
	}
	now := time.Now().UTC()
	t.completedAt = &now
	return nil
}

// MarkDefective records a defect discovered during preparation.
func (t *Task) MarkDefective() error {
	return t.transition(Defective)
}

// Requeue returns a defective task to the pending pool after the item was
// replaced; the previous assignee is cleared.
func (t *Task) Requeue() error {
	if err := t.transition(Pending); err != nil {
		return err
	}
	t.assignee = nil
	t.startedAt = nil
	return nil
}

// Cancel abandons the task, typically because the order or the item was
// cancelled.
func (t *Task) Cancel() error {
	if t.status == Cancelled {
		return nil
	}
	return t.transition(Cancelled)
}

func (t *Task) transition(next Status) error {
	prior := t.status
	updated, err := t.status.TransitionTo(next)
	if err != nil {
		return err
	}

	t.status = updated
	t.RecordTransition(entityType, t.id, prior.String(), updated.String())
	return nil
}
