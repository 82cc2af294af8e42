// Package assemblyrepo provides data transfer objects and mapping
// functions for assembly-task persistence. Its Update enforces the
// claim compare-and-set: the Pending to InProgress transition only
// succeeds against a row still in Pending, so concurrent workers racing
// for the same task lose deterministically.
package assemblyrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// TaskDTO represents the database structure for persisting assembly tasks.
type TaskDTO struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID  `gorm:"type:uuid;not null"`
	SKU      string     `gorm:"type:varchar(64);not null"`
	Priority int        `gorm:"type:int;not null"`
	Status   int        `gorm:"type:int;not null;index"`
	Assignee *uuid.UUID `gorm:"type:uuid"`

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName specifies the database table name for assembly tasks.
func (TaskDTO) TableName() string {
	return "assembly_tasks"
}

// fromDomain converts an assembly task to its database representation.
func fromDomain(task *assembly.Task) TaskDTO {
	var assignee *uuid.UUID
	if worker := task.Assignee(); worker != nil {
		raw := worker.Bytes()
		assignee = &raw
	}

	return TaskDTO{
		ID:          task.ID().Bytes(),
		OrderID:     task.OrderID().Bytes(),
		ItemID:      task.ItemID().Bytes(),
		SKU:         task.SKU(),
		Priority:    int(task.Priority()),
		Status:      int(task.Status()),
		Assignee:    assignee,
		CreatedAt:   task.CreatedAt(),
		StartedAt:   task.StartedAt(),
		CompletedAt: task.CompletedAt(),
	}
}

// toDomain converts a database DTO to an assembly task using RestoreTask.
func toDomain(dto TaskDTO) (*assembly.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}

	var assignee *kernel.UUID
	if dto.Assignee != nil {
		worker, workerErr := kernel.UUIDFromBytes((*dto.Assignee)[:])
		if workerErr != nil {
			return nil, workerErr
		}
		assignee = &worker
	}

	return assembly.RestoreTask(
		id, orderID, itemID,
		dto.SKU,
		order.Priority(dto.Priority),
		assembly.Status(dto.Status),
		assignee,
		dto.CreatedAt,
		dto.StartedAt,
		dto.CompletedAt,
	)
}
