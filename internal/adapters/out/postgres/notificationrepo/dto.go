// Package notificationrepo provides data transfer objects and mapping
// functions for notification-task persistence.
package notificationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// TaskDTO represents the database structure for persisting notification
// tasks, including the per-task retry budget and backoff schedule.
type TaskDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null"`
	Channel     int       `gorm:"type:int;not null"`
	MessageType string    `gorm:"type:varchar(64);not null"`
	Payload     string    `gorm:"type:text"`
	Status      int       `gorm:"type:int;not null;index"`

	RetryCount    int       `gorm:"type:int;not null"`
	MaxRetries    int       `gorm:"type:int;not null"`
	NextAttemptAt time.Time `gorm:"not null;index"`
	ExternalID    string    `gorm:"type:varchar(255)"`
	LastError     string    `gorm:"type:varchar(255)"`
}

// TableName specifies the database table name for notification tasks.
func (TaskDTO) TableName() string {
	return "notification_tasks"
}

// fromDomain converts a notification task to its database representation.
func fromDomain(task *notification.Task) TaskDTO {
	return TaskDTO{
		ID:            task.ID().Bytes(),
		OrderID:       task.OrderID().Bytes(),
		CustomerID:    task.CustomerID().Bytes(),
		Channel:       int(task.Channel()),
		MessageType:   task.MessageType(),
		Payload:       task.Payload(),
		Status:        int(task.Status()),
		RetryCount:    task.RetryCount(),
		MaxRetries:    task.MaxRetries(),
		NextAttemptAt: task.NextAttemptAt(),
		ExternalID:    task.ExternalID(),
		LastError:     task.LastError(),
	}
}

// toDomain converts a database DTO to a notification task using RestoreTask.
func toDomain(dto TaskDTO) (*notification.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreTask(
		id, orderID, customerID,
		notification.Channel(dto.Channel),
		dto.MessageType,
		dto.Payload,
		notification.Status(dto.Status),
		dto.RetryCount,
		dto.MaxRetries,
		dto.NextAttemptAt,
		dto.ExternalID,
		dto.LastError,
	)
}
