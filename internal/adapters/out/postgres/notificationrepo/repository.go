package notificationrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationTaskRepository implements NotificationTaskRepository using GORM.
type GormNotificationTaskRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormNotificationTaskRepository creates a new GORM notification task repository.
func NewGormNotificationTaskRepository(db *gorm.DB, tracker aggregateTracker) *GormNotificationTaskRepository {
	return &GormNotificationTaskRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new notification task to the database.
func (r *GormNotificationTaskRepository) Add(ctx context.Context, task *notification.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := fromDomain(task)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(task.ID(), task)
	return nil
}

// Update saves an existing task. All columns are written so a retry that
// clears external_id or rewrites last_error lands fully.
func (r *GormNotificationTaskRepository) Update(ctx context.Context, task *notification.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := fromDomain(task)
	result := r.db.WithContext(ctx).
		Model(&TaskDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(task.ID(), task)
	return nil
}

// Get retrieves a task by ID.
func (r *GormNotificationTaskRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification task", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllDue retrieves pending tasks whose next attempt time has passed,
// oldest schedule first, capped at limit.
func (r *GormNotificationTaskRepository) GetAllDue(ctx context.Context, now time.Time, limit int) ([]*notification.Task, error) {
	var dtos []TaskDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", int(notification.Pending), now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	tasks := make([]*notification.Task, 0, len(dtos))
	for _, dto := range dtos {
		task, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
