package assemblyrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssemblyTaskRepository implements AssemblyTaskRepository using GORM.
type GormAssemblyTaskRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssemblyTaskRepository creates a new GORM assembly task repository.
func NewGormAssemblyTaskRepository(db *gorm.DB, tracker aggregateTracker) *GormAssemblyTaskRepository {
	return &GormAssemblyTaskRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assembly task to the database.
func (r *GormAssemblyTaskRepository) Add(ctx context.Context, task *assembly.Task) error {
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

// Update saves an existing task. A task in InProgress is written with a
// conditional update against the Pending row, so of two workers claiming
// concurrently exactly one wins; the loser gets ErrTaskAlreadyClaimed.
func (r *GormAssemblyTaskRepository) Update(ctx context.Context, task *assembly.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := fromDomain(task)
	query := r.db.WithContext(ctx).Model(&TaskDTO{}).Where("id = ?", dto.ID)
	if task.Status() == assembly.InProgress {
		query = query.Where("status = ?", int(assembly.Pending))
	}

	result := query.Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if task.Status() == assembly.InProgress && r.exists(ctx, dto) {
			return assembly.ErrTaskAlreadyClaimed
		}
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(task.ID(), task)
	return nil
}

// Get retrieves a task by ID.
func (r *GormAssemblyTaskRepository) Get(ctx context.Context, id kernel.UUID) (*assembly.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assembly task", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByOrder retrieves every task of an order, including completed and
// cancelled ones kept as history.
func (r *GormAssemblyTaskRepository) GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*assembly.Task, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TaskDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	tasks := make([]*assembly.Task, 0, len(dtos))
	for _, dto := range dtos {
		task, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *GormAssemblyTaskRepository) exists(ctx context.Context, dto TaskDTO) bool {
	var count int64
	r.db.WithContext(ctx).Model(&TaskDTO{}).Where("id = ?", dto.ID).Count(&count)
	return count > 0
}
