package driverrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// Add saves a new driver to the database.
func (r *GormDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing driver to the database. All columns are
// written, so marking a driver unavailable reaches the database.
func (r *GormDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves a driver by ID.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves the drivers of a team that are available and
// not already booked on a route for the given date. A driver holds at
// most one route per date; cancelled routes release the booking.
func (r *GormDriverRepository) GetAllAvailable(ctx context.Context, team string, date time.Time) ([]*driver.Driver, error) {
	if team == "" {
		return nil, errs.NewValueIsRequiredError("team")
	}

	day := date.Truncate(24 * time.Hour)

	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("team = ? AND available = ?", team, true).
		Where("id NOT IN (SELECT driver_id FROM routes WHERE date = ? AND status <> ?)",
			day, int(route.Cancelled)).
		Order("name ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}
