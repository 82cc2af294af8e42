package stockrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM. Stock rows
// carry counters only and record no domain events, so the repository does
// not participate in aggregate tracking.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GORM stock repository.
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Add registers a new SKU in the ledger.
func (r *GormStockRepository) Add(ctx context.Context, item *stock.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := fromDomain(item)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists counter changes for an existing SKU. All columns are
// written, including zero-valued counters, so a fully released
// reservation lands in the database as well.
func (r *GormStockRepository) Update(ctx context.Context, item *stock.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := fromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&StockItemDTO{}).
		Where("sku = ?", dto.SKU).
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

// GetBySKU retrieves a ledger entry by SKU.
func (r *GormStockRepository) GetBySKU(ctx context.Context, sku string) (*stock.Item, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	var dto StockItemDTO
	if err := r.db.WithContext(ctx).First(&dto, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock item", sku)
		}
		return nil, err
	}

	return toDomain(dto)
}
