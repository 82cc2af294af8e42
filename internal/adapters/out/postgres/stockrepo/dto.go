// Package stockrepo provides data transfer objects and mapping functions
// for stock-ledger persistence. The ledger is keyed by SKU, not by UUID:
// one row per stock-keeping unit carrying the on-hand and reserved
// counters.
package stockrepo

import (
	"fulfillment/internal/core/domain/model/stock"
)

// StockItemDTO represents the database structure for persisting ledger
// entries. The SKU is the natural primary key.
type StockItemDTO struct {
	SKU      string `gorm:"type:varchar(64);primaryKey"`
	OnHand   int    `gorm:"type:int;not null"`
	Reserved int    `gorm:"type:int;not null"`
	Active   bool   `gorm:"not null"`
}

// TableName specifies the database table name for ledger entries.
func (StockItemDTO) TableName() string {
	return "stock_items"
}

// fromDomain converts a ledger entry to its database representation.
func fromDomain(item *stock.Item) StockItemDTO {
	return StockItemDTO{
		SKU:      item.SKU(),
		OnHand:   item.OnHand(),
		Reserved: item.Reserved(),
		Active:   item.IsActive(),
	}
}

// toDomain converts a database DTO to a ledger entry using RestoreItem,
// which re-checks the 0 <= reserved <= onHand invariant.
func toDomain(dto StockItemDTO) (*stock.Item, error) {
	return stock.RestoreItem(dto.SKU, dto.OnHand, dto.Reserved, dto.Active)
}
