// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. This package implements the repository pattern
// for the order aggregate, handling the conversion between the aggregate
// with its line items and their relational representation.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order
// aggregates. The delivery address is embedded, the optional delivery
// window is stored as nullable timestamps, and line items live in their
// own table linked by foreign key.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Address    AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	WindowFrom *time.Time
	WindowTo   *time.Time
	Priority   int `gorm:"type:int;not null"`
	Status     int `gorm:"type:int;not null;index"`

	OnHold            bool   `gorm:"not null"`
	HoldReason        string `gorm:"type:varchar(255)"`
	BackorderAttempts int    `gorm:"type:int;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Items []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded geocoded destination within the
// order table.
type AddressDTO struct {
	Street     string  `gorm:"type:varchar(255)"`
	City       string  `gorm:"type:varchar(128)"`
	PostalCode string  `gorm:"type:varchar(32)"`
	Latitude   float64 `gorm:"type:double precision"`
	Longitude  float64 `gorm:"type:double precision"`
}

// ItemDTO represents the database structure for persisting order line
// items, including the pipeline flags advanced by reservation, assembly
// and cancellation.
type ItemDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU           string    `gorm:"type:varchar(64);not null"`
	Quantity      int       `gorm:"type:int;not null"`
	WeightGrams   int       `gorm:"type:int;not null"`
	VolumeCubicCm int       `gorm:"type:int;not null"`

	SpecialHandling bool `gorm:"not null"`
	Reserved        bool `gorm:"not null"`
	Assembled       bool `gorm:"not null"`
	Defective       bool `gorm:"not null"`
	Cancelled       bool `gorm:"not null"`
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:              item.ID().Bytes(),
			OrderID:         orderID,
			SKU:             item.SKU(),
			Quantity:        item.Quantity(),
			WeightGrams:     item.Load().WeightGrams(),
			VolumeCubicCm:   item.Load().VolumeCubicCm(),
			SpecialHandling: item.NeedsSpecialHandling(),
			Reserved:        item.IsReserved(),
			Assembled:       item.IsAssembled(),
			Defective:       item.IsDefective(),
			Cancelled:       item.IsCancelled(),
		})
	}

	var windowFrom, windowTo *time.Time
	if !aggregate.Window().IsZero() {
		from := aggregate.Window().From()
		to := aggregate.Window().To()
		windowFrom = &from
		windowTo = &to
	}

	address := aggregate.Address()
	return OrderDTO{
		ID:         orderID,
		CustomerID: aggregate.CustomerID().Bytes(),
		Address: AddressDTO{
			Street:     address.Street(),
			City:       address.City(),
			PostalCode: address.PostalCode(),
			Latitude:   address.Latitude(),
			Longitude:  address.Longitude(),
		},
		WindowFrom:        windowFrom,
		WindowTo:          windowTo,
		Priority:          int(aggregate.Priority()),
		Status:            int(aggregate.Status()),
		OnHold:            aggregate.IsOnHold(),
		HoldReason:        aggregate.HoldReason(),
		BackorderAttempts: aggregate.BackorderAttempts(),
		Items:             items,
	}
}

// toDomain converts a database DTO to an order aggregate, reconstructing
// all line items with their pipeline flags using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewAddress(
		dto.Address.Street,
		dto.Address.City,
		dto.Address.PostalCode,
		dto.Address.Latitude,
		dto.Address.Longitude,
	)
	if err != nil {
		return nil, err
	}

	var window kernel.TimeWindow
	if dto.WindowFrom != nil && dto.WindowTo != nil {
		window, err = kernel.NewTimeWindow(*dto.WindowFrom, *dto.WindowTo)
		if err != nil {
			return nil, err
		}
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, customerID,
		address,
		window,
		order.Priority(dto.Priority),
		order.Status(dto.Status),
		dto.OnHold,
		dto.HoldReason,
		dto.BackorderAttempts,
		items,
	)
}

// itemToDomain converts a line-item DTO to a domain entity. The load's
// item count always equals the ordered quantity, so only weight and
// volume are stored.
func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	load, err := kernel.NewLoad(dto.WeightGrams, dto.VolumeCubicCm, dto.Quantity)
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(
		id, dto.SKU, dto.Quantity, load,
		dto.SpecialHandling,
		dto.Reserved,
		dto.Assembled,
		dto.Defective,
		dto.Cancelled,
	)
}
