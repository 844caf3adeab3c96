// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Transition history lives in the shared transitions table, not here.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Variant         int       `gorm:"index"`
	Open            bool      `gorm:"index"`
	Confirmed       bool
	AccessDateStart *time.Time
	LocationID      *uuid.UUID      `gorm:"type:uuid"`
	Assignees       pq.StringArray  `gorm:"type:text[]"`
	Memberships     []MembershipDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// MembershipDTO represents one item's membership in an order. Memberships
// are deactivated rather than deleted, so the row keeps an active flag.
type MembershipDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Active  bool
}

// TableName specifies the database table name for membership rows.
func (MembershipDTO) TableName() string {
	return "item_memberships"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var locationID *uuid.UUID
	if id := aggregate.LocationID(); id != nil {
		raw := id.Bytes()
		locationID = &raw
	}

	memberships := make([]MembershipDTO, 0, len(aggregate.Memberships()))
	for _, m := range aggregate.Memberships() {
		memberships = append(memberships, MembershipDTO{
			OrderID: aggregate.ID().Bytes(),
			ItemID:  m.ItemID().Bytes(),
			Active:  m.Active(),
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		Variant:         int(aggregate.Variant()),
		Open:            aggregate.Open(),
		Confirmed:       aggregate.Confirmed(),
		AccessDateStart: aggregate.AccessDateStart(),
		LocationID:      locationID,
		Assignees:       pq.StringArray(aggregate.Assignees()),
		Memberships:     memberships,
	}
}

// toDomain converts a database DTO plus its transition history to an order
// domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO, history []statemachine.Transition) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var locationID *kernel.UUID
	if dto.LocationID != nil {
		locID, locErr := kernel.UUIDFromBytes((*dto.LocationID)[:])
		if locErr != nil {
			return nil, locErr
		}

		locationID = &locID
	}

	memberships := make([]order.Membership, 0, len(dto.Memberships))
	for _, m := range dto.Memberships {
		itemID, itemErr := kernel.UUIDFromBytes(m.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		memberships = append(memberships, order.RestoreMembership(itemID, m.Active))
	}

	return order.RestoreOrder(
		id,
		order.Variant(dto.Variant),
		dto.Open,
		dto.Confirmed,
		dto.AccessDateStart,
		locationID,
		[]string(dto.Assignees),
		memberships,
		history,
	)
}
