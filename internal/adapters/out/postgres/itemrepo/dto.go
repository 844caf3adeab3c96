// Package itemrepo provides data transfer objects and mapping functions for item persistence.
// This package implements the repository pattern for the item domain aggregate, handling
// the conversion between domain entities and database representations.
package itemrepo

import (
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"

	"github.com/google/uuid"
)

// ItemDTO represents the database structure for persisting item aggregates.
// Location references are nullable because marking an item obsolete clears
// them. Transition history lives in the shared transitions table.
type ItemDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Obsolete            bool      `gorm:"index"`
	Digital             bool
	PermanentLocationID *uuid.UUID `gorm:"type:uuid"`
	CurrentLocationID   *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for item entities.
// Overrides GORM's default naming convention to use "items".
func (ItemDTO) TableName() string {
	return "items"
}

// fromDomain converts an item domain aggregate to its database representation.
func fromDomain(aggregate *item.Item) ItemDTO {
	return ItemDTO{
		ID:                  aggregate.ID().Bytes(),
		Obsolete:            aggregate.Obsolete(),
		Digital:             aggregate.Digital(),
		PermanentLocationID: uuidPtr(aggregate.PermanentLocationID()),
		CurrentLocationID:   uuidPtr(aggregate.CurrentLocationID()),
	}
}

// toDomain converts a database DTO plus its transition history to an item
// domain aggregate using RestoreItem.
func toDomain(dto ItemDTO, history []statemachine.Transition) (*item.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	permanentID, err := kernelPtr(dto.PermanentLocationID)
	if err != nil {
		return nil, err
	}

	currentID, err := kernelPtr(dto.CurrentLocationID)
	if err != nil {
		return nil, err
	}

	return item.RestoreItem(id, dto.Obsolete, dto.Digital, permanentID, currentID, history)
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	k, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &k, nil
}
