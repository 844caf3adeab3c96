package itemrepo

import (
	"context"
	"errors"

	"circulation/internal/adapters/out/postgres/transitionlog"
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormItemRepository creates a new GORM item repository.
func NewGormItemRepository(db *gorm.DB, tracker aggregateTracker) *GormItemRepository {
	return &GormItemRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new item to the database.
func (r *GormItemRepository) Add(ctx context.Context, aggregate *item.Item) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := transitionlog.Append(ctx, r.db, aggregate.UncommittedTransitions()); err != nil {
		return err
	}
	aggregate.MarkCommitted()

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing item to the database. Only transitions recorded
// since the aggregate was loaded are appended to the log.
func (r *GormItemRepository) Update(ctx context.Context, aggregate *item.Item) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ItemDTO{}).
		Where("id = ?", dto.ID).
		Select("obsolete", "digital", "permanent_location_id", "current_location_id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := transitionlog.Append(ctx, r.db, aggregate.UncommittedTransitions()); err != nil {
		return err
	}
	aggregate.MarkCommitted()

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an item by ID with its transition history.
func (r *GormItemRepository) Get(ctx context.Context, id kernel.UUID) (*item.Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ItemDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("item", id.String())
		}
		return nil, err
	}

	history, err := transitionlog.LoadForSubject(ctx, r.db, statemachine.KindItem, id)
	if err != nil {
		return nil, err
	}

	return toDomain(dto, history)
}

// GetByOrder retrieves the items holding an active membership in the given
// order, each with its full transition history.
func (r *GormItemRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*item.Item, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ItemDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN item_memberships ON item_memberships.item_id = items.id").
		Where("item_memberships.order_id = ? AND item_memberships.active = ?", orderID.Bytes(), true).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	histories, err := transitionlog.LoadForSubjects(ctx, r.db, statemachine.KindItem, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*item.Item, 0, len(dtos))
	for i, dto := range dtos {
		it, itemErr := toDomain(dto, histories[ids[i].String()])
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, it)
	}

	return items, nil
}
