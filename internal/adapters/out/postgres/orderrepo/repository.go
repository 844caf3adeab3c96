package orderrepo

import (
	"context"
	"errors"

	"circulation/internal/adapters/out/postgres/transitionlog"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database together with any transitions
// recorded during creation.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update saves an existing order to the database. Membership rows are
// upserted; the transition log is append-only, so only transitions recorded
// since the aggregate was loaded are written.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("variant", "open", "confirmed", "access_date_start", "location_id", "assignees").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Memberships) > 0 {
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active"}),
		}).Create(&dto.Memberships).Error
		if err != nil {
			return err
		}
	}

	if err := transitionlog.Append(ctx, r.db, aggregate.UncommittedTransitions()); err != nil {
		return err
	}
	aggregate.MarkCommitted()

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its memberships and transition history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Memberships").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	history, err := transitionlog.LoadForSubject(ctx, r.db, statemachine.KindOrder, id)
	if err != nil {
		return nil, err
	}

	return toDomain(dto, history)
}

// GetAllConfirmedStandard retrieves open standard orders that have been
// confirmed. Candidates for automatic fulfillment.
func (r *GormOrderRepository) GetAllConfirmedStandard(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Memberships").
		Find(&dtos, "open = ? AND confirmed = ? AND variant = ?", true, true, int(order.Standard)).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(ctx, dtos)
}

// GetAllByItem retrieves every order holding an active membership for the
// given item.
func (r *GormOrderRepository) GetAllByItem(ctx context.Context, itemID kernel.UUID) ([]*order.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Memberships").
		Joins("JOIN item_memberships ON item_memberships.order_id = orders.id").
		Where("item_memberships.item_id = ? AND item_memberships.active = ?", itemID.Bytes(), true).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(ctx, dtos)
}

// GetAllOpen retrieves all orders currently open for changes.
func (r *GormOrderRepository) GetAllOpen(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Memberships").Find(&dtos, "open = ?", true).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(ctx, dtos)
}

func (r *GormOrderRepository) restoreAll(ctx context.Context, dtos []OrderDTO) ([]*order.Order, error) {
	ids := make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	histories, err := transitionlog.LoadForSubjects(ctx, r.db, statemachine.KindOrder, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for i, dto := range dtos {
		o, err := toDomain(dto, histories[ids[i].String()])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
