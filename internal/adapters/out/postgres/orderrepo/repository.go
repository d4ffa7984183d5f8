package orderrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository binds the repository to db, which may be a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order together with its pending transitions.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := r.appendTransitions(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Update writes every column if the stored version still matches the version
// the aggregate was loaded with, and bumps it.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyMiss(ctx, aggregate.ID())
	}

	if err := r.appendTransitions(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Get returns errs.ObjectNotFoundError for an unknown order.
//
// Example:
//
//	o, err := uow.OrderRepository().Get(ctx, orderID)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Transitions returns the persisted log of an order, oldest first.
func (r *GormOrderRepository) Transitions(ctx context.Context, id kernel.UUID) ([]TransitionDTO, error) {
	var dtos []TransitionDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", id.Raw()).
		Order("occurred_at, id").
		Find(&dtos).Error
	return dtos, err
}

// classifyMiss tells a missing order from a version conflict after an update matched no row.
func (r *GormOrderRepository) classifyMiss(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Raw()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewVersionIsInvalidErrorWithCause("order", errors.New("order was modified concurrently"))
}

// appendTransitions inserts the aggregate's pending transitions, if any.
func (r *GormOrderRepository) appendTransitions(ctx context.Context, aggregate *order.Order) error {
	dtos := transitionsFromDomain(aggregate.ID(), aggregate.PendingTransitions())
	if len(dtos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}
