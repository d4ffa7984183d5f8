// Package cartrepo stores one cart row per requester with its lines as jsonb.
package cartrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartDTO is the carts table row.
type CartDTO struct {
	RequesterID uuid.UUID                              `gorm:"type:uuid;primaryKey"`
	Items       datatypes.JSONSlice[orderrepo.ItemDTO] `gorm:"type:jsonb;not null"`
	UpdatedAt   time.Time
}

// TableName maps CartDTO to the carts table.
func (CartDTO) TableName() string {
	return "carts"
}

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository binds the repository to db, which may be a transaction.
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Get returns an empty cart for requesters that never added anything.
func (r *GormCartRepository) Get(ctx context.Context, requesterID kernel.UUID) (*cart.Cart, error) {
	if err := requesterID.Validate(); err != nil {
		return nil, err
	}

	return r.load(r.db.WithContext(ctx), requesterID)
}

// GetForUpdate reads the cart and holds its row lock until the surrounding
// transaction ends. A missing row is created empty first, so even a requester
// without a cart is serialized.
//
// Must be called inside a unit of work: outside one the lock is released as
// soon as the statement finishes.
//
// Example:
//
//	c, err := uow.CartRepository().GetForUpdate(ctx, requesterID)
//	if err != nil {
//	    return err
//	}
//	items := c.Consume()
//	...
//	err = uow.CartRepository().Save(ctx, c)
func (r *GormCartRepository) GetForUpdate(ctx context.Context, requesterID kernel.UUID) (*cart.Cart, error) {
	if err := requesterID.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	empty := CartDTO{
		RequesterID: requesterID.Raw(),
		Items:       datatypes.JSONSlice[orderrepo.ItemDTO]{},
		UpdatedAt:   time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&empty).Error; err != nil {
		return nil, err
	}

	return r.load(db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), requesterID)
}

// load returns an empty cart when no row exists.
func (r *GormCartRepository) load(db *gorm.DB, requesterID kernel.UUID) (*cart.Cart, error) {
	var dto CartDTO
	err := db.First(&dto, "requester_id = ?", requesterID.Raw()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart.NewCart(requesterID)
	}
	if err != nil {
		return nil, err
	}

	items, err := orderrepo.ItemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	return cart.RestoreCart(requesterID, items)
}

// Save upserts the whole cart. An empty cart is stored as an empty array.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := CartDTO{
		RequesterID: c.RequesterID().Raw(),
		Items:       orderrepo.ItemsFromDomain(c.Items()),
		UpdatedAt:   time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requester_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&dto).Error
}
