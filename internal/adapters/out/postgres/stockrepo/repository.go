// Package stockrepo keeps provider inventory. Quantities only change through
// single-statement SQL arithmetic so concurrent orders never lose an update.
package stockrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockDTO is the stock table row. One row per provider and product key.
type StockDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProviderID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_provider_product"`
	ProductName string          `gorm:"not null"`
	ProductKey  string          `gorm:"not null;index;uniqueIndex:idx_stock_provider_product"`
	Quantity    int             `gorm:"not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BatchNo     string          `gorm:"not null;default:''"`
	UpdatedAt   time.Time
}

// TableName maps StockDTO to the stock table.
func (StockDTO) TableName() string {
	return "stock"
}

// GormStockRepository implements ports.StockRepository and ports.StockAdjuster.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository binds the repository to db, which may be a transaction.
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Restock inserts the entry or adds its quantity to the existing one. Price and
// batch are overwritten by the latest restock.
func (r *GormStockRepository) Restock(ctx context.Context, entry ports.StockEntry) error {
	dto := StockDTO{
		ID:          uuid.New(),
		ProviderID:  entry.ProviderID.Raw(),
		ProductName: entry.ProductName,
		ProductKey:  entry.ProductKey,
		Quantity:    entry.Quantity,
		UnitPrice:   entry.UnitPrice,
		BatchNo:     entry.BatchNo,
		UpdatedAt:   time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_id"}, {Name: "product_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":     gorm.Expr("stock.quantity + EXCLUDED.quantity"),
				"product_name": gorm.Expr("EXCLUDED.product_name"),
				"unit_price":   gorm.Expr("EXCLUDED.unit_price"),
				"batch_no":     gorm.Expr("EXCLUDED.batch_no"),
				"updated_at":   gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&dto).Error
}

// FindAvailable picks the provider holding the most units of productKey.
func (r *GormStockRepository) FindAvailable(ctx context.Context, productKey string) (ports.StockEntry, error) {
	var dto StockDTO
	err := r.db.WithContext(ctx).
		Where("product_key = ? AND quantity > 0", productKey).
		Order("quantity DESC, updated_at DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.StockEntry{}, errs.NewObjectNotFoundError("productKey", productKey)
	}
	if err != nil {
		return ports.StockEntry{}, err
	}

	return dto.toEntry()
}

// Get loads one entry by its id.
func (r *GormStockRepository) Get(ctx context.Context, id kernel.UUID) (ports.StockEntry, error) {
	var dto StockDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.StockEntry{}, errs.NewObjectNotFoundError("stockId", id.String())
	}
	if err != nil {
		return ports.StockEntry{}, err
	}

	return dto.toEntry()
}

// Adjust applies a signed correction in place. The quantity guard sits in the
// WHERE clause so that two concurrent removals cannot both pass it.
func (r *GormStockRepository) Adjust(ctx context.Context, id kernel.UUID, delta int) (ports.StockEntry, error) {
	var dto StockDTO
	result := r.db.WithContext(ctx).
		Model(&dto).
		Clauses(clause.Returning{}).
		Where("id = ? AND quantity + ? >= 0", id.Raw(), delta).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return ports.StockEntry{}, result.Error
	}

	if result.RowsAffected == 0 {
		current, err := r.Get(ctx, id)
		if err != nil {
			return ports.StockEntry{}, err
		}
		return ports.StockEntry{}, errs.NewValueIsOutOfRangeError("qty", delta, -current.Quantity, "+inf")
	}

	return dto.toEntry()
}

// Decrement subtracts quantity in place. No floor is applied: inventory may go
// negative when orders outrun restocks, which providers see and correct.
func (r *GormStockRepository) Decrement(
	ctx context.Context,
	providerID kernel.UUID,
	productKey string,
	quantity int,
) error {
	result := r.db.WithContext(ctx).
		Model(&StockDTO{}).
		Where("provider_id = ? AND product_key = ?", providerID.Raw(), productKey).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("stock", providerID.String()+"/"+productKey)
	}
	return nil
}

// toEntry maps a row to the port type.
func (dto StockDTO) toEntry() (ports.StockEntry, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return ports.StockEntry{}, err
	}
	providerID, err := kernel.UUIDFromRaw(dto.ProviderID)
	if err != nil {
		return ports.StockEntry{}, err
	}

	return ports.StockEntry{
		ID:          id,
		ProviderID:  providerID,
		ProductName: dto.ProductName,
		ProductKey:  dto.ProductKey,
		Quantity:    dto.Quantity,
		UnitPrice:   dto.UnitPrice,
		BatchNo:     dto.BatchNo,
	}, nil
}
