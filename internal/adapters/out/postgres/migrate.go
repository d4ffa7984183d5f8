package postgres

import (
	"marketplace/internal/adapters/out/postgres/cartrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/partyrepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service reads or writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.TransitionDTO{},
		&cartrepo.CartDTO{},
		&stockrepo.StockDTO{},
		&partyrepo.PartyDTO{},
	)
}
