// Package orderrepo persists Order aggregates and their transition log.
// Line items are stored as a jsonb column; earnings and requester location are
// flattened into nullable columns so read models can query them directly.
package orderrepo

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the orders table row.
type OrderDTO struct {
	ID               uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	RequesterID      uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ProviderID       uuid.UUID                    `gorm:"type:uuid;not null;index"`
	CourierID        *uuid.UUID                   `gorm:"type:uuid;index"`
	Items            datatypes.JSONSlice[ItemDTO] `gorm:"type:jsonb;not null"`
	Status           string                       `gorm:"type:varchar(32);not null;index"`
	PickedUp         bool                         `gorm:"not null;default:false"`
	PickedUpAt       *time.Time
	RequesterLat     *float64
	RequesterLon     *float64
	RequesterAddress string      `gorm:"not null;default:''"`
	Earnings         EarningsDTO `gorm:"embedded;embeddedPrefix:earning_"`
	OrderedAt        time.Time   `gorm:"not null;index"`
	DeliveredAt      *time.Time
	Version          int `gorm:"not null;default:0"`
}

// TableName maps OrderDTO to the orders table.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one element of the items jsonb array.
type ItemDTO struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ProviderID  uuid.UUID       `json:"providerId"`
}

// EarningsDTO is the earnings jsonb column, null until delivery.
type EarningsDTO struct {
	DistanceKm        float64         `gorm:"not null;default:0"`
	Base              decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DistanceComponent decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Total             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
}

// TransitionDTO is one row of the append-only order_transitions log.
type TransitionDTO struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(32);not null"`
	FromStatus string    `gorm:"type:varchar(32);not null"`
	ToStatus   string    `gorm:"type:varchar(32);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	OccurredAt time.Time `gorm:"not null"`
}

// TableName maps TransitionDTO to the order_transitions table.
func (TransitionDTO) TableName() string {
	return "order_transitions"
}

// ItemsFromDomain is shared with the cart repository, which stores the same lines.
func ItemsFromDomain(items []order.Item) datatypes.JSONSlice[ItemDTO] {
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemDTO{
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			ProviderID:  item.ProviderID().Raw(),
		})
	}
	return datatypes.NewJSONSlice(dtos)
}

// ItemsToDomain rebuilds validated lines; a corrupt element fails the whole slice.
func ItemsToDomain(dtos []ItemDTO) ([]order.Item, error) {
	items := make([]order.Item, 0, len(dtos))
	for i, dto := range dtos {
		providerID, err := kernel.UUIDFromRaw(dto.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		item, err := order.NewItem(dto.ProductName, dto.Quantity, dto.UnitPrice, providerID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// fromDomain maps every column of the aggregate, including the version.
func fromDomain(o *order.Order) OrderDTO {
	s := o.State()

	dto := OrderDTO{
		ID:               s.ID.Raw(),
		RequesterID:      s.RequesterID.Raw(),
		ProviderID:       s.ProviderID.Raw(),
		Items:            ItemsFromDomain(s.Items),
		Status:           s.Status.String(),
		PickedUp:         s.PickedUp,
		PickedUpAt:       s.PickedUpAt,
		RequesterAddress: s.RequesterAddress,
		Earnings: EarningsDTO{
			DistanceKm:        s.Earnings.DistanceKm,
			Base:              s.Earnings.Base,
			DistanceComponent: s.Earnings.DistanceComponent,
			Total:             s.Earnings.Total,
		},
		OrderedAt:   s.OrderedAt,
		DeliveredAt: s.DeliveredAt,
		Version:     s.Version,
	}

	if s.CourierID != nil {
		raw := s.CourierID.Raw()
		dto.CourierID = &raw
	}

	if loc := s.RequesterLocation; loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		dto.RequesterLat = &lat
		dto.RequesterLon = &lon
	}

	return dto
}

// toDomain restores the aggregate; stored coordinates are validated again.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	requesterID, err := kernel.UUIDFromRaw(dto.RequesterID)
	if err != nil {
		return nil, err
	}
	providerID, err := kernel.UUIDFromRaw(dto.ProviderID)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromRaw(*dto.CourierID)
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items, err := ItemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewOptionalLocation(dto.RequesterLat, dto.RequesterLon)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:                id,
		RequesterID:       requesterID,
		ProviderID:        providerID,
		CourierID:         courierID,
		Items:             items,
		Status:            status,
		PickedUp:          dto.PickedUp,
		PickedUpAt:        dto.PickedUpAt,
		RequesterLocation: location,
		RequesterAddress:  dto.RequesterAddress,
		Earnings: geo.Earnings{
			DistanceKm:        dto.Earnings.DistanceKm,
			Base:              dto.Earnings.Base,
			DistanceComponent: dto.Earnings.DistanceComponent,
			Total:             dto.Earnings.Total,
		},
		OrderedAt:   dto.OrderedAt,
		DeliveredAt: dto.DeliveredAt,
		Version:     dto.Version,
	})
}

// transitionsFromDomain stamps each transition with orderID.
func transitionsFromDomain(orderID kernel.UUID, transitions []order.Transition) []TransitionDTO {
	dtos := make([]TransitionDTO, 0, len(transitions))
	for _, tr := range transitions {
		dtos = append(dtos, TransitionDTO{
			OrderID:    orderID.Raw(),
			Action:     string(tr.Action),
			FromStatus: tr.From.String(),
			ToStatus:   tr.To.String(),
			ActorID:    tr.ActorID.Raw(),
			OccurredAt: tr.OccurredAt,
		})
	}
	return dtos
}
