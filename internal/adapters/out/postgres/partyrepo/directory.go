// Package partyrepo reads participant profiles from the parties table, which
// is owned by the identity subsystem. Only locations are written here.
package partyrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/party"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PartyDTO is a row of the parties table maintained by the identity subsystem.
type PartyDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role    string    `gorm:"type:varchar(16);not null;index"`
	Name    string    `gorm:"not null;default:''"`
	Address string    `gorm:"not null;default:''"`
	Lat     *float64
	Lon     *float64
}

// TableName maps PartyDTO to the parties table.
func (PartyDTO) TableName() string {
	return "parties"
}

// GormPartyDirectory implements ports.PartyDirectory using GORM.
type GormPartyDirectory struct {
	db *gorm.DB
}

// NewGormPartyDirectory creates a directory reading and writing through db.
func NewGormPartyDirectory(db *gorm.DB) *GormPartyDirectory {
	return &GormPartyDirectory{db: db}
}

// Party returns errs.ObjectNotFoundError for an unknown id.
func (d *GormPartyDirectory) Party(ctx context.Context, id kernel.UUID) (*party.Party, error) {
	var dto PartyDTO
	err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("party", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// ProviderLocations returns the coordinates of the given providers that have
// valid ones. Unknown ids, non-providers and providers without usable
// coordinates are absent from the map.
//
// Example:
//
//	locations, err := directory.ProviderLocations(ctx, services.CandidateProviders(items))
//	providerID, err := selector.Select(items, requesterLocation, locations)
func (d *GormPartyDirectory) ProviderLocations(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]kernel.Location, error) {
	locations := make(map[kernel.UUID]kernel.Location, len(ids))
	if len(ids) == 0 {
		return locations, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Raw())
	}

	var dtos []PartyDTO
	err := d.db.WithContext(ctx).
		Where("id = ANY(?::uuid[]) AND role = ? AND lat IS NOT NULL AND lon IS NOT NULL",
			pq.Array(raw), string(party.RoleProvider)).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromRaw(dto.ID)
		if idErr != nil {
			return nil, idErr
		}
		// Out-of-range coordinates count as an unknown location.
		loc, locErr := kernel.NewLocation(*dto.Lat, *dto.Lon)
		if locErr != nil {
			continue
		}
		locations[id] = loc
	}

	return locations, nil
}

// UpdateLocation overwrites the coordinates of a party. It returns
// errs.ObjectNotFoundError when no row matched.
func (d *GormPartyDirectory) UpdateLocation(ctx context.Context, id kernel.UUID, location kernel.Location) error {
	result := d.db.WithContext(ctx).
		Model(&PartyDTO{}).
		Where("id = ?", id.Raw()).
		Updates(map[string]any{"lat": location.Lat(), "lon": location.Lon()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("party", id.String())
	}
	return nil
}

// toDomain treats out-of-range stored coordinates as unknown.
func toDomain(dto PartyDTO) (*party.Party, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	role, err := party.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewOptionalLocation(dto.Lat, dto.Lon)
	if err != nil {
		location = nil
	}
	return party.RestoreParty(id, role, dto.Name, dto.Address, location)
}
