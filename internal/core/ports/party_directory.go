package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/party"
)

// PartyDirectory reads participant profiles owned by the identity subsystem.
type PartyDirectory interface {
	// Party returns errs.ObjectNotFoundError for unknown ids.
	Party(ctx context.Context, id kernel.UUID) (*party.Party, error)

	// ProviderLocations returns the registered coordinates of those ids that
	// are providers with a location. Missing ids are simply absent.
	ProviderLocations(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]kernel.Location, error)

	// UpdateLocation records the current position of a participant.
	UpdateLocation(ctx context.Context, id kernel.UUID, location kernel.Location) error
}
