package services

import (
	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// DispatchSelector chooses the provider that fulfils a whole order.
//
// Only providers referenced by the cart lines are candidates. The nearest
// candidate to the requester wins; ties keep the candidate seen first. When the
// requester location is unknown, or no candidate has a registered location, the
// provider of the first line is used so placement never fails on missing
// geography.
//
// Example:
//
//	selector := NewDispatchSelector()
//	candidates := CandidateProviders(items)
//	locations, _ := directory.ProviderLocations(ctx, candidates)
//	providerID, err := selector.Select(items, requesterLocation, locations)
type DispatchSelector struct{}

// NewDispatchSelector returns the stateless nearest-provider selector.
func NewDispatchSelector() DispatchSelector {
	return DispatchSelector{}
}

// CandidateProviders returns the distinct provider ids of items in first-seen order.
func CandidateProviders(items []order.Item) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(items))
	candidates := make([]kernel.UUID, 0, len(items))

	for _, item := range items {
		id := item.ProviderID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}

	return candidates
}

// Select returns the fulfilling provider. locations holds the registered
// coordinates of any subset of the candidates.
func (DispatchSelector) Select(
	items []order.Item,
	requesterLocation *kernel.Location,
	locations map[kernel.UUID]kernel.Location,
) (kernel.UUID, error) {
	if len(items) == 0 {
		return kernel.UUID{}, errs.ErrCartIsEmpty
	}

	fallback := items[0].ProviderID()
	if requesterLocation == nil {
		return fallback, nil
	}

	var (
		best     kernel.UUID
		found    bool
		bestDist = geo.Unknown()
	)

	for _, candidate := range CandidateProviders(items) {
		loc, ok := locations[candidate]
		if !ok {
			continue
		}

		d := geo.DistanceKm(&loc, requesterLocation)
		if !found || d < bestDist {
			best, bestDist, found = candidate, d, true
		}
	}

	if !found {
		return fallback, nil
	}

	return best, nil
}
