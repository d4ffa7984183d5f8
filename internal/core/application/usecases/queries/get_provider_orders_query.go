package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrGetProviderOrdersQueryIsNotConstructed is returned for a zero-value GetProviderOrdersQuery.
var ErrGetProviderOrdersQueryIsNotConstructed = errors.New(
	"GetProviderOrdersQuery must be created via NewGetProviderOrdersQuery constructor",
)

// GetProviderOrdersQuery lists every order dispatched to one provider.
//
// Example:
//
//	query, err := NewGetProviderOrdersQuery(providerID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetProviderOrdersQuery struct {
	providerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetProviderOrdersQuery validates the provider.
func NewGetProviderOrdersQuery(providerID kernel.UUID) (GetProviderOrdersQuery, error) {
	if err := providerID.Validate(); err != nil {
		return GetProviderOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	return GetProviderOrdersQuery{providerID: providerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports ErrGetProviderOrdersQueryIsNotConstructed for a zero-value query.
func (q GetProviderOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetProviderOrdersQueryIsNotConstructed)
}

// ProviderID returns the provider whose orders are listed.
func (q GetProviderOrdersQuery) ProviderID() kernel.UUID {
	return q.providerID
}
