package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrGetCartQueryIsNotConstructed is returned for a zero-value GetCartQuery.
var ErrGetCartQueryIsNotConstructed = errors.New(
	"GetCartQuery must be created via NewGetCartQuery constructor",
)

// GetCartQuery reads the requester's own cart.
type GetCartQuery struct {
	requesterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCartQuery validates the requester.
//
// Example:
//
//	query, err := queries.NewGetCartQuery(requesterID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
func NewGetCartQuery(requesterID kernel.UUID) (GetCartQuery, error) {
	if err := requesterID.Validate(); err != nil {
		return GetCartQuery{}, errs.NewValueIsRequiredErrorWithCause("requesterId", err)
	}
	return GetCartQuery{requesterID: requesterID, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports ErrGetCartQueryIsNotConstructed for a zero-value query.
func (q GetCartQuery) Validate() error {
	return q.guard.Validate(ErrGetCartQueryIsNotConstructed)
}

// RequesterID returns the owner of the cart.
func (q GetCartQuery) RequesterID() kernel.UUID {
	return q.requesterID
}
