package queries

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

// ErrGetCourierBoardQueryIsNotConstructed is returned for a zero-value GetCourierBoardQuery.
var ErrGetCourierBoardQueryIsNotConstructed = errors.New(
	"GetCourierBoardQuery must be created via NewGetCourierBoardQuery constructor",
)

// GetCourierBoardQuery lists ready and out-for-delivery orders for couriers.
// The board is shared by all couriers, so the query carries no actor.
type GetCourierBoardQuery struct {
	guard guard.ConstructorGuard
}

// NewGetCourierBoardQuery returns the parameterless board query.
func NewGetCourierBoardQuery() GetCourierBoardQuery {
	return GetCourierBoardQuery{guard: guard.NewConstructorGuard()}
}

// Validate reports ErrGetCourierBoardQueryIsNotConstructed for a zero-value query.
func (q GetCourierBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierBoardQueryIsNotConstructed)
}
