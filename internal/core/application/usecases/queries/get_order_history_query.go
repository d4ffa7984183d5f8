package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/party"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrGetOrderHistoryQueryIsNotConstructed is returned for a zero-value GetOrderHistoryQuery.
var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery lists the orders an actor took part in, seen from the
// role named in the request. Actors may only read the history of their own role.
type GetOrderHistoryQuery struct {
	actorID kernel.UUID
	role    party.Role

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery returns errs.ForbiddenError when requestedRole is
// not actorRole.
func NewGetOrderHistoryQuery(actorID kernel.UUID, actorRole party.Role, requestedRole string) (GetOrderHistoryQuery, error) {
	if err := actorID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, errs.NewValueIsRequiredErrorWithCause("actorId", err)
	}

	role, err := party.ParseRole(requestedRole)
	if err != nil {
		return GetOrderHistoryQuery{}, err
	}

	if role != actorRole {
		return GetOrderHistoryQuery{}, errs.NewForbiddenError(actorID.String(), "cannot read "+role.String()+" history")
	}

	return GetOrderHistoryQuery{actorID: actorID, role: role, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports ErrGetOrderHistoryQueryIsNotConstructed for a zero-value query.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// ActorID returns the authenticated actor.
func (q GetOrderHistoryQuery) ActorID() kernel.UUID {
	return q.actorID
}

// Role returns the role the history is read as.
func (q GetOrderHistoryQuery) Role() party.Role {
	return q.role
}
