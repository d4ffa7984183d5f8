package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Action names an accepted state change. Values double as transition log entries.
type Action string

const (
	ActionPlaced    Action = "placed"
	ActionConfirmed Action = "confirmed"
	ActionRejected  Action = "rejected"
	ActionAccepted  Action = "accepted"
	ActionPickedUp  Action = "picked-up"
	ActionDelivered Action = "delivered"
)

// Transition is an append-only audit record of one accepted action.
type Transition struct {
	Action     Action
	From       Status
	To         Status
	ActorID    kernel.UUID
	OccurredAt time.Time
}
