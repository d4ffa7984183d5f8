package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned for orders created without NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the marketplace. It owns the status machine and
// the invariants attached to each transition:
//   - the provider is fixed at creation;
//   - the courier is set once, when a ready order is accepted;
//   - earnings are computed once, on delivery, and never recomputed;
//   - status only moves forward.
//
// Every accepted mutation appends a Transition that repositories persist next to
// the order row.
type Order struct {
	id                kernel.UUID
	requesterID       kernel.UUID
	providerID        kernel.UUID
	courierID         *kernel.UUID
	items             []Item
	status            Status
	pickedUp          bool
	pickedUpAt        *time.Time
	requesterLocation *kernel.Location
	requesterAddress  string
	earnings          geo.Earnings
	orderedAt         time.Time
	deliveredAt       *time.Time
	version           int

	transitions []Transition

	isConstructed bool
}

// NewOrder places a pending order. This is the only way to create an order that
// has not been persisted yet; it records the ActionPlaced transition.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - requesterID: The requester who placed the order
//   - providerID: The provider that owns every item of the order
//   - items: Non-empty list of lines; the slice is copied
//   - requesterLocation: Optional delivery point snapshot, never mutated afterwards
//   - requesterAddress: Free-form address shown to couriers
//   - orderedAt: Placement time (must not be zero)
//
// Returns:
//   - *Order: The pending order if all validations pass
//   - error: errs.ErrCartIsEmpty for no items, or a joined validation error
//
// Example:
//
//	item, _ := order.NewItem("Paracetamol", 2, decimal.NewFromInt(4), providerID)
//	o, err := order.NewOrder(kernel.NewUUID(), requesterID, providerID,
//	    []order.Item{item}, &home, "1 Main St", time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id, requesterID, providerID kernel.UUID,
	items []Item,
	requesterLocation *kernel.Location,
	requesterAddress string,
	orderedAt time.Time,
) (*Order, error) {
	o := &Order{
		status:           Pending,
		requesterAddress: requesterAddress,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRequesterID(requesterID),
		o.setProviderID(providerID),
		o.setItems(items),
		o.setRequesterLocation(requesterLocation),
		o.setOrderedAt(orderedAt),
	); err != nil {
		return nil, err
	}

	o.record(ActionPlaced, Unknown, requesterID, orderedAt)
	return o, nil
}

// State is the full persisted shape of an order, used to restore aggregates
// and to build read models and event snapshots.
type State struct {
	ID                kernel.UUID
	RequesterID       kernel.UUID
	ProviderID        kernel.UUID
	CourierID         *kernel.UUID
	Items             []Item
	Status            Status
	PickedUp          bool
	PickedUpAt        *time.Time
	RequesterLocation *kernel.Location
	RequesterAddress  string
	Earnings          geo.Earnings
	OrderedAt         time.Time
	DeliveredAt       *time.Time
	Version           int
}

// RestoreOrder rebuilds an order loaded from storage.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		courierID:        s.CourierID,
		status:           s.Status,
		pickedUp:         s.PickedUp,
		pickedUpAt:       s.PickedUpAt,
		requesterAddress: s.RequesterAddress,
		earnings:         s.Earnings,
		deliveredAt:      s.DeliveredAt,
		version:          s.Version,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setRequesterID(s.RequesterID),
		o.setProviderID(s.ProviderID),
		o.setItems(s.Items),
		o.setRequesterLocation(s.RequesterLocation),
		o.setOrderedAt(s.OrderedAt),
		s.Status.Validate(),
		s.Status.ValidateCanHaveCourier(s.CourierID != nil),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State returns a copy of the order's fields.
func (o *Order) State() State {
	return State{
		ID:                o.id,
		RequesterID:       o.requesterID,
		ProviderID:        o.providerID,
		CourierID:         o.courierID,
		Items:             o.Items(),
		Status:            o.status,
		PickedUp:          o.pickedUp,
		PickedUpAt:        o.pickedUpAt,
		RequesterLocation: o.requesterLocation,
		RequesterAddress:  o.requesterAddress,
		Earnings:          o.earnings,
		OrderedAt:         o.orderedAt,
		DeliveredAt:       o.deliveredAt,
		Version:           o.version,
	}
}

// Validate ensures the Order was built through NewOrder or RestoreOrder.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed for a nil or zero-value order
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
//
// Parameters:
//   - other: The order to compare with
//
// Returns:
//   - true if both orders have the same ID
//   - false if other is nil or IDs differ
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// RequesterID returns the requester who placed the order.
func (o *Order) RequesterID() kernel.UUID {
	return o.requesterID
}

// ProviderID returns the provider fixed at placement.
func (o *Order) ProviderID() kernel.UUID {
	return o.providerID
}

// CourierID is nil until the order is accepted.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// PickedUp reports whether the assigned courier collected the parcel.
func (o *Order) PickedUp() bool {
	return o.pickedUp
}

// PickedUpAt is nil until the parcel is picked up.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

// RequesterLocation returns the delivery point snapshot taken at placement, or nil.
func (o *Order) RequesterLocation() *kernel.Location {
	return o.requesterLocation
}

// RequesterAddress returns the free-form delivery address.
func (o *Order) RequesterAddress() string {
	return o.requesterAddress
}

// Earnings is zero until the order is delivered.
func (o *Order) Earnings() geo.Earnings {
	return o.earnings
}

// OrderedAt returns the placement time.
func (o *Order) OrderedAt() time.Time {
	return o.orderedAt
}

// DeliveredAt is nil until the order is delivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Version is the optimistic concurrency counter of the last persisted state.
func (o *Order) Version() int {
	return o.version
}

// PendingTransitions returns the transitions recorded since the order was
// created or last persisted.
func (o *Order) PendingTransitions() []Transition {
	return slices.Clone(o.transitions)
}

// MarkPersisted is called by repositories after a successful write of version.
func (o *Order) MarkPersisted(version int) {
	o.version = version
	o.transitions = nil
}

// Confirm lets the owning provider accept a pending order for preparation.
func (o *Order) Confirm(providerID kernel.UUID, now time.Time) error {
	if err := o.ensureProvider(providerID); err != nil {
		return err
	}

	next, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.moveTo(next, ActionConfirmed, providerID, now)
	return nil
}

// Reject lets the owning provider decline a pending order.
func (o *Order) Reject(providerID kernel.UUID, now time.Time) error {
	if err := o.ensureProvider(providerID); err != nil {
		return err
	}

	next, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.moveTo(next, ActionRejected, providerID, now)
	return nil
}

// Accept assigns a courier to a ready order. The assignment is permanent.
func (o *Order) Accept(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	next, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.courierID = &courierID
	o.pickedUp = false
	o.pickedUpAt = nil
	o.moveTo(next, ActionAccepted, courierID, now)
	return nil
}

// PickUp marks the parcel as collected by the assigned courier.
func (o *Order) PickUp(courierID kernel.UUID, now time.Time) error {
	if err := o.status.ValidatePickUp(); err != nil {
		return err
	}

	if err := o.ensureAssignee(courierID); err != nil {
		return err
	}

	if o.pickedUp {
		return errs.NewInvalidTransitionError(o.status.String()+" (already picked up)", "pick up")
	}

	at := now
	o.pickedUp = true
	o.pickedUpAt = &at
	o.moveTo(o.status, ActionPickedUp, courierID, now)
	return nil
}

// Deliver completes the order and fixes the courier earnings, computed from the
// distance between providerLocation and the requester snapshot.
//
// Delivering an already delivered order is a no-op: applied is false and the
// stored earnings are left untouched.
func (o *Order) Deliver(
	courierID kernel.UUID,
	providerLocation *kernel.Location,
	tariff geo.Tariff,
	now time.Time,
) (applied bool, err error) {
	if o.status == Delivered {
		return false, nil
	}

	next, err := o.status.Deliver()
	if err != nil {
		return false, err
	}

	if err = o.ensureAssignee(courierID); err != nil {
		return false, err
	}

	at := now
	o.earnings = tariff.Earnings(geo.DistanceKm(providerLocation, o.requesterLocation))
	o.deliveredAt = &at
	o.moveTo(next, ActionDelivered, courierID, now)
	return true, nil
}

// ensureProvider fails with a ForbiddenError unless providerID owns the order.
func (o *Order) ensureProvider(providerID kernel.UUID) error {
	if !o.providerID.IsEqual(providerID) {
		return errs.NewForbiddenError(providerID.String(), "does not own order "+o.id.String())
	}
	return nil
}

// ensureAssignee fails with a ForbiddenError unless courierID is the assigned courier.
func (o *Order) ensureAssignee(courierID kernel.UUID) error {
	if o.courierID == nil || !o.courierID.IsEqual(courierID) {
		return errs.NewForbiddenError(courierID.String(), "is not the assigned courier of order "+o.id.String())
	}
	return nil
}

func (o *Order) moveTo(next Status, action Action, actorID kernel.UUID, at time.Time) {
	prev := o.status
	o.status = next
	o.record(action, prev, actorID, at)
}

// record appends a transition into the current status.
func (o *Order) record(action Action, from Status, actorID kernel.UUID, at time.Time) {
	o.transitions = append(o.transitions, Transition{
		Action:     action,
		From:       from,
		To:         o.status,
		ActorID:    actorID,
		OccurredAt: at,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requesterId", err)
	}
	o.requesterID = id
	return nil
}

func (o *Order) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	o.providerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.ErrCartIsEmpty
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setRequesterLocation(loc *kernel.Location) error {
	if loc == nil {
		return nil
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	snapshot := *loc
	o.requesterLocation = &snapshot
	return nil
}

func (o *Order) setOrderedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("orderedAt")
	}
	o.orderedAt = at
	return nil
}
