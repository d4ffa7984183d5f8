package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ──> ready ──> out-for-delivery ──> delivered
//	   │
//	   └──> rejected
//
// Delivered and Rejected are terminal. No transition moves backwards.
type Status int

const (
	// Unknown is the zero value and never a stored status.
	Unknown Status = iota
	// Pending waits for the provider to confirm or reject.
	Pending
	// Ready is prepared and visible on the courier board.
	Ready
	// OutForDelivery has an assigned courier.
	OutForDelivery
	Delivered
	Rejected
)

// getStatusStrings returns a fresh map so callers cannot mutate a shared table.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Ready:          "ready",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
		Rejected:       "rejected",
	}
}

// ParseStatus is the inverse of String for valid statuses.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Rejected
}

// ValidateCanHaveCourier checks that only accepted orders carry a courier.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	accepted := s == OutForDelivery || s == Delivered
	if courier && !accepted {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a courier", s))
	}
	if !courier && accepted {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no courier", s))
	}
	return nil
}

// Confirm moves a pending order to ready.
func (s Status) Confirm() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidTransitionError(s.String(), "confirm")
	}
	return Ready, nil
}

// Reject moves a pending order to rejected.
func (s Status) Reject() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidTransitionError(s.String(), "reject")
	}
	return Rejected, nil
}

// Accept moves a ready order out for delivery.
func (s Status) Accept() (Status, error) {
	if s != Ready {
		return Unknown, errs.NewInvalidTransitionError(s.String(), "accept")
	}
	return OutForDelivery, nil
}

// ValidatePickUp allows pickup only while out for delivery; status does not change.
func (s Status) ValidatePickUp() error {
	if s != OutForDelivery {
		return errs.NewInvalidTransitionError(s.String(), "pick up")
	}
	return nil
}

// Deliver completes an order that is out for delivery.
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return Unknown, errs.NewInvalidTransitionError(s.String(), "deliver")
	}
	return Delivered, nil
}
