package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched with errors.Is. Every typed error below unwraps to one of them.
var (
	ErrObjectNotFound        = errors.New("object not found")
	ErrValueIsInvalid        = errors.New("value is invalid")
	ErrValueIsOutOfRange     = errors.New("value is out of range")
	ErrValueIsRequired       = errors.New("value is required")
	ErrVersionIsInvalid      = errors.New("version is invalid")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrForbidden             = errors.New("forbidden")
	ErrCartIsEmpty           = errors.New("cart is empty")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ObjectNotFoundError reports a missing aggregate or projection.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError reports that no paramName with the given id exists.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause is NewObjectNotFoundError keeping the lookup failure.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

// Error renders the id, plus the parameter and cause when a cause is set.
func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

// Unwrap matches ErrObjectNotFound and the cause.
func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports malformed input.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError reports that paramName is malformed.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause is NewValueIsInvalidError explaining why.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

// Error renders the parameter and the cause, if any.
func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

// Unwrap matches ErrValueIsInvalid and the cause.
func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError reports value outside [minValue, maxValue].
// Use "+inf" or "-inf" for an open bound.
//
// Example:
//
//	return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause is NewValueIsOutOfRangeError keeping a cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

// Error renders the value and its bounds.
func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid,
		sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

// Unwrap matches ErrValueIsOutOfRange and the cause.
func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError reports that paramName is missing.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause is NewValueIsRequiredError keeping the validation failure.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

// Error renders the parameter and the cause, if any.
func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

// Unwrap matches ErrValueIsRequired and the cause.
func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError reports a lost optimistic concurrency race.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidErrorWithCause reports a lost race on paramName with details.
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

// NewVersionIsInvalidError reports a lost race on paramName.
func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// Error renders the parameter and the cause, if any.
func (e *VersionIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName), e.Cause)
}

// Unwrap matches ErrVersionIsInvalid and the cause.
func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// InvalidTransitionError reports an action the order state machine does not allow from From.
type InvalidTransitionError struct {
	From   string
	Action string
}

// NewInvalidTransitionError reports that action is not allowed in status from.
func NewInvalidTransitionError(from, action string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Action: action}
}

// Error renders the status and the refused action.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s an order in status %s", ErrInvalidTransition, e.Action, e.From)
}

// Unwrap matches ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ForbiddenError reports an actor acting on an order or stock entry it does not own
// or is not assigned to.
type ForbiddenError struct {
	ActorID string
	Reason  string
}

// NewForbiddenError reports that actorID may not act; reason completes the sentence.
//
// Example:
//
//	return errs.NewForbiddenError(courierID.String(), "is not the assigned courier of order "+id)
func NewForbiddenError(actorID, reason string) *ForbiddenError {
	return &ForbiddenError{ActorID: actorID, Reason: reason}
}

// Error renders the actor and the reason.
func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: actor %s %s", ErrForbidden, e.ActorID, e.Reason)
}

// Unwrap matches ErrForbidden.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// DependencyUnavailableError wraps the failure of a best-effort side effect.
// It is logged and counted, never returned to API callers.
type DependencyUnavailableError struct {
	Dependency string
	Cause      error
}

// NewDependencyUnavailableError wraps the failure of the named side effect.
func NewDependencyUnavailableError(dependency string, cause error) *DependencyUnavailableError {
	return &DependencyUnavailableError{Dependency: dependency, Cause: cause}
}

// Error renders the dependency and its failure.
func (e *DependencyUnavailableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrDependencyUnavailable, e.Dependency), e.Cause)
}

// Unwrap matches ErrDependencyUnavailable and the cause.
func (e *DependencyUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDependencyUnavailable}
	}
	return []error{ErrDependencyUnavailable, e.Cause}
}

// IsValidation reports whether err belongs to the malformed-input family.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

// withCause appends the cause to msg when there is one.
func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// sanitize keeps rendered values on one line.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprint(v), "\n", " ")
}
