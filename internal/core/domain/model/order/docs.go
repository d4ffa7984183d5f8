// Package order implements the Order aggregate and its status machine.
//
// Transitions and their actors:
//   - Confirm / Reject: the owning provider, from pending only;
//   - Accept: any courier, from ready only; the courier becomes the assignee;
//   - PickUp: the assignee, once, while out for delivery;
//   - Deliver: the assignee, from out for delivery; idempotent once delivered.
//
// Rejected calls return errs.InvalidTransitionError or errs.ForbiddenError and
// leave the aggregate untouched.
package order
