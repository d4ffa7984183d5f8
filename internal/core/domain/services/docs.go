// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - DispatchSelector: nearest-provider selection among the providers of a cart
package services
