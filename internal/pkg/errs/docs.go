// Package errs provides the error taxonomy of the marketplace service.
//
// Every error type pairs a sentinel (ErrObjectNotFound, ErrInvalidTransition, ...)
// with a struct carrying the details. Callers classify with errors.Is against the
// sentinel; the HTTP adapter maps sentinels to status codes.
//
// DependencyUnavailableError is special: it marks a failed best-effort side effect
// and is only ever logged, never returned from a use case.
package errs
