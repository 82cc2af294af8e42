// Package errs provides the standardized error types of the fulfillment
// engine. It implements a consistent pattern for error creation, formatting,
// and unwrapping that is used throughout the application.
//
// Two groups of errors live here:
//
//   - Input errors (ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError) raised when callers
//     supply bad or missing values.
//   - Pipeline errors (InsufficientStockError, CapacityExceededError,
//     ErrMissingProofOfDelivery, TransportFailureError,
//     InvalidTransitionError, ConcurrencyConflictError) raised by the
//     fulfillment stages themselves.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrInsufficientStock)
//   - A struct type with fields for error details
//   - Constructor functions
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so callers classify with
//     errors.Is regardless of which layer produced the error
//
// None of these errors is fatal to the process: InsufficientStock triggers a
// backorder retry, CapacityExceeded reports an unassignable delivery,
// TransportFailure triggers a bounded notification retry, and
// ConcurrencyConflict is retried automatically before being surfaced.
package errs
