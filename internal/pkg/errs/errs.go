package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as classification anchors for errors.Is.
// Every concrete error type in this package unwraps to one of them.
var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")

	// Engine error taxonomy. These classify failures of the fulfillment
	// pipeline itself rather than bad input values.
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrCapacityExceeded       = errors.New("capacity exceeded")
	ErrMissingProofOfDelivery = errors.New("missing proof of delivery")
	ErrTransportFailure       = errors.New("transport failure")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrConcurrencyConflict    = errors.New("concurrency conflict")
)

// sanitize strips newlines from values before they are embedded in error
// messages, keeping log lines single-line.
func sanitize(v any) string {
	return strings.ReplaceAll(strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " "), "\r", " ")
}

// ObjectNotFoundError indicates that an entity could not be located.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a value lies outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max)
	if s, ok := e.Value.(string); ok {
		msg = fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
			ErrValueIsInvalid, sanitize(s), e.ParamName, e.Min, e.Max)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError indicates an attempted state change that the
// entity's state machine forbids. The entity keeps its original state.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewInvalidTransitionError(entity, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidTransition, e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InsufficientStockError indicates that a reservation asked for more than
// the available quantity of a SKU. Counters are left unchanged.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func NewInsufficientStockError(sku string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{SKU: sku, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: sku %s has %d available, %d requested",
		ErrInsufficientStock, sanitize(e.SKU), e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// CapacityExceededError indicates that adding a delivery to a route would
// exceed the assigned driver's capacity on at least one dimension.
type CapacityExceededError struct {
	Resource string
	Limit    int
	Needed   int
}

func NewCapacityExceededError(resource string, limit, needed int) *CapacityExceededError {
	return &CapacityExceededError{Resource: resource, Limit: limit, Needed: needed}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: %s limit %d, needed %d", ErrCapacityExceeded, e.Resource, e.Limit, e.Needed)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// TransportFailureError indicates that a notification transport provider
// rejected or failed to accept a message. Recoverable via bounded retry.
type TransportFailureError struct {
	Channel string
	Cause   error
}

func NewTransportFailureError(channel string, cause error) *TransportFailureError {
	return &TransportFailureError{Channel: channel, Cause: cause}
}

func (e *TransportFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: channel %s (cause: %s)", ErrTransportFailure, e.Channel, e.Cause)
	}
	return fmt.Sprintf("%s: channel %s", ErrTransportFailure, e.Channel)
}

func (e *TransportFailureError) Unwrap() error {
	return ErrTransportFailure
}

// ConcurrencyConflictError indicates that a mutation lost a race on an
// exclusive resource, such as an assembly task claim or a driver-date lock.
type ConcurrencyConflictError struct {
	Resource string
	Cause    error
}

func NewConcurrencyConflictError(resource string, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Resource: resource, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrConcurrencyConflict, e.Resource, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConcurrencyConflict, e.Resource)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}
