// Package order contains the Order aggregate, the spine of the fulfillment
// pipeline. An Order owns its ordered line items and an authoritative
// status that is advanced by the reservation manager, the assembly
// scheduler, the route planner and the delivery execution tracker.
//
// The status enumeration and its transition table live in status.go; the
// aggregate records a DomainEvent for every transition so downstream
// consumers (analytics, notification dispatcher) observe the pipeline
// without being coupled to it.
//
// Orders are never physically deleted. Delivered, cancelled, returned and
// failed orders are retained for audit; cancellation is idempotent and safe
// to request concurrently with any in-flight stage.
package order
