// Package kernel contains the shared value objects of the fulfillment
// domain: identifiers, structured delivery addresses, scheduled time
// windows, physical load measures, and state-transition events.
//
// Value objects here are immutable and validated on construction. Free-form
// attributes from the outside world (addresses in particular) are parsed
// into these types at the boundary so that the invariants of the pipeline
// stages never depend on opaque blobs.
package kernel
