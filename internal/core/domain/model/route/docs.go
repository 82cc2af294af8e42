// Package route contains the Route aggregate: a capacity-bounded grouping
// of deliveries for one driver on one date. The planner packs stops into a
// Planned route; Assigned freezes it against further mutation, and
// execution advances it through InProgress to Completed.
//
// Capacity is a hard invariant: AddStop refuses any stop that would push
// the combined load over the snapshotted driver capacity on weight, volume
// or item count, and special-handling stops are refused on vehicles without
// the required equipment.
package route
