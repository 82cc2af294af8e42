// Package services provides domain services that orchestrate business
// operations across multiple aggregates. The route planner lives here
// because packing deliveries onto driver routes spans deliveries, drivers
// and routes and belongs to none of them alone.
package services
