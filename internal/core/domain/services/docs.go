// Package services provides domain services that orchestrate business logic
// across multiple domain entities in the dispatch system. It implements
// behavior that doesn't naturally belong to a single aggregate root.
//
// The package includes:
//   - NotificationPlanner: builds the outbox messages announcing workflow events
//
// Domain services are pure: they construct and transform domain objects but
// perform no I/O. Persistence and transaction control stay with the callers.
package services
