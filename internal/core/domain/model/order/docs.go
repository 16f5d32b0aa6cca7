// Package order provides the domain model of the order lifecycle engine:
// the Order aggregate root, the fixed status graph, the append-only status
// history, the tracking sub-record and the timeline projection.
//
// The package includes:
//   - Order: the aggregate root owning status, history, tracking and derived timestamps
//   - Status: the fixed status set with its directed transition graph
//   - Tracking / DeliveryAttempt: shipment metadata amended independently of status
//   - Timeline: a pure projection of the history for customer-facing views
//
// Key business rules:
//   - Status moves along the edges pending -> confirmed -> processing -> shipped ->
//     out-for-delivery -> delivered, with cancellation allowed until processing;
//     out-of-graph jumps are permitted as an explicit admin override and are
//     always recorded in history
//   - Every transition appends an immutable history entry (who/when/why)
//   - Derived timestamps (shippedAt, deliveredAt, ...) are set once and never reset
//   - total always equals subtotal + tax + shippingCost
//   - Reaching delivered forces paymentStatus to paid (cash on delivery)
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
