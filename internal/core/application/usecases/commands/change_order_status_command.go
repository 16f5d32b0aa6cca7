package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
)

// ChangeOrderStatusCommand represents an admin request to move an order to a
// new status, optionally merging a tracking patch into the same commit.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Shipped,
//	    WithTransitionNotes("left warehouse"),
//	    WithTransitionActor("admin-42"),
//	    WithTransitionTrackingPatch(&order.TrackingPatch{TrackingNumber: &tn}),
//	)
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	newStatus     order.Status
	notes         string
	actorID       string
	location      string
	trackingPatch *order.TrackingPatch

	guard guard.ConstructorGuard
}

// TransitionOption customizes the optional attributes of a status change.
type TransitionOption func(*ChangeOrderStatusCommand)

// WithTransitionNotes records free-text notes in the history entry.
func WithTransitionNotes(notes string) TransitionOption {
	return func(c *ChangeOrderStatusCommand) { c.notes = notes }
}

// WithTransitionActor records the resolved principal performing the change.
func WithTransitionActor(actorID string) TransitionOption {
	return func(c *ChangeOrderStatusCommand) { c.actorID = actorID }
}

// WithTransitionLocation records the package location in the history entry.
func WithTransitionLocation(location string) TransitionOption {
	return func(c *ChangeOrderStatusCommand) { c.location = location }
}

// WithTransitionTrackingPatch merges carrier metadata in the same atomic
// commit as the status change.
func WithTransitionTrackingPatch(patch *order.TrackingPatch) TransitionOption {
	return func(c *ChangeOrderStatusCommand) { c.trackingPatch = patch }
}

// NewChangeOrderStatusCommand creates a command to change an order's status.
// Validates the order ID and that the target status is a known status; whether
// the edge is legal in the status graph is deliberately not validated here;
// the handler applies out-of-graph jumps as admin overrides with a warning.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	newStatus order.Status,
	opts ...TransitionOption,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		newStatus.Validate(),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	cmd.orderID = orderID
	cmd.newStatus = newStatus
	for _, opt := range opts {
		opt(&cmd)
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// NewStatus returns the target status.
func (c ChangeOrderStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

// Notes returns the free-text notes for the history entry.
func (c ChangeOrderStatusCommand) Notes() string {
	return c.notes
}

// ActorID returns the principal performing the change.
func (c ChangeOrderStatusCommand) ActorID() string {
	return c.actorID
}

// Location returns the package location for the history entry.
func (c ChangeOrderStatusCommand) Location() string {
	return c.location
}

// TrackingPatch returns the optional carrier metadata patch.
func (c ChangeOrderStatusCommand) TrackingPatch() *order.TrackingPatch {
	return c.trackingPatch
}
