package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var (
	ErrAddDeliveryAttemptCommandIsNotConstructed = errors.New(
		"AddDeliveryAttemptCommand must be created via NewAddDeliveryAttemptCommand constructor",
	)
)

// AddDeliveryAttemptCommand records one physical delivery try against an
// order. Recording an attempt never changes the order status: whether
// repeated failures should lead to cancellation is a separate, explicit
// transition decision.
type AddDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	attemptStatus order.AttemptStatus
	notes         string
	location      string

	guard guard.ConstructorGuard
}

// NewAddDeliveryAttemptCommand creates a command to append a delivery attempt.
func NewAddDeliveryAttemptCommand(
	orderID kernel.UUID,
	attemptStatus order.AttemptStatus,
	notes string,
	location string,
) (AddDeliveryAttemptCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		attemptStatus.Validate(),
	); err != nil {
		return AddDeliveryAttemptCommand{}, err
	}

	return AddDeliveryAttemptCommand{
		orderID:       orderID,
		attemptStatus: attemptStatus,
		notes:         notes,
		location:      location,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AddDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrAddDeliveryAttemptCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c AddDeliveryAttemptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AttemptStatus returns the outcome classification of the attempt.
func (c AddDeliveryAttemptCommand) AttemptStatus() order.AttemptStatus {
	return c.attemptStatus
}

// Notes returns the free-text notes of the attempt.
func (c AddDeliveryAttemptCommand) Notes() string {
	return c.notes
}

// Location returns where the attempt took place.
func (c AddDeliveryAttemptCommand) Location() string {
	return c.location
}
