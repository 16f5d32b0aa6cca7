package commands

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrAmendTrackingCommandIsNotConstructed = errors.New(
		"AmendTrackingCommand must be created via NewAmendTrackingCommand constructor",
	)
)

// deliveryDateLayouts are the accepted formats for expected/estimated delivery
// dates arriving from admin input.
var deliveryDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDeliveryDate parses an expected/estimated delivery date string.
// Returns a validation error for anything that is not a well-formed calendar
// date; malformed dates are rejected, never silently dropped.
func ParseDeliveryDate(paramName, value string) (time.Time, error) {
	for _, layout := range deliveryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.NewValueIsInvalidErrorWithCause(paramName,
		fmt.Errorf("%q is not a valid date", value))
}

// AmendTrackingCommand represents a partial update to an order's tracking
// metadata and independently mutable side fields. Absent fields are left
// untouched; tracking amendments never append to the status history.
type AmendTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	amendment order.TrackingAmendment

	guard guard.ConstructorGuard
}

// NewAmendTrackingCommand creates a command to amend tracking metadata.
// Validates the order ID and the constrained fields of the patch (payment
// status). Date fields are expected to be parsed with ParseDeliveryDate at the
// input boundary.
func NewAmendTrackingCommand(
	orderID kernel.UUID,
	amendment order.TrackingAmendment,
) (AmendTrackingCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		amendment.Validate(),
	); err != nil {
		return AmendTrackingCommand{}, err
	}

	return AmendTrackingCommand{
		orderID:   orderID,
		amendment: amendment,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AmendTrackingCommand) Validate() error {
	return c.guard.Validate(ErrAmendTrackingCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c AmendTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Amendment returns the tracking patch.
func (c AmendTrackingCommand) Amendment() order.TrackingAmendment {
	return c.amendment
}
