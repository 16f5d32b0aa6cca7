package order

import (
	"fmt"
	"time"

	"storefront/internal/pkg/errs"
)

// Tracking is the optional shipment sub-record of an order. It is amended
// independently of status transitions: carrier metadata and delivery attempts
// form a separate audit dimension from the status history.
type Tracking struct {
	TrackingNumber   string            `json:"trackingNumber,omitempty"`
	Carrier          string            `json:"carrier,omitempty"`
	TrackingURL      string            `json:"trackingUrl,omitempty"`
	CurrentLocation  string            `json:"currentLocation,omitempty"`
	ExpectedDelivery *time.Time        `json:"expectedDelivery,omitempty"`
	DeliveryAttempts []DeliveryAttempt `json:"deliveryAttempts,omitempty"`
}

// DeliveryAttempt records one physical delivery try. Attempts are append-only
// data: recording a failed attempt never implies a status transition.
type DeliveryAttempt struct {
	AttemptDate time.Time     `json:"attemptDate"`
	Status      AttemptStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	Location    string        `json:"location,omitempty"`
}

// AttemptStatus classifies the outcome of a delivery attempt.
type AttemptStatus string

const (
	AttemptSuccessful  AttemptStatus = "successful"
	AttemptFailed      AttemptStatus = "failed"
	AttemptRescheduled AttemptStatus = "rescheduled"
)

// ParseAttemptStatus converts a wire label into an AttemptStatus.
func ParseAttemptStatus(s string) (AttemptStatus, error) {
	as := AttemptStatus(s)
	if err := as.Validate(); err != nil {
		return "", err
	}
	return as, nil
}

// Validate checks the attempt status against the allowed set.
func (a AttemptStatus) Validate() error {
	switch a {
	case AttemptSuccessful, AttemptFailed, AttemptRescheduled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("attemptStatus",
			fmt.Errorf("%q is not a valid delivery attempt status", string(a)))
	}
}

// String returns the wire label of the attempt status.
func (a AttemptStatus) String() string {
	return string(a)
}

// TrackingPatch is a partial update of carrier metadata. Nil fields are left
// untouched (merge semantics, not replace). A patch may accompany a status
// transition so that, for example, marking an order shipped and recording its
// tracking number commit atomically.
type TrackingPatch struct {
	TrackingNumber   *string
	Carrier          *string
	TrackingURL      *string
	CurrentLocation  *string
	ExpectedDelivery *time.Time
}

// apply merges the patch into the tracking record and reports whether any
// field actually changed.
func (p TrackingPatch) apply(t *Tracking) bool {
	changed := false
	if p.TrackingNumber != nil && *p.TrackingNumber != t.TrackingNumber {
		t.TrackingNumber = *p.TrackingNumber
		changed = true
	}
	if p.Carrier != nil && *p.Carrier != t.Carrier {
		t.Carrier = *p.Carrier
		changed = true
	}
	if p.TrackingURL != nil && *p.TrackingURL != t.TrackingURL {
		t.TrackingURL = *p.TrackingURL
		changed = true
	}
	if p.CurrentLocation != nil && *p.CurrentLocation != t.CurrentLocation {
		t.CurrentLocation = *p.CurrentLocation
		changed = true
	}
	if p.ExpectedDelivery != nil && !equalTime(p.ExpectedDelivery, t.ExpectedDelivery) {
		expected := *p.ExpectedDelivery
		t.ExpectedDelivery = &expected
		changed = true
	}
	return changed
}

// isEmpty reports whether the patch carries no fields at all.
func (p TrackingPatch) isEmpty() bool {
	return p.TrackingNumber == nil && p.Carrier == nil && p.TrackingURL == nil &&
		p.CurrentLocation == nil && p.ExpectedDelivery == nil
}

// TrackingAmendment is the full patch accepted by the tracking amender. On top
// of carrier metadata it covers the independently mutable side fields of the
// order: notes, payment status and the estimated delivery date.
type TrackingAmendment struct {
	TrackingPatch

	EstimatedDelivery *time.Time
	AdminNotes        *string
	CustomerNotes     *string
	PaymentStatus     *PaymentStatus
}

// IsEmpty reports whether the amendment carries no fields at all.
func (a TrackingAmendment) IsEmpty() bool {
	return a.TrackingPatch.isEmpty() && a.EstimatedDelivery == nil &&
		a.AdminNotes == nil && a.CustomerNotes == nil && a.PaymentStatus == nil
}

// Validate checks the fields that have constrained value sets.
func (a TrackingAmendment) Validate() error {
	if a.PaymentStatus != nil {
		if err := a.PaymentStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
