package order

import (
	"encoding/json"
	"fmt"

	"storefront/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// The status set and the directed edges between states are fixed; they model the
// storefront fulfilment workflow rather than a configurable workflow engine.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Processing ──> Shipped ──> OutForDelivery ──> Delivered
//	   │            │             │             └──────────────────────────────┘
//	   └────────────┴─────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal: no outgoing edges. Transitions outside
// the graph are still applied by the transition engine as an admin override,
// but IsValidTransition reports them as invalid so callers can warn or refuse.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned when an order is placed.
	Pending

	// Confirmed indicates the order has been accepted by the store.
	Confirmed

	// Processing indicates the order is being picked and packed.
	Processing

	// Shipped indicates the order has been handed to the carrier.
	Shipped

	// OutForDelivery indicates the carrier is attempting final delivery.
	OutForDelivery

	// Delivered is a terminal status: the order reached the customer.
	Delivered

	// Cancelled is a terminal status: the order was cancelled before delivery.
	Cancelled
)

// statusStrings maps every Status to its wire label.
func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Processing:     "processing",
		Shipped:        "shipped",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// statusLabels maps every valid Status to its customer-facing label.
func statusLabels() map[Status]string {
	return map[Status]string{
		Pending:        "Order Placed",
		Confirmed:      "Order Confirmed",
		Processing:     "Processing",
		Shipped:        "Shipped",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// transitions is the authoritative status graph: for each status, the set of
// legal next statuses. Terminal statuses map to an empty set.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Processing, Cancelled},
		Processing:     {Shipped, Cancelled},
		Shipped:        {OutForDelivery, Delivered},
		OutForDelivery: {Delivered},
		Delivered:      {},
		Cancelled:      {},
	}
}

// progressPercents maps each status to the progress shown on tracking pages.
func progressPercents() map[Status]int {
	return map[Status]int{
		Pending:        10,
		Confirmed:      20,
		Processing:     40,
		Shipped:        60,
		OutForDelivery: 80,
		Delivered:      100,
		Cancelled:      0,
	}
}

// ParseStatus converts a wire label ("pending", "out-for-delivery", ...) into a Status.
// Returns an error for unrecognized labels.
func ParseStatus(s string) (Status, error) {
	for status, str := range statusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := transitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire label of the status. It implements fmt.Stringer and
// is safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Label returns the customer-facing label used on timeline views.
func (s Status) Label() string {
	if label, ok := statusLabels()[s]; ok {
		return label
	}
	return "Unknown"
}

// IsValidTransition reports whether next is a legal edge from current in the
// status graph. It is a pure lookup with no side effects; the transition engine
// intentionally does not enforce it (admin override), so callers that want
// strict behavior must check it themselves.
func IsValidTransition(current, next Status) bool {
	for _, allowed := range transitions()[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextLogicalStatus returns the single forward-progress edge from current,
// excluding cancellation. It backs "quick advance" admin actions.
// The second return value is false for terminal statuses.
func NextLogicalStatus(current Status) (Status, bool) {
	for _, next := range transitions()[current] {
		if next != Cancelled {
			return next, true
		}
	}
	return Unknown, false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(transitions()[s]) == 0
}

// CanBeCancelled reports whether an order in this status may still be cancelled.
// Only pre-fulfilment statuses qualify; once shipped, cancellation is no longer
// offered to customers.
func (s Status) CanBeCancelled() bool {
	return s == Pending || s == Confirmed || s == Processing
}

// Progress returns the fixed progress percentage shown on tracking pages.
func (s Status) Progress() int {
	return progressPercents()[s]
}

// MarshalJSON encodes the status as its wire label.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire label into a Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PaymentStatus tracks payment settlement independently of the status graph.
// It is a loosely coupled side field: the only coupling rule is that reaching
// Delivered forces PaymentPaid (cash-on-delivery assumption).
type PaymentStatus string

const (
	// PaymentPending means payment has not been collected yet.
	PaymentPending PaymentStatus = "pending"

	// PaymentPaid means payment has been collected.
	PaymentPaid PaymentStatus = "paid"

	// PaymentFailed means a payment attempt failed.
	PaymentFailed PaymentStatus = "failed"
)

// ParsePaymentStatus converts a wire label into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps := PaymentStatus(s)
	if err := ps.Validate(); err != nil {
		return "", err
	}
	return ps, nil
}

// Validate checks the payment status against the allowed set.
func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%q is not a valid payment status", string(p)))
	}
}

// String returns the wire label of the payment status.
func (p PaymentStatus) String() string {
	return string(p)
}
