package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Field identifies a logical part of the order aggregate for change tracking.
// Mutating methods record which fields they touched; the repository commits
// only those fields, so concurrent amendments to disjoint fields never clobber
// each other.
type Field string

const (
	FieldStatus            Field = "status"
	FieldHistory           Field = "history"
	FieldTracking          Field = "tracking"
	FieldPaymentStatus     Field = "payment_status"
	FieldAdminNotes        Field = "admin_notes"
	FieldCustomerNotes     Field = "customer_notes"
	FieldEstimatedDelivery Field = "estimated_delivery"
	FieldShippedAt         Field = "shipped_at"
	FieldOutForDeliveryAt  Field = "out_for_delivery_at"
	FieldDeliveredAt       Field = "delivered_at"
	FieldCancelledAt       Field = "cancelled_at"
	FieldActualDelivery    Field = "actual_delivery"
)

// Order is the aggregate root of the order lifecycle engine. It owns the
// current status, the append-only status history, the tracking sub-record and
// the timestamps derived from status changes.
//
// Invariants maintained by the aggregate:
//   - history is non-empty and its timestamps are non-decreasing
//   - total always equals subtotal + tax + shippingCost
//   - derived timestamps are set once, the first time a status is reached,
//     and never cleared by later transitions
//   - status is mutated only through Transition; tracking and side fields only
//     through AmendTracking / AddDeliveryAttempt
//
// An order is never deleted, only terminally classified (delivered or cancelled).
type Order struct {
	id              kernel.UUID
	orderNumber     string
	customerEmail   string
	shippingAddress string
	items           []Item

	subtotal     kernel.Money
	tax          kernel.Money
	shippingCost kernel.Money
	total        kernel.Money

	status        Status
	history       []HistoryEntry
	tracking      *Tracking
	paymentStatus PaymentStatus

	estimatedDelivery *time.Time
	shippedAt         *time.Time
	outForDeliveryAt  *time.Time
	deliveredAt       *time.Time
	cancelledAt       *time.Time
	actualDelivery    *time.Time

	adminNotes    string
	customerNotes string

	createdAt time.Time
	version   int64

	changes       map[Field]struct{}
	isConstructed bool
}

// TransitionParams carries the inputs of a status transition.
type TransitionParams struct {
	// NewStatus is the target status. Must differ from the current status.
	NewStatus Status

	// Notes, UpdatedBy and Location are recorded verbatim in the history entry.
	Notes     string
	UpdatedBy string
	Location  string

	// TrackingPatch, when non-nil, is merged into the tracking sub-record in
	// the same atomic commit as the status change.
	TrackingPatch *TrackingPatch

	// At overrides the transition timestamp; zero means time.Now().
	At time.Time
}

// NewOrder creates a new order in Pending status with a single "order placed"
// history entry. Line items are snapshots taken from the product catalog at
// placement time.
//
// The money invariant total == subtotal + tax + shippingCost is validated here
// and re-checked on every later mutation.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerEmail string,
	shippingAddress string,
	items []Item,
	subtotal, tax, shippingCost, total kernel.Money,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     time.Now(),
		changes:       make(map[Field]struct{}),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setCustomerEmail(customerEmail),
		o.setItems(items),
		o.setMoney(subtotal, tax, shippingCost, total),
	); err != nil {
		return nil, err
	}

	o.shippingAddress = shippingAddress
	o.history = []HistoryEntry{{
		Status:    Pending,
		Timestamp: o.createdAt,
		Notes:     "Order placed",
	}}

	return o, nil
}

// RestoreOrderParams carries the persisted state of an order for reconstruction.
type RestoreOrderParams struct {
	ID              kernel.UUID
	OrderNumber     string
	CustomerEmail   string
	ShippingAddress string
	Items           []Item

	Subtotal     kernel.Money
	Tax          kernel.Money
	ShippingCost kernel.Money
	Total        kernel.Money

	Status        Status
	History       []HistoryEntry
	Tracking      *Tracking
	PaymentStatus PaymentStatus

	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	OutForDeliveryAt  *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	ActualDelivery    *time.Time

	AdminNotes    string
	CustomerNotes string

	CreatedAt time.Time
	Version   int64
}

// RestoreOrder rebuilds an order aggregate from persistence, re-validating the
// structural invariants so corrupted rows never reach the domain.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		id:                p.ID,
		orderNumber:       p.OrderNumber,
		customerEmail:     p.CustomerEmail,
		shippingAddress:   p.ShippingAddress,
		items:             p.Items,
		subtotal:          p.Subtotal,
		tax:               p.Tax,
		shippingCost:      p.ShippingCost,
		total:             p.Total,
		status:            p.Status,
		history:           p.History,
		tracking:          p.Tracking,
		paymentStatus:     p.PaymentStatus,
		estimatedDelivery: p.EstimatedDelivery,
		shippedAt:         p.ShippedAt,
		outForDeliveryAt:  p.OutForDeliveryAt,
		deliveredAt:       p.DeliveredAt,
		cancelledAt:       p.CancelledAt,
		actualDelivery:    p.ActualDelivery,
		adminNotes:        p.AdminNotes,
		customerNotes:     p.CustomerNotes,
		createdAt:         p.CreatedAt,
		version:           p.Version,
		changes:           make(map[Field]struct{}),
		isConstructed:     true,
	}

	if err := errors.Join(
		o.id.Validate(),
		o.status.Validate(),
		o.paymentStatus.Validate(),
		o.checkMoneyInvariant(),
	); err != nil {
		return nil, err
	}
	if len(o.history) == 0 {
		return nil, errs.NewValueIsRequiredError("statusHistory")
	}

	return o, nil
}

// NewOrderNumber generates a human-readable, effectively unique order number.
// Uniqueness is additionally enforced by the storage layer's unique index.
func NewOrderNumber() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("ORD-%s-%04d", strings.ToUpper(millis), rand.IntN(10000))
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Transition applies a status change: it appends a history entry, sets the
// status, derives the status timestamps and optionally merges a tracking patch
// into the same mutation.
//
// The status graph is intentionally NOT enforced here. An out-of-graph
// transition is applied anyway and recorded in history, as the admin-override
// escape hatch for exceptional real-world situations. Callers that want strict
// enforcement must check IsValidTransition first; the application layer logs a
// warning for out-of-graph jumps.
//
// No-op transitions (same status) are rejected, not silently accepted.
func (o *Order) Transition(params TransitionParams) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := params.NewStatus.Validate(); err != nil {
		return err
	}
	if params.NewStatus == o.status {
		return errs.NewValueIsInvalidErrorWithCause("newStatus",
			fmt.Errorf("order is already %s", o.status))
	}
	if err := o.checkMoneyInvariant(); err != nil {
		return err
	}

	at := params.At
	if at.IsZero() {
		at = time.Now()
	}
	// History timestamps must stay non-decreasing even for backdated overrides.
	if last := o.history[len(o.history)-1].Timestamp; at.Before(last) {
		at = last
	}

	o.history = append(o.history, HistoryEntry{
		Status:    params.NewStatus,
		Timestamp: at,
		Notes:     params.Notes,
		UpdatedBy: params.UpdatedBy,
		Location:  params.Location,
	})
	o.status = params.NewStatus
	o.markChanged(FieldStatus, FieldHistory)

	o.deriveTimestamps(params.NewStatus, at)

	if params.TrackingPatch != nil {
		tracking := o.ensureTracking()
		if params.TrackingPatch.apply(tracking) {
			o.markChanged(FieldTracking)
		}
	}

	return nil
}

// deriveTimestamps stamps the side-effect timestamps the first time a status
// is reached. Later transitions never clear or reset them.
func (o *Order) deriveTimestamps(newStatus Status, at time.Time) {
	switch newStatus {
	case Shipped:
		if o.shippedAt == nil {
			o.shippedAt = &at
			o.markChanged(FieldShippedAt)
		}
	case OutForDelivery:
		if o.outForDeliveryAt == nil {
			o.outForDeliveryAt = &at
			o.markChanged(FieldOutForDeliveryAt)
		}
	case Delivered:
		if o.deliveredAt == nil {
			o.deliveredAt = &at
			o.markChanged(FieldDeliveredAt)
		}
		if o.actualDelivery == nil {
			o.actualDelivery = &at
			o.markChanged(FieldActualDelivery)
		}
		// Cash on delivery: a delivered order is a paid order.
		if o.paymentStatus != PaymentPaid {
			o.paymentStatus = PaymentPaid
			o.markChanged(FieldPaymentStatus)
		}
	case Cancelled:
		if o.cancelledAt == nil {
			o.cancelledAt = &at
			o.markChanged(FieldCancelledAt)
		}
	}
}

// AmendTracking applies a partial update to the tracking sub-record and the
// independently mutable side fields (notes, payment status, estimated
// delivery). Absent fields are left untouched. The method computes a
// field-by-field diff: if nothing actually changes it reports false and the
// caller skips the write entirely, avoiding needless version churn.
//
// Tracking amendments never append to the status history; they are a separate
// audit dimension from status.
func (o *Order) AmendTracking(amendment TrackingAmendment) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	if err := amendment.Validate(); err != nil {
		return false, err
	}
	if err := o.checkMoneyInvariant(); err != nil {
		return false, err
	}

	changed := false

	if !amendment.TrackingPatch.isEmpty() {
		tracking := o.ensureTracking()
		if amendment.TrackingPatch.apply(tracking) {
			o.markChanged(FieldTracking)
			changed = true
		}
	}

	if amendment.EstimatedDelivery != nil && !equalTime(amendment.EstimatedDelivery, o.estimatedDelivery) {
		estimated := *amendment.EstimatedDelivery
		o.estimatedDelivery = &estimated
		o.markChanged(FieldEstimatedDelivery)
		changed = true
	}
	if amendment.AdminNotes != nil && *amendment.AdminNotes != o.adminNotes {
		o.adminNotes = *amendment.AdminNotes
		o.markChanged(FieldAdminNotes)
		changed = true
	}
	if amendment.CustomerNotes != nil && *amendment.CustomerNotes != o.customerNotes {
		o.customerNotes = *amendment.CustomerNotes
		o.markChanged(FieldCustomerNotes)
		changed = true
	}
	if amendment.PaymentStatus != nil && *amendment.PaymentStatus != o.paymentStatus {
		o.paymentStatus = *amendment.PaymentStatus
		o.markChanged(FieldPaymentStatus)
		changed = true
	}

	return changed, nil
}

// AddDeliveryAttempt appends a delivery attempt to the tracking sub-record,
// creating the sub-record if absent. It never alters the order status: a
// failed attempt is recorded as data, and any follow-up transition (e.g. to
// cancelled after repeated failures) is a separate, explicit decision.
func (o *Order) AddDeliveryAttempt(status AttemptStatus, notes, location string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	tracking := o.ensureTracking()
	tracking.DeliveryAttempts = append(tracking.DeliveryAttempts, DeliveryAttempt{
		AttemptDate: time.Now(),
		Status:      status,
		Notes:       notes,
		Location:    location,
	})
	o.markChanged(FieldTracking)

	return nil
}

// CanBeCancelled reports whether the order may still be cancelled by a customer.
func (o *Order) CanBeCancelled() bool {
	return o.status.CanBeCancelled()
}

// ensureTracking lazily creates the tracking sub-record.
func (o *Order) ensureTracking() *Tracking {
	if o.tracking == nil {
		o.tracking = &Tracking{}
	}
	return o.tracking
}

// checkMoneyInvariant re-validates the monetary fields. It runs on every
// mutation, not only at construction, so a corrupted aggregate never commits.
func (o *Order) checkMoneyInvariant() error {
	if err := errors.Join(
		o.subtotal.Validate(),
		o.tax.Validate(),
		o.shippingCost.Validate(),
		o.total.Validate(),
	); err != nil {
		return err
	}
	if !o.total.IsEqual(o.subtotal.Add(o.tax).Add(o.shippingCost)) {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("total %s does not equal subtotal %s + tax %s + shipping %s",
				o.total, o.subtotal, o.tax, o.shippingCost))
	}
	return nil
}

func (o *Order) markChanged(fields ...Field) {
	for _, f := range fields {
		o.changes[f] = struct{}{}
	}
}

// Changes returns the logical fields touched since the aggregate was loaded,
// sorted for deterministic commits. The repository persists only these fields.
func (o *Order) Changes() []Field {
	fields := make([]Field, 0, len(o.changes))
	for f := range o.changes {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// HasChanges reports whether any mutation has been recorded.
func (o *Order) HasChanges() bool {
	return len(o.changes) > 0
}

// ClearChanges resets change tracking. Called by the repository after a
// successful commit.
func (o *Order) ClearChanges() {
	o.changes = make(map[Field]struct{})
}

// MarkCommitted records a successful version-guarded commit: the aggregate
// adopts the version the storage layer just wrote and clears change tracking.
func (o *Order) MarkCommitted(version int64) {
	o.version = version
	o.ClearChanges()
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable order number used for external lookup.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerEmail returns the email the order confirmation is sent to.
func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

// ShippingAddress returns the delivery address captured at placement time.
func (o *Order) ShippingAddress() string {
	return o.shippingAddress
}

// Items returns a copy of the line-item snapshots.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Subtotal returns the sum of line totals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// Tax returns the tax amount.
func (o *Order) Tax() kernel.Money {
	return o.tax
}

// ShippingCost returns the shipping cost.
func (o *Order) ShippingCost() kernel.Money {
	return o.shippingCost
}

// Total returns the order total.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the append-only status history.
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

// Tracking returns a deep copy of the tracking sub-record, or nil if absent.
func (o *Order) Tracking() *Tracking {
	if o.tracking == nil {
		return nil
	}
	tracking := *o.tracking
	tracking.DeliveryAttempts = make([]DeliveryAttempt, len(o.tracking.DeliveryAttempts))
	copy(tracking.DeliveryAttempts, o.tracking.DeliveryAttempts)
	return &tracking
}

// PaymentStatus returns the payment settlement state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// EstimatedDelivery returns the estimated delivery date, if set.
func (o *Order) EstimatedDelivery() *time.Time {
	return o.estimatedDelivery
}

// ShippedAt returns when the order first reached the shipped status.
func (o *Order) ShippedAt() *time.Time {
	return o.shippedAt
}

// OutForDeliveryAt returns when the order first went out for delivery.
func (o *Order) OutForDeliveryAt() *time.Time {
	return o.outForDeliveryAt
}

// DeliveredAt returns when the order was first delivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// CancelledAt returns when the order was cancelled.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// ActualDelivery returns the actual delivery timestamp.
func (o *Order) ActualDelivery() *time.Time {
	return o.actualDelivery
}

// AdminNotes returns the internal annotations (not exposed to customers).
func (o *Order) AdminNotes() string {
	return o.adminNotes
}

// CustomerNotes returns the externally visible annotations.
func (o *Order) CustomerNotes() string {
	return o.customerNotes
}

// CreatedAt returns the order placement time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Version returns the optimistic-lock counter of the loaded snapshot.
func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerEmail(customerEmail string) error {
	if customerEmail == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}
	o.customerEmail = customerEmail
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setMoney(subtotal, tax, shippingCost, total kernel.Money) error {
	o.subtotal = subtotal
	o.tax = tax
	o.shippingCost = shippingCost
	o.total = total
	return o.checkMoneyInvariant()
}
