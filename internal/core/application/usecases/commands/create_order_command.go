package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to place a new order. Line items
// arrive as snapshots already taken from the product catalog; the engine never
// consults the catalog again for this order.
//
// Example:
//
//	items := []order.Item{{ProductID: "p-1", Name: "Mug", UnitPrice: price, Quantity: 2}}
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "jo@example.com",
//	    "12 Pine Rd", items, subtotal, tax, shipping, total)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerEmail   string
	shippingAddress string
	items           []order.Item
	subtotal        kernel.Money
	tax             kernel.Money
	shippingCost    kernel.Money
	total           kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates identity, customer email, item snapshots and the monetary fields;
// the invariant total == subtotal + tax + shippingCost is enforced by the
// aggregate on construction.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerEmail string,
	shippingAddress string,
	items []order.Item,
	subtotal, tax, shippingCost, total kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerEmail(customerEmail),
		cmd.setItems(items),
		cmd.setMoney(subtotal, tax, shippingCost, total),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.shippingAddress = shippingAddress
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerEmail returns the address the confirmation email goes to.
func (c CreateOrderCommand) CustomerEmail() string {
	return c.customerEmail
}

// ShippingAddress returns the delivery address.
func (c CreateOrderCommand) ShippingAddress() string {
	return c.shippingAddress
}

// Items returns the line-item snapshots.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// Subtotal returns the order subtotal.
func (c CreateOrderCommand) Subtotal() kernel.Money {
	return c.subtotal
}

// Tax returns the tax amount.
func (c CreateOrderCommand) Tax() kernel.Money {
	return c.tax
}

// ShippingCost returns the shipping cost.
func (c CreateOrderCommand) ShippingCost() kernel.Money {
	return c.shippingCost
}

// Total returns the order total.
func (c CreateOrderCommand) Total() kernel.Money {
	return c.total
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerEmail(customerEmail string) error {
	if customerEmail == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}
	c.customerEmail = customerEmail
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = items
	return nil
}

func (c *CreateOrderCommand) setMoney(subtotal, tax, shippingCost, total kernel.Money) error {
	if err := errors.Join(
		subtotal.Validate(), tax.Validate(), shippingCost.Validate(), total.Validate(),
	); err != nil {
		return err
	}
	c.subtotal = subtotal
	c.tax = tax
	c.shippingCost = shippingCost
	c.total = total
	return nil
}
