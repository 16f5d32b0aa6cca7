package order

import (
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// Item is a line-item snapshot taken at order-placement time.
// Name, price and image are copied from the product catalog once and never
// re-read, so historical orders are unaffected by later catalog edits.
// Items are immutable after the order is created.
type Item struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	UnitPrice kernel.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	Image     string       `json:"image,omitempty"`
}

// NewItem creates a validated line-item snapshot.
func NewItem(productID, name string, unitPrice kernel.Money, quantity int, image string) (Item, error) {
	item := Item{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Image:     image,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Validate checks the structural invariants of the snapshot.
func (i Item) Validate() error {
	if i.ProductID == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	if i.Name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if err := i.UnitPrice.Validate(); err != nil {
		return err
	}
	if i.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", i.Quantity))
	}
	return nil
}
