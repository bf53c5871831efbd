package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LineItem is a quantity of one variant at a fixed unit price.
type LineItem struct {
	id        kernel.UUID
	variantID kernel.UUID
	quantity  int
	price     decimal.Decimal
	currency  string
}

func NewLineItem(id, variantID kernel.UUID, quantity int, price decimal.Decimal, currency string) (*LineItem, error) {
	li := &LineItem{}
	if err := errors.Join(
		li.setID(id),
		li.setVariantID(variantID),
		li.setQuantity(quantity),
		li.setPrice(price),
		li.setCurrency(currency),
	); err != nil {
		return nil, err
	}
	return li, nil
}

// RestoreLineItem rebuilds a persisted line item without validation.
func RestoreLineItem(id, variantID kernel.UUID, quantity int, price decimal.Decimal, currency string) *LineItem {
	return &LineItem{id: id, variantID: variantID, quantity: quantity, price: price, currency: currency}
}

func (li *LineItem) ID() kernel.UUID        { return li.id }
func (li *LineItem) VariantID() kernel.UUID { return li.variantID }
func (li *LineItem) Quantity() int          { return li.quantity }
func (li *LineItem) Price() decimal.Decimal { return li.price }
func (li *LineItem) Currency() string       { return li.currency }

// Amount is price times quantity.
func (li *LineItem) Amount() decimal.Decimal {
	return li.price.Mul(decimal.NewFromInt(int64(li.quantity)))
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}

func (li *LineItem) clone() *LineItem {
	c := *li
	return &c
}

func (li *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

func (li *LineItem) setVariantID(id kernel.UUID) error {
	if id.IsZero() {
		return errs.NewValueIsRequiredError("variant_id")
	}
	li.variantID = id
	return nil
}

func (li *LineItem) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	li.price = price
	return nil
}

func (li *LineItem) setCurrency(currency string) error {
	if strings.TrimSpace(currency) == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	li.currency = strings.ToUpper(currency)
	return nil
}
