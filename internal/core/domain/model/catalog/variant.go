// Package catalog holds the purchasable variants an order references.
// Products and variants are managed elsewhere; orders only read them.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrVariantIsNotConstructed = errors.New("Variant must be created via NewVariant constructor")

type Variant struct {
	id       kernel.UUID
	sku      string
	name     string
	price    decimal.Decimal
	currency string
	digital  bool
	guard    guard.ConstructorGuard
}

func NewVariant(id kernel.UUID, sku, name string, price decimal.Decimal, currency string, digital bool) (*Variant, error) {
	var errSKU, errPrice, errCurrency error
	if strings.TrimSpace(sku) == "" {
		errSKU = errs.NewValueIsRequiredError("sku")
	}
	if price.IsNegative() {
		errPrice = errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	if len(strings.TrimSpace(currency)) != 3 {
		errCurrency = errs.NewValueIsInvalidError("currency")
	}
	if err := errors.Join(id.Validate(), errSKU, errPrice, errCurrency); err != nil {
		return nil, err
	}

	return &Variant{
		id:       id,
		sku:      sku,
		name:     name,
		price:    price,
		currency: strings.ToUpper(currency),
		digital:  digital,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (v *Variant) Validate() error {
	if v == nil {
		return ErrVariantIsNotConstructed
	}
	return v.guard.Validate(ErrVariantIsNotConstructed)
}

func (v *Variant) ID() kernel.UUID        { return v.id }
func (v *Variant) SKU() string            { return v.sku }
func (v *Variant) Name() string           { return v.name }
func (v *Variant) Price() decimal.Decimal { return v.price }
func (v *Variant) Currency() string       { return v.currency }
func (v *Variant) Digital() bool          { return v.digital }
