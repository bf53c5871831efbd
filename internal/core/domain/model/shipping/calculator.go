package shipping

import (
	"fmt"
	"strconv"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CalculatorType tags the pricing strategy stored on a shipping method.
type CalculatorType string

const (
	FlatRate             CalculatorType = "flat_rate"
	FlatPercentItemTotal CalculatorType = "flat_percent_item_total"
	PerItem              CalculatorType = "per_item"
	FlexiRate            CalculatorType = "flexi_rate"
	PriceSack            CalculatorType = "price_sack"
	DigitalDelivery      CalculatorType = "digital_delivery"
)

// CalculatorTypes lists every supported calculator in a stable order.
var CalculatorTypes = []CalculatorType{FlatRate, FlatPercentItemTotal, PerItem, FlexiRate, PriceSack, DigitalDelivery}

// Package describes the contents of a shipment for pricing.
type Package struct {
	ItemTotal   decimal.Decimal
	Quantity    int
	DigitalOnly bool
}

// Calculator prices a package. The set of implementations is closed; use NewCalculator.
type Calculator interface {
	Type() CalculatorType
	Compute(p Package) decimal.Decimal
	Available(p Package) bool
	Preferences() map[string]string
}

// NewCalculator builds the calculator identified by t from its string preferences.
// Missing preferences default to zero.
func NewCalculator(t CalculatorType, prefs map[string]string) (Calculator, error) {
	p := preferenceReader{prefs: prefs, err: errs.NewValidationErrors()}

	var calc Calculator
	switch t {
	case FlatRate:
		calc = flatRate{amount: p.money("amount")}
	case FlatPercentItemTotal:
		calc = flatPercentItemTotal{percent: p.money("flat_percent")}
	case PerItem:
		calc = perItem{amount: p.money("amount")}
	case FlexiRate:
		calc = flexiRate{
			firstItem:      p.money("first_item"),
			additionalItem: p.money("additional_item"),
			maxItems:       p.integer("max_items"),
		}
	case PriceSack:
		calc = priceSack{
			minimalAmount:  p.money("minimal_amount"),
			normalAmount:   p.money("normal_amount"),
			discountAmount: p.money("discount_amount"),
		}
	case DigitalDelivery:
		calc = digitalDelivery{amount: p.money("amount")}
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("calculator", fmt.Errorf("%q is not a supported calculator", t))
	}

	if err := p.err.Err(); err != nil {
		return nil, err
	}
	return calc, nil
}

type preferenceReader struct {
	prefs map[string]string
	err   *errs.ValidationErrors
}

func (r *preferenceReader) money(key string) decimal.Decimal {
	raw, ok := r.prefs[key]
	if !ok || raw == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		r.err.Add("preferences."+key, errs.MsgInvalid)
		return decimal.Zero
	}
	return v
}

func (r *preferenceReader) integer(key string) int {
	raw, ok := r.prefs[key]
	if !ok || raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		r.err.Add("preferences."+key, errs.MsgInvalid)
		return 0
	}
	return v
}

type flatRate struct{ amount decimal.Decimal }

func (c flatRate) Type() CalculatorType            { return FlatRate }
func (c flatRate) Compute(Package) decimal.Decimal { return kernel.RoundMoney(c.amount) }
func (c flatRate) Available(p Package) bool        { return true }
func (c flatRate) Preferences() map[string]string {
	return map[string]string{"amount": c.amount.String()}
}

type flatPercentItemTotal struct{ percent decimal.Decimal }

func (c flatPercentItemTotal) Type() CalculatorType { return FlatPercentItemTotal }
func (c flatPercentItemTotal) Compute(p Package) decimal.Decimal {
	return kernel.RoundMoney(p.ItemTotal.Mul(c.percent).Div(decimal.NewFromInt(100)))
}
func (c flatPercentItemTotal) Available(Package) bool { return true }
func (c flatPercentItemTotal) Preferences() map[string]string {
	return map[string]string{"flat_percent": c.percent.String()}
}

type perItem struct{ amount decimal.Decimal }

func (c perItem) Type() CalculatorType { return PerItem }
func (c perItem) Compute(p Package) decimal.Decimal {
	return kernel.RoundMoney(c.amount.Mul(decimal.NewFromInt(int64(p.Quantity))))
}
func (c perItem) Available(Package) bool { return true }
func (c perItem) Preferences() map[string]string {
	return map[string]string{"amount": c.amount.String()}
}

// flexiRate charges first_item for the first unit of every group of max_items
// units and additional_item for the rest. max_items of 0 means a single group.
type flexiRate struct {
	firstItem      decimal.Decimal
	additionalItem decimal.Decimal
	maxItems       int
}

func (c flexiRate) Type() CalculatorType { return FlexiRate }
func (c flexiRate) Compute(p Package) decimal.Decimal {
	sum := decimal.Zero
	for i := range p.Quantity {
		if (c.maxItems == 0 && i == 0) || (c.maxItems > 0 && i%c.maxItems == 0) {
			sum = sum.Add(c.firstItem)
		} else {
			sum = sum.Add(c.additionalItem)
		}
	}
	return kernel.RoundMoney(sum)
}
func (c flexiRate) Available(Package) bool { return true }
func (c flexiRate) Preferences() map[string]string {
	return map[string]string{
		"first_item":      c.firstItem.String(),
		"additional_item": c.additionalItem.String(),
		"max_items":       strconv.Itoa(c.maxItems),
	}
}

// priceSack charges normal_amount below minimal_amount of item total and
// discount_amount from it on.
type priceSack struct {
	minimalAmount  decimal.Decimal
	normalAmount   decimal.Decimal
	discountAmount decimal.Decimal
}

func (c priceSack) Type() CalculatorType { return PriceSack }
func (c priceSack) Compute(p Package) decimal.Decimal {
	if p.ItemTotal.LessThan(c.minimalAmount) {
		return kernel.RoundMoney(c.normalAmount)
	}
	return kernel.RoundMoney(c.discountAmount)
}
func (c priceSack) Available(Package) bool { return true }
func (c priceSack) Preferences() map[string]string {
	return map[string]string{
		"minimal_amount":  c.minimalAmount.String(),
		"normal_amount":   c.normalAmount.String(),
		"discount_amount": c.discountAmount.String(),
	}
}

type digitalDelivery struct{ amount decimal.Decimal }

func (c digitalDelivery) Type() CalculatorType            { return DigitalDelivery }
func (c digitalDelivery) Compute(Package) decimal.Decimal { return kernel.RoundMoney(c.amount) }
func (c digitalDelivery) Available(p Package) bool        { return p.DigitalOnly }
func (c digitalDelivery) Preferences() map[string]string {
	return map[string]string{"amount": c.amount.String()}
}
