package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AdjustableKind names the kind of entity an adjustment applies to.
type AdjustableKind string

const (
	AdjustableLineItem AdjustableKind = "line_item"
	AdjustableShipment AdjustableKind = "shipment"
	AdjustableOrder    AdjustableKind = "order"
)

func ParseAdjustableKind(s string) (AdjustableKind, error) {
	switch k := AdjustableKind(strings.ToLower(s)); k {
	case AdjustableLineItem, AdjustableShipment, AdjustableOrder:
		return k, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("adjustable_type", fmt.Errorf("%q is not adjustable", s))
}

// Adjustable references the entity an adjustment applies to. For
// AdjustableOrder the ID is the order's own id.
type Adjustable struct {
	Kind AdjustableKind
	ID   kernel.UUID
}

func (a Adjustable) String() string {
	return string(a.Kind) + ":" + a.ID.String()
}

// SourceKind names what produced an adjustment.
type SourceKind string

const (
	SourceNone      SourceKind = ""
	SourceTaxRate   SourceKind = "tax_rate"
	SourcePromotion SourceKind = "promotion"
)

func ParseSourceKind(s string) (SourceKind, error) {
	switch k := SourceKind(strings.ToLower(s)); k {
	case SourceNone, SourceTaxRate, SourcePromotion:
		return k, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("source_type", fmt.Errorf("%q is not an adjustment source", s))
}

// Source references the rule an adjustment was derived from. The zero
// Source marks a manual adjustment.
type Source struct {
	Kind SourceKind
	ID   kernel.UUID
}

func (s Source) IsManual() bool { return s.Kind == SourceNone }

type AdjustmentState string

const (
	AdjustmentOpen   AdjustmentState = "open"
	AdjustmentClosed AdjustmentState = "closed"
)

// AdjustmentAttributes is the writable part of an adjustment.
//
// Amounts follow one sign convention: charges are positive, credits are
// negative. Promotions therefore never carry a positive amount and taxes
// never carry a negative one.
type AdjustmentAttributes struct {
	Adjustable Adjustable
	Source     Source
	Label      string
	Amount     decimal.Decimal
	Eligible   bool
	Mandatory  bool
	Included   bool
}

func (a AdjustmentAttributes) validate() error {
	verrs := errs.NewValidationErrors()
	if strings.TrimSpace(a.Label) == "" {
		verrs.Add("label", errs.MsgBlank)
	}
	switch a.Adjustable.Kind {
	case AdjustableLineItem, AdjustableShipment, AdjustableOrder:
		if a.Adjustable.ID.IsZero() {
			verrs.Add("adjustable_id", errs.MsgBlank)
		}
	default:
		verrs.Add("adjustable_type", errs.MsgInvalid)
	}
	if a.Source.Kind != SourceNone && a.Source.ID.IsZero() {
		verrs.Add("source_id", errs.MsgBlank)
	}
	if a.Included && a.Source.Kind != SourceTaxRate {
		verrs.Add("included", "is only allowed for tax adjustments")
	}
	switch {
	case a.Source.Kind == SourcePromotion && a.Amount.IsPositive():
		verrs.Add("amount", "must be less than or equal to 0 for promotions")
	case a.Source.Kind == SourceTaxRate && a.Amount.IsNegative():
		verrs.Add("amount", "must be greater than or equal to 0 for taxes")
	}
	return verrs.Err()
}

// Adjustment is a labeled signed amount attached to a line item, a shipment
// or the order itself.
type Adjustment struct {
	id    kernel.UUID
	attrs AdjustmentAttributes
	state AdjustmentState
}

func NewAdjustment(id kernel.UUID, attrs AdjustmentAttributes) (*Adjustment, error) {
	if err := errors.Join(id.Validate(), attrs.validate()); err != nil {
		return nil, err
	}
	attrs.Amount = kernel.RoundMoney(attrs.Amount)
	return &Adjustment{id: id, attrs: attrs, state: AdjustmentOpen}, nil
}

// RestoreAdjustment rebuilds a persisted adjustment without validation.
func RestoreAdjustment(id kernel.UUID, attrs AdjustmentAttributes, state AdjustmentState) *Adjustment {
	return &Adjustment{id: id, attrs: attrs, state: state}
}

func (a *Adjustment) ID() kernel.UUID                  { return a.id }
func (a *Adjustment) Attributes() AdjustmentAttributes { return a.attrs }
func (a *Adjustment) Adjustable() Adjustable           { return a.attrs.Adjustable }
func (a *Adjustment) Source() Source                   { return a.attrs.Source }
func (a *Adjustment) Label() string                    { return a.attrs.Label }
func (a *Adjustment) Amount() decimal.Decimal          { return a.attrs.Amount }
func (a *Adjustment) Eligible() bool                   { return a.attrs.Eligible }
func (a *Adjustment) Mandatory() bool                  { return a.attrs.Mandatory }
func (a *Adjustment) Included() bool                   { return a.attrs.Included }
func (a *Adjustment) State() AdjustmentState           { return a.state }

func (a *Adjustment) IsOpen() bool      { return a.state == AdjustmentOpen }
func (a *Adjustment) IsTax() bool       { return a.attrs.Source.Kind == SourceTaxRate }
func (a *Adjustment) IsPromotion() bool { return a.attrs.Source.Kind == SourcePromotion }

// evaluate stores a re-computed amount and eligibility. Closed adjustments
// keep their values.
func (a *Adjustment) evaluate(amount decimal.Decimal, eligible bool) {
	if !a.IsOpen() {
		return
	}
	a.attrs.Amount = kernel.RoundMoney(amount)
	a.attrs.Eligible = eligible
}

// close freezes the adjustment; closed adjustments no longer count towards totals.
func (a *Adjustment) close() {
	a.state = AdjustmentClosed
}

func (a *Adjustment) update(attrs AdjustmentAttributes) error {
	if !a.IsOpen() {
		return fmt.Errorf("%w: adjustment is closed", errs.ErrValidation)
	}
	if err := attrs.validate(); err != nil {
		return err
	}
	attrs.Amount = kernel.RoundMoney(attrs.Amount)
	a.attrs = attrs
	return nil
}

func (a *Adjustment) clone() *Adjustment {
	c := *a
	return &c
}
