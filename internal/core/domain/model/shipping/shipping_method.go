package shipping

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrShippingMethodIsNotConstructed = errors.New("ShippingMethod must be created via NewShippingMethod constructor")

type DisplayOn string

const (
	DisplayBoth     DisplayOn = "both"
	DisplayBackEnd  DisplayOn = "back_end"
	DisplayFrontEnd DisplayOn = "front_end"
)

func (d DisplayOn) IsValid() bool {
	switch d {
	case DisplayBoth, DisplayBackEnd, DisplayFrontEnd:
		return true
	}
	return false
}

type Attributes struct {
	Name        string
	Code        string
	AdminName   string
	TrackingURL string
	DisplayOn   DisplayOn
}

func (a Attributes) validate() *errs.ValidationErrors {
	verrs := errs.NewValidationErrors()
	if strings.TrimSpace(a.Name) == "" {
		verrs.Add("name", errs.MsgBlank)
	}
	if a.DisplayOn != "" && !a.DisplayOn.IsValid() {
		verrs.Add("display_on", errs.MsgInvalid)
	}
	return verrs
}

type ShippingMethod struct {
	id         kernel.UUID
	attrs      Attributes
	calculator Calculator
	guard      guard.ConstructorGuard
}

func NewShippingMethod(id kernel.UUID, attrs Attributes, calculator Calculator) (*ShippingMethod, error) {
	verrs := attrs.validate()
	if calculator == nil {
		verrs.Add("calculator", errs.MsgBlank)
	}
	if err := errors.Join(id.Validate(), verrs.Err()); err != nil {
		return nil, err
	}
	if attrs.DisplayOn == "" {
		attrs.DisplayOn = DisplayBoth
	}

	return &ShippingMethod{
		id:         id,
		attrs:      attrs,
		calculator: calculator,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (m *ShippingMethod) Validate() error {
	if m == nil {
		return ErrShippingMethodIsNotConstructed
	}
	return m.guard.Validate(ErrShippingMethodIsNotConstructed)
}

func (m *ShippingMethod) ID() kernel.UUID        { return m.id }
func (m *ShippingMethod) Name() string           { return m.attrs.Name }
func (m *ShippingMethod) Attributes() Attributes { return m.attrs }
func (m *ShippingMethod) Calculator() Calculator { return m.calculator }

// Update replaces the attributes and, when calculator is not nil, the calculator.
func (m *ShippingMethod) Update(attrs Attributes, calculator Calculator) error {
	if err := attrs.validate().Err(); err != nil {
		return err
	}
	if attrs.DisplayOn == "" {
		attrs.DisplayOn = m.attrs.DisplayOn
	}
	m.attrs = attrs
	if calculator != nil {
		m.calculator = calculator
	}
	return nil
}

// Clone returns a copy of m. Calculators are immutable and shared.
func (m *ShippingMethod) Clone() *ShippingMethod {
	c := *m
	return &c
}

// Rate prices p. ok is false when the calculator does not serve p.
func (m *ShippingMethod) Rate(p Package) (cost decimal.Decimal, ok bool) {
	if !m.calculator.Available(p) {
		return decimal.Zero, false
	}
	return m.calculator.Compute(p), true
}

// TrackingURLFor substitutes the ":tracking" placeholder of the tracking url.
func (m *ShippingMethod) TrackingURLFor(tracking string) string {
	if m.attrs.TrackingURL == "" || tracking == "" {
		return ""
	}
	return strings.ReplaceAll(m.attrs.TrackingURL, ":tracking", tracking)
}
