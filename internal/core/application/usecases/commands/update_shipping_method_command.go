package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/pkg/guard"
)

var ErrUpdateShippingMethodCommandIsNotConstructed = errors.New(
	"UpdateShippingMethodCommand must be created via NewUpdateShippingMethodCommand constructor",
)

// ShippingMethodChanges lists the fields to change; nil fields are kept.
// Preferences without CalculatorType reconfigure the current calculator.
type ShippingMethodChanges struct {
	Name           *string
	Code           *string
	AdminName      *string
	TrackingURL    *string
	DisplayOn      *shipping.DisplayOn
	CalculatorType *shipping.CalculatorType
	Preferences    map[string]string
}

func (c ShippingMethodChanges) applyTo(attrs shipping.Attributes) shipping.Attributes {
	if c.Name != nil {
		attrs.Name = *c.Name
	}
	if c.Code != nil {
		attrs.Code = *c.Code
	}
	if c.AdminName != nil {
		attrs.AdminName = *c.AdminName
	}
	if c.TrackingURL != nil {
		attrs.TrackingURL = *c.TrackingURL
	}
	if c.DisplayOn != nil {
		attrs.DisplayOn = *c.DisplayOn
	}
	return attrs
}

// calculator returns the replacement calculator, or nil to keep current.
func (c ShippingMethodChanges) calculator(current shipping.Calculator) (shipping.Calculator, error) {
	if c.CalculatorType == nil && c.Preferences == nil {
		return nil, nil
	}
	calculatorType := current.Type()
	if c.CalculatorType != nil {
		calculatorType = *c.CalculatorType
	}
	preferences := c.Preferences
	if preferences == nil && calculatorType == current.Type() {
		preferences = current.Preferences()
	}
	return shipping.NewCalculator(calculatorType, preferences)
}

type UpdateShippingMethodCommand struct { //nolint:recvcheck //using for validation
	shippingMethodID kernel.UUID
	changes          ShippingMethodChanges

	guard guard.ConstructorGuard
}

func NewUpdateShippingMethodCommand(
	shippingMethodID kernel.UUID,
	changes ShippingMethodChanges,
) (UpdateShippingMethodCommand, error) {
	if err := shippingMethodID.Validate(); err != nil {
		return UpdateShippingMethodCommand{}, err
	}
	return UpdateShippingMethodCommand{
		shippingMethodID: shippingMethodID,
		changes:          changes,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateShippingMethodCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShippingMethodCommandIsNotConstructed)
}

func (c UpdateShippingMethodCommand) ShippingMethodID() kernel.UUID  { return c.shippingMethodID }
func (c UpdateShippingMethodCommand) Changes() ShippingMethodChanges { return c.changes }
