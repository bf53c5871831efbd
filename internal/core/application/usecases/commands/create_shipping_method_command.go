package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/pkg/guard"
)

var ErrCreateShippingMethodCommandIsNotConstructed = errors.New(
	"CreateShippingMethodCommand must be created via NewCreateShippingMethodCommand constructor",
)

type CreateShippingMethodCommand struct { //nolint:recvcheck //using for validation
	shippingMethodID kernel.UUID
	attrs            shipping.Attributes
	calculator       shipping.Calculator

	guard guard.ConstructorGuard
}

// NewCreateShippingMethodCommand builds the calculator from its type and
// string preferences; invalid preferences are reported per key.
func NewCreateShippingMethodCommand(
	shippingMethodID kernel.UUID,
	attrs shipping.Attributes,
	calculatorType shipping.CalculatorType,
	preferences map[string]string,
) (CreateShippingMethodCommand, error) {
	calculator, errCalculator := shipping.NewCalculator(calculatorType, preferences)
	if err := errors.Join(shippingMethodID.Validate(), errCalculator); err != nil {
		return CreateShippingMethodCommand{}, err
	}

	return CreateShippingMethodCommand{
		shippingMethodID: shippingMethodID,
		attrs:            attrs,
		calculator:       calculator,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c CreateShippingMethodCommand) Validate() error {
	return c.guard.Validate(ErrCreateShippingMethodCommandIsNotConstructed)
}

func (c CreateShippingMethodCommand) ShippingMethodID() kernel.UUID   { return c.shippingMethodID }
func (c CreateShippingMethodCommand) Attributes() shipping.Attributes { return c.attrs }
func (c CreateShippingMethodCommand) Calculator() shipping.Calculator { return c.calculator }
