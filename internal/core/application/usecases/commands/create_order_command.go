package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand opens a new cart, optionally filled in one go with
// addresses and line items.
//
// Example:
//
//	email := "buyer@example.com"
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "USD", nil, OrderAttributes{
//	    Email:     &email,
//	    LineItems: []LineItemAttributes{{VariantID: variantID.String()}},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	currency string
	userID   *kernel.UUID
	attrs    OrderAttributes

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	currency string,
	userID *kernel.UUID,
	attrs OrderAttributes,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		userID: userID,
		attrs:  attrs,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCurrency(currency),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID        { return c.orderID }
func (c CreateOrderCommand) Currency() string            { return c.currency }
func (c CreateOrderCommand) UserID() *kernel.UUID        { return c.userID }
func (c CreateOrderCommand) Attributes() OrderAttributes { return c.attrs }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return errs.NewValueIsInvalidError("currency")
	}
	c.currency = currency
	return nil
}
