package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrApplyCouponCodeCommandIsNotConstructed = errors.New(
	"ApplyCouponCodeCommand must be created via NewApplyCouponCodeCommand constructor",
)

// ApplyCouponCodeCommand adds the promotion behind a coupon code to an order.
type ApplyCouponCodeCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	adjustmentID kernel.UUID
	code         string

	guard guard.ConstructorGuard
}

func NewApplyCouponCodeCommand(orderID, adjustmentID kernel.UUID, code string) (ApplyCouponCodeCommand, error) {
	if err := errors.Join(orderID.Validate(), adjustmentID.Validate()); err != nil {
		return ApplyCouponCodeCommand{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ApplyCouponCodeCommand{}, errs.NewValueIsRequiredError("coupon_code")
	}

	return ApplyCouponCodeCommand{
		orderID:      orderID,
		adjustmentID: adjustmentID,
		code:         code,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyCouponCodeCommand) Validate() error {
	return c.guard.Validate(ErrApplyCouponCodeCommandIsNotConstructed)
}

func (c ApplyCouponCodeCommand) OrderID() kernel.UUID      { return c.orderID }
func (c ApplyCouponCodeCommand) AdjustmentID() kernel.UUID { return c.adjustmentID }
func (c ApplyCouponCodeCommand) Code() string              { return c.code }
