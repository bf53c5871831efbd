package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

const (
	msgCouponUnknown    = "does not exist"
	msgCouponApplied    = "has already been applied"
	msgCouponIneligible = "is not eligible for this order"
)

// ApplyCouponCodeCommandHandler adds an order-level promotion adjustment for
// a coupon code. A code that is unknown, already applied or not eligible for
// the order leaves the order untouched.
type ApplyCouponCodeCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
	coupons services.CouponResolver
}

func NewApplyCouponCodeCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
	coupons services.CouponResolver,
) ApplyCouponCodeCommandHandler {
	return ApplyCouponCodeCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
		coupons: coupons,
	}
}

func (h *ApplyCouponCodeCommandHandler) Handle(ctx context.Context, cmd ApplyCouponCodeCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	source, ok := h.coupons.ResolveCoupon(cmd.Code())
	if !ok {
		return nil, couponError(msgCouponUnknown)
	}

	return h.writer.update(ctx, cmd.OrderID(), func(_ context.Context, _ OrderUoW, o *order.Order) error {
		for _, adj := range o.Adjustments() {
			if adj.IsOpen() && adj.Source() == source {
				return couponError(msgCouponApplied)
			}
		}

		adj, err := order.NewAdjustment(cmd.AdjustmentID(), order.AdjustmentAttributes{
			Adjustable: order.Adjustable{Kind: order.AdjustableOrder, ID: o.ID()},
			Source:     source,
			Label:      "Promotion (" + cmd.Code() + ")",
			Eligible:   true,
		})
		if err != nil {
			return err
		}
		if err = o.AddAdjustment(adj); err != nil {
			return err
		}
		if err = recomputeAndTouch(h.machine, o); err != nil {
			return err
		}

		if applied, found := o.Adjustment(adj.ID()); !found || !applied.Eligible() {
			return couponError(msgCouponIneligible)
		}
		return nil
	})
}

func couponError(msg string) error {
	verrs := errs.NewValidationErrors()
	verrs.Add("coupon_code", msg)
	return verrs
}
