package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// orderWriter runs one change against one order: it takes the order lock,
// loads the order in a fresh unit of work, applies the change, stores the
// result and commits. Writes to the same order are serialized; writes to
// different orders are not.
type orderWriter struct {
	uowFactory OrderUoWFactory
	locker     ports.OrderLocker
}

type orderChange func(ctx context.Context, uow OrderUoW, o *order.Order) error

func (w orderWriter) update(ctx context.Context, id kernel.UUID, change orderChange) (*order.Order, error) {
	unlock, err := w.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := w.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = change(ctx, uow, o); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// updateByChild locates the order owning a child and updates it.
func (w orderWriter) updateByChild(
	ctx context.Context,
	kind order.ChildKind,
	childID kernel.UUID,
	change orderChange,
) (*order.Order, error) {
	owner, err := w.uowFactory.Create().OrderRepository().GetByChild(ctx, kind, childID)
	if err != nil {
		return nil, err
	}

	return w.update(ctx, owner.ID(), func(ctx context.Context, uow OrderUoW, o *order.Order) error {
		if !o.Contains(kind, childID) {
			// moved or deleted while waiting for the lock
			return errs.NewObjectNotFoundError(string(kind), childID)
		}
		return change(ctx, uow, o)
	})
}

// uowCatalog answers catalog questions inside the unit of work of a command.
type uowCatalog struct {
	uow OrderUoW
}

func (c uowCatalog) ShippingMethods(ctx context.Context) ([]*shipping.ShippingMethod, error) {
	return c.uow.ShippingMethodRepository().All(ctx)
}

func (c uowCatalog) IsDigital(ctx context.Context, variantID kernel.UUID) (bool, error) {
	v, err := c.uow.VariantRepository().Get(ctx, variantID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v.Digital(), nil
}

// recomputeAndTouch refreshes adjustment totals and records order.updated.
func recomputeAndTouch(machine services.OrderStateMachine, o *order.Order) error {
	if err := machine.Recompute(o); err != nil {
		return err
	}
	o.MarkUpdated()
	return nil
}
