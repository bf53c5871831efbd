package commands

import (
	"context"

	"storefront/internal/core/ports"
)

// DeleteOrderCommandHandler removes an order with all of its children and
// publishes order.deleted.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     ports.OrderLocker
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory, locker: locker}
}

func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock, err := h.locker.Lock(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	o.MarkDeleted()
	if err = repo.Delete(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
