package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

var _ ports.ShippingMethodRepository = &ShippingMethodRepository{}

type ShippingMethodRepository struct {
	uow *UnitOfWork
}

func (r *ShippingMethodRepository) Add(_ context.Context, method *shipping.ShippingMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.methods[method.ID()]; ok {
			return fmt.Errorf("%w: shipping method %s", ErrDuplicateID, method.ID())
		}
		staged.methods[method.ID()] = method.Clone()
		return nil
	})
}

func (r *ShippingMethodRepository) Update(_ context.Context, method *shipping.ShippingMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.methods[method.ID()]; !ok {
			return errs.NewObjectNotFoundError("shipping_method", method.ID())
		}
		staged.methods[method.ID()] = method.Clone()
		return nil
	})
}

func (r *ShippingMethodRepository) Get(_ context.Context, id kernel.UUID) (*shipping.ShippingMethod, error) {
	var found *shipping.ShippingMethod
	r.uow.read(func(v *changeSet) {
		if m, ok := v.methods[id]; ok {
			found = m.Clone()
		}
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("shipping_method", id)
	}
	return found, nil
}

func (r *ShippingMethodRepository) Delete(_ context.Context, id kernel.UUID) error {
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.methods[id]; !ok {
			return errs.NewObjectNotFoundError("shipping_method", id)
		}
		staged.methods[id] = nil
		return nil
	})
}

func (r *ShippingMethodRepository) List(_ context.Context, page ports.Pagination) ([]*shipping.ShippingMethod, int, error) {
	all := r.sorted()
	return paginate(all, page), len(all), nil
}

func (r *ShippingMethodRepository) All(context.Context) ([]*shipping.ShippingMethod, error) {
	return r.sorted(), nil
}

// sorted returns copies of every method ordered by name.
func (r *ShippingMethodRepository) sorted() []*shipping.ShippingMethod {
	var out []*shipping.ShippingMethod
	r.uow.read(func(v *changeSet) {
		for _, m := range v.methods {
			out = append(out, m.Clone())
		}
	})
	slices.SortFunc(out, func(a, b *shipping.ShippingMethod) int {
		if c := cmp.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return out
}

var _ ports.WebhookSubscriberRepository = &WebhookSubscriberRepository{}

type WebhookSubscriberRepository struct {
	uow *UnitOfWork
}

func (r *WebhookSubscriberRepository) Add(_ context.Context, subscriber *webhook.Subscriber) error {
	if err := subscriber.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.subscribers[subscriber.ID()]; ok {
			return fmt.Errorf("%w: webhook subscriber %s", ErrDuplicateID, subscriber.ID())
		}
		staged.subscribers[subscriber.ID()] = subscriber.Clone()
		return nil
	})
}

func (r *WebhookSubscriberRepository) Update(_ context.Context, subscriber *webhook.Subscriber) error {
	if err := subscriber.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.subscribers[subscriber.ID()]; !ok {
			return errs.NewObjectNotFoundError("webhook_subscriber", subscriber.ID())
		}
		staged.subscribers[subscriber.ID()] = subscriber.Clone()
		return nil
	})
}

func (r *WebhookSubscriberRepository) Get(_ context.Context, id kernel.UUID) (*webhook.Subscriber, error) {
	var found *webhook.Subscriber
	r.uow.read(func(v *changeSet) {
		if s, ok := v.subscribers[id]; ok {
			found = s.Clone()
		}
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("webhook_subscriber", id)
	}
	return found, nil
}

func (r *WebhookSubscriberRepository) Delete(_ context.Context, id kernel.UUID) error {
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.subscribers[id]; !ok {
			return errs.NewObjectNotFoundError("webhook_subscriber", id)
		}
		staged.subscribers[id] = nil
		return nil
	})
}

func (r *WebhookSubscriberRepository) List(_ context.Context, page ports.Pagination) ([]*webhook.Subscriber, int, error) {
	all := r.sorted(false)
	return paginate(all, page), len(all), nil
}

func (r *WebhookSubscriberRepository) ListActive(context.Context) ([]*webhook.Subscriber, error) {
	return r.sorted(true), nil
}

// sorted returns copies of the subscribers ordered by creation time.
func (r *WebhookSubscriberRepository) sorted(activeOnly bool) []*webhook.Subscriber {
	var out []*webhook.Subscriber
	r.uow.read(func(v *changeSet) {
		for _, s := range v.subscribers {
			if activeOnly && !s.Active() {
				continue
			}
			out = append(out, s.Clone())
		}
	})
	slices.SortFunc(out, func(a, b *webhook.Subscriber) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return out
}

var _ ports.VariantRepository = &VariantRepository{}

// VariantRepository stores variants as given; variants are immutable.
type VariantRepository struct {
	uow *UnitOfWork
}

func (r *VariantRepository) Add(_ context.Context, variant *catalog.Variant) error {
	if err := variant.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(_, staged *changeSet) error {
		staged.variants[variant.ID()] = variant
		return nil
	})
}

func (r *VariantRepository) Get(_ context.Context, id kernel.UUID) (*catalog.Variant, error) {
	var found *catalog.Variant
	r.uow.read(func(v *changeSet) {
		found = v.variants[id]
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("variant", id)
	}
	return found, nil
}
