// Package memory keeps aggregates in process memory. It backs tests and
// STORE_DRIVER=memory and follows the semantics of the postgres adapter:
// writes made inside a unit of work become visible to others only on commit.
package memory

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"
)

// ErrDuplicateID is returned when an aggregate or an order child is added
// with an id that is already stored.
var ErrDuplicateID = errors.New("id is already taken")

// Store holds the committed aggregates. owners indexes every order child
// by id to the order that owns it.
type Store struct {
	mu          sync.RWMutex
	orders      map[kernel.UUID]*order.Order
	owners      map[kernel.UUID]kernel.UUID
	addresses   map[kernel.UUID]*address.Address
	methods     map[kernel.UUID]*shipping.ShippingMethod
	subscribers map[kernel.UUID]*webhook.Subscriber
	variants    map[kernel.UUID]*catalog.Variant
}

func NewStore() *Store {
	return &Store{
		orders:      make(map[kernel.UUID]*order.Order),
		owners:      make(map[kernel.UUID]kernel.UUID),
		addresses:   make(map[kernel.UUID]*address.Address),
		methods:     make(map[kernel.UUID]*shipping.ShippingMethod),
		subscribers: make(map[kernel.UUID]*webhook.Subscriber),
		variants:    make(map[kernel.UUID]*catalog.Variant),
	}
}

// changeSet is the pending writes of one unit of work. A nil value deletes.
type changeSet struct {
	orders      map[kernel.UUID]*order.Order
	addresses   map[kernel.UUID]*address.Address
	methods     map[kernel.UUID]*shipping.ShippingMethod
	subscribers map[kernel.UUID]*webhook.Subscriber
	variants    map[kernel.UUID]*catalog.Variant
}

func newChangeSet() *changeSet {
	return &changeSet{
		orders:      make(map[kernel.UUID]*order.Order),
		addresses:   make(map[kernel.UUID]*address.Address),
		methods:     make(map[kernel.UUID]*shipping.ShippingMethod),
		subscribers: make(map[kernel.UUID]*webhook.Subscriber),
		variants:    make(map[kernel.UUID]*catalog.Variant),
	}
}

// apply writes changes to the store. Staged orders are checked first, so a
// conflicting commit changes nothing. The cost is proportional to the size
// of changes. The caller holds s.mu.
func (s *Store) apply(changes *changeSet) error {
	for _, o := range changes.orders {
		if o == nil {
			continue
		}
		if err := s.checkChildren(o, changes); err != nil {
			return err
		}
	}
	for id, a := range changes.addresses {
		if a == nil {
			continue
		}
		if owner := s.ownerOf(id, changes.orders); owner != nil {
			return fmt.Errorf("%w: address %s belongs to order %s", ErrDuplicateID, id, owner.Number())
		}
	}

	for id, o := range changes.orders {
		if prev, ok := s.orders[id]; ok {
			for _, child := range childIDs(prev) {
				if s.owners[child] == id {
					delete(s.owners, child)
				}
			}
		}
		if o == nil {
			delete(s.orders, id)
			continue
		}
		s.orders[id] = o
	}
	for id, o := range changes.orders {
		if o == nil {
			continue
		}
		for _, child := range childIDs(o) {
			s.owners[child] = id
		}
	}

	merge(s.addresses, changes.addresses)
	merge(s.methods, changes.methods)
	merge(s.subscribers, changes.subscribers)
	merge(s.variants, changes.variants)
	return nil
}

// merge writes staged into committed in place.
func merge[T any](committed, staged map[kernel.UUID]*T) {
	for id, v := range staged {
		if v == nil {
			delete(committed, id)
			continue
		}
		committed[id] = v
	}
}

// view overlays staged on a copy of committed.
func view[T any](committed, staged map[kernel.UUID]*T) map[kernel.UUID]*T {
	out := make(map[kernel.UUID]*T, len(committed)+len(staged))
	maps.Copy(out, committed)
	merge(out, staged)
	return out
}

// childIDs lists the ids of every entity owned by o.
func childIDs(o *order.Order) []kernel.UUID {
	var ids []kernel.UUID
	for _, li := range o.LineItems() {
		ids = append(ids, li.ID())
	}
	for _, a := range o.Adjustments() {
		ids = append(ids, a.ID())
	}
	for _, s := range o.Shipments() {
		ids = append(ids, s.ID())
	}
	for _, p := range o.Payments() {
		ids = append(ids, p.ID())
	}
	if a := o.BillAddress(); a != nil {
		ids = append(ids, a.ID())
	}
	if a := o.ShipAddress(); a != nil {
		ids = append(ids, a.ID())
	}
	return ids
}

// ownerOf returns the order owning child once staged is overlaid on the
// committed orders, or nil. The caller holds s.mu.
func (s *Store) ownerOf(child kernel.UUID, staged map[kernel.UUID]*order.Order) *order.Order {
	for _, o := range staged {
		if o != nil && slices.Contains(childIDs(o), child) {
			return o
		}
	}
	id, ok := s.owners[child]
	if !ok {
		return nil
	}
	if _, restaged := staged[id]; restaged {
		return nil
	}
	return s.orders[id]
}

// inAddressBook reports whether id is a user address once staged is
// overlaid on the committed ones. The caller holds s.mu.
func (s *Store) inAddressBook(id kernel.UUID, staged map[kernel.UUID]*address.Address) bool {
	if a, ok := staged[id]; ok {
		return a != nil
	}
	_, ok := s.addresses[id]
	return ok
}

// checkChildren fails when a child of o is owned by another order or is an
// address of a user's address book. The caller holds s.mu.
func (s *Store) checkChildren(o *order.Order, staged *changeSet) error {
	for _, child := range childIDs(o) {
		owner := s.ownerOf(child, staged.orders)
		if owner != nil && owner.ID() != o.ID() {
			return fmt.Errorf("%w: %s belongs to order %s", ErrDuplicateID, child, owner.Number())
		}
		if s.inAddressBook(child, staged.addresses) {
			return fmt.Errorf("%w: %s belongs to an address book", ErrDuplicateID, child)
		}
	}
	return nil
}

// snapshot returns a copy of o without pending events, fit for storage.
func snapshot(o *order.Order) *order.Order {
	c := o.Clone()
	c.PullEvents()
	return c
}
