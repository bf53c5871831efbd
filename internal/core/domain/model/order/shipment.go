package order

import (
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type ShipmentStatus string

const (
	ShipmentPending  ShipmentStatus = "pending"
	ShipmentReady    ShipmentStatus = "ready"
	ShipmentShipped  ShipmentStatus = "shipped"
	ShipmentCanceled ShipmentStatus = "canceled"
)

// ShippingRate is the price one shipping method quoted for a shipment.
type ShippingRate struct {
	ID               kernel.UUID
	ShippingMethodID kernel.UUID
	Name             string
	Cost             decimal.Decimal
	Selected         bool
}

// Shipment carries the line items of an order to its ship address.
type Shipment struct {
	id        kernel.UUID
	number    string
	state     ShipmentStatus
	rates     []ShippingRate
	tracking  string
	shippedAt *time.Time
}

// NewShipment builds a pending shipment quoting rates. The cheapest rate is
// selected; ties keep the first quoted.
func NewShipment(id kernel.UUID, rates []ShippingRate) (*Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	s := &Shipment{
		id:     id,
		number: kernel.GenerateNumber("H", 11),
		state:  ShipmentPending,
		rates:  make([]ShippingRate, len(rates)),
	}
	copy(s.rates, rates)

	cheapest := -1
	for i := range s.rates {
		s.rates[i].Selected = false
		if cheapest < 0 || s.rates[i].Cost.LessThan(s.rates[cheapest].Cost) {
			cheapest = i
		}
	}
	if cheapest >= 0 {
		s.rates[cheapest].Selected = true
	}
	return s, nil
}

// RestoreShipment rebuilds a persisted shipment without validation.
func RestoreShipment(id kernel.UUID, number string, state ShipmentStatus, rates []ShippingRate,
	tracking string, shippedAt *time.Time,
) *Shipment {
	return &Shipment{id: id, number: number, state: state, rates: rates, tracking: tracking, shippedAt: shippedAt}
}

func (s *Shipment) ID() kernel.UUID       { return s.id }
func (s *Shipment) Number() string        { return s.number }
func (s *Shipment) State() ShipmentStatus { return s.state }
func (s *Shipment) Tracking() string      { return s.tracking }
func (s *Shipment) ShippedAt() *time.Time { return s.shippedAt }

func (s *Shipment) ShippingRates() []ShippingRate {
	return append([]ShippingRate(nil), s.rates...)
}

// SelectedRate returns the selected rate, if any.
func (s *Shipment) SelectedRate() (ShippingRate, bool) {
	for _, r := range s.rates {
		if r.Selected {
			return r, true
		}
	}
	return ShippingRate{}, false
}

// Cost is the cost of the selected rate, zero when none is selected.
func (s *Shipment) Cost() decimal.Decimal {
	if r, ok := s.SelectedRate(); ok {
		return r.Cost
	}
	return decimal.Zero
}

func (s *Shipment) selectShippingMethod(methodID kernel.UUID) error {
	if s.state != ShipmentPending && s.state != ShipmentReady {
		return fmt.Errorf("%w: shipment is %s", errs.ErrValidation, s.state)
	}
	found := false
	for i := range s.rates {
		if s.rates[i].ShippingMethodID.IsEqual(methodID) {
			found = true
		}
	}
	if !found {
		return errs.NewObjectNotFoundError("shipping_method_id", methodID)
	}
	for i := range s.rates {
		s.rates[i].Selected = s.rates[i].ShippingMethodID.IsEqual(methodID)
	}
	return nil
}

func (s *Shipment) ready() {
	if s.state == ShipmentPending {
		s.state = ShipmentReady
	}
}

func (s *Shipment) ship(tracking string, at time.Time) error {
	if s.state != ShipmentReady {
		return errs.NewStateTransitionError(string(s.state), string(ShipmentShipped), "shipment must be ready")
	}
	s.state = ShipmentShipped
	s.tracking = tracking
	s.shippedAt = &at
	return nil
}

func (s *Shipment) cancel() {
	if s.state != ShipmentShipped {
		s.state = ShipmentCanceled
	}
}

func (s *Shipment) clone() *Shipment {
	c := *s
	c.rates = s.ShippingRates()
	if s.shippedAt != nil {
		at := *s.shippedAt
		c.shippedAt = &at
	}
	return &c
}
