// Package orderrepo persists order aggregates. An order is stored as one
// row in orders plus one row per child; children are rewritten whole on
// every update.
package orderrepo

import (
	"time"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address roles. Address book entries belong to a user instead of an order.
const (
	roleBill = "bill"
	roleShip = "ship"
	roleBook = "book"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number              string    `gorm:"size:32;uniqueIndex"`
	Email               string    `gorm:"index"`
	Currency            string    `gorm:"size:3"`
	SpecialInstructions string
	UserID              *uuid.UUID `gorm:"type:uuid;index"`
	State               string     `gorm:"size:16;index"`
	PaymentState        string     `gorm:"size:16"`
	ShipmentState       string     `gorm:"size:16"`
	Totals              TotalsDTO  `gorm:"embedded"`
	CompletedAt         *time.Time
	CanceledAt          *time.Time
	CancelerID          *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt          *time.Time
	ApproverID          *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time  `gorm:"index;autoCreateTime:false"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime:false"`

	Addresses   []AddressDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	LineItems   []LineItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Adjustments []AdjustmentDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipments   []ShipmentDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments    []PaymentDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// TotalsDTO holds the derived totals so listings never load children.
type TotalsDTO struct {
	ItemCount                 int
	ItemTotal                 decimal.Decimal `gorm:"type:numeric(14,2)"`
	ShipmentTotal             decimal.Decimal `gorm:"type:numeric(14,2)"`
	PaymentTotal              decimal.Decimal `gorm:"type:numeric(14,2)"`
	AdjustmentTotal           decimal.Decimal `gorm:"type:numeric(14,2)"`
	PromoTotal                decimal.Decimal `gorm:"type:numeric(14,2)"`
	AdditionalTaxTotal        decimal.Decimal `gorm:"type:numeric(14,2)"`
	IncludedTaxTotal          decimal.Decimal `gorm:"type:numeric(14,2)"`
	TaxableAdjustmentTotal    decimal.Decimal `gorm:"type:numeric(14,2)"`
	NonTaxableAdjustmentTotal decimal.Decimal `gorm:"type:numeric(14,2)"`
	Total                     decimal.Decimal `gorm:"type:numeric(14,2)"`
}

// AddressDTO is a bill or ship address, or an address book entry when
// OrderID is nil. The primary key keeps an address with a single owner.
type AddressDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_addresses_order_role"`
	Role             string     `gorm:"size:8;uniqueIndex:idx_addresses_order_role"`
	FirstName        string
	LastName         string
	Address1         string
	Address2         string
	City             string
	Zipcode          string
	Phone            string
	AlternativePhone string
	Company          string
	Label            string
	CountryID        string
	StateID          string
	StateName        string
	UserID           *uuid.UUID `gorm:"type:uuid"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

type LineItemDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Position  int
	VariantID uuid.UUID `gorm:"type:uuid"`
	Quantity  int
	Price     decimal.Decimal `gorm:"type:numeric(14,2)"`
	Currency  string          `gorm:"size:3"`
}

func (LineItemDTO) TableName() string {
	return "line_items"
}

type AdjustmentDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Position       int
	AdjustableType string     `gorm:"size:16"`
	AdjustableID   uuid.UUID  `gorm:"type:uuid"`
	SourceType     string     `gorm:"size:16"`
	SourceID       *uuid.UUID `gorm:"type:uuid"`
	Label          string
	Amount         decimal.Decimal `gorm:"type:numeric(14,2)"`
	Eligible       bool
	Mandatory      bool
	Included       bool
	State          string `gorm:"size:8"`
}

func (AdjustmentDTO) TableName() string {
	return "adjustments"
}

type ShipmentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Position  int
	Number    string `gorm:"size:32;uniqueIndex"`
	State     string `gorm:"size:16"`
	Tracking  string
	ShippedAt *time.Time

	Rates []ShippingRateDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type ShippingRateDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID       uuid.UUID `gorm:"type:uuid;index"`
	Position         int
	ShippingMethodID uuid.UUID `gorm:"type:uuid"`
	Name             string
	Cost             decimal.Decimal `gorm:"type:numeric(14,2)"`
	Selected         bool
}

func (ShippingRateDTO) TableName() string {
	return "shipping_rates"
}

type PaymentDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;index"`
	Position        int
	Number          string          `gorm:"size:32;uniqueIndex"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2)"`
	Refunded        decimal.Decimal `gorm:"type:numeric(14,2)"`
	State           string          `gorm:"size:16"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

// fromDomain converts an order aggregate with every child to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	t := o.Totals()
	dto := OrderDTO{
		ID:                  o.ID().Bytes(),
		Number:              o.Number(),
		Email:               o.Email(),
		Currency:            o.Currency(),
		SpecialInstructions: o.SpecialInstructions(),
		UserID:              rawID(o.UserID()),
		State:               o.State().String(),
		PaymentState:        string(o.PaymentState()),
		ShipmentState:       string(o.ShipmentState()),
		Totals: TotalsDTO{
			ItemCount:                 t.ItemCount,
			ItemTotal:                 t.ItemTotal,
			ShipmentTotal:             t.ShipmentTotal,
			PaymentTotal:              t.PaymentTotal,
			AdjustmentTotal:           t.AdjustmentTotal,
			PromoTotal:                t.PromoTotal,
			AdditionalTaxTotal:        t.AdditionalTaxTotal,
			IncludedTaxTotal:          t.IncludedTaxTotal,
			TaxableAdjustmentTotal:    t.TaxableAdjustmentTotal,
			NonTaxableAdjustmentTotal: t.NonTaxableAdjustmentTotal,
			Total:                     t.Total,
		},
		CompletedAt: o.CompletedAt(),
		CanceledAt:  o.CanceledAt(),
		CancelerID:  rawID(o.CancelerID()),
		ApprovedAt:  o.ApprovedAt(),
		ApproverID:  rawID(o.ApproverID()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}

	if a := o.BillAddress(); a != nil {
		dto.Addresses = append(dto.Addresses, addressFromDomain(&dto.ID, roleBill, a))
	}
	if a := o.ShipAddress(); a != nil {
		dto.Addresses = append(dto.Addresses, addressFromDomain(&dto.ID, roleShip, a))
	}

	for i, li := range o.LineItems() {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:        li.ID().Bytes(),
			OrderID:   dto.ID,
			Position:  i,
			VariantID: li.VariantID().Bytes(),
			Quantity:  li.Quantity(),
			Price:     li.Price(),
			Currency:  li.Currency(),
		})
	}

	for i, adj := range o.Adjustments() {
		var sourceID *uuid.UUID
		if !adj.Source().IsManual() {
			raw := adj.Source().ID.Bytes()
			sourceID = &raw
		}
		dto.Adjustments = append(dto.Adjustments, AdjustmentDTO{
			ID:             adj.ID().Bytes(),
			OrderID:        dto.ID,
			Position:       i,
			AdjustableType: string(adj.Adjustable().Kind),
			AdjustableID:   adj.Adjustable().ID.Bytes(),
			SourceType:     string(adj.Source().Kind),
			SourceID:       sourceID,
			Label:          adj.Label(),
			Amount:         adj.Amount(),
			Eligible:       adj.Eligible(),
			Mandatory:      adj.Mandatory(),
			Included:       adj.Included(),
			State:          string(adj.State()),
		})
	}

	for i, s := range o.Shipments() {
		shipment := ShipmentDTO{
			ID:        s.ID().Bytes(),
			OrderID:   dto.ID,
			Position:  i,
			Number:    s.Number(),
			State:     string(s.State()),
			Tracking:  s.Tracking(),
			ShippedAt: s.ShippedAt(),
		}
		for j, rate := range s.ShippingRates() {
			shipment.Rates = append(shipment.Rates, ShippingRateDTO{
				ID:               rate.ID.Bytes(),
				ShipmentID:       shipment.ID,
				Position:         j,
				ShippingMethodID: rate.ShippingMethodID.Bytes(),
				Name:             rate.Name,
				Cost:             rate.Cost,
				Selected:         rate.Selected,
			})
		}
		dto.Shipments = append(dto.Shipments, shipment)
	}

	for i, p := range o.Payments() {
		dto.Payments = append(dto.Payments, PaymentDTO{
			ID:              p.ID().Bytes(),
			OrderID:         dto.ID,
			Position:        i,
			Number:          p.Number(),
			PaymentMethodID: p.PaymentMethodID().Bytes(),
			Amount:          p.Amount(),
			Refunded:        p.Refunded(),
			State:           string(p.State()),
		})
	}

	return dto
}

// AddressBookDTO returns the row of an address kept in a user's address book.
func AddressBookDTO(a *address.Address) AddressDTO {
	return addressFromDomain(nil, roleBook, a)
}

// AddressBookRole is the role column value of address book rows.
func AddressBookRole() string {
	return roleBook
}

func addressFromDomain(orderID *uuid.UUID, role string, a *address.Address) AddressDTO {
	attrs := a.Attributes()
	return AddressDTO{
		ID:               a.ID().Bytes(),
		OrderID:          orderID,
		Role:             role,
		FirstName:        attrs.FirstName,
		LastName:         attrs.LastName,
		Address1:         attrs.Address1,
		Address2:         attrs.Address2,
		City:             attrs.City,
		Zipcode:          attrs.Zipcode,
		Phone:            attrs.Phone,
		AlternativePhone: attrs.AlternativePhone,
		Company:          attrs.Company,
		Label:            attrs.Label,
		CountryID:        attrs.CountryID,
		StateID:          attrs.StateID,
		StateName:        attrs.StateName,
		UserID:           rawID(attrs.UserID),
	}
}

// toDomain rebuilds an order aggregate from its row and child rows. Children
// are expected in position order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	var d idDecoder

	state, err := order.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:                  d.id(dto.ID),
		Number:              dto.Number,
		Email:               dto.Email,
		Currency:            dto.Currency,
		SpecialInstructions: dto.SpecialInstructions,
		UserID:              d.optional(dto.UserID),
		State:               state,
		PaymentState:        order.PaymentState(dto.PaymentState),
		ShipmentState:       order.ShipmentState(dto.ShipmentState),
		Totals: order.Totals{
			AdjustmentTotals: order.AdjustmentTotals{
				AdjustmentTotal:           dto.Totals.AdjustmentTotal,
				PromoTotal:                dto.Totals.PromoTotal,
				AdditionalTaxTotal:        dto.Totals.AdditionalTaxTotal,
				IncludedTaxTotal:          dto.Totals.IncludedTaxTotal,
				TaxableAdjustmentTotal:    dto.Totals.TaxableAdjustmentTotal,
				NonTaxableAdjustmentTotal: dto.Totals.NonTaxableAdjustmentTotal,
			},
			ItemCount:     dto.Totals.ItemCount,
			ItemTotal:     dto.Totals.ItemTotal,
			ShipmentTotal: dto.Totals.ShipmentTotal,
			PaymentTotal:  dto.Totals.PaymentTotal,
			Total:         dto.Totals.Total,
		},
		CompletedAt: utc(dto.CompletedAt),
		CanceledAt:  utc(dto.CanceledAt),
		CancelerID:  d.optional(dto.CancelerID),
		ApprovedAt:  utc(dto.ApprovedAt),
		ApproverID:  d.optional(dto.ApproverID),
		CreatedAt:   dto.CreatedAt.UTC(),
		UpdatedAt:   dto.UpdatedAt.UTC(),
	}

	for _, a := range dto.Addresses {
		restored, addrErr := a.ToDomain()
		if addrErr != nil {
			return nil, addrErr
		}
		switch a.Role {
		case roleBill:
			s.BillAddress = restored
		case roleShip:
			s.ShipAddress = restored
		}
	}

	for _, li := range dto.LineItems {
		s.LineItems = append(s.LineItems,
			order.RestoreLineItem(d.id(li.ID), d.id(li.VariantID), li.Quantity, li.Price, li.Currency))
	}

	for _, adj := range dto.Adjustments {
		source := order.Source{Kind: order.SourceKind(adj.SourceType)}
		if adj.SourceID != nil {
			source.ID = d.id(*adj.SourceID)
		}
		s.Adjustments = append(s.Adjustments, order.RestoreAdjustment(d.id(adj.ID), order.AdjustmentAttributes{
			Adjustable: order.Adjustable{Kind: order.AdjustableKind(adj.AdjustableType), ID: d.id(adj.AdjustableID)},
			Source:     source,
			Label:      adj.Label,
			Amount:     adj.Amount,
			Eligible:   adj.Eligible,
			Mandatory:  adj.Mandatory,
			Included:   adj.Included,
		}, order.AdjustmentState(adj.State)))
	}

	for _, sh := range dto.Shipments {
		rates := make([]order.ShippingRate, 0, len(sh.Rates))
		for _, r := range sh.Rates {
			rates = append(rates, order.ShippingRate{
				ID:               d.id(r.ID),
				ShippingMethodID: d.id(r.ShippingMethodID),
				Name:             r.Name,
				Cost:             r.Cost,
				Selected:         r.Selected,
			})
		}
		s.Shipments = append(s.Shipments, order.RestoreShipment(d.id(sh.ID), sh.Number,
			order.ShipmentStatus(sh.State), rates, sh.Tracking, utc(sh.ShippedAt)))
	}

	for _, p := range dto.Payments {
		s.Payments = append(s.Payments, order.RestorePayment(d.id(p.ID), p.Number, d.id(p.PaymentMethodID),
			p.Amount, p.Refunded, order.PaymentStatus(p.State)))
	}

	if d.err != nil {
		return nil, d.err
	}
	return order.RestoreOrder(s), nil
}

// idDecoder converts stored ids, keeping the first failure.
type idDecoder struct {
	err error
}

func (d *idDecoder) id(raw uuid.UUID) kernel.UUID {
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil && d.err == nil {
		d.err = err
	}
	return id
}

func (d *idDecoder) optional(raw *uuid.UUID) *kernel.UUID {
	if raw == nil {
		return nil
	}
	id := d.id(*raw)
	return &id
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// ToDomain rebuilds the address stored in the row.
func (a AddressDTO) ToDomain() (*address.Address, error) {
	var d idDecoder
	attrs := address.Attributes{
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		Address1:         a.Address1,
		Address2:         a.Address2,
		City:             a.City,
		Zipcode:          a.Zipcode,
		Phone:            a.Phone,
		AlternativePhone: a.AlternativePhone,
		Company:          a.Company,
		Label:            a.Label,
		CountryID:        a.CountryID,
		StateID:          a.StateID,
		StateName:        a.StateName,
		UserID:           d.optional(a.UserID),
	}
	id := d.id(a.ID)
	if d.err != nil {
		return nil, d.err
	}
	return address.NewAddress(id, attrs)
}
