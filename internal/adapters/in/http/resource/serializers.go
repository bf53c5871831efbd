package resource

import (
	"time"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"

	"github.com/shopspring/decimal"
)

// Resource types.
const (
	TypeOrder             = "order"
	TypeLineItem          = "line_item"
	TypeAdjustment        = "adjustment"
	TypeAddress           = "address"
	TypeShipment          = "shipment"
	TypePayment           = "payment"
	TypeShippingMethod    = "shipping_method"
	TypeWebhookSubscriber = "webhook_subscriber"
)

func Order(o *order.Order) Resource {
	totals := o.Totals()
	return Resource{
		ID:   o.ID().String(),
		Type: TypeOrder,
		Attributes: map[string]any{
			"number":                       o.Number(),
			"email":                        o.Email(),
			"special_instructions":         o.SpecialInstructions(),
			"currency":                     o.Currency(),
			"state":                        o.State().String(),
			"payment_state":                nullable(string(o.PaymentState())),
			"shipment_state":               nullable(string(o.ShipmentState())),
			"item_count":                   totals.ItemCount,
			"item_total":                   money(totals.ItemTotal),
			"shipment_total":               money(totals.ShipmentTotal),
			"adjustment_total":             money(totals.AdjustmentTotal),
			"promo_total":                  money(totals.PromoTotal),
			"additional_tax_total":         money(totals.AdditionalTaxTotal),
			"included_tax_total":           money(totals.IncludedTaxTotal),
			"taxable_adjustment_total":     money(totals.TaxableAdjustmentTotal),
			"non_taxable_adjustment_total": money(totals.NonTaxableAdjustmentTotal),
			"payment_total":                money(totals.PaymentTotal),
			"total":                        money(totals.Total),
			"outstanding_balance":          money(totals.OutstandingBalance()),
			"user_id":                      uuidPtr(o.UserID()),
			"approver_id":                  uuidPtr(o.ApproverID()),
			"canceler_id":                  uuidPtr(o.CancelerID()),
			"completed_at":                 timePtr(o.CompletedAt()),
			"approved_at":                  timePtr(o.ApprovedAt()),
			"canceled_at":                  timePtr(o.CanceledAt()),
			"created_at":                   o.CreatedAt(),
			"updated_at":                   o.UpdatedAt(),
		},
		Relationships: map[string]Relationship{
			"line_items":   ToMany(identifiers(TypeLineItem, o.LineItems(), (*order.LineItem).ID)),
			"adjustments":  ToMany(identifiers(TypeAdjustment, o.Adjustments(), (*order.Adjustment).ID)),
			"shipments":    ToMany(identifiers(TypeShipment, o.Shipments(), (*order.Shipment).ID)),
			"payments":     ToMany(identifiers(TypePayment, o.Payments(), (*order.Payment).ID)),
			"bill_address": ToOne(TypeAddress, addressID(o.BillAddress())),
			"ship_address": ToOne(TypeAddress, addressID(o.ShipAddress())),
		},
	}
}

// Orders encodes a page of orders.
func Orders(orders []*order.Order) []Resource {
	out := make([]Resource, 0, len(orders))
	for _, o := range orders {
		out = append(out, Order(o))
	}
	return out
}

func LineItem(orderID kernel.UUID, li *order.LineItem) Resource {
	return Resource{
		ID:   li.ID().String(),
		Type: TypeLineItem,
		Attributes: map[string]any{
			"variant_id": li.VariantID().String(),
			"quantity":   li.Quantity(),
			"price":      money(li.Price()),
			"currency":   li.Currency(),
			"amount":     money(li.Amount()),
		},
		Relationships: map[string]Relationship{
			"order": ToOne(TypeOrder, orderID.String()),
		},
	}
}

func Adjustment(orderID kernel.UUID, a *order.Adjustment) Resource {
	source := a.Source()
	var sourceID any
	if !source.IsManual() {
		sourceID = source.ID.String()
	}
	return Resource{
		ID:   a.ID().String(),
		Type: TypeAdjustment,
		Attributes: map[string]any{
			"label":           a.Label(),
			"amount":          money(a.Amount()),
			"eligible":        a.Eligible(),
			"mandatory":       a.Mandatory(),
			"included":        a.Included(),
			"state":           string(a.State()),
			"adjustable_type": string(a.Adjustable().Kind),
			"adjustable_id":   a.Adjustable().ID.String(),
			"source_type":     nullable(string(source.Kind)),
			"source_id":       sourceID,
		},
		Relationships: map[string]Relationship{
			"order": ToOne(TypeOrder, orderID.String()),
		},
	}
}

func Address(a *address.Address) Resource {
	attrs := a.Attributes()
	return Resource{
		ID:   a.ID().String(),
		Type: TypeAddress,
		Attributes: map[string]any{
			"firstname":         attrs.FirstName,
			"lastname":          attrs.LastName,
			"full_name":         attrs.FullName(),
			"address1":          attrs.Address1,
			"address2":          attrs.Address2,
			"city":              attrs.City,
			"zipcode":           attrs.Zipcode,
			"phone":             attrs.Phone,
			"alternative_phone": attrs.AlternativePhone,
			"company":           attrs.Company,
			"label":             attrs.Label,
			"country_id":        attrs.CountryID,
			"state_id":          nullable(attrs.StateID),
			"state_name":        nullable(attrs.StateName),
			"user_id":           uuidPtr(attrs.UserID),
		},
	}
}

func Addresses(addresses []*address.Address) []Resource {
	out := make([]Resource, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, Address(a))
	}
	return out
}

func Shipment(orderID kernel.UUID, s *order.Shipment) Resource {
	rates := s.ShippingRates()
	encoded := make([]map[string]any, 0, len(rates))
	var selected any
	for _, r := range rates {
		encoded = append(encoded, map[string]any{
			"id":                 r.ID.String(),
			"shipping_method_id": r.ShippingMethodID.String(),
			"name":               r.Name,
			"cost":               money(r.Cost),
			"selected":           r.Selected,
		})
		if r.Selected {
			selected = r.ID.String()
		}
	}
	return Resource{
		ID:   s.ID().String(),
		Type: TypeShipment,
		Attributes: map[string]any{
			"number":                    s.Number(),
			"state":                     string(s.State()),
			"tracking":                  nullable(s.Tracking()),
			"shipped_at":                timePtr(s.ShippedAt()),
			"cost":                      money(s.Cost()),
			"shipping_rates":            encoded,
			"selected_shipping_rate_id": selected,
		},
		Relationships: map[string]Relationship{
			"order": ToOne(TypeOrder, orderID.String()),
		},
	}
}

func Payment(orderID kernel.UUID, p *order.Payment) Resource {
	return Resource{
		ID:   p.ID().String(),
		Type: TypePayment,
		Attributes: map[string]any{
			"number":            p.Number(),
			"amount":            money(p.Amount()),
			"refunded":          money(p.Refunded()),
			"captured":          money(p.Captured()),
			"state":             string(p.State()),
			"payment_method_id": p.PaymentMethodID().String(),
		},
		Relationships: map[string]Relationship{
			"order": ToOne(TypeOrder, orderID.String()),
		},
	}
}

func ShippingMethod(m *shipping.ShippingMethod) Resource {
	attrs := m.Attributes()
	calc := m.Calculator()
	return Resource{
		ID:   m.ID().String(),
		Type: TypeShippingMethod,
		Attributes: map[string]any{
			"name":         attrs.Name,
			"code":         nullable(attrs.Code),
			"admin_name":   nullable(attrs.AdminName),
			"tracking_url": nullable(attrs.TrackingURL),
			"display_on":   string(attrs.DisplayOn),
			"calculator": map[string]any{
				"type":        string(calc.Type()),
				"preferences": calc.Preferences(),
			},
		},
	}
}

func ShippingMethods(methods []*shipping.ShippingMethod) []Resource {
	out := make([]Resource, 0, len(methods))
	for _, m := range methods {
		out = append(out, ShippingMethod(m))
	}
	return out
}

func WebhookSubscriber(s *webhook.Subscriber) Resource {
	return Resource{
		ID:   s.ID().String(),
		Type: TypeWebhookSubscriber,
		Attributes: map[string]any{
			"url":           s.URL(),
			"active":        s.Active(),
			"subscriptions": s.Subscriptions(),
			"secret_key":    s.SecretKey(),
			"created_at":    s.CreatedAt(),
			"updated_at":    s.UpdatedAt(),
		},
	}
}

func WebhookSubscribers(subscribers []*webhook.Subscriber) []Resource {
	out := make([]Resource, 0, len(subscribers))
	for _, s := range subscribers {
		out = append(out, WebhookSubscriber(s))
	}
	return out
}

// money renders amounts with two decimals, as strings to keep precision.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func uuidPtr(id *kernel.UUID) any {
	if id == nil || id.IsZero() {
		return nil
	}
	return id.String()
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func addressID(a *address.Address) string {
	if a == nil {
		return ""
	}
	return a.ID().String()
}

func identifiers[T any](typ string, items []T, id func(T) kernel.UUID) []Identifier {
	out := make([]Identifier, 0, len(items))
	for _, item := range items {
		out = append(out, Identifier{ID: id(item).String(), Type: typ})
	}
	return out
}
