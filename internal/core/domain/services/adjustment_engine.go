package services

import (
	"storefront/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// AdjustmentEngine recomputes the adjustment totals of an order.
//
// Recompute runs in two passes over open adjustments:
//   - non-included eligible adjustments add to adjustment_total and are
//     split into promo_total, additional_tax_total, taxable and non-taxable
//     adjustment totals
//   - included eligible adjustments only produce included_tax_total, since
//     their amount is already part of the item price
//
// Closed adjustments are frozen: they are neither re-evaluated nor counted.
// Totals are assigned from scratch on every run, so running Recompute twice
// on an unchanged order yields identical totals.
type AdjustmentEngine struct {
	sources SourceResolver
}

// NewAdjustmentEngine creates an engine. A nil resolver keeps stored amounts.
func NewAdjustmentEngine(sources SourceResolver) AdjustmentEngine {
	return AdjustmentEngine{sources: sources}
}

func (e AdjustmentEngine) Recompute(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if err := e.evaluate(o); err != nil {
		return err
	}

	totals := order.AdjustmentTotals{
		AdjustmentTotal:           decimal.Zero,
		PromoTotal:                decimal.Zero,
		AdditionalTaxTotal:        decimal.Zero,
		IncludedTaxTotal:          decimal.Zero,
		TaxableAdjustmentTotal:    decimal.Zero,
		NonTaxableAdjustmentTotal: decimal.Zero,
	}

	for _, adj := range counted(o, false) {
		totals.AdjustmentTotal = totals.AdjustmentTotal.Add(adj.Amount())
		switch {
		case adj.IsTax():
			totals.AdditionalTaxTotal = totals.AdditionalTaxTotal.Add(adj.Amount())
			totals.NonTaxableAdjustmentTotal = totals.NonTaxableAdjustmentTotal.Add(adj.Amount())
		case adj.IsPromotion():
			totals.PromoTotal = totals.PromoTotal.Add(adj.Amount())
			totals.TaxableAdjustmentTotal = totals.TaxableAdjustmentTotal.Add(adj.Amount())
		default:
			totals.TaxableAdjustmentTotal = totals.TaxableAdjustmentTotal.Add(adj.Amount())
		}
	}

	for _, adj := range counted(o, true) {
		totals.IncludedTaxTotal = totals.IncludedTaxTotal.Add(adj.Amount())
	}

	o.AssignAdjustmentTotals(totals)
	return nil
}

func (e AdjustmentEngine) evaluate(o *order.Order) error {
	if e.sources == nil {
		return nil
	}
	for _, adj := range o.Adjustments() {
		if !adj.IsOpen() || adj.Source().IsManual() {
			continue
		}
		rule, ok := e.sources.Resolve(adj.Source())
		if !ok {
			continue
		}
		amount, eligible := rule.Evaluate(baseOf(o, adj.Adjustable()), adj.Included(), o)
		if err := o.EvaluateAdjustment(adj.ID(), amount, eligible); err != nil {
			return err
		}
	}
	return nil
}

func counted(o *order.Order, included bool) []*order.Adjustment {
	var out []*order.Adjustment
	for _, adj := range o.Adjustments() {
		if adj.IsOpen() && adj.Eligible() && adj.Included() == included {
			out = append(out, adj)
		}
	}
	return out
}

// baseOf is the amount an adjustment on target is computed from.
func baseOf(o *order.Order, target order.Adjustable) decimal.Decimal {
	switch target.Kind {
	case order.AdjustableLineItem:
		if li, ok := o.LineItem(target.ID); ok {
			return li.Amount()
		}
	case order.AdjustableShipment:
		if s, ok := o.Shipment(target.ID); ok {
			return s.Cost()
		}
	case order.AdjustableOrder:
		return o.Totals().ItemTotal
	}
	return decimal.Zero
}
