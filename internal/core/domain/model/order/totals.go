package order

import "github.com/shopspring/decimal"

// AdjustmentTotals is the part of Totals produced by the adjustment engine.
type AdjustmentTotals struct {
	AdjustmentTotal           decimal.Decimal
	PromoTotal                decimal.Decimal
	AdditionalTaxTotal        decimal.Decimal
	IncludedTaxTotal          decimal.Decimal
	TaxableAdjustmentTotal    decimal.Decimal
	NonTaxableAdjustmentTotal decimal.Decimal
}

// Totals are derived from the children of an order and always satisfy
// Total = ItemTotal + ShipmentTotal + AdjustmentTotal.
// IncludedTaxTotal is informational; it is already part of item prices.
type Totals struct {
	AdjustmentTotals

	ItemCount     int
	ItemTotal     decimal.Decimal
	ShipmentTotal decimal.Decimal
	PaymentTotal  decimal.Decimal
	Total         decimal.Decimal
}

// OutstandingBalance is what is still to be paid; negative when credit is owed.
func (t Totals) OutstandingBalance() decimal.Decimal {
	return t.Total.Sub(t.PaymentTotal)
}
