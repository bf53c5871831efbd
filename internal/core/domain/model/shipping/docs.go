// Package shipping holds shipping methods and the calculators that price a
// shipment for them.
package shipping
