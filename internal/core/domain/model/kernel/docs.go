// Package kernel provides the shared primitives of the storefront domain model:
// identifiers, money arithmetic helpers, the domain clock and domain events.
//
// Every aggregate in the model identifies itself with a UUID and every monetary
// amount is a decimal.Decimal rounded to cents at the point it is calculated.
package kernel
