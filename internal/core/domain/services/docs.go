// Package services contains domain services that coordinate the order
// aggregate with rules that live outside of it.
//
// AdjustmentEngine re-evaluates tax and promotion adjustments and derives
// the adjustment totals of an order. OrderStateMachine evaluates the guard
// and effect of each checkout transition and applies both atomically.
//
// Services are stateless value types; collaborators (payment gateway,
// catalog, adjustment sources) are passed in as interfaces.
package services
