// Package order contains the Order aggregate and the entities it owns:
// line items, adjustments, shipments and payments.
//
// The aggregate is the unit of consistency. Every child is reached through
// the order, every mutation either fully applies or leaves the order as it
// was, and totals are always derived from the children, never accumulated.
//
// Checkout follows a fixed sequence of states:
//
//	cart -> address -> delivery -> payment -> confirm -> complete
//
// and any state other than canceled may move to canceled. Guards and
// effects of each step are evaluated by the order state machine service;
// the aggregate itself only enforces which transitions exist.
package order
