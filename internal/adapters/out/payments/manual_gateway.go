// Package payments settles order payments. The manual gateway models
// offline payment methods (check, cash on delivery, bank transfer) whose
// money is collected outside the store: settling only records the operation.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

type Operation string

const (
	OperationCapture Operation = "capture"
	OperationVoid    Operation = "void"
	OperationRefund  Operation = "refund"
)

// Settlement is one operation recorded by the gateway.
type Settlement struct {
	Operation     Operation
	OrderNumber   string
	PaymentNumber string
	Amount        decimal.Decimal
	At            time.Time
}

var _ services.PaymentGateway = &ManualGateway{}

type ManualGateway struct {
	mu          sync.Mutex
	settlements []Settlement
	declined    map[kernel.UUID]struct{}
	logger      *slog.Logger
}

func NewManualGateway(logger *slog.Logger) *ManualGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManualGateway{
		declined: make(map[kernel.UUID]struct{}),
		logger:   logger.With("component", "manual_gateway"),
	}
}

// Decline makes captures through the payment method fail, as a store
// does when a check bounces.
func (g *ManualGateway) Decline(methodID kernel.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declined[methodID] = struct{}{}
}

func (g *ManualGateway) Capture(ctx context.Context, o *order.Order, p *order.Payment) error {
	g.mu.Lock()
	_, declined := g.declined[p.PaymentMethodID()]
	g.mu.Unlock()
	if declined {
		return fmt.Errorf("%w: payment method %s declined payment %s", services.ErrPaymentDeclined, p.PaymentMethodID(), p.Number())
	}
	g.record(ctx, OperationCapture, o, p, p.Amount())
	return nil
}

func (g *ManualGateway) Void(ctx context.Context, o *order.Order, p *order.Payment) error {
	g.record(ctx, OperationVoid, o, p, p.Amount())
	return nil
}

func (g *ManualGateway) Refund(ctx context.Context, o *order.Order, p *order.Payment) error {
	amount := p.Captured()
	if amount.IsZero() {
		amount = p.Amount()
	}
	g.record(ctx, OperationRefund, o, p, amount)
	return nil
}

// Settlements returns the recorded operations, oldest first.
func (g *ManualGateway) Settlements() []Settlement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Settlement(nil), g.settlements...)
}

func (g *ManualGateway) record(ctx context.Context, op Operation, o *order.Order, p *order.Payment, amount decimal.Decimal) {
	s := Settlement{
		Operation:     op,
		OrderNumber:   o.Number(),
		PaymentNumber: p.Number(),
		Amount:        amount,
		At:            kernel.Now(),
	}

	g.mu.Lock()
	g.settlements = append(g.settlements, s)
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "payment settled",
		"operation", string(op),
		"order", s.OrderNumber,
		"payment", s.PaymentNumber,
		"amount", amount.StringFixed(2),
	)
}
