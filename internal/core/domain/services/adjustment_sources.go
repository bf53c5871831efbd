package services

import (
	"strings"
	"sync"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Rule re-evaluates an adjustment produced by a tax rate or a promotion.
type Rule interface {
	// Evaluate returns the adjustment amount for base and whether the
	// adjustment currently qualifies.
	Evaluate(base decimal.Decimal, included bool, o *order.Order) (amount decimal.Decimal, eligible bool)
}

// SourceResolver finds the rule behind an adjustment source.
type SourceResolver interface {
	Resolve(source order.Source) (Rule, bool)
}

// CouponResolver finds the promotion a coupon code activates.
type CouponResolver interface {
	ResolveCoupon(code string) (order.Source, bool)
}

// Promotions resolves both adjustment sources and coupon codes.
type Promotions interface {
	SourceResolver
	CouponResolver
}

// TaxRate charges Rate of the base. Included taxes are already part of the
// base, so the included share is base - base/(1+Rate).
type TaxRate struct {
	Rate decimal.Decimal
}

func (r TaxRate) Evaluate(base decimal.Decimal, included bool, _ *order.Order) (decimal.Decimal, bool) {
	if included {
		net := base.Div(decimal.NewFromInt(1).Add(r.Rate))
		return kernel.RoundMoney(base.Sub(net)), true
	}
	return kernel.RoundMoney(base.Mul(r.Rate)), true
}

type PromotionKind string

const (
	PromotionFlat    PromotionKind = "flat"
	PromotionPercent PromotionKind = "percent"
)

// Promotion discounts a flat amount or a percentage of the base, never more
// than the base itself. It is eligible once the order item total reaches
// Threshold.
type Promotion struct {
	Kind      PromotionKind
	Amount    decimal.Decimal
	Threshold decimal.Decimal
}

func (p Promotion) Evaluate(base decimal.Decimal, _ bool, o *order.Order) (decimal.Decimal, bool) {
	discount := p.Amount
	if p.Kind == PromotionPercent {
		discount = base.Mul(p.Amount).Div(decimal.NewFromInt(100))
	}
	discount = decimal.Min(discount.Abs(), base.Abs())
	eligible := !o.Totals().ItemTotal.LessThan(p.Threshold)
	return kernel.RoundMoney(discount).Neg(), eligible
}

// StaticSources is an in-memory Promotions. Coupon codes are matched
// ignoring case and surrounding blanks.
type StaticSources struct {
	mu      sync.RWMutex
	rules   map[order.Source]Rule
	coupons map[string]order.Source
}

func NewStaticSources() *StaticSources {
	return &StaticSources{
		rules:   make(map[order.Source]Rule),
		coupons: make(map[string]order.Source),
	}
}

func (s *StaticSources) Register(source order.Source, rule Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[source] = rule
}

func (s *StaticSources) Resolve(source order.Source) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[source]
	return rule, ok
}

// RegisterCoupon registers promotion under the promotion source id and makes
// code activate it.
func (s *StaticSources) RegisterCoupon(code string, id kernel.UUID, promotion Promotion) order.Source {
	source := order.Source{Kind: order.SourcePromotion, ID: id}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[source] = promotion
	s.coupons[normalizeCoupon(code)] = source
	return source
}

func (s *StaticSources) ResolveCoupon(code string) (order.Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.coupons[normalizeCoupon(code)]
	return source, ok
}

func normalizeCoupon(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
