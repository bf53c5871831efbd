package services_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCart(t *testing.T, prices ...string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	for _, price := range prices {
		li, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), 1, money(price), "USD")
		require.NoError(t, err)
		_, err = o.AddLineItem(li)
		require.NoError(t, err)
	}
	return o
}

func addAdjustment(t *testing.T, o *order.Order, attrs order.AdjustmentAttributes) *order.Adjustment {
	t.Helper()
	if attrs.Adjustable.Kind == "" {
		attrs.Adjustable = order.Adjustable{Kind: order.AdjustableOrder, ID: o.ID()}
	}
	if attrs.Label == "" {
		attrs.Label = "adjustment"
	}
	adj, err := order.NewAdjustment(kernel.NewUUID(), attrs)
	require.NoError(t, err)
	require.NoError(t, o.AddAdjustment(adj))
	return adj
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, actual.Equal(money(expected)), "%s: expected %s, got %s", field, expected, actual)
}

func TestAdjustmentEngine_Recompute(t *testing.T) {
	engine := services.NewAdjustmentEngine(nil)

	t.Run("should subtract an open discount from the total", func(t *testing.T) {
		o := newCart(t, "50.00", "30.00")
		addAdjustment(t, o, order.AdjustmentAttributes{Amount: money("-10"), Eligible: true})

		require.NoError(t, engine.Recompute(o))

		totals := o.Totals()
		assertMoney(t, "80", totals.ItemTotal, "item_total")
		assertMoney(t, "-10", totals.AdjustmentTotal, "adjustment_total")
		assertMoney(t, "70", totals.Total, "total")
	})

	t.Run("should be idempotent", func(t *testing.T) {
		o := newCart(t, "50.00", "30.00")
		addAdjustment(t, o, order.AdjustmentAttributes{Amount: money("-10"), Eligible: true})

		require.NoError(t, engine.Recompute(o))
		first := o.Totals()
		require.NoError(t, engine.Recompute(o))
		require.NoError(t, engine.Recompute(o))

		assert.Equal(t, first, o.Totals())
	})

	t.Run("should not count included tax into total", func(t *testing.T) {
		o := newCart(t, "110.00")
		addAdjustment(t, o, order.AdjustmentAttributes{
			Source: order.Source{Kind: order.SourceTaxRate, ID: kernel.NewUUID()},
			Amount: money("10"), Eligible: true, Included: true,
		})

		require.NoError(t, engine.Recompute(o))

		totals := o.Totals()
		assertMoney(t, "10", totals.IncludedTaxTotal, "included_tax_total")
		assertMoney(t, "0", totals.AdjustmentTotal, "adjustment_total")
		assertMoney(t, "110", totals.Total, "total")
	})

	t.Run("should split totals by source", func(t *testing.T) {
		o := newCart(t, "100.00")
		addAdjustment(t, o, order.AdjustmentAttributes{
			Source: order.Source{Kind: order.SourceTaxRate, ID: kernel.NewUUID()},
			Amount: money("8"), Eligible: true,
		})
		addAdjustment(t, o, order.AdjustmentAttributes{
			Source: order.Source{Kind: order.SourcePromotion, ID: kernel.NewUUID()},
			Amount: money("-15"), Eligible: true,
		})
		addAdjustment(t, o, order.AdjustmentAttributes{Amount: money("2.5"), Eligible: true})

		require.NoError(t, engine.Recompute(o))

		totals := o.Totals()
		assertMoney(t, "-4.5", totals.AdjustmentTotal, "adjustment_total")
		assertMoney(t, "8", totals.AdditionalTaxTotal, "additional_tax_total")
		assertMoney(t, "-15", totals.PromoTotal, "promo_total")
		assertMoney(t, "-12.5", totals.TaxableAdjustmentTotal, "taxable_adjustment_total")
		assertMoney(t, "8", totals.NonTaxableAdjustmentTotal, "non_taxable_adjustment_total")
		assertMoney(t, "95.5", totals.Total, "total")
	})

	t.Run("should ignore ineligible and closed adjustments", func(t *testing.T) {
		o := newCart(t, "40.00")
		addAdjustment(t, o, order.AdjustmentAttributes{Amount: money("-5"), Eligible: false})
		closed := addAdjustment(t, o, order.AdjustmentAttributes{Amount: money("-7"), Eligible: true})
		require.NoError(t, o.CloseAdjustment(closed.ID()))

		require.NoError(t, engine.Recompute(o))

		assertMoney(t, "0", o.Totals().AdjustmentTotal, "adjustment_total")
		assertMoney(t, "40", o.Totals().Total, "total")
		assert.Len(t, o.Adjustments(), 2, "ineligible and closed adjustments stay visible")
	})
}

func TestAdjustmentEngine_Sources(t *testing.T) {
	taxID := order.Source{Kind: order.SourceTaxRate, ID: kernel.NewUUID()}
	promoID := order.Source{Kind: order.SourcePromotion, ID: kernel.NewUUID()}
	sources := services.NewStaticSources()
	sources.Register(taxID, services.TaxRate{Rate: money("0.1")})
	sources.Register(promoID, services.Promotion{Kind: services.PromotionPercent, Amount: money("10"), Threshold: money("50")})
	engine := services.NewAdjustmentEngine(sources)

	t.Run("should re-evaluate amounts from the source", func(t *testing.T) {
		o := newCart(t, "60.00")
		li := o.LineItems()[0]
		addAdjustment(t, o, order.AdjustmentAttributes{
			Adjustable: order.Adjustable{Kind: order.AdjustableLineItem, ID: li.ID()},
			Source:     taxID, Amount: money("0"), Eligible: true,
		})
		addAdjustment(t, o, order.AdjustmentAttributes{Source: promoID, Amount: money("0")})

		require.NoError(t, engine.Recompute(o))

		totals := o.Totals()
		assertMoney(t, "6", totals.AdditionalTaxTotal, "additional_tax_total")
		assertMoney(t, "-6", totals.PromoTotal, "promo_total")
		assertMoney(t, "60", totals.Total, "total")
	})

	t.Run("should mark promotion ineligible below threshold", func(t *testing.T) {
		o := newCart(t, "20.00")
		promo := addAdjustment(t, o, order.AdjustmentAttributes{Source: promoID, Amount: money("-2"), Eligible: true})

		require.NoError(t, engine.Recompute(o))

		stored, _ := o.Adjustment(promo.ID())
		assert.False(t, stored.Eligible())
		assertMoney(t, "20", o.Totals().Total, "total")
	})

	t.Run("should compute included tax share", func(t *testing.T) {
		amount, eligible := services.TaxRate{Rate: money("0.1")}.Evaluate(money("110"), true, nil)
		assert.True(t, eligible)
		assertMoney(t, "10", amount, "included")
	})

	t.Run("should cap flat promotion at the base", func(t *testing.T) {
		o := newCart(t, "5.00")
		amount, eligible := services.Promotion{Kind: services.PromotionFlat, Amount: money("8")}.Evaluate(money("5"), false, o)
		assert.True(t, eligible)
		assertMoney(t, "-5", amount, "flat")
	})
}

func TestStaticSources_Coupons(t *testing.T) {
	sources := services.NewStaticSources()
	promoID := kernel.NewUUID()
	promotion := services.Promotion{Kind: services.PromotionFlat, Amount: money("5")}
	source := sources.RegisterCoupon("Spring10", promoID, promotion)

	got, ok := sources.ResolveCoupon("  spring10 ")
	require.True(t, ok)
	assert.Equal(t, order.Source{Kind: order.SourcePromotion, ID: promoID}, got)
	assert.Equal(t, source, got)

	rule, ok := sources.Resolve(source)
	require.True(t, ok)
	assert.Equal(t, promotion, rule)

	_, ok = sources.ResolveCoupon("autumn")
	assert.False(t, ok)
}
