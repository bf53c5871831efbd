package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

type variantSeed struct {
	ID       string          `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Digital  bool            `json:"digital"`
}

// SeedVariants stores every variant of the JSON array read from r and
// returns how many were stored. Variants already stored are replaced.
func SeedVariants(ctx context.Context, h commands.CreateVariantCommandHandler, r io.Reader) (int, error) {
	var seeds []variantSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decode variants: %w", err)
	}

	var errs []error
	stored := 0
	for i, seed := range seeds {
		id, err := kernel.UUIDFromString(seed.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %d: %w", i, err))
			continue
		}
		cmd, err := commands.NewCreateVariantCommand(id, seed.SKU, seed.Name, seed.Price, seed.Currency, seed.Digital)
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %d: %w", i, err))
			continue
		}
		if err := h.Handle(ctx, cmd); err != nil {
			errs = append(errs, fmt.Errorf("variant %d: %w", i, err))
			continue
		}
		stored++
	}
	return stored, errors.Join(errs...)
}

type promotionSeed struct {
	ID         string          `json:"id"`
	CouponCode string          `json:"coupon_code"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Threshold  decimal.Decimal `json:"threshold"`
}

// SeedPromotions registers every coupon promotion of the JSON array read
// from r and returns how many were registered.
func SeedPromotions(sources *services.StaticSources, r io.Reader) (int, error) {
	var seeds []promotionSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decode promotions: %w", err)
	}

	var errs []error
	registered := 0
	for i, seed := range seeds {
		id, err := kernel.UUIDFromString(seed.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("promotion %d: %w", i, err))
			continue
		}
		kind := services.PromotionKind(seed.Kind)
		if kind != services.PromotionFlat && kind != services.PromotionPercent {
			errs = append(errs, fmt.Errorf("promotion %d: unknown kind %q", i, seed.Kind))
			continue
		}
		if seed.CouponCode == "" || !seed.Amount.IsPositive() {
			errs = append(errs, fmt.Errorf("promotion %d: coupon_code and a positive amount are required", i))
			continue
		}
		sources.RegisterCoupon(seed.CouponCode, id, services.Promotion{
			Kind:      kind,
			Amount:    seed.Amount,
			Threshold: seed.Threshold,
		})
		registered++
	}
	return registered, errors.Join(errs...)
}
