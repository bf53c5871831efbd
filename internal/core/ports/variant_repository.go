package ports

import (
	"context"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
)

// VariantRepository reads purchasable variants. Variants are seeded; Add
// exists for seeding and tests and replaces a variant with the same id.
type VariantRepository interface {
	Add(ctx context.Context, variant *catalog.Variant) error
	Get(ctx context.Context, id kernel.UUID) (*catalog.Variant, error)
}
