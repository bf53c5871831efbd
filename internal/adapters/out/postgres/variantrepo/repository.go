// Package variantrepo persists the purchasable variants orders are priced from.
package variantrepo

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU      string    `gorm:"uniqueIndex"`
	Name     string
	Price    decimal.Decimal `gorm:"type:numeric(14,2)"`
	Currency string          `gorm:"size:3"`
	Digital  bool
}

func (VariantDTO) TableName() string {
	return "variants"
}

// GormVariantRepository implements ports.VariantRepository using GORM.
type GormVariantRepository struct {
	db *gorm.DB
}

func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// Add stores variant, replacing the stored variant with the same id so
// seeding can run on every start.
func (r *GormVariantRepository) Add(ctx context.Context, variant *catalog.Variant) error {
	if err := variant.Validate(); err != nil {
		return err
	}

	dto := VariantDTO{
		ID:       variant.ID().Bytes(),
		SKU:      variant.SKU(),
		Name:     variant.Name(),
		Price:    variant.Price(),
		Currency: variant.Currency(),
		Digital:  variant.Digital(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormVariantRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Variant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VariantDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("variant", id)
	}
	if err != nil {
		return nil, err
	}

	variantID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return catalog.NewVariant(variantID, dto.SKU, dto.Name, dto.Price, dto.Currency, dto.Digital)
}
