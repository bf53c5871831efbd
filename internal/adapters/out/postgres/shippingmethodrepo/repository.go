package shippingmethodrepo

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShippingMethodRepository implements ports.ShippingMethodRepository using GORM.
type GormShippingMethodRepository struct {
	db *gorm.DB
}

func NewGormShippingMethodRepository(db *gorm.DB) *GormShippingMethodRepository {
	return &GormShippingMethodRepository{db: db}
}

func (r *GormShippingMethodRepository) Add(ctx context.Context, method *shipping.ShippingMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	dto := fromDomain(method)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormShippingMethodRepository) Update(ctx context.Context, method *shipping.ShippingMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	dto := fromDomain(method)
	result := r.db.WithContext(ctx).Model(&ShippingMethodDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipping_method", method.ID())
	}
	return nil
}

func (r *GormShippingMethodRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShippingMethodDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("shipping_method", id)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormShippingMethodRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ShippingMethodDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipping_method", id)
	}
	return nil
}

func (r *GormShippingMethodRepository) List(
	ctx context.Context,
	page ports.Pagination,
) ([]*shipping.ShippingMethod, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ShippingMethodDTO{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []ShippingMethodDTO
	err := r.db.WithContext(ctx).
		Order("name").
		Order("id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	methods, err := toDomainAll(dtos)
	if err != nil {
		return nil, 0, err
	}
	return methods, int(total), nil
}

func (r *GormShippingMethodRepository) All(ctx context.Context) ([]*shipping.ShippingMethod, error) {
	var dtos []ShippingMethodDTO
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func toDomainAll(dtos []ShippingMethodDTO) ([]*shipping.ShippingMethod, error) {
	methods := make([]*shipping.ShippingMethod, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}
