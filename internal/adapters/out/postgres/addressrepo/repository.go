// Package addressrepo persists user address books. Entries share the
// addresses table with order addresses, so an id has one owner at most.
package addressrepo

import (
	"context"
	"errors"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAddressRepository implements ports.AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// book scopes a query to address book rows.
func book(db *gorm.DB) *gorm.DB {
	return db.Model(&orderrepo.AddressDTO{}).Where("order_id IS NULL AND role = ?", orderrepo.AddressBookRole())
}

func (r *GormAddressRepository) Add(ctx context.Context, a *address.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := orderrepo.AddressBookDTO(a)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAddressRepository) Update(ctx context.Context, a *address.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := orderrepo.AddressBookDTO(a)
	result := r.db.WithContext(ctx).Scopes(book).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "order_id", "role").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("address", a.ID())
	}
	return nil
}

func (r *GormAddressRepository) Get(ctx context.Context, id kernel.UUID) (*address.Address, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto orderrepo.AddressDTO
	err := r.db.WithContext(ctx).Scopes(book).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("address", id)
	}
	if err != nil {
		return nil, err
	}
	return dto.ToDomain()
}

func (r *GormAddressRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Scopes(book).Where("id = ?", id.Bytes()).Delete(&orderrepo.AddressDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("address", id)
	}
	return nil
}

func (r *GormAddressRepository) List(
	ctx context.Context,
	filter ports.ListAddressesFilter,
) ([]*address.Address, int, error) {
	matching := func(db *gorm.DB) *gorm.DB {
		db = book(db)
		if filter.UserID != nil {
			db = db.Where("user_id = ?", filter.UserID.Bytes())
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(matching).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []orderrepo.AddressDTO
	err := r.db.WithContext(ctx).Scopes(matching).
		Order("last_name").
		Order("first_name").
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.PerPage).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	addresses := make([]*address.Address, 0, len(dtos))
	for _, dto := range dtos {
		a, err := dto.ToDomain()
		if err != nil {
			return nil, 0, err
		}
		addresses = append(addresses, a)
	}
	return addresses, int(total), nil
}
