package orderrepo

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Models lists every table of the order aggregate in creation order.
func Models() []any {
	return []any{
		&OrderDTO{}, &AddressDTO{}, &LineItemDTO{}, &AdjustmentDTO{},
		&ShipmentDTO{}, &ShippingRateDTO{}, &PaymentDTO{},
	}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	if err := createChildren(db, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order row and replaces every child row.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	if err := deleteChildren(db, dto.ID); err != nil {
		return err
	}
	if err := createChildren(db, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := preloadChildren(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByChild(ctx context.Context, kind order.ChildKind, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var model any
	switch kind {
	case order.ChildLineItem:
		model = &LineItemDTO{}
	case order.ChildAdjustment:
		model = &AdjustmentDTO{}
	case order.ChildShipment:
		model = &ShipmentDTO{}
	case order.ChildPayment:
		model = &PaymentDTO{}
	case order.ChildAddress:
		model = &AddressDTO{}
	default:
		return nil, errs.NewValueIsInvalidError("kind")
	}

	var orderIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND order_id IS NOT NULL", id.Bytes()).
		Limit(1).Pluck("order_id", &orderIDs).Error
	if err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, errs.NewObjectNotFoundError(string(kind), id)
	}

	orderID, err := kernel.UUIDFromBytes(orderIDs[0][:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID)
}

func (r *GormOrderRepository) Delete(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	id := aggregate.ID().Bytes()
	if err := deleteChildren(db, id); err != nil {
		return err
	}
	result := db.Delete(&OrderDTO{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*order.Order, int, error) {
	matching := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&OrderDTO{})
		if filter.State != order.Unknown {
			db = db.Where("state = ?", filter.State.String())
		}
		if filter.Email != "" {
			db = db.Where("lower(email) = ?", filter.Email)
		}
		if filter.Number != "" {
			db = db.Where("number = ?", filter.Number)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(matching).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []OrderDTO
	err := preloadChildren(r.db.WithContext(ctx).Scopes(matching)).
		Order("created_at DESC").
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.PerPage).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, int(total), nil
}

func preloadChildren(db *gorm.DB) *gorm.DB {
	byPosition := func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }
	return db.
		Preload("Addresses").
		Preload("LineItems", byPosition).
		Preload("Adjustments", byPosition).
		Preload("Shipments", byPosition).
		Preload("Shipments.Rates", byPosition).
		Preload("Payments", byPosition)
}

// createChildren inserts child rows without upserts, so an id already owned
// by another order fails the write.
func createChildren(db *gorm.DB, dto OrderDTO) error {
	var rates []ShippingRateDTO
	for _, s := range dto.Shipments {
		rates = append(rates, s.Rates...)
	}

	inserts := []struct {
		rows  any
		count int
	}{
		{&dto.Addresses, len(dto.Addresses)},
		{&dto.LineItems, len(dto.LineItems)},
		{&dto.Shipments, len(dto.Shipments)},
		{&rates, len(rates)},
		{&dto.Adjustments, len(dto.Adjustments)},
		{&dto.Payments, len(dto.Payments)},
	}
	for _, insert := range inserts {
		if insert.count == 0 {
			continue
		}
		if err := db.Omit(clause.Associations).Create(insert.rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteChildren(db *gorm.DB, orderID uuid.UUID) error {
	shipments := db.Model(&ShipmentDTO{}).Select("id").Where("order_id = ?", orderID)
	if err := db.Where("shipment_id IN (?)", shipments).Delete(&ShippingRateDTO{}).Error; err != nil {
		return err
	}
	for _, model := range []any{&ShipmentDTO{}, &AdjustmentDTO{}, &PaymentDTO{}, &LineItemDTO{}, &AddressDTO{}} {
		if err := db.Where("order_id = ?", orderID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
