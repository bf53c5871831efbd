package subscriberrepo

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSubscriberRepository implements ports.WebhookSubscriberRepository using GORM.
type GormSubscriberRepository struct {
	db *gorm.DB
}

func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

func (r *GormSubscriberRepository) Add(ctx context.Context, subscriber *webhook.Subscriber) error {
	if err := subscriber.Validate(); err != nil {
		return err
	}

	dto := fromDomain(subscriber)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormSubscriberRepository) Update(ctx context.Context, subscriber *webhook.Subscriber) error {
	if err := subscriber.Validate(); err != nil {
		return err
	}

	dto := fromDomain(subscriber)
	result := r.db.WithContext(ctx).Model(&SubscriberDTO{}).
		Where("id = ?", dto.ID).
		Select("url", "active", "subscriptions", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("webhook_subscriber", subscriber.ID())
	}
	return nil
}

func (r *GormSubscriberRepository) Get(ctx context.Context, id kernel.UUID) (*webhook.Subscriber, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SubscriberDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("webhook_subscriber", id)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormSubscriberRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&SubscriberDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("webhook_subscriber", id)
	}
	return nil
}

func (r *GormSubscriberRepository) List(ctx context.Context, page ports.Pagination) ([]*webhook.Subscriber, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&SubscriberDTO{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []SubscriberDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Order("id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	subscribers, err := toDomainAll(dtos)
	if err != nil {
		return nil, 0, err
	}
	return subscribers, int(total), nil
}

func (r *GormSubscriberRepository) ListActive(ctx context.Context) ([]*webhook.Subscriber, error) {
	var dtos []SubscriberDTO
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func toDomainAll(dtos []SubscriberDTO) ([]*webhook.Subscriber, error) {
	subscribers := make([]*webhook.Subscriber, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, nil
}
