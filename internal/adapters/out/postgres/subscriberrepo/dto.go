// Package subscriberrepo persists webhook subscribers.
package subscriberrepo

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SubscriberDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	URL           string
	Active        bool           `gorm:"index"`
	Subscriptions pq.StringArray `gorm:"type:text[]"`
	SecretKey     string         `gorm:"size:64"`
	CreatedAt     time.Time      `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime:false"`
}

func (SubscriberDTO) TableName() string {
	return "webhook_subscribers"
}

func fromDomain(s *webhook.Subscriber) SubscriberDTO {
	return SubscriberDTO{
		ID:            s.ID().Bytes(),
		URL:           s.URL(),
		Active:        s.Active(),
		Subscriptions: s.Subscriptions(),
		SecretKey:     s.SecretKey(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
}

func toDomain(dto SubscriberDTO) (*webhook.Subscriber, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return webhook.RestoreSubscriber(id, webhook.Attributes{
		URL:           dto.URL,
		Active:        dto.Active,
		Subscriptions: dto.Subscriptions,
	}, dto.SecretKey, dto.CreatedAt.UTC(), dto.UpdatedAt.UTC()), nil
}
