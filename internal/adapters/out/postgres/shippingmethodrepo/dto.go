// Package shippingmethodrepo persists shipping methods together with the
// tag and preferences of their calculator.
package shippingmethodrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"

	"github.com/google/uuid"
)

type ShippingMethodDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"index"`
	Code           string
	AdminName      string
	TrackingURL    string
	DisplayOn      string      `gorm:"size:16"`
	CalculatorType string      `gorm:"size:32"`
	Preferences    Preferences `gorm:"type:jsonb"`
}

func (ShippingMethodDTO) TableName() string {
	return "shipping_methods"
}

// Preferences are the calculator preferences stored as a jsonb object.
type Preferences map[string]string

func (p Preferences) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Preferences) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Preferences{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan preferences: unsupported type %T", src)
	}
	prefs := map[string]string{}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return err
	}
	*p = prefs
	return nil
}

func fromDomain(m *shipping.ShippingMethod) ShippingMethodDTO {
	attrs := m.Attributes()
	return ShippingMethodDTO{
		ID:             m.ID().Bytes(),
		Name:           attrs.Name,
		Code:           attrs.Code,
		AdminName:      attrs.AdminName,
		TrackingURL:    attrs.TrackingURL,
		DisplayOn:      string(attrs.DisplayOn),
		CalculatorType: string(m.Calculator().Type()),
		Preferences:    m.Calculator().Preferences(),
	}
}

func toDomain(dto ShippingMethodDTO) (*shipping.ShippingMethod, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	calculator, err := shipping.NewCalculator(shipping.CalculatorType(dto.CalculatorType), dto.Preferences)
	if err != nil {
		return nil, err
	}

	return shipping.NewShippingMethod(id, shipping.Attributes{
		Name:        dto.Name,
		Code:        dto.Code,
		AdminName:   dto.AdminName,
		TrackingURL: dto.TrackingURL,
		DisplayOn:   shipping.DisplayOn(dto.DisplayOn),
	}, calculator)
}
