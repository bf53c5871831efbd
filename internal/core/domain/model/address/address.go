// Package address models postal addresses owned by an order (as bill or ship
// address) or by a user.
package address

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// RequiredFields lists the attributes every address must carry, in the order
// they are reported.
var RequiredFields = []string{"country_id", "address1", "city", "zipcode", "phone", "firstname", "lastname"}

// Attributes is the writable part of an address.
type Attributes struct {
	FirstName        string
	LastName         string
	Address1         string
	Address2         string
	City             string
	Zipcode          string
	Phone            string
	AlternativePhone string
	Company          string
	Label            string
	CountryID        string
	StateID          string
	StateName        string
	UserID           *kernel.UUID
}

// Validate reports every blank required field at once.
func (a Attributes) Validate() error {
	values := map[string]string{
		"country_id": a.CountryID,
		"address1":   a.Address1,
		"city":       a.City,
		"zipcode":    a.Zipcode,
		"phone":      a.Phone,
		"firstname":  a.FirstName,
		"lastname":   a.LastName,
	}

	verrs := errs.NewValidationErrors()
	for _, field := range RequiredFields {
		if strings.TrimSpace(values[field]) == "" {
			verrs.Add(field, errs.MsgBlank)
		}
	}
	if a.UserID != nil && a.UserID.IsZero() {
		verrs.Add("user_id", errs.MsgInvalid)
	}
	return verrs.Err()
}

// FullName joins first and last name the way shipping labels print it.
func (a Attributes) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Address is an entity; two addresses with the same attributes are still
// different addresses.
type Address struct {
	id    kernel.UUID
	attrs Attributes
	guard guard.ConstructorGuard
}

func NewAddress(id kernel.UUID, attrs Attributes) (*Address, error) {
	if err := errors.Join(id.Validate(), attrs.Validate()); err != nil {
		return nil, err
	}

	return &Address{
		id:    id,
		attrs: attrs,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (a *Address) Validate() error {
	if a == nil {
		return ErrAddressIsNotConstructed
	}
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) ID() kernel.UUID {
	return a.id
}

func (a *Address) Attributes() Attributes {
	attrs := a.attrs
	if a.attrs.UserID != nil {
		userID := *a.attrs.UserID
		attrs.UserID = &userID
	}
	return attrs
}

func (a *Address) IsEqual(other *Address) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// Update replaces every attribute. The address is left untouched when attrs is invalid.
func (a *Address) Update(attrs Attributes) error {
	if err := attrs.Validate(); err != nil {
		return err
	}
	a.attrs = attrs
	return nil
}

func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	clone := *a
	clone.attrs = a.Attributes()
	return &clone
}

// OwnedBy reports whether a belongs to the address book of userID. A nil
// userID stands for a caller allowed to see every address book.
func OwnedBy(a *Address, userID *kernel.UUID) bool {
	if userID == nil {
		return true
	}
	owner := a.attrs.UserID
	return owner != nil && owner.IsEqual(*userID)
}
