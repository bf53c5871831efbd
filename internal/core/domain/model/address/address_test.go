package address_test

import (
	"testing"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAttributes() address.Attributes {
	return address.Attributes{
		FirstName: "John",
		LastName:  "Snow",
		Address1:  "5th ave",
		City:      "NY",
		Zipcode:   "10001",
		Phone:     "+1 123 456 789",
		CountryID: "224",
	}
}

func TestNewAddress(t *testing.T) {
	t.Run("should create address with required fields", func(t *testing.T) {
		id := kernel.NewUUID()

		a, err := address.NewAddress(id, validAttributes())

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.ID().IsEqual(id))
		assert.Equal(t, "John Snow", a.Attributes().FullName())
	})

	t.Run("should report every missing required field", func(t *testing.T) {
		_, err := address.NewAddress(kernel.NewUUID(), address.Attributes{City: "NY"})

		require.Error(t, err)
		var verrs *errs.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.ElementsMatch(t,
			[]string{"country_id", "address1", "zipcode", "phone", "firstname", "lastname"},
			verrs.FieldNames())
	})

	t.Run("should treat whitespace as blank", func(t *testing.T) {
		attrs := validAttributes()
		attrs.Zipcode = "   "

		err := attrs.Validate()

		var verrs *errs.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{"zipcode"}, verrs.FieldNames())
	})

	t.Run("should reject invalid id", func(t *testing.T) {
		_, err := address.NewAddress(kernel.UUID{}, validAttributes())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestAddress_Update(t *testing.T) {
	a, err := address.NewAddress(kernel.NewUUID(), validAttributes())
	require.NoError(t, err)

	invalid := validAttributes()
	invalid.Phone = ""
	require.Error(t, a.Update(invalid))
	assert.Equal(t, "+1 123 456 789", a.Attributes().Phone)

	changed := validAttributes()
	changed.City = "Boston"
	require.NoError(t, a.Update(changed))
	assert.Equal(t, "Boston", a.Attributes().City)
}

func TestAddress_CloneIsIndependent(t *testing.T) {
	userID := kernel.NewUUID()
	attrs := validAttributes()
	attrs.UserID = &userID
	a, err := address.NewAddress(kernel.NewUUID(), attrs)
	require.NoError(t, err)

	clone := a.Clone()
	changed := validAttributes()
	changed.City = "Boston"
	require.NoError(t, clone.Update(changed))

	assert.Equal(t, "NY", a.Attributes().City)
	assert.True(t, clone.IsEqual(a))
}

func TestAddress_ValidateZeroValue(t *testing.T) {
	var a *address.Address
	require.ErrorIs(t, a.Validate(), address.ErrAddressIsNotConstructed)

	require.ErrorIs(t, (&address.Address{}).Validate(), address.ErrAddressIsNotConstructed)
}

func TestOwnedBy(t *testing.T) {
	owner, stranger := kernel.NewUUID(), kernel.NewUUID()
	attrs := validAttributes()
	attrs.UserID = &owner
	owned, err := address.NewAddress(kernel.NewUUID(), attrs)
	require.NoError(t, err)
	orphan, err := address.NewAddress(kernel.NewUUID(), validAttributes())
	require.NoError(t, err)

	assert.True(t, address.OwnedBy(owned, &owner))
	assert.False(t, address.OwnedBy(owned, &stranger))
	assert.True(t, address.OwnedBy(owned, nil), "a nil user sees every address book")
	assert.False(t, address.OwnedBy(orphan, &owner))
}
