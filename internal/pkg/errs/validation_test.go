package errs_test

import (
	"errors"
	"testing"

	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors(t *testing.T) {
	t.Run("empty collection is not an error", func(t *testing.T) {
		v := errs.NewValidationErrors()

		require.NoError(t, v.Err())
		assert.Equal(t, 0, v.Len())
	})

	t.Run("keeps field order and drops duplicate messages", func(t *testing.T) {
		v := errs.NewValidationErrors()
		v.Add("zipcode", errs.MsgBlank)
		v.Add("city", errs.MsgBlank)
		v.Add("zipcode", errs.MsgBlank)

		require.Error(t, v.Err())
		assert.Equal(t, []string{"zipcode", "city"}, v.FieldNames())
		assert.Equal(t, []string{errs.MsgBlank}, v.Fields()["zipcode"])
		require.ErrorIs(t, v, errs.ErrValidation)
	})

	t.Run("merge prefixes nested fields", func(t *testing.T) {
		nested := errs.NewValidationErrors()
		nested.Add("zipcode", errs.MsgBlank)

		v := errs.NewValidationErrors()
		v.Merge("ship_address", nested)

		assert.True(t, v.Has("ship_address.zipcode"))
	})

	t.Run("add error flattens joined domain errors", func(t *testing.T) {
		err := errors.Join(
			errs.NewValueIsRequiredError("zipcode"),
			errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("must be greater than 0")),
			errs.NewObjectNotFoundError("variant_id", "42"),
			errors.New("boom"),
		)

		v := errs.NewValidationErrors()
		v.AddError("base", err)

		fields := v.Fields()
		assert.Equal(t, []string{errs.MsgBlank}, fields["zipcode"])
		assert.Equal(t, []string{"must be greater than 0"}, fields["quantity"])
		assert.Equal(t, []string{errs.MsgNotFound}, fields["variant_id"])
		assert.Equal(t, []string{"boom"}, fields["base"])
	})

	t.Run("summary is human readable", func(t *testing.T) {
		v := errs.NewValidationErrors()
		v.Add("zipcode", errs.MsgBlank)

		assert.Equal(t, "Zipcode can't be blank", v.Summary())
		assert.Contains(t, v.Error(), "zipcode can't be blank")
	})
}

func TestStateTransitionError(t *testing.T) {
	err := errs.NewStateTransitionError("cart", "complete", "line items required")

	assert.Equal(t, "state transition is not allowed: cart -> complete (line items required)", err.Error())

	var target *errs.StateTransitionError
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, []string{"line items required"}, target.Preconditions)
}

func TestStateTransitionError_KeepsEachPrecondition(t *testing.T) {
	err := errs.NewStateTransitionError("cart", "address", "email is required", "bill address is required")

	assert.Equal(t, []string{"email is required", "bill address is required"}, err.Preconditions)
	assert.Equal(t,
		"state transition is not allowed: cart -> address (email is required; bill address is required)",
		err.Error())
}

func TestAuthorizationError(t *testing.T) {
	assert.Equal(t, "unauthorized: missing token", errs.NewUnauthorizedError("missing token").Error())
	assert.Equal(t, "forbidden: admin only", errs.NewForbiddenError("admin only").Error())
}
