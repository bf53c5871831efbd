package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type addressBookPayload struct {
	addressPayload

	UserID string `json:"user_id"`
}

func newAddressBookPayload(attrs address.Attributes) addressBookPayload {
	return addressBookPayload{addressPayload: addressPayload{
		FirstName:        attrs.FirstName,
		LastName:         attrs.LastName,
		Address1:         attrs.Address1,
		Address2:         attrs.Address2,
		City:             attrs.City,
		Zipcode:          attrs.Zipcode,
		Phone:            attrs.Phone,
		AlternativePhone: attrs.AlternativePhone,
		Company:          attrs.Company,
		Label:            attrs.Label,
		CountryID:        attrs.CountryID,
		StateID:          attrs.StateID,
		StateName:        attrs.StateName,
	}}
}

// addressOwner is the user whose address book the caller may touch. Admins
// get nil and reach every address book.
func addressOwner(c echo.Context) (*kernel.UUID, error) {
	p := principal(c)
	if p.Admin {
		return nil, nil
	}
	if p.UserID == nil {
		return nil, errs.NewForbiddenError("You are not authorized to perform that action.")
	}
	return p.UserID, nil
}

// ListAddresses handles GET /addresses.
func (s *Server) ListAddresses(c echo.Context) error {
	owner, err := addressOwner(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	number, perPage := page.values()
	query, err := queries.NewListAddressesQuery(number, perPage, owner)
	if err != nil {
		return err
	}
	result, err := s.queries.ListAddresses.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeCollection(c, result, resource.Addresses)
}

// ShowAddress handles GET /addresses/{id}.
func (s *Server) ShowAddress(c echo.Context) error {
	owner, err := addressOwner(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	a, err := s.ownedAddress(c, id, owner)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Address(a))
}

// CreateAddress handles POST /addresses. Users add to their own address
// book; admins name the user with user_id.
func (s *Server) CreateAddress(c echo.Context) error {
	owner, err := addressOwner(c)
	if err != nil {
		return err
	}
	var payload addressBookPayload
	if err := bindBody(c, "address", &payload); err != nil {
		return err
	}

	userID := owner
	if userID == nil && payload.UserID != "" {
		verrs := errs.NewValidationErrors()
		id := parseID(verrs, "user_id", payload.UserID)
		if err := verrs.Err(); err != nil {
			return err
		}
		userID = &id
	}
	if userID == nil {
		userID = principal(c).UserID
	}

	cmd, err := commands.NewCreateAddressCommand(kernel.NewUUID(), *payload.attributes(userID))
	if err != nil {
		return err
	}
	a, err := s.commands.CreateAddress.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusCreated, resource.Address(a))
}

// UpdateAddress handles PATCH /addresses/{id}. Members left out of the body
// keep their value; the owning user never changes.
func (s *Server) UpdateAddress(c echo.Context) error {
	owner, err := addressOwner(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	current, err := s.ownedAddress(c, id, owner)
	if err != nil {
		return err
	}

	payload := newAddressBookPayload(current.Attributes())
	if err := bindBody(c, "address", &payload); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateAddressCommand(id, *payload.attributes(nil), owner)
	if err != nil {
		return err
	}
	a, err := s.commands.UpdateAddress.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Address(a))
}

// DeleteAddress handles DELETE /addresses/{id}.
func (s *Server) DeleteAddress(c echo.Context) error {
	owner, err := addressOwner(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteAddressCommand(id, owner)
	if err != nil {
		return err
	}
	if err := s.commands.DeleteAddress.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ownedAddress(c echo.Context, id kernel.UUID, owner *kernel.UUID) (*address.Address, error) {
	query, err := queries.NewGetAddressQuery(id, owner)
	if err != nil {
		return nil, err
	}
	return s.queries.GetAddress.Handle(c.Request().Context(), query)
}
