package http

import (
	"io"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pageParams are the pagination query parameters shared by every listing.
type pageParams struct {
	Page    *int
	PerPage *int
}

func (p pageParams) values() (page, perPage int) {
	if p.Page != nil {
		page = *p.Page
	}
	if p.PerPage != nil {
		perPage = *p.PerPage
	}
	return page, perPage
}

func bindPage(c echo.Context) (pageParams, error) {
	var p pageParams
	verrs := errs.NewValidationErrors()
	if err := runtime.BindQueryParameter("form", true, false, "page", c.QueryParams(), &p.Page); err != nil {
		verrs.Add("page", errs.MsgInvalid)
	}
	if err := runtime.BindQueryParameter("form", true, false, "per_page", c.QueryParams(), &p.PerPage); err != nil {
		verrs.Add("per_page", errs.MsgInvalid)
	}
	return p, verrs.Err()
}

// orderFilterParams is filter[state], filter[email] and filter[number].
type orderFilterParams struct {
	State  *string `json:"state,omitempty"`
	Email  *string `json:"email,omitempty"`
	Number *string `json:"number,omitempty"`
}

func bindOrderFilter(c echo.Context) (orderFilterParams, error) {
	var filter *orderFilterParams
	if err := runtime.BindQueryParameter("deepObject", true, false, "filter", c.QueryParams(), &filter); err != nil {
		verrs := errs.NewValidationErrors()
		verrs.Add("filter", errs.MsgInvalid)
		return orderFilterParams{}, verrs
	}
	if filter == nil {
		return orderFilterParams{}, nil
	}
	return *filter, nil
}

// bindID reads the path parameter name. An id that can not name any
// resource is reported as not found.
func bindID(c echo.Context, name string) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewObjectNotFoundErrorWithCause(name, c.Param(name), err)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewObjectNotFoundErrorWithCause(name, raw, err)
	}
	return id, nil
}

// parseID reads an id sent in a request body. Failures are field errors.
func parseID(verrs *errs.ValidationErrors, field, raw string) kernel.UUID {
	if raw == "" {
		verrs.Add(field, errs.MsgBlank)
		return kernel.UUID{}
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		verrs.Add(field, errs.MsgInvalid)
		return kernel.UUID{}
	}
	return id
}

// decodeBody reads the request body and decodes the object under rootKey.
func decodeBody(c echo.Context, rootKey string, required ...string) (resource.Attributes, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	return resource.Decode(body, rootKey, required)
}

// bindBody decodes the object under rootKey into v.
func bindBody(c echo.Context, rootKey string, v any, required ...string) error {
	attrs, err := decodeBody(c, rootKey, required...)
	if err != nil {
		return err
	}
	return attrs.Bind(v)
}
