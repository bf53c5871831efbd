// Package openapi carries the HTTP contract of the platform API. The
// contract is embedded, served through swagger UI and enforced on incoming
// requests.
package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"storefront/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var contract []byte

// Load parses and validates the embedded contract.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(contract)
	if err != nil {
		return nil, fmt.Errorf("load openapi contract: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi contract: %w", err)
	}
	return doc, nil
}

// swaggerDoc exposes the contract to swag, which serves it as doc.json.
type swaggerDoc struct {
	doc *openapi3.T

	once sync.Once
	json string
}

func (s *swaggerDoc) ReadDoc() string {
	s.once.Do(func() {
		b, err := json.Marshal(s.doc)
		if err != nil {
			b = []byte("{}")
		}
		s.json = string(b)
	})
	return s.json
}

var registerOnce sync.Once

// Register makes doc the swag document read by the swagger UI handler.
// Only the first registration takes effect.
func Register(doc *openapi3.T) {
	registerOnce.Do(func() {
		swag.Register(swag.Name, &swaggerDoc{doc: doc})
	})
}

// RequestValidator rejects requests that do not satisfy the contract.
// Requests to routes the contract does not describe pass through untouched.
// Authentication is checked elsewhere.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return contractError(err)
			}
			return next(c)
		}
	}, nil
}

// contractError turns validation failures into field errors. Anything that
// can not be attributed to a field is a bad request.
func contractError(err error) error {
	verrs := errs.NewValidationErrors()
	collect(verrs, err, "")
	if verrs.Len() == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return verrs
}

func collect(verrs *errs.ValidationErrors, err error, param string) {
	var schemaErr *openapi3.SchemaError
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collect(verrs, inner, param)
		}
	case *openapi3filter.RequestError:
		if e.Parameter != nil {
			param = e.Parameter.Name
		}
		before := verrs.Len()
		collect(verrs, e.Err, param)
		if verrs.Len() == before && param != "" {
			verrs.Add(param, errs.MsgInvalid)
		}
	default:
		if !errors.As(err, &schemaErr) {
			return
		}
		field := param
		if field == "" {
			field = fieldName(schemaErr.JSONPointer())
		}
		verrs.Add(field, schemaErr.Reason)
	}
}

// fieldName renders a JSON pointer below the root key the way field errors
// are named elsewhere: order.line_items_attributes.0.quantity becomes
// line_items_attributes[0].quantity.
func fieldName(pointer []string) string {
	if len(pointer) > 1 {
		pointer = pointer[1:]
	}
	var b strings.Builder
	for _, part := range pointer {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "base"
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
