// Package resource encodes domain entities into the JSON envelopes of the
// platform API and decodes request bodies addressed to a root key.
//
// Single resources are written as {data: {id, type, attributes, relationships}}.
// Listings add meta.{count, total_count, total_pages} and
// links.{self, first, last, next, prev}; next and prev are omitted when
// there is no such page. Errors are {error} or, for per-field failures,
// {error, errors}.
package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"storefront/internal/pkg/errs"
)

// ErrMalformedBody is returned by Decode when the body is not a JSON object.
var ErrMalformedBody = errors.New("request body is not valid JSON")

// Resource is one entity in its wire form.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Identifier references another resource.
type Identifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Relationship holds either one *Identifier (possibly nil) or a []Identifier.
type Relationship struct {
	Data any `json:"data"`
}

func ToOne(typ, id string) Relationship {
	if id == "" {
		return Relationship{Data: nil}
	}
	return Relationship{Data: &Identifier{ID: id, Type: typ}}
}

func ToMany(ids []Identifier) Relationship {
	if ids == nil {
		ids = []Identifier{}
	}
	return Relationship{Data: ids}
}

// Document is the body of a single-resource response.
type Document struct {
	Data Resource `json:"data"`
}

func Encode(r Resource) Document {
	return Document{Data: r}
}

type Meta struct {
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type Links struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
}

// Collection is the body of a listing response.
type Collection struct {
	Data  []Resource `json:"data"`
	Meta  Meta       `json:"meta"`
	Links Links      `json:"links"`
}

// Page describes which slice of a listing items is.
type Page struct {
	Number     int
	PerPage    int
	TotalCount int
}

// TotalPages is ceil(TotalCount / PerPage) and 0 for an empty listing.
func (p Page) TotalPages() int {
	if p.TotalCount <= 0 || p.PerPage <= 0 {
		return 0
	}
	return (p.TotalCount + p.PerPage - 1) / p.PerPage
}

// EncodeCollection wraps items with pagination metadata. Links are built
// from self, keeping every query parameter except page and per_page.
func EncodeCollection(items []Resource, page Page, self *url.URL) Collection {
	if items == nil {
		items = []Resource{}
	}
	total := page.TotalPages()
	last := max(total, 1)

	links := Links{
		Self:  pageURL(self, page.Number, page.PerPage),
		First: pageURL(self, 1, page.PerPage),
		Last:  pageURL(self, last, page.PerPage),
	}
	if page.Number < total {
		links.Next = pageURL(self, page.Number+1, page.PerPage)
	}
	if page.Number > 1 {
		links.Prev = pageURL(self, min(page.Number-1, last), page.PerPage)
	}

	return Collection{
		Data:  items,
		Meta:  Meta{Count: len(items), TotalCount: page.TotalCount, TotalPages: total},
		Links: links,
	}
}

func pageURL(self *url.URL, number, perPage int) string {
	if self == nil {
		self = &url.URL{}
	}
	u := *self
	q := u.Query()
	q.Set("page", strconv.Itoa(number))
	q.Set("per_page", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// Attributes are the members of a decoded root object, still undecoded.
type Attributes map[string]json.RawMessage

// Has reports whether key is present and not null.
func (a Attributes) Has(key string) bool {
	raw, ok := a[key]
	return ok && !isNull(raw)
}

// Bind decodes the attributes into v. Members of the wrong type are reported
// as validation errors naming the member.
func (a Attributes) Bind(v any) error {
	data, err := json.Marshal(map[string]json.RawMessage(a))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verrs := errs.NewValidationErrors()
			verrs.Add(typeErr.Field, errs.MsgInvalid)
			return verrs
		}
		verrs := errs.NewValidationErrors()
		verrs.Add("base", err.Error())
		return verrs
	}
	return nil
}

// Decode reads the object under rootKey. Unknown members are ignored;
// every member of required that is absent or null is reported in one
// *errs.ValidationErrors.
func Decode(body []byte, rootKey string, required []string) (Attributes, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	raw, ok := envelope[rootKey]
	if !ok || isNull(raw) {
		verrs := errs.NewValidationErrors()
		verrs.Add(rootKey, errs.MsgBlank)
		return nil, verrs
	}

	var attrs Attributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		verrs := errs.NewValidationErrors()
		verrs.Add(rootKey, "must be an object")
		return nil, verrs
	}

	verrs := errs.NewValidationErrors()
	for _, key := range required {
		if !attrs.Has(key) {
			verrs.Add(key, errs.MsgBlank)
		}
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ErrorBody is the body of an error response.
type ErrorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func NewError(message string) ErrorBody {
	return ErrorBody{Error: message}
}

// NewValidationError renders per-field messages. The error string joins them
// into one sentence.
func NewValidationError(verrs *errs.ValidationErrors) ErrorBody {
	return ErrorBody{Error: verrs.Summary(), Errors: verrs.Fields()}
}
