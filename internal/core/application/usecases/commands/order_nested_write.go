package commands

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// OrderAttributes is the nested payload of an order create or update.
// Nil fields are left untouched.
type OrderAttributes struct {
	Email               *string
	SpecialInstructions *string
	Currency            *string
	BillAddress         *address.Attributes
	ShipAddress         *address.Attributes
	LineItems           []LineItemAttributes
}

// IsEmpty reports whether the payload changes nothing.
func (a OrderAttributes) IsEmpty() bool {
	return a.Email == nil && a.SpecialInstructions == nil && a.Currency == nil &&
		a.BillAddress == nil && a.ShipAddress == nil && len(a.LineItems) == 0
}

// LineItemAttributes is one entry of line_items_attributes. An entry with an
// id updates or destroys that line item, an entry without one adds a variant.
type LineItemAttributes struct {
	ID        string
	VariantID string
	Quantity  *int
	Destroy   bool
}

type lineItemStep struct {
	id       kernel.UUID
	destroy  bool
	variant  *catalog.Variant
	quantity int
}

// nestedWrite is a payload that passed validation and can be applied.
type nestedWrite struct {
	attrs     OrderAttributes
	currency  string
	lineItems []lineItemStep
}

// nestedWriteCoordinator applies an order payload with its nested address
// and line item blocks as one unit. Every block is validated before anything
// changes, so a rejected payload leaves the order as it was.
type nestedWriteCoordinator struct {
	variants ports.VariantRepository
}

// write validates attrs against o and applies them. The returned error is a
// *errs.ValidationErrors listing every failing field when validation fails.
func (c nestedWriteCoordinator) write(ctx context.Context, o *order.Order, attrs OrderAttributes) error {
	plan, err := c.validate(ctx, o, attrs)
	if err != nil {
		return err
	}
	return o.Apply(func(draft *order.Order) error {
		return plan.apply(draft)
	})
}

func (c nestedWriteCoordinator) validate(ctx context.Context, o *order.Order, attrs OrderAttributes) (nestedWrite, error) {
	if !o.IsModifiable() {
		return nestedWrite{}, order.ErrOrderIsNotModifiable
	}

	verrs := errs.NewValidationErrors()
	plan := nestedWrite{attrs: attrs, currency: o.Currency()}

	if attrs.Email != nil && strings.TrimSpace(*attrs.Email) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(*attrs.Email)); err != nil {
			verrs.Add("email", errs.MsgInvalid)
		}
	}
	if attrs.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*attrs.Currency))
		switch {
		case len(currency) != 3:
			verrs.Add("currency", errs.MsgInvalid)
		case currency != o.Currency() && len(o.LineItems()) > 0:
			verrs.Add("currency", "can not change once the order has line items")
		default:
			plan.currency = currency
		}
	}
	if attrs.BillAddress != nil {
		verrs.AddError("bill_address", prefixed("bill_address", attrs.BillAddress.Validate()))
	}
	if attrs.ShipAddress != nil {
		verrs.AddError("ship_address", prefixed("ship_address", attrs.ShipAddress.Validate()))
	}

	for i, li := range attrs.LineItems {
		step, lineErrs, err := c.validateLineItem(ctx, o, plan.currency, li)
		if err != nil {
			return nestedWrite{}, err
		}
		verrs.Merge(fmt.Sprintf("line_items[%d]", i), lineErrs)
		plan.lineItems = append(plan.lineItems, step)
	}

	if err := verrs.Err(); err != nil {
		return nestedWrite{}, err
	}
	return plan, nil
}

// validateLineItem returns the field errors of one entry. The error return is
// reserved for storage failures.
func (c nestedWriteCoordinator) validateLineItem(
	ctx context.Context,
	o *order.Order,
	currency string,
	attrs LineItemAttributes,
) (lineItemStep, *errs.ValidationErrors, error) {
	verrs := errs.NewValidationErrors()
	step := lineItemStep{destroy: attrs.Destroy}

	if attrs.Quantity != nil && *attrs.Quantity <= 0 {
		verrs.Add("quantity", "must be greater than 0")
	}

	if attrs.ID != "" {
		id, err := kernel.UUIDFromString(attrs.ID)
		switch {
		case err != nil:
			verrs.Add("id", errs.MsgInvalid)
		case !o.Contains(order.ChildLineItem, id):
			verrs.Add("id", errs.MsgNotFound)
		default:
			step.id = id
		}
		if !attrs.Destroy && attrs.Quantity == nil {
			verrs.Add("quantity", errs.MsgBlank)
		}
		if verrs.Len() == 0 && !attrs.Destroy {
			step.quantity = *attrs.Quantity
		}
		return step, verrs, nil
	}

	if attrs.Destroy {
		verrs.Add("id", errs.MsgBlank)
		return step, verrs, nil
	}

	step.quantity = 1
	if attrs.Quantity != nil {
		step.quantity = *attrs.Quantity
	}
	if attrs.VariantID == "" {
		verrs.Add("variant_id", errs.MsgBlank)
		return step, verrs, nil
	}
	variantID, err := kernel.UUIDFromString(attrs.VariantID)
	if err != nil {
		verrs.Add("variant_id", errs.MsgInvalid)
		return step, verrs, nil
	}
	variant, err := c.variants.Get(ctx, variantID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		verrs.Add("variant_id", errs.MsgNotFound)
		return step, verrs, nil
	}
	if err != nil {
		return step, nil, err
	}
	if variant.Currency() != currency {
		verrs.Add("variant_id", fmt.Sprintf("is not priced in %s", currency))
	}
	step.variant = variant
	return step, verrs, nil
}

func (p nestedWrite) apply(o *order.Order) error {
	a := p.attrs
	if a.Email != nil {
		if err := o.SetEmail(*a.Email); err != nil {
			return err
		}
	}
	if a.SpecialInstructions != nil {
		if err := o.SetSpecialInstructions(*a.SpecialInstructions); err != nil {
			return err
		}
	}
	if p.currency != o.Currency() {
		if err := o.SetCurrency(p.currency); err != nil {
			return err
		}
	}
	if a.BillAddress != nil {
		if err := assignAddress(o.BillAddress(), *a.BillAddress, o.AssignBillAddress); err != nil {
			return err
		}
	}
	if a.ShipAddress != nil {
		if err := assignAddress(o.ShipAddress(), *a.ShipAddress, o.AssignShipAddress); err != nil {
			return err
		}
	}

	for _, step := range p.lineItems {
		var err error
		switch {
		case step.destroy:
			err = o.RemoveLineItem(step.id)
		case step.variant == nil:
			err = o.UpdateLineItemQuantity(step.id, step.quantity)
		default:
			var li *order.LineItem
			li, err = order.NewLineItem(kernel.NewUUID(), step.variant.ID(), step.quantity,
				step.variant.Price(), step.variant.Currency())
			if err == nil {
				_, err = o.AddLineItem(li)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// assignAddress updates current in place when the slot is taken, so the
// address keeps its id, or assigns a new address otherwise.
func assignAddress(current *address.Address, attrs address.Attributes, assign func(*address.Address) error) error {
	var (
		a   *address.Address
		err error
	)
	if current != nil {
		a = current.Clone()
		err = a.Update(attrs)
	} else {
		a, err = address.NewAddress(kernel.NewUUID(), attrs)
	}
	if err != nil {
		return err
	}
	return assign(a)
}

// prefixed moves the fields of a validation error under prefix.
func prefixed(prefix string, err error) error {
	var verrs *errs.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := errs.NewValidationErrors()
	out.Merge(prefix, verrs)
	return out.Err()
}
