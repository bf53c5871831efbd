package order

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsNotModifiable is returned by mutations of complete or canceled orders.
	ErrOrderIsNotModifiable = fmt.Errorf("%w: order can no longer be modified", errs.ErrValidation)
)

// ChildKind names the entities owned by an order that can be addressed by id.
type ChildKind string

const (
	ChildLineItem   ChildKind = "line_item"
	ChildAdjustment ChildKind = "adjustment"
	ChildShipment   ChildKind = "shipment"
	ChildPayment    ChildKind = "payment"
	ChildAddress    ChildKind = "address"
)

// Order is the aggregate root of the checkout.
//
// Order follows these invariants:
//   - children are only reachable and mutable through the order
//   - every adjustment references a child of the same order (or the order)
//   - totals are recomputed from the children after every mutation
//   - complete and canceled orders reject item, address and payment changes
//   - the checkout state only moves along CheckoutSteps or to canceled
type Order struct {
	id                  kernel.UUID
	number              string
	email               string
	currency            string
	specialInstructions string
	userID              *kernel.UUID

	state         State
	paymentState  PaymentState
	shipmentState ShipmentState
	totals        Totals

	billAddress *address.Address
	shipAddress *address.Address
	lineItems   []*LineItem
	adjustments []*Adjustment
	shipments   []*Shipment
	payments    []*Payment

	completedAt *time.Time
	canceledAt  *time.Time
	cancelerID  *kernel.UUID
	approvedAt  *time.Time
	approverID  *kernel.UUID
	createdAt   time.Time
	updatedAt   time.Time

	events []kernel.Event
	guard  guard.ConstructorGuard
}

// NewOrder creates an empty cart in currency and records order.created.
func NewOrder(id kernel.UUID, currency string) (*Order, error) {
	o := &Order{
		number: kernel.GenerateNumber("R", 9),
		state:  Cart,
		guard:  guard.NewConstructorGuard(),
	}
	if err := errors.Join(o.setID(id), o.setCurrency(currency)); err != nil {
		return nil, err
	}

	now := kernel.Now()
	o.createdAt = now
	o.updatedAt = now
	o.refresh()
	o.record(EventOrderCreated)
	return o, nil
}

// Snapshot carries every persisted field of an order. It is used to restore
// an order from storage.
type Snapshot struct {
	ID                  kernel.UUID
	Number              string
	Email               string
	Currency            string
	SpecialInstructions string
	UserID              *kernel.UUID
	State               State
	PaymentState        PaymentState
	ShipmentState       ShipmentState
	Totals              Totals
	BillAddress         *address.Address
	ShipAddress         *address.Address
	LineItems           []*LineItem
	Adjustments         []*Adjustment
	Shipments           []*Shipment
	Payments            []*Payment
	CompletedAt         *time.Time
	CanceledAt          *time.Time
	CancelerID          *kernel.UUID
	ApprovedAt          *time.Time
	ApproverID          *kernel.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RestoreOrder rebuilds a persisted order. Stored totals are kept as they
// were written; no events are recorded.
func RestoreOrder(s Snapshot) *Order {
	return &Order{
		id:                  s.ID,
		number:              s.Number,
		email:               s.Email,
		currency:            s.Currency,
		specialInstructions: s.SpecialInstructions,
		userID:              s.UserID,
		state:               s.State,
		paymentState:        s.PaymentState,
		shipmentState:       s.ShipmentState,
		totals:              s.Totals,
		billAddress:         s.BillAddress,
		shipAddress:         s.ShipAddress,
		lineItems:           s.LineItems,
		adjustments:         s.Adjustments,
		shipments:           s.Shipments,
		payments:            s.Payments,
		completedAt:         s.CompletedAt,
		canceledAt:          s.CanceledAt,
		cancelerID:          s.CancelerID,
		approvedAt:          s.ApprovedAt,
		approverID:          s.ApproverID,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		guard:               guard.NewConstructorGuard(),
	}
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID               { return o.id }
func (o *Order) Number() string                { return o.number }
func (o *Order) Email() string                 { return o.email }
func (o *Order) Currency() string              { return o.currency }
func (o *Order) SpecialInstructions() string   { return o.specialInstructions }
func (o *Order) UserID() *kernel.UUID          { return o.userID }
func (o *Order) State() State                  { return o.state }
func (o *Order) PaymentState() PaymentState    { return o.paymentState }
func (o *Order) ShipmentState() ShipmentState  { return o.shipmentState }
func (o *Order) Totals() Totals                { return o.totals }
func (o *Order) BillAddress() *address.Address { return o.billAddress }
func (o *Order) ShipAddress() *address.Address { return o.shipAddress }
func (o *Order) CompletedAt() *time.Time       { return o.completedAt }
func (o *Order) CanceledAt() *time.Time        { return o.canceledAt }
func (o *Order) CancelerID() *kernel.UUID      { return o.cancelerID }
func (o *Order) ApprovedAt() *time.Time        { return o.approvedAt }
func (o *Order) ApproverID() *kernel.UUID      { return o.approverID }
func (o *Order) CreatedAt() time.Time          { return o.createdAt }
func (o *Order) UpdatedAt() time.Time          { return o.updatedAt }

func (o *Order) LineItems() []*LineItem     { return slices.Clone(o.lineItems) }
func (o *Order) Adjustments() []*Adjustment { return slices.Clone(o.adjustments) }
func (o *Order) Shipments() []*Shipment     { return slices.Clone(o.shipments) }
func (o *Order) Payments() []*Payment       { return slices.Clone(o.payments) }

func (o *Order) LineItem(id kernel.UUID) (*LineItem, bool) {
	return find(o.lineItems, id, (*LineItem).ID)
}

func (o *Order) Adjustment(id kernel.UUID) (*Adjustment, bool) {
	return find(o.adjustments, id, (*Adjustment).ID)
}

func (o *Order) Shipment(id kernel.UUID) (*Shipment, bool) {
	return find(o.shipments, id, (*Shipment).ID)
}

func (o *Order) Payment(id kernel.UUID) (*Payment, bool) {
	return find(o.payments, id, (*Payment).ID)
}

// AdjustmentsFor returns the adjustments attached to target.
func (o *Order) AdjustmentsFor(target Adjustable) []*Adjustment {
	var out []*Adjustment
	for _, a := range o.adjustments {
		if a.Adjustable() == target {
			out = append(out, a)
		}
	}
	return out
}

// Contains reports whether the order owns the child of kind with id.
func (o *Order) Contains(kind ChildKind, id kernel.UUID) bool {
	switch kind {
	case ChildLineItem:
		_, ok := o.LineItem(id)
		return ok
	case ChildAdjustment:
		_, ok := o.Adjustment(id)
		return ok
	case ChildShipment:
		_, ok := o.Shipment(id)
		return ok
	case ChildPayment:
		_, ok := o.Payment(id)
		return ok
	case ChildAddress:
		return (o.billAddress != nil && o.billAddress.ID().IsEqual(id)) ||
			(o.shipAddress != nil && o.shipAddress.ID().IsEqual(id))
	}
	return false
}

// IsModifiable reports whether items, addresses and payments may still change.
func (o *Order) IsModifiable() bool {
	return !o.state.IsFinal()
}

func (o *Order) SetEmail(email string) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("email", err)
		}
	}
	o.email = email
	return nil
}

func (o *Order) SetSpecialInstructions(s string) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	o.specialInstructions = s
	return nil
}

// SetCurrency changes the currency of an order without line items.
func (o *Order) SetCurrency(currency string) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if len(o.lineItems) > 0 && !strings.EqualFold(currency, o.currency) {
		return errs.NewValueIsInvalidErrorWithCause("currency", errors.New("order already has line items"))
	}
	return o.setCurrency(currency)
}

func (o *Order) SetUser(userID *kernel.UUID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if userID != nil && userID.IsZero() {
		return errs.NewValueIsInvalidError("user_id")
	}
	o.userID = userID
	return nil
}

func (o *Order) AssignBillAddress(a *address.Address) error {
	return o.assignAddress(&o.billAddress, o.shipAddress, a)
}

func (o *Order) AssignShipAddress(a *address.Address) error {
	return o.assignAddress(&o.shipAddress, o.billAddress, a)
}

func (o *Order) assignAddress(slot **address.Address, other, a *address.Address) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if other != nil && other.IsEqual(a) {
		return errs.NewValueIsInvalidErrorWithCause("address", errors.New("address is already used by this order"))
	}
	replacing := *slot != nil
	*slot = a.Clone()
	if replacing {
		o.recordSubject(EventAddressUpdated, a.Clone())
	}
	return nil
}

// AddLineItem appends li, or merges its quantity into the line item holding
// the same variant. It returns the line item that holds the variant.
func (o *Order) AddLineItem(li *LineItem) (*LineItem, error) {
	if err := o.ensureModifiable(); err != nil {
		return nil, err
	}
	if !strings.EqualFold(li.Currency(), o.currency) {
		return nil, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%s does not match order currency %s", li.Currency(), o.currency))
	}

	for _, existing := range o.lineItems {
		if existing.VariantID().IsEqual(li.VariantID()) {
			if err := existing.setQuantity(existing.Quantity() + li.Quantity()); err != nil {
				return nil, err
			}
			o.recordSubject(EventLineItemUpdated, existing.clone())
			o.restartCheckout()
			return existing, nil
		}
	}
	if o.idTaken(li.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", errors.New(errs.MsgTaken))
	}

	added := li.clone()
	o.lineItems = append(o.lineItems, added)
	o.recordSubject(EventLineItemCreated, added.clone())
	o.restartCheckout()
	return added, nil
}

func (o *Order) UpdateLineItemQuantity(id kernel.UUID, quantity int) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	li, ok := o.LineItem(id)
	if !ok {
		return errs.NewObjectNotFoundError("line_item", id)
	}
	if err := li.setQuantity(quantity); err != nil {
		return err
	}
	o.recordSubject(EventLineItemUpdated, li.clone())
	o.restartCheckout()
	return nil
}

// RemoveLineItem removes the line item and the adjustments attached to it.
func (o *Order) RemoveLineItem(id kernel.UUID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	li, ok := o.LineItem(id)
	if !ok {
		return errs.NewObjectNotFoundError("line_item", id)
	}
	o.lineItems = slices.DeleteFunc(o.lineItems, func(x *LineItem) bool { return x == li })
	o.dropAdjustmentsFor(Adjustable{Kind: AdjustableLineItem, ID: id})
	o.recordSubject(EventLineItemDeleted, li.clone())
	o.restartCheckout()
	return nil
}

// AddAdjustment attaches adj to its adjustable, which must belong to the order.
func (o *Order) AddAdjustment(adj *Adjustment) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if err := o.resolveAdjustable(adj.Adjustable()); err != nil {
		return err
	}
	if o.idTaken(adj.ID()) {
		return errs.NewValueIsInvalidErrorWithCause("id", errors.New(errs.MsgTaken))
	}
	added := adj.clone()
	o.adjustments = append(o.adjustments, added)
	o.recordSubject(EventAdjustmentCreated, added.clone())
	o.refresh()
	return nil
}

func (o *Order) UpdateAdjustment(id kernel.UUID, attrs AdjustmentAttributes) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	adj, ok := o.Adjustment(id)
	if !ok {
		return errs.NewObjectNotFoundError("adjustment", id)
	}
	if err := o.resolveAdjustable(attrs.Adjustable); err != nil {
		return err
	}
	if err := adj.update(attrs); err != nil {
		return err
	}
	o.recordSubject(EventAdjustmentUpdated, adj.clone())
	o.refresh()
	return nil
}

// RemoveAdjustment deletes a non-mandatory adjustment.
func (o *Order) RemoveAdjustment(id kernel.UUID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	adj, ok := o.Adjustment(id)
	if !ok {
		return errs.NewObjectNotFoundError("adjustment", id)
	}
	if adj.Mandatory() {
		verrs := errs.NewValidationErrors()
		verrs.Add("mandatory", "adjustment can not be removed")
		return verrs
	}
	o.adjustments = slices.DeleteFunc(o.adjustments, func(x *Adjustment) bool { return x == adj })
	o.recordSubject(EventAdjustmentDeleted, adj.clone())
	o.refresh()
	return nil
}

// CloseAdjustment freezes one adjustment. Allowed on complete orders.
func (o *Order) CloseAdjustment(id kernel.UUID) error {
	if o.state == Canceled {
		return ErrOrderIsNotModifiable
	}
	adj, ok := o.Adjustment(id)
	if !ok {
		return errs.NewObjectNotFoundError("adjustment", id)
	}
	if !adj.IsOpen() {
		return nil
	}
	adj.close()
	o.recordSubject(EventAdjustmentUpdated, adj.clone())
	o.refresh()
	return nil
}

// CloseAdjustments freezes every open adjustment.
func (o *Order) CloseAdjustments() {
	for _, adj := range o.adjustments {
		adj.close()
	}
	o.refresh()
}

// EvaluateAdjustment stores a re-evaluated amount for an open adjustment.
func (o *Order) EvaluateAdjustment(id kernel.UUID, amount decimal.Decimal, eligible bool) error {
	adj, ok := o.Adjustment(id)
	if !ok {
		return errs.NewObjectNotFoundError("adjustment", id)
	}
	adj.evaluate(amount, eligible)
	return nil
}

// AssignAdjustmentTotals stores the totals computed by the adjustment engine
// and refreshes every derived total.
func (o *Order) AssignAdjustmentTotals(t AdjustmentTotals) {
	o.totals.AdjustmentTotals = t
	o.refresh()
}

func (o *Order) AddPayment(p *Payment) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if o.idTaken(p.ID()) {
		return errs.NewValueIsInvalidErrorWithCause("id", errors.New(errs.MsgTaken))
	}
	added := p.clone()
	o.payments = append(o.payments, added)
	o.recordSubject(EventPaymentCreated, added.clone())
	o.refresh()
	return nil
}

// CapturePayment marks a capturable payment completed.
func (o *Order) CapturePayment(id kernel.UUID) error {
	return o.withPayment(id, (*Payment).complete)
}

func (o *Order) FailPayment(id kernel.UUID) error {
	return o.withPayment(id, func(p *Payment) error { p.fail(); return nil })
}

func (o *Order) VoidPayment(id kernel.UUID) error {
	return o.withPayment(id, func(p *Payment) error { p.void(); return nil })
}

func (o *Order) RefundPayment(id kernel.UUID) error {
	return o.withPayment(id, func(p *Payment) error { p.refund(); return nil })
}

func (o *Order) withPayment(id kernel.UUID, fn func(*Payment) error) error {
	p, ok := o.Payment(id)
	if !ok {
		return errs.NewObjectNotFoundError("payment", id)
	}
	if err := fn(p); err != nil {
		return err
	}
	o.refresh()
	return nil
}

// ReplaceShipments swaps every shipment for shipments. Adjustments of the
// removed shipments are dropped.
func (o *Order) ReplaceShipments(shipments []*Shipment) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	for _, s := range o.shipments {
		o.dropAdjustmentsFor(Adjustable{Kind: AdjustableShipment, ID: s.ID()})
	}
	o.shipments = make([]*Shipment, 0, len(shipments))
	for _, s := range shipments {
		o.shipments = append(o.shipments, s.clone())
	}
	o.refresh()
	return nil
}

func (o *Order) SelectShippingMethod(shipmentID, methodID kernel.UUID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	s, ok := o.Shipment(shipmentID)
	if !ok {
		return errs.NewObjectNotFoundError("shipment", shipmentID)
	}
	if err := s.selectShippingMethod(methodID); err != nil {
		return err
	}
	o.refresh()
	return nil
}

// ReadyShipments moves pending shipments to ready.
func (o *Order) ReadyShipments() {
	for _, s := range o.shipments {
		s.ready()
	}
	o.refresh()
}

// CancelShipments cancels every shipment that has not shipped yet.
func (o *Order) CancelShipments() {
	for _, s := range o.shipments {
		s.cancel()
	}
	o.refresh()
}

// ShipShipment marks a ready shipment of a complete order as shipped.
func (o *Order) ShipShipment(id kernel.UUID, tracking string) error {
	if o.state != Complete {
		return errs.NewStateTransitionError(o.state.String(), string(ShipmentShipped), "order must be complete")
	}
	s, ok := o.Shipment(id)
	if !ok {
		return errs.NewObjectNotFoundError("shipment", id)
	}
	if err := s.ship(tracking, kernel.Now()); err != nil {
		return err
	}
	o.refresh()
	return nil
}

// ChangeState moves the order to target, which must be the next checkout
// step or canceled. Entering complete stamps completed_at, entering
// canceled stamps canceled_at. Guards are checked by the caller.
func (o *Order) ChangeState(target State) error {
	if !o.state.CanTransitionTo(target) {
		return errs.NewStateTransitionError(o.state.String(), target.String(), "transition is not defined")
	}
	now := kernel.Now()
	o.state = target
	switch target {
	case Complete:
		o.completedAt = &now
	case Canceled:
		o.canceledAt = &now
	}

	previousPayment, previousShipment := o.paymentState, o.shipmentState
	if target == Complete {
		// order.paid is only raised for complete orders.
		previousPayment = PaymentStateNone
	}
	o.recalculate()
	o.record(target.EventName())
	o.recordSummaryChanges(previousPayment, previousShipment)
	return nil
}

// Cancel moves the order to canceled on behalf of canceler.
func (o *Order) Cancel(canceler *kernel.UUID) error {
	if err := o.ChangeState(Canceled); err != nil {
		return err
	}
	o.cancelerID = canceler
	return nil
}

// Approve stamps the approver. Canceled orders can not be approved.
func (o *Order) Approve(approver kernel.UUID) error {
	if o.state == Canceled {
		return errs.NewStateTransitionError(o.state.String(), "approved", "order is canceled")
	}
	if err := approver.Validate(); err != nil {
		return err
	}
	now := kernel.Now()
	o.approvedAt = &now
	o.approverID = &approver
	o.record(EventOrderApproved)
	return nil
}

// MarkUpdated bumps updated_at and records order.updated.
func (o *Order) MarkUpdated() {
	o.updatedAt = kernel.Now()
	o.record(EventOrderUpdated)
}

// MarkDeleted records order.deleted. The caller removes the order from storage.
func (o *Order) MarkDeleted() {
	o.record(EventOrderDeleted)
}

// Apply runs fn against a copy of the order and adopts the copy only when
// fn succeeds, so a failing fn leaves the order untouched.
func (o *Order) Apply(fn func(draft *Order) error) error {
	draft := o.Clone()
	if err := fn(draft); err != nil {
		return err
	}
	*o = *draft
	return nil
}

// Clone returns a deep copy of the order, including pending events.
func (o *Order) Clone() *Order {
	c := *o
	c.billAddress = o.billAddress.Clone()
	c.shipAddress = o.shipAddress.Clone()
	c.userID = cloneID(o.userID)
	c.cancelerID = cloneID(o.cancelerID)
	c.approverID = cloneID(o.approverID)
	c.completedAt = cloneTime(o.completedAt)
	c.canceledAt = cloneTime(o.canceledAt)
	c.approvedAt = cloneTime(o.approvedAt)
	c.lineItems = cloneAll(o.lineItems, (*LineItem).clone)
	c.adjustments = cloneAll(o.adjustments, (*Adjustment).clone)
	c.shipments = cloneAll(o.shipments, (*Shipment).clone)
	c.payments = cloneAll(o.payments, (*Payment).clone)
	c.events = slices.Clone(o.events)
	return &c
}

// PullEvents returns the recorded events and clears them.
func (o *Order) PullEvents() []kernel.Event {
	events := o.events
	o.events = nil
	return events
}

// Events returns the recorded events without clearing them.
func (o *Order) Events() []kernel.Event {
	return slices.Clone(o.events)
}

// restartCheckout sends an order in checkout back to cart when its items
// change, discarding pending shipments since their rates are stale.
func (o *Order) restartCheckout() {
	if o.state != Cart && !o.state.IsFinal() {
		for _, s := range o.shipments {
			o.dropAdjustmentsFor(Adjustable{Kind: AdjustableShipment, ID: s.ID()})
		}
		o.shipments = nil
		o.state = Cart
	}
	o.refresh()
}

// refresh recomputes every total that does not depend on adjustment
// evaluation, then the payment and shipment summaries.
func (o *Order) refresh() {
	previousPayment, previousShipment := o.paymentState, o.shipmentState
	o.recalculate()
	o.recordSummaryChanges(previousPayment, previousShipment)
}

func (o *Order) recalculate() {
	t := o.totals
	t.ItemCount = 0
	t.ItemTotal = decimal.Zero
	for _, li := range o.lineItems {
		t.ItemCount += li.Quantity()
		t.ItemTotal = t.ItemTotal.Add(li.Amount())
	}
	t.ShipmentTotal = decimal.Zero
	for _, s := range o.shipments {
		if s.State() != ShipmentCanceled {
			t.ShipmentTotal = t.ShipmentTotal.Add(s.Cost())
		}
	}
	t.PaymentTotal = decimal.Zero
	for _, p := range o.payments {
		t.PaymentTotal = t.PaymentTotal.Add(p.Captured())
	}
	t.Total = kernel.RoundMoney(kernel.SumMoney(t.ItemTotal, t.ShipmentTotal, t.AdjustmentTotal))
	o.totals = t
	o.paymentState = o.summarizePayments()
	o.shipmentState = o.summarizeShipments()
}

func (o *Order) recordSummaryChanges(previousPayment PaymentState, previousShipment ShipmentState) {
	if o.state == Complete && o.paymentState == PaymentStatePaid && previousPayment != PaymentStatePaid {
		o.record(EventOrderPaid)
	}
	if o.shipmentState == ShipmentStateShipped && previousShipment != ShipmentStateShipped {
		o.record(EventOrderShipped)
	}
}

func (o *Order) summarizePayments() PaymentState {
	if len(o.payments) == 0 && !o.state.IsFinal() {
		return PaymentStateNone
	}

	outstanding := o.totals.OutstandingBalance()
	if o.state == Canceled {
		outstanding = o.totals.PaymentTotal.Neg()
	}

	valid := 0
	for _, p := range o.payments {
		if p.State().IsValid() {
			valid++
		}
	}
	switch {
	case len(o.payments) > 0 && valid == 0 && !outstanding.IsZero():
		return PaymentStateFailed
	case o.state == Canceled && o.totals.PaymentTotal.IsZero():
		return PaymentStateVoid
	case outstanding.IsPositive():
		return PaymentStateBalanceDue
	case outstanding.IsNegative():
		return PaymentStateCreditOwed
	default:
		return PaymentStatePaid
	}
}

func (o *Order) summarizeShipments() ShipmentState {
	var states []ShipmentState
	for _, s := range o.shipments {
		st := ShipmentState(s.State())
		if !slices.Contains(states, st) {
			states = append(states, st)
		}
	}
	switch len(states) {
	case 0:
		return ShipmentStateNone
	case 1:
		return states[0]
	default:
		return ShipmentStatePartial
	}
}

func (o *Order) resolveAdjustable(target Adjustable) error {
	var ok bool
	switch target.Kind {
	case AdjustableOrder:
		ok = target.ID.IsEqual(o.id)
	case AdjustableLineItem:
		ok = o.Contains(ChildLineItem, target.ID)
	case AdjustableShipment:
		ok = o.Contains(ChildShipment, target.ID)
	}
	if !ok {
		return errs.NewObjectNotFoundError("adjustable", target.String())
	}
	return nil
}

func (o *Order) dropAdjustmentsFor(target Adjustable) {
	o.adjustments = slices.DeleteFunc(o.adjustments, func(a *Adjustment) bool {
		return a.Adjustable() == target
	})
}

func (o *Order) idTaken(id kernel.UUID) bool {
	return id.IsEqual(o.id) ||
		o.Contains(ChildLineItem, id) || o.Contains(ChildAdjustment, id) ||
		o.Contains(ChildShipment, id) || o.Contains(ChildPayment, id)
}

func (o *Order) ensureModifiable() error {
	if !o.IsModifiable() {
		return ErrOrderIsNotModifiable
	}
	return nil
}

func (o *Order) record(name string) {
	o.recordSubject(name, o.eventSnapshot())
}

func (o *Order) recordSubject(name string, subject any) {
	e := kernel.NewEvent(name, subject)
	e.AggregateID = o.id
	o.events = append(o.events, e)
}

// eventSnapshot is a copy of the order without pending events.
func (o *Order) eventSnapshot() *Order {
	c := *o
	c.events = nil
	return c.Clone()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	o.currency = currency
	return nil
}

func find[T any](items []*T, id kernel.UUID, idOf func(*T) kernel.UUID) (*T, bool) {
	for _, item := range items {
		if idOf(item).IsEqual(id) {
			return item, true
		}
	}
	return nil, false
}

func cloneAll[T any](items []*T, clone func(*T) *T) []*T {
	if items == nil {
		return nil
	}
	out := make([]*T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

func cloneID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
