package order

// Lifecycle event names raised by the aggregate.
const (
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderDeleted   = "order.deleted"
	EventOrderCompleted = "order.completed"
	EventOrderCanceled  = "order.canceled"
	EventOrderApproved  = "order.approved"
	EventOrderPaid      = "order.paid"
	EventOrderShipped   = "order.shipped"

	EventLineItemCreated = "line_item.created"
	EventLineItemUpdated = "line_item.updated"
	EventLineItemDeleted = "line_item.deleted"

	EventAdjustmentCreated = "adjustment.created"
	EventAdjustmentUpdated = "adjustment.updated"
	EventAdjustmentDeleted = "adjustment.deleted"

	EventPaymentCreated = "payment.created"
	EventAddressUpdated = "address.updated"
)

// Event names for the intermediate checkout steps.
const (
	EventOrderAddress  = "order.address"
	EventOrderDelivery = "order.delivery"
	EventOrderPayment  = "order.payment"
	EventOrderConfirm  = "order.confirm"
)

// EventNames lists every event the aggregate can raise.
var EventNames = []string{
	EventOrderCreated, EventOrderUpdated, EventOrderDeleted,
	EventOrderAddress, EventOrderDelivery, EventOrderPayment, EventOrderConfirm,
	EventOrderCompleted, EventOrderCanceled, EventOrderApproved, EventOrderPaid, EventOrderShipped,
	EventLineItemCreated, EventLineItemUpdated, EventLineItemDeleted,
	EventAdjustmentCreated, EventAdjustmentUpdated, EventAdjustmentDeleted,
	EventPaymentCreated, EventAddressUpdated,
}
