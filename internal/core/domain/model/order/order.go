package order

import (
	"crypto/subtle"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for the order state machine. Callers classify them with
// errors.Is; the HTTP adapter maps each to a distinct response.
var (
	// ErrOrderIsNotConstructed is returned for Order instances that did not
	// go through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrInvalidTransition signals a requested edge that does not exist:
	// a skipped step, an unknown status, or leaving pending_assignment by
	// anything other than offer acceptance.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrUnauthorizedActor signals a transition requested by an actor not
	// authorized for that edge.
	ErrUnauthorizedActor = errors.New("actor is not authorized for this transition")

	// ErrAlreadyTerminal signals a transition on an order already in a
	// terminal status. A duplicate request carrying the current terminal
	// status is treated as an idempotent no-op instead.
	ErrAlreadyTerminal = errors.New("order is already in a terminal status")

	// ErrStaleState signals that the optimistic version guard failed: the
	// order changed between read and write. The caller re-reads and retries.
	ErrStaleState = errors.New("order was modified concurrently")

	// ErrInvalidConfirmationCode signals a handoff code mismatch. The stored
	// code stays unconsumed so the courier can resubmit.
	ErrInvalidConfirmationCode = errors.New("confirmation code does not match")

	// ErrEarningsAlreadySet guards the earnings-set-exactly-once invariant.
	ErrEarningsAlreadySet = errors.New("earnings are already settled for this order")
)

// PaymentMethod distinguishes cash-on-delivery orders (whose collected
// amount settlement must record) from prepaid ones.
type PaymentMethod int

const (
	// PaymentPrepaid means the customer paid through the external payment
	// provider before dispatch.
	PaymentPrepaid PaymentMethod = iota
	// PaymentCash means the courier collects the total in cash at handoff.
	PaymentCash
)

// String implements fmt.Stringer with the wire form of the payment method.
func (p PaymentMethod) String() string {
	if p == PaymentCash {
		return "cash"
	}
	return "prepaid"
}

// PaymentMethodFromString parses the wire form of a payment method.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "prepaid":
		return PaymentPrepaid, nil
	case "cash":
		return PaymentCash, nil
	default:
		return PaymentPrepaid, errs.NewValueIsInvalidError("payment")
	}
}

// Timestamps groups the per-transition timestamps of an order. Each field is
// stamped exactly once, by the transition it belongs to.
type Timestamps struct {
	CreatedAt        time.Time
	AssignedAt       *time.Time
	ArrivedPickupAt  *time.Time
	PickedUpAt       *time.Time
	ArrivedDropoffAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
}

// Order is the aggregate root owning the canonical delivery status.
// All status changes go through its methods, which enforce the transition
// contract: legal edge, authorized actor, terminal-state immutability.
//
// Invariants:
//   - courier is non-nil for every status from assigned onward
//   - deliveredAt implies the confirmation code is consumed
//   - earnings are set exactly once, at settlement, and never change after
//
// Concurrency is handled outside the aggregate by the repository's version
// guard: an update only succeeds when the stored version matches the loaded
// one, otherwise the repository returns ErrStaleState.
type Order struct {
	id        kernel.UUID
	number    string
	status    Status
	courierID *kernel.UUID

	restaurantID kernel.UUID
	customerID   kernel.UUID

	pickupAddress   kernel.Address
	dropoffAddress  kernel.Address
	subtotal        kernel.Money
	deliveryFee     kernel.Money
	payment         PaymentMethod
	earnings        *kernel.Money
	confirmCode     string
	confirmConsumed bool
	cancelReason    string

	timestamps Timestamps
	version    int

	events []Event
	guard  guard.ConstructorGuard
}

// NewOrder creates an order in pending_assignment status.
// The confirmation code is generated once here and stored server-side; it is
// never re-issued unless RegenerateConfirmationCode is called explicitly.
func NewOrder(
	id kernel.UUID,
	number string,
	restaurantID kernel.UUID,
	customerID kernel.UUID,
	pickup kernel.Address,
	dropoff kernel.Address,
	subtotal kernel.Money,
	deliveryFee kernel.Money,
	payment PaymentMethod,
	confirmCode string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:  PendingAssignment,
		payment: payment,
		version: 1,
		guard:   guard.NewConstructorGuard(),
	}
	o.timestamps.CreatedAt = createdAt

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParty("restaurantId", &o.restaurantID, restaurantID),
		o.setParty("customerId", &o.customerID, customerID),
		o.setAddress(&o.pickupAddress, pickup),
		o.setAddress(&o.dropoffAddress, dropoff),
		o.setConfirmCode(confirmCode),
	); err != nil {
		return nil, err
	}

	o.subtotal = subtotal
	o.deliveryFee = deliveryFee

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, bypassing the
// creation defaults but still validating identity and status consistency.
func RestoreOrder(
	id kernel.UUID,
	number string,
	status Status,
	courierID *kernel.UUID,
	restaurantID kernel.UUID,
	customerID kernel.UUID,
	pickup kernel.Address,
	dropoff kernel.Address,
	subtotal kernel.Money,
	deliveryFee kernel.Money,
	payment PaymentMethod,
	earnings *kernel.Money,
	confirmCode string,
	confirmConsumed bool,
	cancelReason string,
	timestamps Timestamps,
	version int,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order version")
	}
	// courier must be present for every status from assigned onward
	if courierID == nil && status != PendingAssignment && status != Cancelled {
		return nil, errs.NewValueIsRequiredError("courierId")
	}

	o := &Order{
		status:          status,
		payment:         payment,
		earnings:        earnings,
		confirmConsumed: confirmConsumed,
		cancelReason:    cancelReason,
		timestamps:      timestamps,
		version:         version,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParty("restaurantId", &o.restaurantID, restaurantID),
		o.setParty("customerId", &o.customerID, customerID),
		o.setAddress(&o.pickupAddress, pickup),
		o.setAddress(&o.dropoffAddress, dropoff),
		o.setConfirmCode(confirmCode),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		cID := *courierID
		o.courierID = &cID
	}

	o.subtotal = subtotal
	o.deliveryFee = deliveryFee

	return o, nil
}

// Validate ensures the Order instance came through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-readable order number.
func (o *Order) Number() string { return o.number }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Courier returns the assigned courier's ID, nil until assignment.
func (o *Order) Courier() *kernel.UUID { return o.courierID }

// RestaurantID returns the restaurant party reference.
func (o *Order) RestaurantID() kernel.UUID { return o.restaurantID }

// CustomerID returns the customer party reference.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// PickupAddress returns the restaurant pickup address.
func (o *Order) PickupAddress() kernel.Address { return o.pickupAddress }

// DropoffAddress returns the customer delivery address.
func (o *Order) DropoffAddress() kernel.Address { return o.dropoffAddress }

// Subtotal returns the item subtotal.
func (o *Order) Subtotal() kernel.Money { return o.subtotal }

// DeliveryFee returns the delivery fee the payout policy is computed from.
func (o *Order) DeliveryFee() kernel.Money { return o.deliveryFee }

// Total returns subtotal plus delivery fee.
func (o *Order) Total() kernel.Money { return o.subtotal.Add(o.deliveryFee) }

// Payment returns the payment method.
func (o *Order) Payment() PaymentMethod { return o.payment }

// Earnings returns the settled courier earnings, nil until settlement.
func (o *Order) Earnings() *kernel.Money { return o.earnings }

// ConfirmationCode returns the stored one-time handoff code.
func (o *Order) ConfirmationCode() string { return o.confirmCode }

// ConfirmationConsumed reports whether the handoff code has been used.
func (o *Order) ConfirmationConsumed() bool { return o.confirmConsumed }

// CancelReason returns the recorded cancellation reason, empty unless
// cancelled.
func (o *Order) CancelReason() string { return o.cancelReason }

// Timestamps returns the per-transition timestamps.
func (o *Order) Timestamps() Timestamps { return o.timestamps }

// Version returns the optimistic-concurrency version as loaded from the
// store; the repository bumps it on every successful update.
func (o *Order) Version() int { return o.version }

// TakeEvents drains and returns the events recorded since the last call.
// The command handler calls this after a successful commit.
func (o *Order) TakeEvents() []Event {
	evts := o.events
	o.events = nil
	return evts
}

// AssignCourier transitions pending_assignment → assigned on behalf of the
// system when a courier accepts a dispatch offer. Assignment by any other
// path or from any other status is rejected.
func (o *Order) AssignCourier(actor Actor, courierID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleSystem && actor.Role() != RoleAdmin {
		return ErrUnauthorizedActor
	}
	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if o.status != PendingAssignment {
		return ErrInvalidTransition
	}

	o.status = Assigned
	o.courierID = &courierID
	o.timestamps.AssignedAt = &at
	o.record(AssignedEvent{baseEvent: o.base(at), CourierID: courierID})
	return nil
}

// Advance applies one courier-driven chain transition:
// en_route_to_pickup, arrived_at_pickup, picked_up, en_route_to_dropoff or
// arrived_at_dropoff. Only the assigned courier may drive these edges.
//
// A duplicate request carrying the order's current status is an idempotent
// no-op, so mobile-network retries are always safe. Delivered and cancelled
// are not reachable through Advance: delivered requires ConfirmDelivery,
// cancelled requires Cancel.
func (o *Order) Advance(actor Actor, target Status, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	// Retried duplicate of an already-applied transition. Only the courier
	// who could have applied it may replay it; before assignment nobody
	// qualifies.
	if target == o.status {
		if !actor.isAssignedCourier(o.courierID) {
			return ErrUnauthorizedActor
		}
		return nil
	}

	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if target == Delivered || target == Cancelled || target == Assigned || target == PendingAssignment {
		return ErrInvalidTransition
	}
	if !o.status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	if !actor.isAssignedCourier(o.courierID) {
		return ErrUnauthorizedActor
	}

	o.status = target
	switch target {
	case ArrivedAtPickup:
		o.timestamps.ArrivedPickupAt = &at
	case PickedUp:
		o.timestamps.PickedUpAt = &at
		o.record(PickedUpEvent{baseEvent: o.base(at), CourierID: *o.courierID, CustomerID: o.customerID})
	case ArrivedAtDropoff:
		o.timestamps.ArrivedDropoffAt = &at
	}
	return nil
}

// ConfirmDelivery validates the customer's handoff code and, on match,
// consumes it and transitions arrived_at_dropoff → delivered in one step.
// The comparison is constant-time. On mismatch the code stays unconsumed so
// the same courier can resubmit.
//
// The caller persists the order and the settlement credit in a single
// transaction, so a crash can never leave a delivered order with an
// unconsumed code or vice versa.
func (o *Order) ConfirmDelivery(actor Actor, code string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	// Retried duplicate after a successful confirmation.
	if o.status == Delivered && o.confirmConsumed && actor.isAssignedCourier(o.courierID) {
		return nil
	}

	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if o.status != ArrivedAtDropoff {
		return ErrInvalidTransition
	}
	if !actor.isAssignedCourier(o.courierID) {
		return ErrUnauthorizedActor
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(o.confirmCode)) != 1 {
		return ErrInvalidConfirmationCode
	}

	o.confirmConsumed = true
	o.status = Delivered
	o.timestamps.DeliveredAt = &at
	o.record(DeliveredEvent{baseEvent: o.base(at), CourierID: *o.courierID})
	return nil
}

// SetEarnings records the settled courier earnings. It may be called exactly
// once, on a delivered order; any further call fails with
// ErrEarningsAlreadySet.
func (o *Order) SetEarnings(earnings kernel.Money) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Delivered {
		return ErrInvalidTransition
	}
	if o.earnings != nil {
		return ErrEarningsAlreadySet
	}

	o.earnings = &earnings
	return nil
}

// Cancel forces the cancelled status from any non-terminal state.
// Only the system or an admin may cancel; a repeated cancel is a no-op.
func (o *Order) Cancel(actor Actor, reason string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !actor.canCancel() {
		return ErrUnauthorizedActor
	}
	if o.status == Cancelled {
		return nil
	}
	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}

	o.status = Cancelled
	o.cancelReason = reason
	o.timestamps.CancelledAt = &at
	o.record(CancelledEvent{baseEvent: o.base(at), Reason: reason})
	return nil
}

// RegenerateConfirmationCode replaces the handoff code before delivery.
// Admin-only; rejected once the code is consumed or the order is terminal.
func (o *Order) RegenerateConfirmationCode(actor Actor, newCode string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleAdmin {
		return ErrUnauthorizedActor
	}
	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if o.confirmConsumed {
		return ErrInvalidTransition
	}

	return o.setConfirmCode(newCode)
}

func (o *Order) base(at time.Time) baseEvent {
	return baseEvent{orderID: o.id, occurredAt: at}
}

func (o *Order) record(e Event) {
	o.events = append(o.events, e)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setParty(name string, dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}

func (o *Order) setAddress(dst *kernel.Address, addr kernel.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	*dst = addr
	return nil
}

func (o *Order) setConfirmCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("confirmation code")
	}
	o.confirmCode = code
	return nil
}
