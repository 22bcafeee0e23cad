package offer

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for the offer lifecycle.
var (
	// ErrOfferIsNotConstructed is returned for Offer instances that did not
	// go through NewOffer or RestoreOffer.
	ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer or RestoreOffer constructor")

	// ErrOfferNoLongerValid signals an accept or decline landing on an offer
	// that is no longer pending: it expired, was resolved by an earlier
	// request, or lost a concurrent accept race. The courier app discards
	// the stale offer on this error.
	ErrOfferNoLongerValid = errors.New("offer is no longer valid")

	// ErrOfferNotOverdue is returned when expiring an offer whose deadline
	// has not elapsed yet.
	ErrOfferNotOverdue = errors.New("offer deadline has not elapsed")
)

// Outcome is the resolution state of a dispatch offer. Terminal outcomes
// are immutable; Pending is the only state an offer can be resolved from.
type Outcome int

const (
	// Pending means the courier has not responded and the deadline has not
	// been enforced yet.
	Pending Outcome = iota
	// Accepted means the courier took the delivery before the deadline.
	Accepted
	// Declined means the courier refused the delivery.
	Declined
	// Expired means the deadline elapsed without a response.
	Expired
)

func outcomeStrings() map[Outcome]string {
	return map[Outcome]string{
		Pending:  "pending",
		Accepted: "accepted",
		Declined: "declined",
		Expired:  "expired",
	}
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if s, ok := outcomeStrings()[o]; ok {
		return s
	}
	return "pending"
}

// Validate checks that the value belongs to the closed enumeration.
func (o Outcome) Validate() error {
	if _, ok := outcomeStrings()[o]; !ok {
		return errs.NewValueIsInvalidError("outcome")
	}
	return nil
}

// IsTerminal reports whether the outcome admits no further resolution.
func (o Outcome) IsTerminal() bool {
	return o != Pending
}

// Offer is a dispatch offer: one order proposed to one candidate courier
// with a hard response deadline. At most one offer per order may be pending
// at any time; the repository enforces that with a partial unique index and
// resolves races with a compare-and-set on the pending outcome.
//
// The in-memory methods below validate the business rules; the definitive
// race arbitration happens in the store, which applies the resolution only
// when the row is still pending and reports ErrOfferNoLongerValid otherwise.
type Offer struct {
	id         kernel.UUID
	orderID    kernel.UUID
	courierID  kernel.UUID
	round      int
	deadline   time.Time
	outcome    Outcome
	resolvedAt *time.Time
	guard      guard.ConstructorGuard
}

// NewOffer creates a pending offer for the given dispatch round with
// deadline = now + responseWindow.
func NewOffer(
	id kernel.UUID,
	orderID kernel.UUID,
	courierID kernel.UUID,
	round int,
	now time.Time,
	responseWindow time.Duration,
) (*Offer, error) {
	if round < 1 {
		return nil, errs.NewValueIsInvalidError("round")
	}
	if responseWindow <= 0 {
		return nil, errs.NewValueIsInvalidError("response window")
	}

	o := &Offer{
		round:    round,
		deadline: now.Add(responseWindow),
		outcome:  Pending,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(&o.id, id),
		o.setID(&o.orderID, orderID),
		o.setID(&o.courierID, courierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOffer reconstructs an offer from persistence.
func RestoreOffer(
	id kernel.UUID,
	orderID kernel.UUID,
	courierID kernel.UUID,
	round int,
	deadline time.Time,
	outcome Outcome,
	resolvedAt *time.Time,
) (*Offer, error) {
	if err := outcome.Validate(); err != nil {
		return nil, err
	}
	if round < 1 {
		return nil, errs.NewValueIsInvalidError("round")
	}

	o := &Offer{
		round:      round,
		deadline:   deadline,
		outcome:    outcome,
		resolvedAt: resolvedAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(&o.id, id),
		o.setID(&o.orderID, orderID),
		o.setID(&o.courierID, courierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Offer instance came through a constructor.
func (o *Offer) Validate() error {
	if o == nil {
		return ErrOfferIsNotConstructed
	}
	return o.guard.Validate(ErrOfferIsNotConstructed)
}

// ID returns the offer's unique identifier.
func (o *Offer) ID() kernel.UUID { return o.id }

// OrderID returns the order being offered.
func (o *Offer) OrderID() kernel.UUID { return o.orderID }

// CourierID returns the candidate courier.
func (o *Offer) CourierID() kernel.UUID { return o.courierID }

// Round returns the 1-based dispatch round this offer belongs to.
func (o *Offer) Round() int { return o.round }

// Deadline returns the response deadline.
func (o *Offer) Deadline() time.Time { return o.deadline }

// Outcome returns the current resolution state.
func (o *Offer) Outcome() Outcome { return o.outcome }

// ResolvedAt returns when the offer left the pending state, nil while
// pending.
func (o *Offer) ResolvedAt() *time.Time { return o.resolvedAt }

// IsOverdue reports whether the deadline has elapsed without resolution.
func (o *Offer) IsOverdue(now time.Time) bool {
	return o.outcome == Pending && now.After(o.deadline)
}

// Accept resolves the offer as accepted. Fails with ErrOfferNoLongerValid
// when the offer is already resolved or the deadline has elapsed — a late
// accept must never win.
func (o *Offer) Accept(courierID kernel.UUID, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !courierID.IsEqual(o.courierID) {
		return ErrOfferNoLongerValid
	}
	if o.outcome.IsTerminal() || now.After(o.deadline) {
		return ErrOfferNoLongerValid
	}

	o.outcome = Accepted
	o.resolvedAt = &now
	return nil
}

// Decline resolves the offer as declined. A decline after expiry is still
// reported as ErrOfferNoLongerValid so the courier app drops the card.
func (o *Offer) Decline(courierID kernel.UUID, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !courierID.IsEqual(o.courierID) {
		return ErrOfferNoLongerValid
	}
	if o.outcome.IsTerminal() || now.After(o.deadline) {
		return ErrOfferNoLongerValid
	}

	o.outcome = Declined
	o.resolvedAt = &now
	return nil
}

// Expire resolves an overdue offer as expired. Driven by the background
// sweep, never by the courier's client: the device being offline must not
// keep an offer pending forever.
func (o *Offer) Expire(now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.outcome.IsTerminal() {
		return ErrOfferNoLongerValid
	}
	if !now.After(o.deadline) {
		return ErrOfferNotOverdue
	}

	o.outcome = Expired
	o.resolvedAt = &now
	return nil
}

func (o *Offer) setID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
