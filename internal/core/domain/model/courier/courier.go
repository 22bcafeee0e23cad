package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrCourierIsNotConstructed is returned for Courier instances that did
	// not go through NewCourier or RestoreCourier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
	// ErrNameIsRequired is returned when creating a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierNotAvailable is returned when marking a busy or offline
	// courier as the owner of a new delivery.
	ErrCourierNotAvailable = errors.New("courier is not available for dispatch")
	// ErrStaleState signals that the optimistic version guard failed: the
	// courier row changed between load and update.
	ErrStaleState = errors.New("courier was modified concurrently")
)

// Availability is the courier's dispatchability state.
type Availability int

const (
	// Offline couriers are never considered by candidate selection.
	Offline Availability = iota
	// Available couriers can receive dispatch offers.
	Available
	// OnDelivery couriers own an active order and receive no offers.
	OnDelivery
)

func availabilityStrings() map[Availability]string {
	return map[Availability]string{
		Offline:    "offline",
		Available:  "available",
		OnDelivery: "on_delivery",
	}
}

// String implements fmt.Stringer.
func (a Availability) String() string {
	if s, ok := availabilityStrings()[a]; ok {
		return s
	}
	return "offline"
}

// Validate checks that the value belongs to the closed enumeration.
func (a Availability) Validate() error {
	if _, ok := availabilityStrings()[a]; !ok {
		return errs.NewValueIsInvalidError("availability")
	}
	return nil
}

// Balance is the courier's settlement-owned financial state. It is mutated
// only through Credit, which settlement invokes at most once per order.
type Balance struct {
	Available       kernel.Money
	LifetimeEarned  kernel.Money
	DeliveriesCount int
}

// Courier is the aggregate root for a delivery courier: identity,
// availability for dispatch, fairness bookkeeping (when they last got an
// assignment) and the settlement balance.
//
// The courier's live position is deliberately not part of the aggregate; it
// lives in the location store, which the relay overwrites at GPS-report
// frequency without touching courier rows.
//
// Concurrency is handled outside the aggregate by the repository's version
// guard: an update only succeeds when the stored version matches the loaded
// one, otherwise the repository returns ErrStaleState. Two acceptances
// racing for the same courier both pass StartDelivery's in-memory check;
// the guard makes the second commit fail instead of silently overwriting.
type Courier struct {
	id             kernel.UUID
	name           string
	availability   Availability
	lastAssignedAt *time.Time
	balance        Balance
	version        int
	guard          guard.ConstructorGuard
}

// NewCourier registers a new courier. Couriers start offline with a zero
// balance and go available explicitly.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{
		availability: Offline,
		version:      1,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	name string,
	availability Availability,
	lastAssignedAt *time.Time,
	balance Balance,
	version int,
) (*Courier, error) {
	if err := availability.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("courier version")
	}

	c := &Courier{
		availability:   availability,
		lastAssignedAt: lastAssignedAt,
		balance:        balance,
		version:        version,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier instance came through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's display name.
func (c *Courier) Name() string { return c.name }

// Availability returns the courier's dispatchability state.
func (c *Courier) Availability() Availability { return c.availability }

// LastAssignedAt returns when the courier last received an assignment;
// nil for couriers that never had one. Used as the fairness tie-break in
// candidate ranking.
func (c *Courier) LastAssignedAt() *time.Time { return c.lastAssignedAt }

// Balance returns the courier's settlement balance.
func (c *Courier) Balance() Balance { return c.balance }

// Version returns the optimistic-concurrency version as loaded from the
// repository.
func (c *Courier) Version() int { return c.version }

// CanReceiveOffers reports whether candidate selection may consider this
// courier.
func (c *Courier) CanReceiveOffers() bool {
	return c.availability == Available
}

// GoOnline marks the courier as available for offers.
func (c *Courier) GoOnline() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.availability == OnDelivery {
		return ErrCourierNotAvailable
	}
	c.availability = Available
	return nil
}

// GoOffline takes the courier out of dispatch. A courier with an active
// delivery cannot disappear mid-run.
func (c *Courier) GoOffline() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.availability == OnDelivery {
		return ErrCourierNotAvailable
	}
	c.availability = Offline
	return nil
}

// StartDelivery marks the courier busy after their offer acceptance wins the
// race, stamping the fairness timestamp.
func (c *Courier) StartDelivery(at time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.availability != Available {
		return ErrCourierNotAvailable
	}

	c.availability = OnDelivery
	c.lastAssignedAt = &at
	return nil
}

// FinishDelivery returns the courier to the available pool once their order
// reaches a terminal status.
func (c *Courier) FinishDelivery() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.availability = Available
	return nil
}

// Credit applies settled earnings to the balance and bumps the lifetime
// counters. Settlement guarantees at-most-once invocation per order via the
// idempotency marker; the aggregate just applies the arithmetic.
func (c *Courier) Credit(earnings kernel.Money) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.balance.Available = c.balance.Available.Add(earnings)
	c.balance.LifetimeEarned = c.balance.LifetimeEarned.Add(earnings)
	c.balance.DeliveriesCount++
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
