package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// The machine is a linear chain from PendingAssignment to Delivered with a
// parallel Cancelled state reachable from any non-terminal status:
//
//	pending_assignment → assigned → en_route_to_pickup → arrived_at_pickup
//	    → picked_up → en_route_to_dropoff → arrived_at_dropoff → delivered
//
// A courier decline or offer expiry does not surface as a status of its own:
// the offer is resolved and the order stays in pending_assignment.
type Status int

const (
	// Unknown catches uninitialized Status values; it is never valid.
	Unknown Status = iota

	// PendingAssignment is the initial status: the order waits for a courier
	// to accept a dispatch offer.
	PendingAssignment

	// Assigned means a courier accepted the offer and owns the delivery.
	Assigned

	// EnRouteToPickup means the courier is heading to the restaurant.
	EnRouteToPickup

	// ArrivedAtPickup means the courier reported arrival at the restaurant.
	ArrivedAtPickup

	// PickedUp means the courier holds the order.
	PickedUp

	// EnRouteToDropoff means the courier is heading to the customer.
	EnRouteToDropoff

	// ArrivedAtDropoff means the courier reported arrival at the customer.
	ArrivedAtDropoff

	// Delivered is the successful terminal status. Reached only through
	// confirmation-code validation.
	Delivered

	// Cancelled is the unsuccessful terminal status, reachable from any
	// non-terminal status by the system or an admin.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "unknown",
		PendingAssignment: "pending_assignment",
		Assigned:          "assigned",
		EnRouteToPickup:   "en_route_to_pickup",
		ArrivedAtPickup:   "arrived_at_pickup",
		PickedUp:          "picked_up",
		EnRouteToDropoff:  "en_route_to_dropoff",
		ArrivedAtDropoff:  "arrived_at_dropoff",
		Delivered:         "delivered",
		Cancelled:         "cancelled",
	}
}

// StatusFromString parses an external status value against the closed
// enumeration. Anything outside the known set fails with ErrInvalidTransition
// so loosely-typed callers cannot smuggle new states into the machine.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, s)
}

// Validate checks that the Status value belongs to the closed enumeration.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer using the wire/persistence representation.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Next returns the successor in the linear delivery chain, or Unknown when
// the status has no successor (terminal or pending assignment, which is left
// by courier acceptance rather than a chain step).
func (s Status) Next() Status {
	switch s {
	case Assigned:
		return EnRouteToPickup
	case EnRouteToPickup:
		return ArrivedAtPickup
	case ArrivedAtPickup:
		return PickedUp
	case PickedUp:
		return EnRouteToDropoff
	case EnRouteToDropoff:
		return ArrivedAtDropoff
	case ArrivedAtDropoff:
		return Delivered
	default:
		return Unknown
	}
}

// CanTransitionTo reports whether the edge from s to target exists.
// Edges are the single next chain step plus Cancelled from any non-terminal
// status; skipping a step is never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	if target == Cancelled {
		return true
	}
	return s.Next() == target && target != Unknown
}
