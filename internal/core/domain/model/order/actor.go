package order

import "dispatch/internal/core/domain/model/kernel"

// Role identifies the kind of actor requesting a transition.
type Role int

const (
	// RoleSystem is the dispatch core itself (jobs, offer acceptance flow).
	RoleSystem Role = iota
	// RoleAdmin is a back-office operator.
	RoleAdmin
	// RoleCourier is a courier identified by their UUID.
	RoleCourier
	// RoleCustomer is the ordering customer.
	RoleCustomer
	// RoleRestaurant is the restaurant preparing the order.
	RoleRestaurant
)

// Actor is the identity on whose behalf a transition is requested.
// The transition contract is a function of (current status, requested
// status, actor); the machine rejects edges the actor is not authorized
// to drive.
type Actor struct {
	role Role
	id   kernel.UUID
}

// SystemActor returns the internal system actor.
func SystemActor() Actor {
	return Actor{role: RoleSystem}
}

// AdminActor returns an admin actor.
func AdminActor(id kernel.UUID) Actor {
	return Actor{role: RoleAdmin, id: id}
}

// CourierActor returns a courier actor with the courier's identity.
func CourierActor(id kernel.UUID) Actor {
	return Actor{role: RoleCourier, id: id}
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// ID returns the actor's identity; zero for the system actor.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// isAssignedCourier reports whether the actor is the courier currently
// assigned to the order.
func (a Actor) isAssignedCourier(courierID *kernel.UUID) bool {
	return a.role == RoleCourier && courierID != nil && a.id.IsEqual(*courierID)
}

// canCancel reports whether the actor may force the cancelled status.
func (a Actor) canCancel() bool {
	return a.role == RoleSystem || a.role == RoleAdmin
}
