// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS split.
// All commands follow the same shape: a validated command object, a handler
// that manages the transaction, and explicit commit or rollback.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces narrow ports.UnitOfWork to what each handler
// actually touches, so tests mock only the repositories a command uses.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// OfferRepoFactory provides the offer repository within a transaction.
	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	// SettlementRepoFactory provides the settlement repository within a
	// transaction.
	SettlementRepoFactory interface {
		SettlementRepository() ports.SettlementRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// DispatchUoW manages transactions spanning orders, couriers and offers.
	// Used by the dispatch round and by offer acceptance, which must move
	// all three aggregates atomically.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		OfferRepoFactory
	}

	// DispatchUoWFactory creates dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// OfferUoW manages transactions for offer-only operations such as
	// declines and the expiry sweep.
	OfferUoW interface {
		TxManager
		OfferRepoFactory
	}

	// OfferUoWFactory creates offer unit of work instances.
	OfferUoWFactory interface {
		Create() OfferUoW
	}

	// SettleUoW manages the delivery confirmation transaction: the order
	// moves to delivered, the settlement marker is written and the courier
	// is credited, all in one commit.
	SettleUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		SettlementRepoFactory
	}

	// SettleUoWFactory creates settlement unit of work instances.
	SettleUoWFactory interface {
		Create() SettleUoW
	}
)
