package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per request or command,
// keeping concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Client code manages
// the transaction lifecycle explicitly: Begin, then Commit or Rollback.
// Repositories obtained from it are bound to the current transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer after a
	// successful Commit.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the transaction.
	OrderRepository() OrderRepository

	// CourierRepository returns a CourierRepository bound to the transaction.
	CourierRepository() CourierRepository

	// OfferRepository returns an OfferRepository bound to the transaction.
	OfferRepository() OfferRepository

	// SettlementRepository returns a SettlementRepository bound to the
	// transaction.
	SettlementRepository() SettlementRepository
}
