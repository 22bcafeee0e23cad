// Package services holds stateless domain services: logic that spans
// aggregates and therefore belongs to no single one. The candidate ranker
// decides which courier an order is offered to next; the payout policy
// computes courier earnings from the delivery fee. Both are pure and take
// everything they need as arguments, so the application layer stays in
// charge of loading state and committing results.
package services
