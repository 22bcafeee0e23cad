// Package order contains the Order aggregate and its status state machine.
//
// The aggregate owns the canonical delivery status and enforces the
// transition contract as a function of (current status, requested status,
// actor). Side effects of committed transitions are expressed as domain
// events drained via TakeEvents after the transaction commits, never
// executed inside the transition itself.
package order
