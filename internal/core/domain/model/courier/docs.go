// Package courier contains the Courier aggregate: identity, availability
// for dispatch, assignment fairness bookkeeping and the settlement balance.
package courier
