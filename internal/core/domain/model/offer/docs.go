// Package offer contains the dispatch Offer aggregate: one order proposed
// to one candidate courier under a response deadline. Accept, decline and
// expiry race through the repository's compare-and-set on the pending
// outcome; terminal outcomes are immutable.
package offer
