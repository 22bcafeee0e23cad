// Package kernel contains the shared value objects of the dispatch domain:
// UUID identity, geographic points, postal addresses and monetary amounts.
//
// All kernel types are immutable and validated at construction, following
// the constructor-guard pattern from internal/pkg/guard. Code that receives
// a kernel value may rely on its invariants without re-validating.
package kernel
