// Package errs provides the standardized error types shared across the
// dispatch core.
//
// Each error type follows the same pattern: a sentinel variable usable with
// errors.Is, a struct carrying the details, constructors with and without a
// cause, and Error/Unwrap methods. Handlers and adapters classify failures by
// unwrapping to the sentinels rather than matching message text.
package errs
