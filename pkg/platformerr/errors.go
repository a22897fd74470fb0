// Package platformerr defines the error taxonomy every brightpath component classifies its
// failures into (spec §7): InvalidEvent, TransientDependencyError, BusinessRuleViolation,
// UniquenessConflict, AuthFailure and RateLimited. Consumers type-switch or errors.As on these to
// decide retry-vs-dead-letter, 401-vs-502, etc, the same way the teacher's pkg.EntityConflictError
// carries a machine code through to the HTTP layer.
package platformerr

import "fmt"

// InvalidEvent marks a malformed envelope, unknown event type, or payload schema violation.
// Non-retryable: the worker runtime routes it straight to the dead-letter topic.
type InvalidEvent struct {
	Reason string
}

func (e InvalidEvent) Error() string { return fmt.Sprintf("invalid event: %s", e.Reason) }

// TransientDependencyError marks a broker, KV, store or upstream HTTP failure that is expected
// to succeed on retry.
type TransientDependencyError struct {
	Dependency string
	Cause      error
}

func (e TransientDependencyError) Error() string {
	return fmt.Sprintf("transient error from %s: %v", e.Dependency, e.Cause)
}

func (e TransientDependencyError) Unwrap() error { return e.Cause }

// BusinessRuleViolation marks an outcome that is not a failure (e.g. "no eligible trainer"); the
// caller records it as a pending business outcome and marks the record processed.
type BusinessRuleViolation struct {
	Rule   string
	Detail string
}

func (e BusinessRuleViolation) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Detail)
}

// UniquenessConflict marks a unique-constraint violation that is swallowed as success because
// the business invariant it protects already holds.
type UniquenessConflict struct {
	Constraint string
}

func (e UniquenessConflict) Error() string {
	return fmt.Sprintf("uniqueness conflict on %s (treated as success)", e.Constraint)
}

// AuthFailure marks an authentication failure surfaced to the client as 401. Never retried by
// the server.
type AuthFailure struct {
	Code   string
	Reason string
}

func (e AuthFailure) Error() string { return fmt.Sprintf("auth failure [%s]: %s", e.Code, e.Reason) }

// RateLimited marks a rejected request surfaced as 429. Never escalated or retried server-side.
type RateLimited struct {
	RetryAfterSeconds int
}

func (e RateLimited) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
}

// IsRetryable reports whether err should be retried by the worker runtime rather than routed
// straight to the dead-letter queue.
func IsRetryable(err error) bool {
	switch err.(type) {
	case TransientDependencyError, *TransientDependencyError:
		return true
	default:
		return false
	}
}
