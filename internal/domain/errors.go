package domain

import "errors"

// Error taxonomy shared across components. Callers classify failures with
// errors.Is; messages wrapped around these carry the user-facing detail.
var (
	// ErrPermissionDenied means the operation needs an elevated process.
	// Surfaced with an actionable message, never auto-retried.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound means the target resource is absent (prefetch directory
	// missing, no timer registered for a cancel request).
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means malformed input (unknown duration symbol,
	// invalid domain format).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrForbidden means the operation is blocked by an active invariant
	// (manual unblock while a study-mode timer is running).
	ErrForbidden = errors.New("forbidden")

	// ErrExternalTool means an underlying OS command failed or timed out.
	// The wrapping message includes captured stderr/stdout.
	ErrExternalTool = errors.New("external tool failure")

	// ErrParseFailure means malformed binary input to the prefetch parser.
	// Contained per file, never escalated to a batch-level failure.
	ErrParseFailure = errors.New("parse failure")
)
