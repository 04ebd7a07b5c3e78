// Package guarderrors defines the sentinel error taxonomy shared across
// Guardian's packages. Sentinels let callers match with errors.Is instead of
// parsing messages.
package guarderrors

import "errors"

var (
	// ErrPolicyMissing is returned when no policy file exists at the expected path.
	ErrPolicyMissing = errors.New("guardian: policy file not found")

	// ErrPolicyInvalid is returned when the policy file is malformed or fails schema checks.
	ErrPolicyInvalid = errors.New("guardian: policy file invalid")

	// ErrPatternInvalid is returned when a blocklist regex fails to compile.
	ErrPatternInvalid = errors.New("guardian: pattern failed to compile")

	// ErrHookInputInvalid is returned when stdin is not parseable as a HookInput.
	ErrHookInputInvalid = errors.New("guardian: hook input invalid")

	// ErrAuditIO is returned when the audit writer cannot append, rotate, or create its directory.
	ErrAuditIO = errors.New("guardian: audit log I/O error")

	// ErrChainBroken is returned by verification when a hash chain link does not match.
	ErrChainBroken = errors.New("guardian: audit chain integrity broken")

	// ErrCostFileUnreadable marks a missing or malformed cost snapshot; callers must
	// treat this as non-fatal (no breach, no cost reported).
	ErrCostFileUnreadable = errors.New("guardian: cost file unreadable")
)
