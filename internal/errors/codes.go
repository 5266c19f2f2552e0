package errors

// Code represents an error code
type Code string

// Generic error codes
const (
	CodeOK               Code = "OK"
	CodeCanceled         Code = "CANCELED"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeInternal         Code = "INTERNAL"
	CodeUnavailable      Code = "UNAVAILABLE"
)

// Domain error codes for the crafting engine
const (
	// CodeNotEligible indicates a level or specialty gate failed.
	// This is an expected user-facing outcome, not a system error.
	CodeNotEligible Code = "NOT_ELIGIBLE"

	// CodeInsufficientResources indicates the character's inventory
	// cannot cover the requested craft quantity.
	CodeInsufficientResources Code = "INSUFFICIENT_RESOURCES"

	// CodeCycleDetected indicates the recipe graph contains a cycle.
	// Fatal at catalog load; the engine must not start.
	CodeCycleDetected Code = "CYCLE_DETECTED"

	// CodeConcurrentConflict indicates an optimistic concurrency retry
	// was exhausted while updating serialized state.
	CodeConcurrentConflict Code = "CONCURRENT_CONFLICT"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}
