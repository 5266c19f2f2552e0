// Package errors provides structured error handling for the craft-api project.
//
// It provides:
//   - Structured errors with codes, messages, and metadata
//   - Domain codes for the crafting engine's error taxonomy
//   - gRPC status conversion
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFoundf("recipe %q not in catalog", recipeID)
//	err := errors.NotEligible("specialty ironworking is not unlocked")
//
// Adding metadata:
//
//	err := errors.InsufficientResources("inventory short").
//	    WithMeta("resource_id", resourceID)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to get profession state")
//	}
//
// # Error Taxonomy
//
// Expected user-facing outcomes, never logged as system errors and never
// mutating state:
//   - NotFound: recipe/resource/profession id not in catalog
//   - NotEligible: level or specialty gate failed
//   - InsufficientResources: inventory cannot cover the request
//
// Fatal at catalog load:
//   - CycleDetected: the recipe graph contains a cycle
//
// Surfaced after bounded retry:
//   - Unavailable: a backing store call failed
//   - ConcurrentConflict: optimistic serialization retry exhausted
//
// # Error Checking
//
//	if errors.IsNotEligible(err) {
//	    // Report the gate to the player; nothing was consumed.
//	}
//
//	code := errors.GetCode(err)
//	meta := errors.GetMeta(err)
package errors
