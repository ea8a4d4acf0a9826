/*
errors.go - Error types for the provisioning engine

PURPOSE:
  All engine error values in one place. Storage implementations and the CLI
  boundary match on the sentinels with errors.Is; the structured types carry
  the identifying keys an operator needs to retry manually.

ERROR CATEGORIES:
  1. Lookup failures - missing commission rate (fatal to the invocation)
  2. Persistence failures - the provision batch could not be committed
  3. Introspection/translation failures - pipeline-side, see translate/

USAGE:
    if errors.Is(err, provision.ErrRateNotFound) {
        // the policy type has no commission_rates row
    }

SEE ALSO:
  - engine.go: Where these are produced
  - translate/pipeline.go: Best-effort batch errors, deliberately different
*/
package provision

import (
	"errors"
	"fmt"

	"github.com/warp/provision-engine/domain"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRateNotFound is returned when a policy's type has no matching
	// commission rate. This aborts the whole invocation: defaulting the
	// rate to zero would silently under-provision.
	ErrRateNotFound = errors.New("commission rate not found")

	// ErrPersistFailed is returned when the provision batch could not be
	// written. The batch is all-or-nothing; nothing was stored.
	ErrPersistFailed = errors.New("provision persistence failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RateNotFoundError identifies exactly which policy broke the batch.
type RateNotFoundError struct {
	AgentID    uint
	PolicyID   uint
	PolicyType domain.PolicyType
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no commission rate for policy type %q (agent %d, policy %d)",
		e.PolicyType, e.AgentID, e.PolicyID)
}

func (e *RateNotFoundError) Unwrap() error { return ErrRateNotFound }

// PersistError wraps a storage failure with the agent it happened for.
type PersistError struct {
	AgentID uint
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting provisions for agent %d: %v", e.AgentID, e.Err)
}

func (e *PersistError) Unwrap() error { return ErrPersistFailed }
