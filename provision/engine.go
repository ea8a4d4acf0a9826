/*
Package provision implements the commission calculation engine.

PURPOSE:
  Computes commission provisions for one agent's policies against the
  commission-rate table. This is the application-level replacement for the
  calculate_provisions stored procedure: same semantics, decoupled from any
  storage technology behind the Gateway interface.

ALGORITHM (Calculate):
  1. Load all policies owned by the agent
  2. For each policy, look up the rate for its policy type
     - missing rate aborts the WHOLE invocation (no partial results)
  3. provision = premium * rate/100, decimal-exact
  4. Append all provisions atomically: all commit or none do

SEMANTICS WORTH CALLING OUT:
  - Unknown agent == agent with zero policies == empty result, no writes.
  - Calculate is NOT idempotent. Calling twice appends twice. Provisions
    are an append-only record of each calculation run.
  - Retrieval order is unspecified; it only affects creation order.

SEE ALSO:
  - errors.go: Failure taxonomy
  - store/memory: Gateway used by tests
  - store/postgres: Production Gateway
*/
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warp/provision-engine/domain"
)

// =============================================================================
// GATEWAY - Storage abstraction the engine runs against
// =============================================================================

// Gateway supplies policies and rates and persists new provisions.
// AppendProvisions MUST be atomic: either every provision in the slice is
// stored or none are. Implementations back this with a database transaction.
type Gateway interface {
	// PoliciesByAgent returns all policies owned by agentID.
	// An unknown agent yields an empty slice, not an error.
	PoliciesByAgent(ctx context.Context, agentID uint) ([]domain.Policy, error)

	// RateByPolicyType returns the commission rate for a policy type.
	// Returns ErrRateNotFound (possibly wrapped) when no row matches.
	RateByPolicyType(ctx context.Context, pt domain.PolicyType) (domain.CommissionRate, error)

	// AppendProvisions stores the batch atomically. Never updates or
	// deletes existing rows.
	AppendProvisions(ctx context.Context, provisions []domain.Provision) error
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes and persists provisions. Construct with NewEngine.
type Engine struct {
	gateway Gateway
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the calculation-date source. Tests use this to pin
// CalculationDate to a known instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(gw Gateway, opts ...Option) *Engine {
	e := &Engine{gateway: gw, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate computes one provision per policy owned by agentID and persists
// the whole batch atomically. Returns the provisions as stored.
//
// Any rate lookup failure or persistence failure aborts the invocation with
// no partial writes; the caller gets an explicit error, never a silently
// partial result.
func (e *Engine) Calculate(ctx context.Context, agentID uint) ([]domain.Provision, error) {
	policies, err := e.gateway.PoliciesByAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("loading policies for agent %d: %w", agentID, err)
	}
	if len(policies) == 0 {
		// Unknown agent and zero policies are indistinguishable here and
		// both are a no-op.
		return nil, nil
	}

	at := e.now()
	provisions := make([]domain.Provision, 0, len(policies))
	for _, p := range policies {
		rate, err := e.gateway.RateByPolicyType(ctx, p.Type)
		if err != nil {
			if errors.Is(err, ErrRateNotFound) {
				return nil, &RateNotFoundError{AgentID: p.AgentID, PolicyID: p.ID, PolicyType: p.Type}
			}
			return nil, fmt.Errorf("looking up rate for policy %d (%s): %w", p.ID, p.Type, err)
		}
		amount := domain.CommissionFor(p.PremiumAmount, rate.Rate)
		provisions = append(provisions, domain.NewProvision(p, amount, at))
	}

	if err := e.gateway.AppendProvisions(ctx, provisions); err != nil {
		return nil, &PersistError{AgentID: agentID, Err: err}
	}
	return provisions, nil
}
