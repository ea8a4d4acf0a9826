/*
Package memory provides an in-memory Gateway implementation.

PURPOSE:
  Backs the calculation engine, report queries, and the API in tests and
  demos without a running PostgreSQL. Mirrors the production store's
  contracts: provision writes are append-only and atomic per batch.

NOT IMPLEMENTED HERE:
  Catalog introspection. There is no system catalog in memory; the translate
  pipeline is tested against its own fakes instead.

SEE ALSO:
  - provision/engine.go: Gateway contract
  - store/postgres: Production implementation
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/provision-engine/domain"
	"github.com/warp/provision-engine/provision"
)

// Store is an in-memory implementation of provision.Gateway and
// provision.Reporter. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	agents     map[uint]domain.Agent
	policies   map[uint]domain.Policy
	rates      map[domain.PolicyType]domain.CommissionRate
	provisions []domain.Provision
	nextPolID  uint
	nextProvID uint
}

func New() *Store {
	return &Store{
		agents:   make(map[uint]domain.Agent),
		policies: make(map[uint]domain.Policy),
		rates:    make(map[domain.PolicyType]domain.CommissionRate),
	}
}

// =============================================================================
// SETUP HELPERS - Used by tests and demo seeding
// =============================================================================

func (s *Store) PutAgent(a domain.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[a.ID] = a
}

func (s *Store) PutPolicy(p domain.Policy) domain.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.nextPolID++
		p.ID = s.nextPolID
	} else if p.ID > s.nextPolID {
		s.nextPolID = p.ID
	}
	s.policies[p.ID] = p
	return p
}

func (s *Store) PutRate(r domain.CommissionRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[r.PolicyType] = r
}

// =============================================================================
// GATEWAY
// =============================================================================

func (s *Store) PoliciesByAgent(_ context.Context, agentID uint) ([]domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Policy
	for _, p := range s.policies {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	// Map iteration order is random; sort so runs are reproducible.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RateByPolicyType(_ context.Context, pt domain.PolicyType) (domain.CommissionRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rates[pt]
	if !ok {
		return domain.CommissionRate{}, provision.ErrRateNotFound
	}
	return r, nil
}

// AppendProvisions stores the batch. Append-only: nothing here ever mutates
// or removes an existing provision.
func (s *Store) AppendProvisions(_ context.Context, provisions []domain.Provision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range provisions {
		s.nextProvID++
		p.ID = s.nextProvID
		s.provisions = append(s.provisions, p)
	}
	return nil
}

// =============================================================================
// READ SIDE - Report and listings for the API
// =============================================================================

func (s *Store) ListAgents(_ context.Context) ([]domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AgentByID(_ context.Context, id uint) (domain.Agent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	return a, ok, nil
}

func (s *Store) ListRates(_ context.Context) ([]domain.CommissionRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CommissionRate, 0, len(s.rates))
	for _, r := range s.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PolicyType < out[j].PolicyType })
	return out, nil
}

func (s *Store) ProvisionReport(_ context.Context, agentID uint) ([]provision.ReportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []provision.ReportRow
	for _, pr := range s.provisions {
		if pr.AgentID != agentID {
			continue
		}
		agent := s.agents[pr.AgentID]
		pol := s.policies[pr.PolicyID]
		rows = append(rows, provision.ReportRow{
			AgentName:       agent.Name,
			PolicyType:      pol.Type,
			PremiumAmount:   pol.PremiumAmount,
			ProvisionAmount: pr.Amount,
			CalculationDate: pr.CalculationDate,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CalculationDate.After(rows[j].CalculationDate)
	})
	return rows, nil
}

// ProvisionCount reports how many provisions are stored for an agent.
// Test helper for the atomicity properties.
func (s *Store) ProvisionCount(agentID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.provisions {
		if p.AgentID == agentID {
			n++
		}
	}
	return n
}
