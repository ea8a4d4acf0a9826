/*
ratetable.go - Validated mapping from policy type to commission rate

PURPOSE:
  Replaces ad-hoc string-keyed rate lookups with a mapping that is validated
  once at load time. Policy types are an open set (external configuration
  adds new ones), so the table validates shape rather than membership:
  no blank types, no negative rates, no duplicates.

SEE ALSO:
  - types.go: CommissionRate record
  - provision/engine.go: Per-policy lookup during calculation
*/
package domain

import (
	"fmt"
	"sort"
)

// RateTable is an in-memory view of the commission_rates table.
// Built via NewRateTable, which rejects malformed rows up front.
type RateTable struct {
	rates map[PolicyType]CommissionRate
}

// NewRateTable validates rows and builds the lookup table.
func NewRateTable(rows []CommissionRate) (*RateTable, error) {
	rates := make(map[PolicyType]CommissionRate, len(rows))
	for _, r := range rows {
		if r.PolicyType == "" {
			return nil, fmt.Errorf("rate table: blank policy type")
		}
		if r.Rate.IsNegative() {
			return nil, fmt.Errorf("rate table: negative rate %s for %q", r.Rate, r.PolicyType)
		}
		if _, dup := rates[r.PolicyType]; dup {
			return nil, fmt.Errorf("rate table: duplicate policy type %q", r.PolicyType)
		}
		rates[r.PolicyType] = r
	}
	return &RateTable{rates: rates}, nil
}

// Lookup returns the rate for a policy type.
func (t *RateTable) Lookup(pt PolicyType) (CommissionRate, bool) {
	r, ok := t.rates[pt]
	return r, ok
}

// Types returns the known policy types, sorted for deterministic output.
func (t *RateTable) Types() []PolicyType {
	out := make([]PolicyType, 0, len(t.rates))
	for pt := range t.rates {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *RateTable) Len() int { return len(t.rates) }
