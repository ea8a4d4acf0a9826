/*
Package domain defines the provisioning data model.

PURPOSE:
  In-memory representation of the four entities the commission engine works
  with: Agent, Policy, CommissionRate, Provision. Plain records with no
  behavior beyond construction helpers — all persistence and calculation
  lives elsewhere.

KEY CONCEPTS IN THIS FILE (types.go):
  - PolicyType: Category label linking a Policy to its CommissionRate
  - Money: decimal.Decimal, never binary floating point
  - Provision: Computed, immutable, append-only

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid currency rounding drift
  2. Immutability: Provisions are never updated; recalculation appends
  3. Referential consistency: A Provision's AgentID always comes from the
     owning Policy, never chosen independently

SEE ALSO:
  - ratetable.go: Validated PolicyType -> rate mapping
  - provision/engine.go: The calculation that produces Provisions
*/
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY TYPE - Lookup key into commission rates
// =============================================================================

// PolicyType is the category label matched against CommissionRate rows.
// It is an open set: new types appear through configuration, so validation
// happens at rate-table load time rather than against a closed enum.
type PolicyType string

func (t PolicyType) String() string { return string(t) }

// =============================================================================
// ENTITIES
// =============================================================================

// Agent owns zero or more policies.
type Agent struct {
	ID     uint
	Name   string
	Region string
}

// Policy belongs to exactly one Agent.
type Policy struct {
	ID            uint
	AgentID       uint
	Type          PolicyType
	PremiumAmount decimal.Decimal
	IssueDate     time.Time
}

// CommissionRate maps a policy type to a percentage (10.0 means 10%).
// PolicyType is the identity; there is at most one rate per type.
type CommissionRate struct {
	PolicyType PolicyType
	Rate       decimal.Decimal
}

// Provision is a computed commission row. Created exclusively by the
// calculation engine, never updated or deleted.
type Provision struct {
	ID              uint
	AgentID         uint
	PolicyID        uint
	Amount          decimal.Decimal
	CalculationDate time.Time
}

// NewProvision builds a provision for a policy. The agent reference is taken
// from the policy itself, which is what keeps provision.AgentID consistent
// with the policy's owner by construction.
func NewProvision(p Policy, amount decimal.Decimal, at time.Time) Provision {
	return Provision{
		AgentID:         p.AgentID,
		PolicyID:        p.ID,
		Amount:          amount,
		CalculationDate: at,
	}
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

var hundred = decimal.NewFromInt(100)

// CommissionFor computes premium * (rate / 100), rounded to cents.
// decimal division here is exact for every NUMERIC(5,2) rate.
func CommissionFor(premium, rate decimal.Decimal) decimal.Decimal {
	return premium.Mul(rate).Div(hundred).Round(2)
}

// MustDecimal parses s or panics. For literals in tests and seed data only.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
