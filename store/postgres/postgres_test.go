package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/warp/provision-engine/domain"
	"github.com/warp/provision-engine/provision"
	"github.com/warp/provision-engine/store/postgres"
)

// =============================================================================
// TEST SETUP
// =============================================================================
// The gateway queries are dialect-neutral, so tests run them against an
// in-memory sqlite database. Catalog introspection and the stored procedure
// are PostgreSQL-only and are not covered here.

func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := postgres.NewWithDB(db, nil)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Seed(context.Background()))
	return store
}

// =============================================================================
// SEED + GATEWAY TESTS
// =============================================================================

func TestSeed_Idempotent(t *testing.T) {
	// GIVEN: A seeded database
	// WHEN: Seeding again
	// THEN: No error and no duplicate rows

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Seed(ctx))

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	rates, err := store.ListRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}

func TestPoliciesByAgent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	policies, err := store.PoliciesByAgent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, domain.PolicyType("Health"), policies[0].Type)
	assert.Equal(t, "1000.00", policies[0].PremiumAmount.StringFixed(2))
	assert.Equal(t, uint(1), policies[0].AgentID)

	policies, err = store.PoliciesByAgent(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, policies, "unknown agent yields empty slice, not an error")
}

func TestRateByPolicyType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rate, err := store.RateByPolicyType(ctx, "Life")
	require.NoError(t, err)
	assert.Equal(t, "12.0", rate.Rate.StringFixed(1))

	_, err = store.RateByPolicyType(ctx, "Marine")
	assert.ErrorIs(t, err, provision.ErrRateNotFound)
}

func TestAgentByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	agent, found, err := store.AgentByID(ctx, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bob", agent.Name)

	_, found, err = store.AgentByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, found)
}

// =============================================================================
// ENGINE OVER THE GORM GATEWAY
// =============================================================================

func TestEngine_EndToEnd_OverGormGateway(t *testing.T) {
	// GIVEN: The seeded Alice/Bob scenario in a real (sqlite) database
	// WHEN: Running the engine and reading the report back
	// THEN: Alice gets $100.00 and $180.00, Bob gets $200.00

	store := newTestStore(t)
	ctx := context.Background()
	engine := provision.NewEngine(store)

	alice, err := engine.Calculate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "100.00", alice[0].Amount.StringFixed(2))
	assert.Equal(t, "180.00", alice[1].Amount.StringFixed(2))

	bob, err := engine.Calculate(ctx, 2)
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "200.00", bob[0].Amount.StringFixed(2))

	rows, err := store.ProvisionReport(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].AgentName)
	assert.Equal(t, "1000.00", rows[1].PremiumAmount.StringFixed(2))
}

func TestAppendProvisions_EmptyBatch_NoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.AppendProvisions(context.Background(), nil))
}

func TestCalculate_RepeatedRun_AppendsRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	engine := provision.NewEngine(store)

	_, err := engine.Calculate(ctx, 2)
	require.NoError(t, err)
	_, err = engine.Calculate(ctx, 2)
	require.NoError(t, err)

	rows, err := store.ProvisionReport(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "each run appends, no dedupe")
}
