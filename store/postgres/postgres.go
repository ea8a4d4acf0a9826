/*
Package postgres provides the GORM-backed storage gateway.

PURPOSE:
  Production implementation of provision.Gateway plus everything the CLI
  needs around it: schema setup, sample-data seeding, the stored procedure
  the translate pipeline works on, the provision report query, and the
  catalog introspector (catalog.go).

TRANSACTIONS:
  AppendProvisions wraps the batch in db.Transaction. GORM commits when the
  closure returns nil and rolls back on any error, which makes the engine's
  all-or-nothing guarantee structural rather than incidental.

DECIMALS:
  Premium, rate, and provision columns are NUMERIC and mapped to
  shopspring/decimal. No float64 touches a currency value.

SEE ALSO:
  - catalog.go: pg_proc / information_schema introspection
  - provision/engine.go: Gateway contract
  - store/memory: Test implementation of the same contracts
*/
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/warp/provision-engine/config"
	"github.com/warp/provision-engine/domain"
	"github.com/warp/provision-engine/provision"
)

// =============================================================================
// MODELS
// =============================================================================

type AgentModel struct {
	AgentID uint   `gorm:"column:agent_id;primaryKey;autoIncrement"`
	Name    string `gorm:"column:name;type:varchar(100);not null"`
	Region  string `gorm:"column:region;type:varchar(50);not null"`
}

func (AgentModel) TableName() string { return "agents" }

type PolicyModel struct {
	PolicyID      uint            `gorm:"column:policy_id;primaryKey;autoIncrement"`
	AgentID       uint            `gorm:"column:agent_id;not null;index"`
	PolicyType    string          `gorm:"column:policy_type;type:varchar(50);not null"`
	PremiumAmount decimal.Decimal `gorm:"column:premium_amount;type:numeric(12,2);not null"`
	IssueDate     time.Time       `gorm:"column:issue_date;type:date;not null"`
}

func (PolicyModel) TableName() string { return "policies" }

type CommissionRateModel struct {
	PolicyType     string          `gorm:"column:policy_type;type:varchar(50);primaryKey"`
	CommissionRate decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,2);not null"`
}

func (CommissionRateModel) TableName() string { return "commission_rates" }

type ProvisionModel struct {
	ProvisionID     uint            `gorm:"column:provision_id;primaryKey;autoIncrement"`
	AgentID         uint            `gorm:"column:agent_id;not null;index"`
	PolicyID        uint            `gorm:"column:policy_id;not null"`
	ProvisionAmount decimal.Decimal `gorm:"column:provision_amount;type:numeric(12,2);not null"`
	CalculationDate time.Time       `gorm:"column:calculation_date;not null"`
}

func (ProvisionModel) TableName() string { return "provisions" }

// =============================================================================
// STORE
// =============================================================================

// Store implements provision.Gateway, provision.Reporter, and
// translate.Introspector on PostgreSQL.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// New opens a connection using the explicit config struct. Missing or wrong
// credentials surface here, on the first connection attempt.
func New(cfg *config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(&slogWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s@%s:%d/%s: %w", cfg.User, cfg.Host, cfg.Port, cfg.Name, err)
	}
	log.Info("database connection established", "database", cfg.Name)
	return &Store{db: db, log: log}, nil
}

// NewWithDB wraps an already-open gorm handle. Tests use this with the
// sqlite driver; the gateway queries are dialect-neutral.
func NewWithDB(db *gorm.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// slogWriter adapts gorm's printf logger to slog.
type slogWriter struct {
	log *slog.Logger
}

func (w *slogWriter) Printf(format string, args ...any) {
	w.log.Warn("gorm", "details", fmt.Sprintf(format, args...))
}

// =============================================================================
// SETUP - Schema, stored procedure, sample data
// =============================================================================

// Migrate creates or updates the four tables. Idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&AgentModel{},
		&PolicyModel{},
		&CommissionRateModel{},
		&ProvisionModel{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// calculateProvisionsProc is the PL/pgSQL subject of the translate
// pipeline: the database-resident twin of provision.Engine.Calculate.
const calculateProvisionsProc = `
CREATE OR REPLACE PROCEDURE calculate_provisions(agent_id_input INT)
LANGUAGE plpgsql
AS $$
DECLARE
    policy RECORD;
    commission_rate_value NUMERIC(5, 2);
    provision_amount NUMERIC(12, 2);
BEGIN
    FOR policy IN
        SELECT * FROM policies WHERE agent_id = agent_id_input
    LOOP
        SELECT cr.commission_rate
        INTO commission_rate_value
        FROM commission_rates cr
        WHERE cr.policy_type = policy.policy_type;

        provision_amount := policy.premium_amount * (commission_rate_value / 100);

        INSERT INTO provisions (agent_id, policy_id, provision_amount, calculation_date)
        VALUES (policy.agent_id, policy.policy_id, provision_amount, CURRENT_DATE);
    END LOOP;
END;
$$;
`

// CreateStoredProcedure installs calculate_provisions so the translate
// pipeline has a real subject to discover. PostgreSQL only.
func (s *Store) CreateStoredProcedure(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec(calculateProvisionsProc).Error; err != nil {
		return fmt.Errorf("creating stored procedure: %w", err)
	}
	return nil
}

// Seed inserts the sample agents, policies, and rates. Idempotent: existing
// rows are left alone, matching the original ON CONFLICT DO NOTHING loads.
func (s *Store) Seed(ctx context.Context) error {
	agents := []AgentModel{
		{AgentID: 1, Name: "Alice", Region: "North"},
		{AgentID: 2, Name: "Bob", Region: "South"},
	}
	policies := []PolicyModel{
		{PolicyID: 1, AgentID: 1, PolicyType: "Health", PremiumAmount: domain.MustDecimal("1000.00"), IssueDate: date(2024, 1, 1)},
		{PolicyID: 2, AgentID: 1, PolicyType: "Life", PremiumAmount: domain.MustDecimal("1500.00"), IssueDate: date(2024, 2, 1)},
		{PolicyID: 3, AgentID: 2, PolicyType: "Health", PremiumAmount: domain.MustDecimal("2000.00"), IssueDate: date(2024, 1, 15)},
	}
	rates := []CommissionRateModel{
		{PolicyType: "Health", CommissionRate: domain.MustDecimal("10.0")},
		{PolicyType: "Life", CommissionRate: domain.MustDecimal("12.0")},
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range agents {
			if err := tx.FirstOrCreate(&AgentModel{}, a).Error; err != nil {
				return fmt.Errorf("seeding agent %q: %w", a.Name, err)
			}
		}
		for _, p := range policies {
			if err := tx.FirstOrCreate(&PolicyModel{}, p).Error; err != nil {
				return fmt.Errorf("seeding policy %d: %w", p.PolicyID, err)
			}
		}
		for _, r := range rates {
			if err := tx.FirstOrCreate(&CommissionRateModel{}, r).Error; err != nil {
				return fmt.Errorf("seeding rate %q: %w", r.PolicyType, err)
			}
		}
		return nil
	})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// GATEWAY
// =============================================================================

func (s *Store) PoliciesByAgent(ctx context.Context, agentID uint) ([]domain.Policy, error) {
	var models []PolicyModel
	err := s.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("policy_id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("loading policies for agent %d: %w", agentID, err)
	}

	policies := make([]domain.Policy, len(models))
	for i, m := range models {
		policies[i] = domain.Policy{
			ID:            m.PolicyID,
			AgentID:       m.AgentID,
			Type:          domain.PolicyType(m.PolicyType),
			PremiumAmount: m.PremiumAmount,
			IssueDate:     m.IssueDate,
		}
	}
	return policies, nil
}

func (s *Store) RateByPolicyType(ctx context.Context, pt domain.PolicyType) (domain.CommissionRate, error) {
	var model CommissionRateModel
	err := s.db.WithContext(ctx).
		Where("policy_type = ?", string(pt)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CommissionRate{}, provision.ErrRateNotFound
		}
		return domain.CommissionRate{}, fmt.Errorf("loading rate for %q: %w", pt, err)
	}
	return domain.CommissionRate{
		PolicyType: domain.PolicyType(model.PolicyType),
		Rate:       model.CommissionRate,
	}, nil
}

// AppendProvisions writes the batch inside a single transaction. GORM rolls
// back on any returned error, so a failed insert leaves nothing behind.
func (s *Store) AppendProvisions(ctx context.Context, provisions []domain.Provision) error {
	if len(provisions) == 0 {
		return nil
	}
	models := make([]ProvisionModel, len(provisions))
	for i, p := range provisions {
		models[i] = ProvisionModel{
			AgentID:         p.AgentID,
			PolicyID:        p.PolicyID,
			ProvisionAmount: p.Amount,
			CalculationDate: p.CalculationDate,
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("inserting provisions: %w", err)
		}
		return nil
	})
}

// =============================================================================
// READ SIDE
// =============================================================================

func (s *Store) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	var models []AgentModel
	if err := s.db.WithContext(ctx).Order("agent_id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	agents := make([]domain.Agent, len(models))
	for i, m := range models {
		agents[i] = domain.Agent{ID: m.AgentID, Name: m.Name, Region: m.Region}
	}
	return agents, nil
}

func (s *Store) AgentByID(ctx context.Context, id uint) (domain.Agent, bool, error) {
	var model AgentModel
	err := s.db.WithContext(ctx).Where("agent_id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Agent{}, false, nil
		}
		return domain.Agent{}, false, fmt.Errorf("loading agent %d: %w", id, err)
	}
	return domain.Agent{ID: model.AgentID, Name: model.Name, Region: model.Region}, true, nil
}

func (s *Store) ListRates(ctx context.Context) ([]domain.CommissionRate, error) {
	var models []CommissionRateModel
	if err := s.db.WithContext(ctx).Order("policy_type").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing commission rates: %w", err)
	}
	rates := make([]domain.CommissionRate, len(models))
	for i, m := range models {
		rates[i] = domain.CommissionRate{
			PolicyType: domain.PolicyType(m.PolicyType),
			Rate:       m.CommissionRate,
		}
	}
	return rates, nil
}

type reportRow struct {
	AgentName       string
	PolicyType      string
	PremiumAmount   decimal.Decimal
	ProvisionAmount decimal.Decimal
	CalculationDate time.Time
}

func (s *Store) ProvisionReport(ctx context.Context, agentID uint) ([]provision.ReportRow, error) {
	var rows []reportRow
	err := s.db.WithContext(ctx).
		Table("provisions AS pr").
		Select("a.name AS agent_name, p.policy_type, p.premium_amount, pr.provision_amount, pr.calculation_date").
		Joins("JOIN agents a ON pr.agent_id = a.agent_id").
		Joins("JOIN policies p ON pr.policy_id = p.policy_id").
		Where("pr.agent_id = ?", agentID).
		Order("pr.calculation_date DESC, pr.provision_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("provision report for agent %d: %w", agentID, err)
	}

	out := make([]provision.ReportRow, len(rows))
	for i, r := range rows {
		out[i] = provision.ReportRow{
			AgentName:       r.AgentName,
			PolicyType:      domain.PolicyType(r.PolicyType),
			PremiumAmount:   r.PremiumAmount,
			ProvisionAmount: r.ProvisionAmount,
			CalculationDate: r.CalculationDate,
		}
	}
	return out, nil
}
