/*
report.go - Provision report read-model

PURPOSE:
  The operator-facing view of calculated provisions: the provisions table
  joined with agents and policies, newest calculation first. Storage
  implementations produce the rows; FormatReport renders the fixed-width
  table the calculate command prints.
*/
package provision

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/provision-engine/domain"
)

// ReportRow is one line of the provision report.
type ReportRow struct {
	AgentName       string
	PolicyType      domain.PolicyType
	PremiumAmount   decimal.Decimal
	ProvisionAmount decimal.Decimal
	CalculationDate time.Time
}

// Reporter is implemented by stores that can produce the joined report.
type Reporter interface {
	// ProvisionReport returns all provisions for an agent joined with
	// agent and policy data, ordered by calculation date descending.
	ProvisionReport(ctx context.Context, agentID uint) ([]ReportRow, error)
}

// FormatReport writes rows as a fixed-width table.
func FormatReport(w io.Writer, rows []ReportRow) {
	fmt.Fprintf(w, "%-15s %-15s %-12s %-12s %s\n", "Agent", "Policy Type", "Premium", "Provision", "Date")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-15s %-15s $%-11s $%-11s %s\n",
			r.AgentName,
			r.PolicyType,
			r.PremiumAmount.StringFixed(2),
			r.ProvisionAmount.StringFixed(2),
			r.CalculationDate.Format("2006-01-02"),
		)
	}
}
