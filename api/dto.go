/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the report API. These decouple the domain records from
  the external contract; money fields are serialized as fixed two-decimal
  strings so clients never see binary-float artifacts.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Wrappers around lists of DTOs

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/provision-engine/domain"
	"github.com/warp/provision-engine/provision"
)

// AgentDTO represents an agent in API responses.
type AgentDTO struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

func toAgentDTO(a domain.Agent) AgentDTO {
	return AgentDTO{ID: a.ID, Name: a.Name, Region: a.Region}
}

// RateDTO represents a commission rate in API responses.
type RateDTO struct {
	PolicyType string `json:"policy_type"`
	Rate       string `json:"rate"`
}

// ProvisionDTO is one calculated provision.
type ProvisionDTO struct {
	AgentID         uint   `json:"agent_id"`
	PolicyID        uint   `json:"policy_id"`
	Amount          string `json:"amount"`
	CalculationDate string `json:"calculation_date"`
}

func toProvisionDTO(p domain.Provision) ProvisionDTO {
	return ProvisionDTO{
		AgentID:         p.AgentID,
		PolicyID:        p.PolicyID,
		Amount:          p.Amount.StringFixed(2),
		CalculationDate: p.CalculationDate.Format(time.RFC3339),
	}
}

// ReportRowDTO is one line of the joined provision report.
type ReportRowDTO struct {
	AgentName       string `json:"agent_name"`
	PolicyType      string `json:"policy_type"`
	PremiumAmount   string `json:"premium_amount"`
	ProvisionAmount string `json:"provision_amount"`
	CalculationDate string `json:"calculation_date"`
}

func toReportRowDTO(r provision.ReportRow) ReportRowDTO {
	return ReportRowDTO{
		AgentName:       r.AgentName,
		PolicyType:      string(r.PolicyType),
		PremiumAmount:   r.PremiumAmount.StringFixed(2),
		ProvisionAmount: r.ProvisionAmount.StringFixed(2),
		CalculationDate: r.CalculationDate.Format("2006-01-02"),
	}
}

// CalculateResponse reports the outcome of a calculation trigger.
type CalculateResponse struct {
	AgentID    uint           `json:"agent_id"`
	Count      int            `json:"count"`
	Provisions []ProvisionDTO `json:"provisions"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
