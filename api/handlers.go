/*
handlers.go - HTTP handlers for the provision report API

PURPOSE:
  Exposes the calculation engine and the provision report over REST.
  Handlers parse the request, delegate to the engine or store, and
  serialize JSON.

ENDPOINTS:
  GET  /api/agents                           List agents
  GET  /api/agents/{id}                      Agent details
  GET  /api/agents/{id}/provisions           Joined provision report
  POST /api/agents/{id}/provisions/calculate Run the engine for the agent
  GET  /api/rates                            Commission rate table

ERROR HANDLING:
  - 400: Malformed agent id
  - 404: Unknown agent (detail endpoints only; calculation of an unknown
         agent is a documented no-op and returns 200 with count 0)
  - 422: Missing commission rate (the batch was aborted, nothing stored)
  - 500: Storage failures

SECURITY NOTE:
  No authentication. This is an operator-facing demo surface.

SEE ALSO:
  - dto.go: Response shapes
  - server.go: Router and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/provision-engine/domain"
	"github.com/warp/provision-engine/provision"
)

// Store is the read/write surface the handlers need. Both store/postgres
// and store/memory satisfy it.
type Store interface {
	provision.Gateway
	provision.Reporter
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	AgentByID(ctx context.Context, id uint) (domain.Agent, bool, error)
	ListRates(ctx context.Context) ([]domain.CommissionRate, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	store  Store
	engine *provision.Engine
}

// NewHandler creates a handler backed by store, running the engine over it.
func NewHandler(store Store, engine *provision.Engine) *Handler {
	return &Handler{store: store, engine: engine}
}

// =============================================================================
// AGENT HANDLERS
// =============================================================================

// ListAgents returns all agents.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.store.ListAgents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list agents", err)
		return
	}
	dtos := make([]AgentDTO, len(agents))
	for i, a := range agents {
		dtos[i] = toAgentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAgent returns a single agent.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(w, r)
	if !ok {
		return
	}
	agent, found, err := h.store.AgentByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load agent", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "agent not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAgentDTO(agent))
}

// =============================================================================
// PROVISION HANDLERS
// =============================================================================

// GetProvisionReport returns the joined provision report for an agent.
func (h *Handler) GetProvisionReport(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(w, r)
	if !ok {
		return
	}
	rows, err := h.store.ProvisionReport(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report", err)
		return
	}
	dtos := make([]ReportRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toReportRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CalculateProvisions runs the engine for an agent. An unknown agent is a
// no-op (count 0), matching the engine contract.
func (h *Handler) CalculateProvisions(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(w, r)
	if !ok {
		return
	}
	provisions, err := h.engine.Calculate(r.Context(), id)
	if err != nil {
		if errors.Is(err, provision.ErrRateNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "calculation aborted, nothing stored", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "calculation failed", err)
		return
	}

	dtos := make([]ProvisionDTO, len(provisions))
	for i, p := range provisions {
		dtos[i] = toProvisionDTO(p)
	}
	writeJSON(w, http.StatusOK, CalculateResponse{
		AgentID:    id,
		Count:      len(dtos),
		Provisions: dtos,
	})
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// ListRates returns the commission rate table.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.store.ListRates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rates", err)
		return
	}
	dtos := make([]RateDTO, len(rates))
	for i, rt := range rates {
		dtos[i] = RateDTO{PolicyType: string(rt.PolicyType), Rate: rt.Rate.StringFixed(1)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func agentID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent id", err)
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
