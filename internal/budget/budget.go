// Package budget implements Guardian's budget gate: a process-local action
// counter plus a read-only reader of an external cost snapshot file produced
// by the agent runtime.
package budget

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/boshu2/guardian/internal/guarderrors"
	"github.com/boshu2/guardian/internal/policy"
)

// Tracker is the module-scoped budget state for one process: an action
// counter that increments on every call regardless of whether the budget
// gate is enabled.
type Tracker struct {
	mu    sync.Mutex
	count int
}

// NewTracker returns a fresh, zeroed tracker. Guardian's design assumes one
// tracker per process; the counter resets on process start.
func NewTracker() *Tracker {
	return &Tracker{}
}

// costSnapshot is the shape of the JSON file the agent runtime writes.
type costSnapshot struct {
	SessionID     string  `json:"session_id"`
	TotalCostUSD  float64 `json:"total_cost_usd"`
	LastUpdated   string  `json:"last_updated"`
}

// Evaluate increments the action counter and checks it, and (when enabled)
// the cost file, against the configured budget. The counter increments even
// when cfg.Enabled is false, so flipping the budget on mid-session reports
// an accurate count.
func (t *Tracker) Evaluate(cfg policy.Budget) policy.BudgetState {
	t.mu.Lock()
	t.count++
	count := t.count
	t.mu.Unlock()

	state := policy.BudgetState{ActionCount: count}

	if !cfg.Enabled {
		return state
	}

	if cfg.MaxActionsPerSession > 0 && count > cfg.MaxActionsPerSession {
		state.Exceeded = true
		state.BreachReason = fmt.Sprintf("action count %d exceeds max_actions_per_session %d", count, cfg.MaxActionsPerSession)
		return state
	}

	if cfg.SessionLimitUSD != nil && cfg.CostFile != "" {
		cost, err := ReadCost(cfg.CostFile)
		if err == nil {
			state.SessionCostUSD = &cost
			remaining := *cfg.SessionLimitUSD - cost
			state.RemainingUSD = &remaining
			if cost >= *cfg.SessionLimitUSD {
				state.Exceeded = true
				state.BreachReason = fmt.Sprintf("session cost $%.4f meets or exceeds session_limit_usd $%.4f", cost, *cfg.SessionLimitUSD)
			}
		}
		// An unreadable, missing, or malformed cost file is silently
		// tolerated: no breach, no cost reported.
	}

	return state
}

// ReadCost reads total_cost_usd from the cost snapshot at path. Failures
// wrap guarderrors.ErrCostFileUnreadable; callers in the decision path must
// treat them as non-fatal.
func ReadCost(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", guarderrors.ErrCostFileUnreadable, err)
	}
	var snap costSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("%w: %v", guarderrors.ErrCostFileUnreadable, err)
	}
	return snap.TotalCostUSD, nil
}

// Count returns the current action count without incrementing it, for the
// `guardian budget` CLI command.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
