package audit

import (
	"encoding/json"
	"time"

	"github.com/boshu2/guardian/internal/policy"
)

// Entry is one line of the audit log. Field order (v, ts, sid, seq, tool,
// input, allowed, reason, severity, policy_match, budget, cwd, hash) is
// fixed because it is load-bearing for hash-chain reproducibility: the
// hash is computed over this exact struct declaration order.
type Entry struct {
	Version  int                    `json:"v"`
	Time     time.Time              `json:"ts"`
	Session  string                 `json:"sid"`
	Seq      int                    `json:"seq"`
	Tool     string                 `json:"tool"`
	Input    map[string]interface{} `json:"input"`
	Allowed  bool                   `json:"allowed"`
	Reason   string                 `json:"reason"`
	Severity policy.Severity        `json:"severity,omitempty"`
	Pattern  string                 `json:"policy_match,omitempty"`
	Budget   *BudgetSnapshot        `json:"budget,omitempty"`
	CWD      string                 `json:"cwd"`
	Hash     string                 `json:"hash"`
}

// BudgetSnapshot is the budget view recorded on an audit entry.
type BudgetSnapshot struct {
	RemainingUSD *float64 `json:"remaining_usd,omitempty"`
	ActionCount  int      `json:"action_count"`
}

// unhashed is the same field set and order as Entry, minus hash. Its
// canonical (compact, insertion-order) JSON encoding is what gets hashed.
type unhashed struct {
	Version  int                    `json:"v"`
	Time     time.Time              `json:"ts"`
	Session  string                 `json:"sid"`
	Seq      int                    `json:"seq"`
	Tool     string                 `json:"tool"`
	Input    map[string]interface{} `json:"input"`
	Allowed  bool                   `json:"allowed"`
	Reason   string                 `json:"reason"`
	Severity policy.Severity        `json:"severity,omitempty"`
	Pattern  string                 `json:"policy_match,omitempty"`
	Budget   *BudgetSnapshot        `json:"budget,omitempty"`
	CWD      string                 `json:"cwd"`
}

// canonicalJSON returns the byte-identical, whitespace-free, insertion-order
// serialization of e without its hash field, for cross-verifiable hashing.
// encoding/json's default Marshal already emits compact output in struct
// declaration order, which is what makes this reproducible.
func (e Entry) canonicalJSON() ([]byte, error) {
	u := unhashed{
		Version:  e.Version,
		Time:     e.Time,
		Session:  e.Session,
		Seq:      e.Seq,
		Tool:     e.Tool,
		Input:    e.Input,
		Allowed:  e.Allowed,
		Reason:   e.Reason,
		Severity: e.Severity,
		Pattern:  e.Pattern,
		Budget:   e.Budget,
		CWD:      e.CWD,
	}
	return json.Marshal(u)
}
