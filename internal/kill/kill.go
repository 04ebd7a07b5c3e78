// Package kill implements Guardian's kill switch: translating qualifying
// denies into process termination.
package kill

import (
	"fmt"
	"os"

	"github.com/boshu2/guardian/internal/policy"
)

// Decision reports whether a deny should terminate the process, and with
// what exit code.
type Decision struct {
	Kill     bool
	ExitCode int
	Reason   string
}

// Evaluate decides whether result should terminate the process: kill when
// enabled and (on_blocklist_critical and severity critical) or
// (on_budget_breach and the breach came from the budget gate with
// action_on_breach == "kill").
func Evaluate(ks policy.KillSwitch, budgetCfg policy.Budget, result policy.ValidationResult) Decision {
	if !ks.Enabled || result.Allowed {
		return Decision{}
	}

	if ks.OnBlocklistCritical && result.Severity == policy.SeverityCritical {
		return Decision{Kill: true, ExitCode: ks.ExitCode, Reason: result.Reason}
	}

	if ks.OnBudgetBreach && result.Source == policy.SourceBudget && budgetCfg.ActionOnBreach == "kill" {
		return Decision{Kill: true, ExitCode: ks.ExitCode, Reason: result.Reason}
	}

	return Decision{}
}

// Terminate writes a diagnostic line to stderr and exits the process with
// d.ExitCode. Callers must invoke this only after the triggering audit entry
// has already been appended, so the kill is never silent in the log.
func Terminate(d Decision) {
	fmt.Fprintf(os.Stderr, "[Guardian] kill switch triggered: %s\n", d.Reason)
	os.Exit(d.ExitCode)
}
