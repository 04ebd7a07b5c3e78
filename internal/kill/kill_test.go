package kill

import (
	"testing"

	"github.com/boshu2/guardian/internal/policy"
)

func TestEvaluateAllowedNeverKills(t *testing.T) {
	ks := policy.KillSwitch{Enabled: true, OnBlocklistCritical: true, ExitCode: 2}
	d := Evaluate(ks, policy.Budget{}, policy.ValidationResult{Allowed: true})
	if d.Kill {
		t.Error("expected an allow result to never trigger the kill switch")
	}
}

func TestEvaluateDisabledNeverKills(t *testing.T) {
	ks := policy.KillSwitch{Enabled: false}
	result := policy.ValidationResult{Allowed: false, Severity: policy.SeverityCritical}
	d := Evaluate(ks, policy.Budget{}, result)
	if d.Kill {
		t.Error("expected a disabled kill switch to never trigger")
	}
}

func TestEvaluateCriticalBlocklistKills(t *testing.T) {
	ks := policy.KillSwitch{Enabled: true, OnBlocklistCritical: true, ExitCode: 7}
	result := policy.ValidationResult{Allowed: false, Severity: policy.SeverityCritical, Source: policy.SourceBlocklist, Reason: "nope"}
	d := Evaluate(ks, policy.Budget{}, result)
	if !d.Kill {
		t.Fatal("expected a critical blocklist deny to trigger the kill switch")
	}
	if d.ExitCode != 7 {
		t.Errorf("expected exit code 7, got %d", d.ExitCode)
	}
}

func TestEvaluateHighSeverityDoesNotKillByItself(t *testing.T) {
	ks := policy.KillSwitch{Enabled: true, OnBlocklistCritical: true}
	result := policy.ValidationResult{Allowed: false, Severity: policy.SeverityHigh, Source: policy.SourceBlocklist}
	d := Evaluate(ks, policy.Budget{}, result)
	if d.Kill {
		t.Error("expected only critical severity to trigger on_blocklist_critical")
	}
}

func TestEvaluateBudgetBreachKillsOnlyWhenActionOnBreachIsKill(t *testing.T) {
	ks := policy.KillSwitch{Enabled: true, OnBudgetBreach: true, ExitCode: 2}
	result := policy.ValidationResult{Allowed: false, Source: policy.SourceBudget}

	d := Evaluate(ks, policy.Budget{ActionOnBreach: "kill"}, result)
	if !d.Kill {
		t.Fatal("expected a budget breach with action_on_breach=kill to trigger")
	}

	d2 := Evaluate(ks, policy.Budget{ActionOnBreach: ""}, result)
	if d2.Kill {
		t.Error("expected a budget breach without action_on_breach=kill to not trigger")
	}
}

func TestEvaluateOnBudgetBreachDisabledDoesNotKill(t *testing.T) {
	ks := policy.KillSwitch{Enabled: true, OnBudgetBreach: false}
	result := policy.ValidationResult{Allowed: false, Source: policy.SourceBudget}
	d := Evaluate(ks, policy.Budget{ActionOnBreach: "kill"}, result)
	if d.Kill {
		t.Error("expected on_budget_breach=false to suppress the kill")
	}
}
