// Package uireport renders Guardian's human-readable CLI output, gating
// fatih/color on an isatty check so piped output stays plain.
package uireport

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/boshu2/guardian/internal/audit"
	"github.com/boshu2/guardian/internal/policy"
)

// Reporter writes colorized or plain status lines depending on TTY
// detection and the configured color mode (auto, always, never).
type Reporter struct {
	w     io.Writer
	color bool
	ok    func(format string, a ...interface{}) string
	bad   func(format string, a ...interface{}) string
	warn  func(format string, a ...interface{}) string
	bold  func(format string, a ...interface{}) string
	faint func(format string, a ...interface{}) string
}

// New builds a Reporter writing to w. mode is "auto", "always", or "never".
func New(w io.Writer, mode string) *Reporter {
	enabled := shouldColor(w, mode)

	r := &Reporter{w: w, color: enabled}
	if enabled {
		r.ok = color.New(color.FgGreen).SprintfFunc()
		r.bad = color.New(color.FgRed, color.Bold).SprintfFunc()
		r.warn = color.New(color.FgYellow).SprintfFunc()
		r.bold = color.New(color.Bold).SprintfFunc()
		r.faint = color.New(color.Faint).SprintfFunc()
	} else {
		plain := func(format string, a ...interface{}) string { return fmt.Sprintf(format, a...) }
		r.ok, r.bad, r.warn, r.bold, r.faint = plain, plain, plain, plain, plain
	}
	return r
}

func shouldColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

// Decision prints one hook decision line, used by `guardian test`.
func (r *Reporter) Decision(result policy.ValidationResult) {
	if result.Allowed {
		fmt.Fprintf(r.w, "%s  %s\n", r.ok("ALLOW"), r.faint(string(result.Source)))
		return
	}
	fmt.Fprintf(r.w, "%s   %s %s\n", r.bad("DENY"), r.warn("[%s]", result.Severity), result.Reason)
	if result.Pattern != "" {
		fmt.Fprintf(r.w, "      %s %s\n", r.faint("pattern:"), result.Pattern)
	}
}

// ValidateOK prints a policy-validation success line.
func (r *Reporter) ValidateOK(path string) {
	fmt.Fprintf(r.w, "%s %s is valid\n", r.ok("✓"), r.bold(path))
}

// ValidateFail prints a policy-validation failure line.
func (r *Reporter) ValidateFail(path string, err error) {
	fmt.Fprintf(r.w, "%s %s: %v\n", r.bad("✗"), r.bold(path), err)
}

// VerifyResult prints an audit chain verification outcome.
func (r *Reporter) VerifyResult(res audit.VerifyResult) {
	if res.Valid {
		fmt.Fprintf(r.w, "%s chain intact over %d entries\n", r.ok("✓"), res.Entries)
		return
	}
	fmt.Fprintf(r.w, "%s chain broken at entry %d (%s)\n", r.bad("✗"), res.BrokenAt, res.BrokenKind)
}

// Summary prints an audit summary table.
func (r *Reporter) Summary(s audit.Summary) {
	fmt.Fprintf(r.w, "%s %d\n", r.bold("total:"), s.Total)
	fmt.Fprintf(r.w, "  %s  %d\n", r.ok("allowed"), s.Allowed)
	fmt.Fprintf(r.w, "  %s   %d\n", r.bad("denied"), s.Denied)
	if len(s.ByTool) > 0 {
		fmt.Fprintln(r.w, r.faint("by tool:"))
		for tool, n := range s.ByTool {
			fmt.Fprintf(r.w, "  %-20s %d\n", tool, n)
		}
	}
	if len(s.BySeverity) > 0 {
		fmt.Fprintln(r.w, r.faint("by severity:"))
		for sev, n := range s.BySeverity {
			fmt.Fprintf(r.w, "  %-20s %d\n", sev, n)
		}
	}
}

// PolicySummary prints mode, allowlist/scope/blocklist counts, and the
// audit config for `guardian check`.
func (r *Reporter) PolicySummary(path string, pol *policy.Policy, compiled *policy.Compiled) {
	fmt.Fprintf(r.w, "%s %s\n", r.bold("policy:"), path)
	fmt.Fprintf(r.w, "  mode: %s\n", r.modeColor(pol.Mode))
	fmt.Fprintln(r.w, r.faint("allowlist:"))
	fmt.Fprintf(r.w, "  commands: %d  paths: %d  domains: %d\n",
		len(pol.Allowlist.Commands), len(pol.Allowlist.Paths), len(pol.Allowlist.Domains))
	fmt.Fprintln(r.w, r.faint("scope:"))
	fmt.Fprintf(r.w, "  allowed_paths: %d  denied_paths: %d  allow_outside_cwd: %t\n",
		len(pol.Scope.AllowedPaths), len(pol.Scope.DeniedPaths), pol.Scope.AllowOutsideCWD)
	fmt.Fprintln(r.w, r.faint("blocklist:"))
	fmt.Fprintf(r.w, "  commands: %d  file_patterns: %d  secret_patterns: %d  network: %d\n",
		len(compiled.Commands), len(compiled.Files), len(compiled.Secrets), len(compiled.Network))
	fmt.Fprintln(r.w, r.faint("budget:"))
	fmt.Fprintf(r.w, "  enabled: %t  max_actions_per_session: %d\n",
		pol.Budget.Enabled, pol.Budget.MaxActionsPerSession)
	fmt.Fprintln(r.w, r.faint("audit:"))
	fmt.Fprintf(r.w, "  enabled: %t  path: %s  integrity: %s  rotation: %s\n",
		pol.Audit.Enabled, pol.Audit.Path, pol.Audit.Integrity, pol.Audit.Rotation)
	fmt.Fprintln(r.w, r.faint("kill_switch:"))
	fmt.Fprintf(r.w, "  enabled: %t  on_blocklist_critical: %t  on_budget_breach: %t  exit_code: %d\n",
		pol.KillSwitch.Enabled, pol.KillSwitch.OnBlocklistCritical, pol.KillSwitch.OnBudgetBreach, pol.KillSwitch.ExitCode)
}

func (r *Reporter) modeColor(mode policy.Mode) string {
	switch mode {
	case policy.ModeEnforce:
		return r.ok(string(mode))
	case policy.ModeAudit:
		return r.warn(string(mode))
	default:
		return r.faint(string(mode))
	}
}
