// Package pipeline implements Guardian's four-gate decision pipeline:
// allowlist, scope, blocklist, budget, evaluated in that order for every
// HookInput.
package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/boshu2/guardian/internal/budget"
	"github.com/boshu2/guardian/internal/policy"
	"github.com/boshu2/guardian/internal/shellguard"
)

// Pipeline evaluates HookInputs against a loaded, compiled Policy.
type Pipeline struct {
	Tracker *budget.Tracker
}

// New returns a Pipeline backed by a fresh budget tracker. One Pipeline is
// meant to live for the lifetime of a single check invocation, since the
// tracker's count resets on process start.
func New() *Pipeline {
	return &Pipeline{Tracker: budget.NewTracker()}
}

// Evaluate runs the full pipeline for one request.
func (p *Pipeline) Evaluate(pol *policy.Policy, compiled *policy.Compiled, in policy.HookInput) policy.ValidationResult {
	if pol.Mode == policy.ModeOff {
		return policy.ValidationResult{Allowed: true}
	}

	result := p.evaluateGates(pol, compiled, in)

	if pol.Mode == policy.ModeAudit && !result.Allowed && result.Source != policy.SourceAllowlist {
		result.Allowed = true
	}

	return result
}

// evaluateGates runs allowlist, scope, blocklist, then budget, in that
// order, returning the first gate's deny. Budget always runs last since its
// counter must increment exactly once per request regardless of earlier
// gates' outcome, even when the budget gate itself is disabled.
func (p *Pipeline) evaluateGates(pol *policy.Policy, compiled *policy.Compiled, in policy.HookInput) policy.ValidationResult {
	// An allowlist hit bypasses every later check, including budget.
	if res, ok := evaluateAllowlist(pol.Allowlist, in); ok {
		return res
	}

	if res, ok := evaluateScope(pol.Scope, in); ok {
		return withBudget(p, pol, res)
	}

	if res, ok := evaluateBlocklist(compiled, in); ok {
		return withBudget(p, pol, res)
	}

	return withBudget(p, pol, policy.ValidationResult{Allowed: true})
}

// withBudget always runs the budget step (for its side-effecting counter
// increment) but only lets a budget breach override an already-allowing
// result; an earlier deny from scope/blocklist is returned as-is since the
// first gate to deny wins.
func withBudget(p *Pipeline, pol *policy.Policy, prior policy.ValidationResult) policy.ValidationResult {
	state := p.Tracker.Evaluate(pol.Budget)
	stateCopy := state

	if !prior.Allowed {
		prior.Budget = &stateCopy
		return prior
	}

	if state.Exceeded {
		return policy.ValidationResult{
			Allowed:  false,
			Reason:   state.BreachReason,
			Severity: policy.SeverityHigh,
			Source:   policy.SourceBudget,
			Budget:   &stateCopy,
		}
	}

	prior.Budget = &stateCopy
	return prior
}

// evaluateAllowlist is gate 1: exact command/domain/path-prefix matches only.
func evaluateAllowlist(al policy.Allowlist, in policy.HookInput) (policy.ValidationResult, bool) {
	switch in.ToolName {
	case "Bash":
		cmd := in.StringParam("command")
		for _, allowed := range al.Commands {
			if cmd == allowed {
				return policy.ValidationResult{Allowed: true, Source: policy.SourceAllowlist}, true
			}
		}
		return policy.ValidationResult{}, false

	case "WebFetch":
		raw := in.StringParam("url")
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return policy.ValidationResult{}, false
		}
		for _, domain := range al.Domains {
			if u.Hostname() == domain {
				return policy.ValidationResult{Allowed: true, Source: policy.SourceAllowlist}, true
			}
		}
		return policy.ValidationResult{}, false

	default:
		path := in.StringParam("file_path")
		if path == "" {
			return policy.ValidationResult{}, false
		}
		for _, prefix := range al.Paths {
			if strings.HasPrefix(path, prefix) {
				return policy.ValidationResult{Allowed: true, Source: policy.SourceAllowlist}, true
			}
		}
		return policy.ValidationResult{}, false
	}
}

// evaluateScope is gate 2. It is skipped entirely (second return false)
// when the input carries no file_path.
func evaluateScope(sc policy.Scope, in policy.HookInput) (policy.ValidationResult, bool) {
	path := in.StringParam("file_path")
	if path == "" {
		return policy.ValidationResult{}, false
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(in.CWD, resolved)
	} else {
		resolved = filepath.Clean(resolved)
	}

	for _, denied := range sc.DeniedPaths {
		if strings.HasPrefix(resolved, denied) {
			return policy.ValidationResult{
				Allowed:  false,
				Reason:   "path is within a denied scope prefix: " + denied,
				Severity: policy.SeverityHigh,
				Source:   policy.SourceScope,
			}, true
		}
	}

	if sc.AllowOutsideCWD {
		return policy.ValidationResult{}, false
	}

	for _, tmpl := range sc.AllowedPaths {
		expanded := strings.ReplaceAll(tmpl, "{cwd}", in.CWD)
		if strings.HasPrefix(resolved, expanded) {
			return policy.ValidationResult{}, false
		}
	}

	return policy.ValidationResult{
		Allowed:  false,
		Reason:   "path falls outside the allowed scope",
		Severity: policy.SeverityHigh,
		Source:   policy.SourceScope,
	}, true
}

// evaluateBlocklist is gate 3, dispatching by tool name.
func evaluateBlocklist(c *policy.Compiled, in policy.HookInput) (policy.ValidationResult, bool) {
	switch {
	case in.ToolName == "Bash":
		return blocklistBash(c, in)
	case in.ToolName == "Write" || in.ToolName == "Edit":
		return blocklistWriteEdit(c, in)
	case in.ToolName == "Read":
		return blocklistRead(c, in)
	case in.ToolName == "WebFetch":
		return blocklistWebFetch(c, in)
	case strings.HasPrefix(in.ToolName, "mcp__"):
		return blocklistMCP(c, in)
	default:
		return policy.ValidationResult{}, false
	}
}

func blocklistBash(c *policy.Compiled, in policy.HookInput) (policy.ValidationResult, bool) {
	cmd := in.StringParam("command")
	pre := shellguard.Process(cmd)

	if res, ok := matchCommand(c.Commands, pre.Stripped); ok {
		return res, true
	}
	for _, seg := range pre.Segments {
		if res, ok := matchCommand(c.Commands, seg); ok {
			return res, true
		}
	}
	for _, sub := range pre.Substitutions {
		if res, ok := matchCommand(c.Commands, sub); ok {
			return res, true
		}
	}
	if res, ok := matchNetwork(c.Network, pre.Raw); ok {
		return res, true
	}

	return policy.ValidationResult{}, false
}

func blocklistWriteEdit(c *policy.Compiled, in policy.HookInput) (policy.ValidationResult, bool) {
	path := in.StringParam("file_path")
	if path != "" {
		for _, fp := range c.Files {
			if !policy.HasOperation(fp.Operations, policy.OpWrite) {
				continue
			}
			if fp.Regex.MatchString(path) {
				return denyFromFile(fp), true
			}
		}
	}

	var content string
	if in.ToolName == "Write" {
		content = in.StringParam("content")
	} else {
		content = in.StringParam("new_string")
	}
	if content != "" {
		if res, ok := matchSecret(c.Secrets, content); ok {
			return res, true
		}
	}

	return policy.ValidationResult{}, false
}

func blocklistRead(c *policy.Compiled, in policy.HookInput) (policy.ValidationResult, bool) {
	path := in.StringParam("file_path")
	if path == "" {
		return policy.ValidationResult{}, false
	}
	for _, fp := range c.Files {
		if !policy.HasOperation(fp.Operations, policy.OpRead) {
			continue
		}
		if fp.Regex.MatchString(path) {
			return denyFromFile(fp), true
		}
	}
	return policy.ValidationResult{}, false
}

func blocklistWebFetch(c *policy.Compiled, in policy.HookInput) (policy.ValidationResult, bool) {
	u := in.StringParam("url")
	if u == "" {
		return policy.ValidationResult{}, false
	}
	return matchNetwork(c.Network, u)
}

func blocklistMCP(c *policy.Compiled, in policy.HookInput) (policy.ValidationResult, bool) {
	for _, v := range in.ToolInput {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if res, ok := matchCommand(c.Commands, s); ok {
			return res, true
		}
		if res, ok := matchNetwork(c.Network, s); ok {
			return res, true
		}
		if res, ok := matchSecret(c.Secrets, s); ok {
			return res, true
		}
	}
	return policy.ValidationResult{}, false
}

func matchCommand(patterns []policy.CompiledCommand, text string) (policy.ValidationResult, bool) {
	for _, cp := range patterns {
		if cp.Regex.MatchString(text) {
			return policy.ValidationResult{
				Allowed:  false,
				Reason:   cp.Reason,
				Severity: cp.Severity,
				Pattern:  cp.Pattern,
				Source:   policy.SourceBlocklist,
			}, true
		}
	}
	return policy.ValidationResult{}, false
}

func matchNetwork(patterns []policy.CompiledNetwork, text string) (policy.ValidationResult, bool) {
	for _, np := range patterns {
		if np.Regex.MatchString(text) {
			return policy.ValidationResult{
				Allowed:  false,
				Reason:   np.Reason,
				Severity: np.Severity,
				Pattern:  np.Pattern,
				Source:   policy.SourceBlocklist,
			}, true
		}
	}
	return policy.ValidationResult{}, false
}

func matchSecret(patterns []policy.CompiledSecret, text string) (policy.ValidationResult, bool) {
	for _, sp := range patterns {
		if sp.Regex.MatchString(text) {
			return policy.ValidationResult{
				Allowed:  false,
				Reason:   sp.Reason,
				Severity: sp.Severity,
				Pattern:  sp.Pattern,
				Source:   policy.SourceBlocklist,
			}, true
		}
	}
	return policy.ValidationResult{}, false
}

func denyFromFile(fp policy.CompiledFile) policy.ValidationResult {
	return policy.ValidationResult{
		Allowed:  false,
		Reason:   fp.Reason,
		Severity: fp.Severity,
		Pattern:  fp.Pattern,
		Source:   policy.SourceBlocklist,
	}
}
