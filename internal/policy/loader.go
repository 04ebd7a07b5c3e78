package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/boshu2/guardian/internal/guarderrors"
)

// requiredKeys lists the top-level keys that must be present in the raw
// document (budget is permitted to default).
var requiredKeys = []string{"version", "mode", "blocklist", "allowlist", "scope", "audit", "kill_switch"}

// cacheEntry pairs a loaded, compiled policy with the file mtime it was
// loaded from, so Load can skip re-parsing when the file hasn't changed.
type cacheEntry struct {
	policy   *Policy
	compiled *Compiled
	modTime  time.Time
}

// Loader loads and caches a policy document plus its compiled patterns,
// keyed by file mtime so repeated calls within one process skip re-parsing
// an unchanged file.
type Loader struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewLoader creates an empty policy loader/cache.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]cacheEntry)}
}

// PolicyPath returns the canonical policy file path for a working directory.
func PolicyPath(cwd string) string {
	return filepath.Join(cwd, ".guardian", "policy.json")
}

// PolicyPath is the same resolution as the package-level PolicyPath, exposed
// as a method so callers already holding a *Loader don't need the package
// name in scope.
func (l *Loader) PolicyPath(cwd string) string {
	return PolicyPath(cwd)
}

// Load resolves the policy path for cwd, returning the cached policy and its
// compiled patterns if the file's mtime is unchanged since the last load.
func (l *Loader) Load(cwd string) (*Policy, *Compiled, error) {
	path := PolicyPath(cwd)

	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, nil, fmt.Errorf("%w: %s", guarderrors.ErrPolicyMissing, path)
		}
		// Any other stat failure (permissions, etc.) forces a reload attempt
		// below, which will surface a clearer error.
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if statErr == nil {
		if entry, ok := l.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
			return entry.policy, entry.compiled, nil
		}
	}

	pol, err := parseFile(path)
	if err != nil {
		return nil, nil, err
	}

	compiled, err := Compile(pol.Blocklist)
	if err != nil {
		return nil, nil, err
	}

	if statErr == nil {
		l.cache[path] = cacheEntry{policy: pol, compiled: compiled, modTime: info.ModTime()}
	}

	return pol, compiled, nil
}

// parseFile reads and validates the policy document at path.
func parseFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", guarderrors.ErrPolicyMissing, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", guarderrors.ErrPolicyInvalid, path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", guarderrors.ErrPolicyInvalid, err)
	}

	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing required key %q", guarderrors.ErrPolicyInvalid, key)
		}
	}

	var pol Policy
	if err := json.Unmarshal(data, &pol); err != nil {
		return nil, fmt.Errorf("%w: %v", guarderrors.ErrPolicyInvalid, err)
	}

	if pol.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d (expected %d)", guarderrors.ErrPolicyInvalid, pol.Version, CurrentVersion)
	}

	switch pol.Mode {
	case ModeEnforce, ModeAudit, ModeOff:
	default:
		return nil, fmt.Errorf("%w: unrecognized mode %q", guarderrors.ErrPolicyInvalid, pol.Mode)
	}

	if pol.KillSwitch.ExitCode == 0 {
		pol.KillSwitch.ExitCode = 2
	}
	if pol.Audit.Path == "" {
		pol.Audit.Path = filepath.Join(".guardian", "audit.jsonl")
	}
	if pol.Audit.Integrity == "" {
		pol.Audit.Integrity = "sha256-chain"
	}

	return &pol, nil
}
