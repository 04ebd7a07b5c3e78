package audit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boshu2/guardian/internal/guarderrors"
	"github.com/boshu2/guardian/internal/policy"
)

func TestVerifyChainMissingFileIsValid(t *testing.T) {
	res, err := VerifyChain(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if !res.Valid || res.Entries != 0 {
		t.Errorf("expected a valid, empty result, got %+v", res)
	}
}

func TestVerifyChainDetectsTamperedEntry(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "audit.jsonl")
	w := NewWriter(defaultCfg(path), tmp)

	if _, err := w.Append("sess-1", "Bash", map[string]interface{}{"command": "ls"}, policy.ValidationResult{Allowed: true}, tmp); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := w.Append("sess-1", "Bash", map[string]interface{}{"command": "pwd"}, policy.ValidationResult{Allowed: true}, tmp); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := []byte(strings.Replace(string(data), `"command":"ls"`, `"command":"rm -rf /"`, 1))
	if err := os.WriteFile(path, tampered, 0600); err != nil {
		t.Fatalf("write tampered: %v", err)
	}

	res, err := VerifyChain(path)
	if !errors.Is(err, guarderrors.ErrChainBroken) {
		t.Fatalf("expected ErrChainBroken, got %v", err)
	}
	if res.Valid {
		t.Fatal("expected a tampered entry to break the chain")
	}
	if res.BrokenAt != 1 {
		t.Errorf("expected break at entry 1, got %d", res.BrokenAt)
	}
	if res.BrokenKind != "mismatch" {
		t.Errorf("expected BrokenKind mismatch, got %q", res.BrokenKind)
	}
}

func TestVerifyChainDetectsUnparseableLine(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "audit.jsonl")
	if err := os.WriteFile(path, []byte("not json at all\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := VerifyChain(path)
	if !errors.Is(err, guarderrors.ErrChainBroken) {
		t.Fatalf("expected ErrChainBroken, got %v", err)
	}
	if res.Valid {
		t.Fatal("expected an unparseable line to be invalid")
	}
	if res.BrokenKind != "unparseable" {
		t.Errorf("expected BrokenKind unparseable, got %q", res.BrokenKind)
	}
}
