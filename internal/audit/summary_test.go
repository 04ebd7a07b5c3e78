package audit

import (
	"path/filepath"
	"testing"

	"github.com/boshu2/guardian/internal/policy"
)

func TestSummarizeTalliesByToolAndSeverity(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "audit.jsonl")
	w := NewWriter(defaultCfg(path), tmp)

	if _, err := w.Append("s1", "Bash", nil, policy.ValidationResult{Allowed: true}, tmp); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := w.Append("s1", "Bash", nil, policy.ValidationResult{
		Allowed: false, Severity: policy.SeverityCritical, Source: policy.SourceBlocklist,
	}, tmp); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := w.Append("s1", "Write", nil, policy.ValidationResult{
		Allowed: false, Severity: policy.SeverityHigh, Source: policy.SourceScope,
	}, tmp); err != nil {
		t.Fatalf("Append: %v", err)
	}

	s, err := Summarize(path)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Total != 3 {
		t.Errorf("expected 3 total, got %d", s.Total)
	}
	if s.Allowed != 1 || s.Denied != 2 {
		t.Errorf("expected 1 allowed / 2 denied, got %d/%d", s.Allowed, s.Denied)
	}
	if s.ByTool["Bash"] != 2 {
		t.Errorf("expected 2 Bash entries, got %d", s.ByTool["Bash"])
	}
	if s.BySeverity["critical"] != 1 {
		t.Errorf("expected 1 critical entry, got %d", s.BySeverity["critical"])
	}
}

func TestSummarizeMissingFile(t *testing.T) {
	s, err := Summarize(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Total != 0 {
		t.Errorf("expected an empty summary, got %+v", s)
	}
}
