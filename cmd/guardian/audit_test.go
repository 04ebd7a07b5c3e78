package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boshu2/guardian/internal/audit"
	"github.com/boshu2/guardian/internal/guarderrors"
	"github.com/boshu2/guardian/internal/policy"
)

func writeAuditChain(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "audit.jsonl")
	w := audit.NewWriter(policy.AuditConfig{
		Enabled:          true,
		Path:             path,
		Integrity:        "sha256-chain",
		IncludeToolInput: true,
	}, dir)

	if _, err := w.Append("s1", "Bash", map[string]interface{}{"command": "ls"}, policy.ValidationResult{Allowed: true}, dir); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := w.Append("s1", "Bash", map[string]interface{}{"command": "rm -rf /"}, policy.ValidationResult{
		Allowed: false, Severity: policy.SeverityCritical, Source: policy.SourceBlocklist,
	}, dir); err != nil {
		t.Fatalf("Append: %v", err)
	}
	return path
}

func TestRunAuditVerifyIntactChain(t *testing.T) {
	path := writeAuditChain(t, t.TempDir())

	var out bytes.Buffer
	auditVerifyCmd.SetOut(&out)

	if err := runAuditVerify(auditVerifyCmd, []string{path}); err != nil {
		t.Fatalf("runAuditVerify: %v", err)
	}
	if !strings.Contains(out.String(), "chain intact") {
		t.Errorf("expected an intact-chain report, got %q", out.String())
	}
}

func TestRunAuditVerifyBrokenChain(t *testing.T) {
	path := writeAuditChain(t, t.TempDir())

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := strings.Replace(string(data), `"command":"ls"`, `"command":"id"`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatalf("write tampered: %v", err)
	}

	var out bytes.Buffer
	auditVerifyCmd.SetOut(&out)

	err = runAuditVerify(auditVerifyCmd, []string{path})
	if !errors.Is(err, guarderrors.ErrChainBroken) {
		t.Fatalf("expected ErrChainBroken, got %v", err)
	}
	if !strings.Contains(out.String(), "chain broken") {
		t.Errorf("expected a broken-chain report, got %q", out.String())
	}
}

func TestRunAuditSummaryTallies(t *testing.T) {
	path := writeAuditChain(t, t.TempDir())

	var out bytes.Buffer
	auditSummaryCmd.SetOut(&out)

	if err := runAuditSummary(auditSummaryCmd, []string{path}); err != nil {
		t.Fatalf("runAuditSummary: %v", err)
	}
	if !strings.Contains(out.String(), "total: 2") {
		t.Errorf("expected a total of 2 entries, got %q", out.String())
	}
}
