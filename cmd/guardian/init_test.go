package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boshu2/guardian/internal/policy"
)

func TestRunInitScaffoldsPolicyAndGitignore(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	var out bytes.Buffer
	initCmd.SetOut(&out)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	// The scaffolded policy must load cleanly.
	loader := policy.NewLoader()
	pol, _, err := loader.Load(tmp)
	if err != nil {
		t.Fatalf("scaffolded policy does not load: %v", err)
	}
	if pol.Mode != policy.ModeEnforce {
		t.Errorf("expected scaffolded mode enforce, got %q", pol.Mode)
	}

	ignore, err := os.ReadFile(filepath.Join(tmp, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if !strings.Contains(string(ignore), ".guardian/audit.jsonl*") {
		t.Errorf("expected audit-log ignore rule, got %q", ignore)
	}
}

func TestRunInitRefusesToOverwrite(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	var out bytes.Buffer
	initCmd.SetOut(&out)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("first runInit: %v", err)
	}
	if err := runInit(initCmd, nil); err == nil {
		t.Error("expected second runInit without --force to fail")
	}
}

func TestIgnoreAuditLogIsIdempotent(t *testing.T) {
	tmp := t.TempDir()

	if err := ignoreAuditLog(tmp); err != nil {
		t.Fatalf("first ignoreAuditLog: %v", err)
	}
	if err := ignoreAuditLog(tmp); err != nil {
		t.Fatalf("second ignoreAuditLog: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmp, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if n := strings.Count(string(data), ".guardian/audit.jsonl*"); n != 1 {
		t.Errorf("expected exactly one ignore rule, got %d", n)
	}
}
