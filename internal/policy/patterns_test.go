package policy

import "testing"

func TestCompileCaseInsensitiveFlag(t *testing.T) {
	bl := Blocklist{
		Commands: []CommandPattern{
			{Pattern: `curl`, Flags: "i", Severity: SeverityHigh, Reason: "test"},
		},
	}
	compiled, err := Compile(bl)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !compiled.Commands[0].Regex.MatchString("CURL https://example.com") {
		t.Error("expected case-insensitive match")
	}
}

func TestCompileInvalidPatternFails(t *testing.T) {
	bl := Blocklist{
		Commands: []CommandPattern{
			{Pattern: `(unclosed`, Severity: SeverityHigh, Reason: "test"},
		},
	}
	_, err := Compile(bl)
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestCompileStopsOnFirstInvalidAcrossCategories(t *testing.T) {
	bl := Blocklist{
		Commands: []CommandPattern{{Pattern: `ok`, Severity: SeverityLow, Reason: "ok"}},
		Network:  []NetworkPattern{{Pattern: `(bad`, Severity: SeverityLow, Reason: "bad"}},
	}
	_, err := Compile(bl)
	if err == nil {
		t.Fatal("expected error when any category has an invalid pattern")
	}
}

func TestHasOperation(t *testing.T) {
	ops := []Operation{OpRead, OpWrite}
	if !HasOperation(ops, OpRead) {
		t.Error("expected OpRead present")
	}
	if HasOperation(ops, OpDelete) {
		t.Error("expected OpDelete absent")
	}
	if HasOperation(nil, OpRead) {
		t.Error("expected false for nil operations")
	}
}
