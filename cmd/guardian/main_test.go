package main

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches the test into dir and restores the previous working
// directory on cleanup, since most commands resolve the project from
// os.Getwd.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeProjectPolicy(t *testing.T, dir, body string) {
	t.Helper()
	guardianDir := filepath.Join(dir, ".guardian")
	if err := os.MkdirAll(guardianDir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(guardianDir, "policy.json"), []byte(body), 0600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
}
