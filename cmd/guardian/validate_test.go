package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/boshu2/guardian/internal/policy"
)

func TestRunValidateEmptyStdinAllows(t *testing.T) {
	var out, errOut bytes.Buffer
	validateCmd.SetIn(bytes.NewReader(nil))
	validateCmd.SetOut(&out)
	validateCmd.SetErr(&errOut)

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	if !strings.Contains(out.String(), `"permissionDecision":"allow"`) {
		t.Errorf("expected a fail-open allow for empty stdin, got %q", out.String())
	}
}

func TestRunValidateDeniesAgainstProjectPolicy(t *testing.T) {
	tmp := t.TempDir()
	writeProjectPolicy(t, tmp, `{
	  "version": 1,
	  "mode": "enforce",
	  "blocklist": {
	    "commands": [
	      {"pattern": "rm\\s+-rf\\s+/", "severity": "high", "reason": "destructive"}
	    ]
	  },
	  "allowlist": {},
	  "scope": {},
	  "audit": {"enabled": false},
	  "kill_switch": {"enabled": false}
	}`)

	body, err := json.Marshal(policy.HookInput{
		ToolName:  "Bash",
		ToolInput: map[string]interface{}{"command": "rm -rf /"},
		CWD:       tmp,
	})
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}

	var out, errOut bytes.Buffer
	validateCmd.SetIn(bytes.NewReader(body))
	validateCmd.SetOut(&out)
	validateCmd.SetErr(&errOut)

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	if !strings.Contains(out.String(), `"permissionDecision":"deny"`) {
		t.Errorf("expected a deny, got %q", out.String())
	}
}
