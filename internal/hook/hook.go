// Package hook implements Guardian's stdin/stdout protocol adapter. The
// adapter is fail-open: any internal error degrades to allow with a stderr
// note.
package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/boshu2/guardian/internal/audit"
	"github.com/boshu2/guardian/internal/guarderrors"
	"github.com/boshu2/guardian/internal/kill"
	"github.com/boshu2/guardian/internal/pipeline"
	"github.com/boshu2/guardian/internal/policy"
)

// Output is the JSON object the adapter writes to stdout.
type Output struct {
	PermissionDecision string `json:"permissionDecision"`
	Reason             string `json:"reason,omitempty"`
	SystemMessage      string `json:"systemMessage,omitempty"`
}

// Run reads one request from r, evaluates it, records it, and writes the
// decision to w. It returns the kill decision (if any) so main() can
// terminate the process after Run itself has returned (and therefore after
// stdout has been flushed by the caller).
func Run(r io.Reader, w io.Writer, stderr io.Writer, loader *policy.Loader, pl *pipeline.Pipeline) kill.Decision {
	data, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(stderr, "[Guardian] failed to read stdin: %v\n", err)
		writeAllow(w, "")
		return kill.Decision{}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		writeAllow(w, "")
		return kill.Decision{}
	}

	var in policy.HookInput
	if err := json.Unmarshal(trimmed, &in); err != nil {
		fmt.Fprintf(stderr, "[Guardian] %v\n", fmt.Errorf("%w: %v", guarderrors.ErrHookInputInvalid, err))
		writeAllow(w, "")
		return kill.Decision{}
	}

	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}
	if in.CWD == "" {
		if cwd, err := os.Getwd(); err == nil {
			in.CWD = cwd
		}
	}

	pol, compiled, err := loader.Load(in.CWD)
	if err != nil {
		fmt.Fprintf(stderr, "[Guardian] policy load failed, failing open: %v\n", err)
		writeAllow(w, "")
		return kill.Decision{}
	}

	result := pl.Evaluate(pol, compiled, in)

	writer := audit.NewWriter(pol.Audit, in.CWD)
	if _, auditErr := writer.Append(in.SessionID, in.ToolName, in.ToolInput, result, in.CWD); auditErr != nil {
		fmt.Fprintf(stderr, "[Guardian] audit write failed: %v\n", auditErr)
	}

	decision := kill.Evaluate(pol.KillSwitch, pol.Budget, result)

	writeResult(w, result)

	return decision
}

func writeAllow(w io.Writer, reason string) {
	out := Output{PermissionDecision: "allow"}
	if reason != "" {
		out.Reason = "[Guardian] " + reason
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(out)
}

func writeResult(w io.Writer, result policy.ValidationResult) {
	out := Output{}
	if result.Allowed {
		out.PermissionDecision = "allow"
	} else {
		out.PermissionDecision = "deny"
		out.Reason = "[Guardian] " + result.Reason
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(out)
}
