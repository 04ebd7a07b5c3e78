package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/hook"
	"github.com/boshu2/guardian/internal/kill"
	"github.com/boshu2/guardian/internal/pipeline"
	"github.com/boshu2/guardian/internal/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Read one tool-call request from stdin and emit an allow/deny decision",
	Long: "validate is the entrypoint an agent runtime invokes synchronously before\n" +
		"each tool call. It reads a JSON request from stdin, evaluates it against\n" +
		".guardian/policy.json, appends a tamper-evident audit entry, and writes\n" +
		"a permissionDecision object to stdout.",
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	loader := policy.NewLoader()
	pl := pipeline.New()

	decision := hook.Run(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), loader, pl)

	if decision.Kill {
		kill.Terminate(decision)
	}

	return nil
}

// resolvePolicyTarget is shared by check for resolving which working
// directory's policy to load.
func resolvePolicyTarget(args []string) (cwd, path string, err error) {
	cwd = "."
	if len(args) == 1 {
		cwd = args[0]
	}
	loader := policy.NewLoader()
	return cwd, loader.PolicyPath(cwd), nil
}
