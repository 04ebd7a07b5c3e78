package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/guarderrors"
	"github.com/boshu2/guardian/internal/pipeline"
	"github.com/boshu2/guardian/internal/policy"
	"github.com/boshu2/guardian/internal/uireport"
)

var (
	testToolName string
	testFilePath string
	testURL      string
)

var testCmd = &cobra.Command{
	Use:   "test <command>",
	Short: "Dry-run a Bash command (or file/URL) against the current policy without recording an audit entry",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&testToolName, "tool", "Bash", "tool name to simulate: Bash, Write, Edit, Read, WebFetch")
	testCmd.Flags().StringVar(&testFilePath, "file", "", "file_path param for Write/Edit/Read tools")
	testCmd.Flags().StringVar(&testURL, "url", "", "url param for the WebFetch tool")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	loader := policy.NewLoader()
	pol, compiled, err := loader.Load(cwd)
	if errors.Is(err, guarderrors.ErrPolicyMissing) {
		// No project policy yet: dry-run against the built-in bundle so
		// `guardian test` works before `guardian init`.
		pol = policy.DefaultPolicy()
		compiled, err = policy.Compile(pol.Blocklist)
	}
	if err != nil {
		return err
	}

	input := map[string]interface{}{}
	if len(args) == 1 {
		input["command"] = args[0]
	}
	if testFilePath != "" {
		input["file_path"] = testFilePath
	}
	if testURL != "" {
		input["url"] = testURL
	}

	in := policy.HookInput{
		ToolName:  testToolName,
		ToolInput: input,
		SessionID: "dry-run",
		CWD:       cwd,
	}

	pl := pipeline.New()
	result := pl.Evaluate(pol, compiled, in)

	if flagOutput == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}

	r := uireport.New(cmd.OutOrStdout(), colorMode())
	r.Decision(result)
	return nil
}
