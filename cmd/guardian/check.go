package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/config"
	"github.com/boshu2/guardian/internal/policy"
	"github.com/boshu2/guardian/internal/uireport"
)

var explainConfig bool

var checkCmd = &cobra.Command{
	Use:   "check [policy-file]",
	Short: "Load the policy and print a summary of its mode, allowlist, blocklist, scope, and audit config",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&explainConfig, "explain-config", false, "print resolved CLI config sources and exit")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if explainConfig {
		resolved := config.Resolve(flagOutput, flagColor, flagBaseDir)
		return json.NewEncoder(cmd.OutOrStdout()).Encode(resolved)
	}

	loader := policy.NewLoader()
	cwd, path, err := resolvePolicyTarget(args)
	if err != nil {
		return err
	}

	r := uireport.New(cmd.OutOrStdout(), colorMode())

	pol, compiled, err := loader.Load(cwd)
	if err != nil {
		r.ValidateFail(path, err)
		return err
	}

	if flagOutput == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(pol)
	}

	r.PolicySummary(path, pol, compiled)
	return nil
}
