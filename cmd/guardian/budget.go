package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/budget"
	"github.com/boshu2/guardian/internal/policy"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Report the current session budget state from the configured cost snapshot file",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	loader := policy.NewLoader()
	pol, _, err := loader.Load(cwd)
	if err != nil {
		return err
	}

	tracker := budget.NewTracker()
	state := tracker.Evaluate(pol.Budget)

	if flagOutput == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(state)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "actions: %d\n", state.ActionCount)
	if state.RemainingUSD != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "remaining: $%.4f\n", *state.RemainingUSD)
	}
	if state.Exceeded {
		return fmt.Errorf("budget breached: %s", state.BreachReason)
	}
	return nil
}
