package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/policy"
	"github.com/boshu2/guardian/internal/uireport"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default policy file into .guardian/policy.json",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing policy file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	loader := policy.NewLoader()
	path := loader.PolicyPath(cwd)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists; pass --force to overwrite", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	def := policy.DefaultPolicy()
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return err
	}

	if err := ignoreAuditLog(cwd); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "[Guardian] could not update .gitignore: %v\n", err)
	}

	r := uireport.New(cmd.OutOrStdout(), colorMode())
	r.ValidateOK(path)
	return nil
}

// ignoreAuditLog appends a .guardian/audit.jsonl* ignore rule to the
// project's .gitignore, once, if it isn't already present.
func ignoreAuditLog(cwd string) error {
	path := filepath.Join(cwd, ".gitignore")
	rule := ".guardian/audit.jsonl*"

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if strings.Contains(string(existing), rule) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	prefix := ""
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		prefix = "\n"
	}
	_, err = f.WriteString(prefix + rule + "\n")
	return err
}

func colorMode() string {
	if cfg != nil && cfg.Color != "" {
		return cfg.Color
	}
	return "auto"
}
