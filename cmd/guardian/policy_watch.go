package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and develop against the active policy file",
}

var policyWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate the policy file on every edit until interrupted",
	RunE:  runPolicyWatch,
}

func init() {
	policyCmd.AddCommand(policyWatchCmd)
	rootCmd.AddCommand(policyCmd)
}

// runPolicyWatch is a development convenience, not part of the hook's
// runtime path: the hook re-reads the policy from disk on every invocation
// (internal/policy.Loader caches by mtime), so nothing needs to watch it in
// production. This command just gives policy authors fast feedback.
func runPolicyWatch(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	loader := policy.NewLoader()
	path := loader.PolicyPath(cwd)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	revalidate := func() {
		_, _, err := loader.Load(cwd)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
	}

	revalidate()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				revalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "[Guardian] watch error: %v\n", err)
		case <-sig:
			return nil
		}
	}
}
