// SPDX-License-Identifier: MIT

// Package commands holds the ctgscreen cobra commands.
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctgflow/config"
)

// Version is reported by the version subcommand.
const Version = "0.1.0"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ctgscreen",
		Short: "ctgscreen - post-contingency branch flow screening",
		Long: `ctgscreen loads a network case, solves the DC base case of every interval
and screens each single-branch outage for emergency rating violations.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newScreenCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command tree on os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger builds the handler selected by cfg on w.
func newLogger(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
