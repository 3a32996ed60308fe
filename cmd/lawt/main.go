// SPDX-License-Identifier: MIT

// Command lawt serves the matrix compute API and runs one-off computations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lawt/config"
	"github.com/katalvlaran/lawt/logging"
)

var (
	// Global flags
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lawt",
		Short: "lawt - linear algebra compute service",
		Long: `lawt evaluates matrix operations (transpose, add, multiply, inverse,
eigenvalues, eigenvectors) with a reference engine or an optional
model-inference backend, and renders results as exact fractions and radicals.

Configuration is read from an optional YAML file, LAWT_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err = logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(), newComputeCmd(), newVersionCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
