package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reldb/internal"
)

var (
	cfgPath string
	cfg     *internal.Config
	log     *zap.SugaredLogger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reldb",
		Short: "A minimal in-memory relational database",
		Long: `reldb is a minimal relational data engine: typed table schemas,
in-memory constraint-enforcing storage and a small SQL subset
(CREATE TABLE, INSERT, SELECT with WHERE/JOIN, UPDATE, DELETE).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgPath != "" {
				cfg, err = internal.LoadConfig(cfgPath)
				if err != nil {
					return err
				}
			} else {
				cfg = internal.DefaultConfig()
			}

			var zl *zap.Logger
			if cfg.Server.Debug {
				zl, err = zap.NewDevelopment()
			} else {
				zl, err = zap.NewProduction()
			}
			if err != nil {
				return err
			}
			log = zl.Sugar()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(newShellCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConnectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
