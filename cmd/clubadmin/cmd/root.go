// Package cmd implements the clubadmin command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/config"
	"github.com/meridianclub/backend/internal/logging"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Client
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clubadmin",
	Short: "Manage contact submissions and membership requests",
	Long: `clubadmin is the administration client for the club website.

It talks to the admin API configured under [remote] in config.toml, or
directly to Postgres when only [database] url is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewCLI(os.Stderr, verbose)
		slog.SetDefault(logger)

		if cmd.Name() == "hash-password" {
			return nil
		}

		var err error
		cfg, err = config.LoadClient(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.clubadmin/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
