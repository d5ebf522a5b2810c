// Command fmsctl manages parking spaces and their layouts from the terminal.
package main

import (
	"fmt"
	"os"

	"findmyspace/internal/config"
	"findmyspace/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.CLI
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fmsctl",
	Short: "FindMySpace command line client",
	Long: `fmsctl edits parking spaces and their slot layouts against a FindMySpace server.

Layouts are also kept in a local cache, together with the per-slot occupancy
annotations that never leave this machine.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			p, err := config.DefaultCLIPath()
			if err != nil {
				return err
			}
			configPath = p
		}
		c, err := config.LoadCLI(configPath)
		if err != nil {
			return err
		}
		cfg = c
		logger, err = logging.NewConsole(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.findmyspace.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd, logoutCmd, spacesCmd, layoutCmd, occupancyCmd, vehiclesCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
