package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gopick/internal/config"
	"github.com/philipparndt/gopick/internal/logger"
	"github.com/philipparndt/gopick/version"
	"github.com/spf13/cobra"
)

var (
	overrides config.Flags

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gopick",
	Short: "Pick and measure points on 3D meshes",
	Long: `gopick casts rays from screen positions into triangle meshes and records
the surface points they hit. It reads STL, glTF and OpenSCAD files and reports
picked points, path lengths and mesh statistics.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	overrides.Register(rootCmd.PersistentFlags())
}

// setup loads the config file, applies flag overrides and starts logging
func setup(cmd *cobra.Command, args []string) error {
	c, err := overrides.Resolve(cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Init(c.Logging.Level, c.Logging.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
