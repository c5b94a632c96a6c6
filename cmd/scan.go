/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/logger"
	"github.com/substantialcattle5/naib/internal/orchestrator"
	"github.com/substantialcattle5/naib/internal/progress"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Find duplicate files without touching anything",
	Long: `Scan a directory tree and report the duplicate sets found in it.

Scanning never mutates the tree: every duplicate is recorded with the
copy that would be kept and the copies that could go, and the findings
are written to the log directory as CSV and JSON.

Example:
  naib scan ~/data
  naib scan ~/data --min-size 1M --skip-ext .iso
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return err
		}
		cfg.Mode = constants.ModeReport

		pm := progress.NewManager(progress.Options{Quiet: cfg.Quiet, Verbose: cfg.Verbose})
		defer pm.Cleanup()

		runner, err := orchestrator.NewRunner(cfg, pm, os.Stdout)
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.Verbose, runner.Config().LogDir); err != nil {
			return fmt.Errorf("failed to set up logging: %v", err)
		}

		ctx := pm.SetupCancellation(context.Background())
		result, err := runner.Run(ctx)
		if err != nil {
			if pm.IsCancelled() {
				fmt.Println("Scan cancelled, partial report written.")
				return nil
			}
			return err
		}

		if result.Summary.Clusters == 0 {
			fmt.Println("✓ No duplicates found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
}
