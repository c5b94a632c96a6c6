/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/substantialcattle5/naib/internal/logger"
	"github.com/substantialcattle5/naib/internal/progress"
	"github.com/substantialcattle5/naib/internal/quarantine"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <manifest>",
	Short: "Undo a quarantine run",
	Long: `Move every file of a quarantine run back to its original location.

The restore manifest written by 'naib clean --apply' records where each
file came from along with its content hash. Each quarantined copy is
verified against that hash before it is moved back, and an original path
that has since been reoccupied is left alone.

Example:
  naib restore ~/data/_DUPLICATE_QUARANTINE/20250830_141502_ab12cd34/restore_manifest.json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if err := logger.Init(verbose, ""); err != nil {
			return fmt.Errorf("failed to set up logging: %v", err)
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		pm := progress.NewManager(progress.Options{Quiet: quiet, Verbose: verbose})
		defer pm.Cleanup()
		ctx := pm.SetupCancellation(context.Background())

		result, err := quarantine.Restore(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Restored %d files\n", result.Restored)
		if result.Failed > 0 {
			fmt.Printf("⚠️ %d files could not be restored:\n", result.Failed)
			for _, restoreErr := range result.Errors {
				fmt.Printf("  - %v\n", restoreErr)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
