/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/logger"
	"github.com/substantialcattle5/naib/internal/orchestrator"
	"github.com/substantialcattle5/naib/internal/progress"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Quarantine or delete duplicate files",
	Long: `Find duplicate files and remove the redundant copies, keeping one
survivor per distinct content.

Without --apply this is a dry run: every planned action is recorded and
reported, nothing is touched. With --apply, duplicates are moved into a
quarantine directory together with a restore manifest, so the whole run
can be undone with 'naib restore'.

Permanent deletion (--delete) additionally requires --confirm; there is
no quarantine to fall back on afterwards.

Example:
  naib clean ~/data                      # dry run
  naib clean ~/data --apply              # quarantine duplicates
  naib clean ~/data --apply --delete --confirm
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return err
		}

		cfg.Mode = constants.ModeQuarantine
		if deleteMode, _ := cmd.Flags().GetBool("delete"); deleteMode {
			cfg.Mode = constants.ModeDelete
		}
		cfg.Apply, _ = cmd.Flags().GetBool("apply")
		cfg.Confirm, _ = cmd.Flags().GetBool("confirm")

		// An applied run mutates the tree; ask once before starting unless
		// the caller already confirmed on the command line.
		if cfg.Apply && !cfg.Confirm {
			label := fmt.Sprintf("Quarantine duplicate files under %s", cfg.Root)
			if cfg.Mode == constants.ModeDelete {
				label = fmt.Sprintf("Permanently delete duplicate files under %s", cfg.Root)
			}
			prompt := promptui.Prompt{
				Label:     label,
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				if err == promptui.ErrAbort {
					fmt.Println("Cancelled, nothing was changed.")
					return nil
				}
				return fmt.Errorf("confirmation failed: %v", err)
			}
			cfg.Confirm = true
		}

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
				fmt.Println("Run cancelled, partial report written.")
				return nil
			}
			return err
		}

		if cfg.Apply && result.ManifestPath != "" {
			fmt.Printf("✓ Undo with: naib restore %s\n", result.ManifestPath)
		}
		if !cfg.Apply && result.Summary.Duplicates > 0 {
			fmt.Println("Dry run only. Re-run with --apply to act on these files.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	addScanFlags(cleanCmd)
	cleanCmd.Flags().Bool("apply", false, "actually move or delete files (default is a dry run)")
	cleanCmd.Flags().Bool("delete", false, "permanently delete instead of quarantining")
	cleanCmd.Flags().Bool("confirm", false, "skip the interactive confirmation prompt")
}
