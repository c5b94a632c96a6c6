/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substantialcattle5/naib/internal/config"
	"github.com/substantialcattle5/naib/util"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "naib",
	Short: "Naib - a safe duplicate file cleaner",
	Long: `Naib finds duplicate files by content and removes the redundant copies,
keeping exactly one survivor per distinct file.

Duplicates are confirmed in three narrowing passes (size, sampled hash,
full hash), so a file is only ever called a duplicate after its entire
content matched another file's. Removals default to a reversible
quarantine; nothing is mutated without --apply.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().String("config", "", "path to a yaml configuration file")
}

// addScanFlags registers the flags shared by every command that walks a
// directory tree.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("exclude", nil, "absolute path prefixes to skip")
	cmd.Flags().StringSlice("exclude-glob", nil, "glob patterns to skip (base name, or full path if the pattern contains a separator)")
	cmd.Flags().StringSlice("skip-ext", nil, "file extensions to skip")
	cmd.Flags().String("min-size", "", "smallest file to consider (e.g. 4K)")
	cmd.Flags().String("max-size", "", "largest file to consider (e.g. 10G)")
	cmd.Flags().Int("workers", 0, "number of hash workers")
	cmd.Flags().String("hash", "", "hash algorithm: sha256 or blake3")
	cmd.Flags().String("io-limit", "", "read bandwidth cap for hashing (e.g. 50M)")
	cmd.Flags().String("quarantine-dir", "", "quarantine directory (default: <root>/_DUPLICATE_QUARANTINE)")
	cmd.Flags().String("log-dir", "", "report directory (default: <root>/_DUPLICATE_LOGS)")
}

// buildConfig assembles the run configuration: the optional yaml file
// first, then flag overrides, then the positional root path.
func buildConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	var cfg config.Config

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if len(args) > 0 {
		cfg.Root = args[0]
	}

	if values, _ := cmd.Flags().GetStringSlice("exclude"); len(values) > 0 {
		cfg.ExcludePaths = values
	}
	if values, _ := cmd.Flags().GetStringSlice("exclude-glob"); len(values) > 0 {
		cfg.ExcludeGlobs = values
	}
	if values, _ := cmd.Flags().GetStringSlice("skip-ext"); len(values) > 0 {
		cfg.SkipExtensions = values
	}
	if value, _ := cmd.Flags().GetString("min-size"); value != "" {
		size, err := util.ParseSize(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid --min-size: %v", err)
		}
		cfg.MinSize = size
	}
	if value, _ := cmd.Flags().GetString("max-size"); value != "" {
		size, err := util.ParseSize(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid --max-size: %v", err)
		}
		cfg.MaxSize = size
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if value, _ := cmd.Flags().GetString("hash"); value != "" {
		cfg.HashAlgorithm = value
	}
	if value, _ := cmd.Flags().GetString("io-limit"); value != "" {
		cfg.IOLimit = value
	}
	if value, _ := cmd.Flags().GetString("quarantine-dir"); value != "" {
		cfg.QuarantineRoot = value
	}
	if value, _ := cmd.Flags().GetString("log-dir"); value != "" {
		cfg.LogDir = value
	}

	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	cfg.Quiet, _ = cmd.Flags().GetBool("quiet")

	return cfg, nil
}
