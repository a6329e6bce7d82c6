/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the data directory with S3",
}

func runSync(direction string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(*config)
		if err != nil {
			return err
		}
		defer closeLog()

		logger.Debugf("🔄 Running `todocal sync %s`...", direction)
		files, err := SyncWithS3(cmd.Context(), *config, direction, logger)
		if err != nil {
			return fmt.Errorf("❌ Sync failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(files) == 0 {
			fmt.Fprintln(out, "✅ No changes detected. Everything is up-to-date.")
			return nil
		}
		for _, file := range files {
			fmt.Fprintln(out, "   -", file)
		}
		fmt.Fprintf(out, "✅ `todocal sync %s` completed successfully (%d files).\n", direction, len(files))
		return nil
	}
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local changes to S3",
	RunE:  runSync("push"),
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download latest changes from S3",
	RunE:  runSync("pull"),
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show differences between local and S3 files",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(*config)
		if err != nil {
			return err
		}
		defer closeLog()

		if err := ShowSyncStatus(cmd.Context(), cmd.OutOrStdout(), *config, logger); err != nil {
			return fmt.Errorf("❌ %w", err)
		}
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
