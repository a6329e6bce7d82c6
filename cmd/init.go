/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/spf13/cobra"
)

var initForce bool
var initDriver string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml and the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("❌ Failed to get config path: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil && !initForce {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️ Config file already exists: %s (use --force to overwrite)\n", configPath)
			return nil
		}

		config := model.DefaultConfig()
		if initDriver != "" {
			config.Storage.Driver = initDriver
		}
		if problems := config.ValidationSummary(); len(problems) > 0 {
			return fmt.Errorf("❌ Invalid config: %v", problems)
		}

		if err := store.SaveConfig(configPath, config); err != nil {
			return err
		}
		if err := store.EnsureDataDir(config); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✅ todocal initialized successfully!")
		fmt.Fprintln(out, "📄 Config file created at:", configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&initDriver, "driver", "", "Storage driver (sqlite or json)")
	rootCmd.AddCommand(initCmd)
}
