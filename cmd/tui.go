/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/nakachan-ing/todocal-cli/internal/ui"
	"github.com/nakachan-ing/todocal-cli/internal/util"
	"github.com/spf13/cobra"
)

const lockFileName = "todocal.lock"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the calendar and edit tasks interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		lockPath := store.DataFile(s.config, lockFileName)
		if err := util.CreateLockFile(lockPath, "tui"); err != nil {
			if errors.Is(err, util.ErrLocked) {
				return fmt.Errorf("⚠️ Another todocal session is running (remove %s if it crashed): %w", lockPath, err)
			}
			return fmt.Errorf("❌ %w", err)
		}
		defer func() {
			if err := util.RemoveLockFile(lockPath); err != nil {
				s.log.WithError(err).Warn("⚠️ Failed to remove lock file")
			}
		}()

		app, err := ui.NewApp(cmd.Context(), s.svc, time.Now)
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("❌ Error running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
