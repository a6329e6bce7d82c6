/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/todocal-cli/internal/calendar"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/ui"
	"github.com/spf13/cobra"
)

var calendarSelect string

// monthArg reads an optional YYYY-MM argument, defaulting to the current month.
func monthArg(args []string) (calendar.Month, error) {
	if len(args) == 0 {
		return calendar.CurrentMonth(), nil
	}
	return calendar.ParseMonth(args[0])
}

var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Short:   "Show a month calendar with task markers",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"cal"},
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := monthArg(args)
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}

		var selected civil.Date
		if calendarSelect != "" {
			if selected, err = parseDateArg(calendarSelect); err != nil {
				return fmt.Errorf("❌ %w", err)
			}
		} else if today := civil.DateOf(time.Now()); month.Contains(today) {
			selected = today
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		statuses, err := s.svc.MonthStatuses(cmd.Context(), month)
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		grid := calendar.Build(month, selected, statuses)
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMonth(grid))
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), ui.Legend())
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [YYYY-MM]",
	Short: "List the days of a month that have tasks, with their status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := monthArg(args)
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		statuses, err := s.svc.MonthStatuses(cmd.Context(), month)
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		out := cmd.OutOrStdout()
		if len(statuses) == 0 {
			fmt.Fprintf(out, "No tasks in %s.\n", month)
			return nil
		}

		days := make([]civil.Date, 0, len(statuses))
		for d := range statuses {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleDouble)
		t.SetTitle(month.String())
		t.AppendHeader(table.Row{
			text.FgGreen.Sprintf("Date"), text.FgGreen.Sprintf("Weekday"), text.FgGreen.Sprintf("Status"),
		})
		for _, d := range days {
			t.AppendRow(table.Row{d.String(), d.In(time.UTC).Weekday().String()[:3], colorStatus(statuses[d])})
		}
		t.Render()
		return nil
	},
}

func colorStatus(s model.DayStatus) string {
	switch s {
	case model.StatusIncomplete:
		return text.FgHiYellow.Sprintf("%s", s)
	case model.StatusAllDone:
		return text.FgHiGreen.Sprintf("%s", s)
	default:
		return s.String()
	}
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarSelect, "select", "s", "", "Day to highlight (YYYY-MM-DD, today, ...)")
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(summaryCmd)
}
