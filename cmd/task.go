/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/todo"
	"github.com/nakachan-ing/todocal-cli/internal/util"
	"github.com/spf13/cobra"
)

var newTaskDate string
var newTaskContent string
var listTaskDate string
var updateTaskDate string
var updateTaskContent string
var taskTitle string
var taskEdit bool
var taskDone bool
var taskFrom string
var taskTo string
var taskSearchQuery string
var taskAll bool
var taskOpenOnly bool
var taskPageSize int
var taskMeta bool
var taskCopy bool

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage the tasks of a day",
	Aliases: []string{"t"},
}

var newTaskCmd = &cobra.Command{
	Use:     "new [title]",
	Short:   "Add a new task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"n"},
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(newTaskDate)
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}
		if strings.TrimSpace(newTaskContent) == "" && !taskEdit {
			return fmt.Errorf("❌ Task content is required: pass --content or --edit")
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		content := newTaskContent
		if taskEdit {
			content, err = util.EditText(content, s.config)
			if err != nil {
				return fmt.Errorf("❌ Failed to open editor: %w", err)
			}
		}

		task, err := s.svc.Create(cmd.Context(), date,
			strings.TrimSpace(args[0]), strings.TrimSpace(content), taskDone)
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %s added to %s\n", task.ID, task.Date)
		return nil
	},
}

var listTaskCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the tasks of a day, or search across days",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		var tasks []model.Task
		if taskAll || taskFrom != "" || taskTo != "" || taskSearchQuery != "" {
			all, err := s.store.All(cmd.Context())
			if err != nil {
				return reportErr(cmd.ErrOrStderr(), err)
			}
			tasks = util.FilterTasks(all, taskFrom, taskTo, taskOpenOnly)
			tasks = util.FullTextSearch(tasks, taskSearchQuery)
			sortAcrossDays(tasks)
		} else {
			date, err := parseDateArg(listTaskDate)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			tasks, err = s.svc.ListForDate(cmd.Context(), date)
			if err != nil {
				return reportErr(cmd.ErrOrStderr(), err)
			}
			tasks = util.FilterTasks(tasks, "", "", taskOpenOnly)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		if taskPageSize > 0 && len(tasks) > taskPageSize {
			fmt.Fprintf(out, "Tasks: showing %d of %d (use --limit -1 for all)\n", taskPageSize, len(tasks))
			tasks = tasks[:taskPageSize]
		} else {
			fmt.Fprintf(out, "Tasks: %d tasks shown\n", len(tasks))
		}
		renderTaskTable(out, tasks)
		return nil
	},
}

// sortAcrossDays orders by date, then by the per-day display order.
func sortAcrossDays(tasks []model.Task) {
	todo.SortForDisplay(tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Date.Before(tasks[j].Date)
	})
}

func renderTaskTable(w io.Writer, tasks []model.Task) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("Task ID"), text.FgGreen.Sprintf("Date"),
		text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
		text.FgGreen.Sprintf("Status"),
		text.FgGreen.Sprintf("Created"), text.FgGreen.Sprintf("Updated"),
	})

	for _, task := range tasks {
		t.AppendRow(table.Row{
			task.ID,
			task.Date.String(),
			task.Title,
			colorDone(task.Done),
			task.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			task.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	t.Render()
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "open"
}

func colorDone(done bool) string {
	if done {
		return text.FgHiGreen.Sprintf("Done")
	}
	return text.FgHiRed.Sprintf("Open")
}

var showTaskCmd = &cobra.Command{
	Use:     "show [Task ID]",
	Short:   "Show task detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		task, err := s.svc.Get(cmd.Context(), args[0])
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		out := cmd.OutOrStdout()
		titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		metaStyle := color.New(color.FgHiGreen).SprintFunc()

		fmt.Fprintf(out, "[%v] %v\n", titleStyle(task.ID), titleStyle(task.Title))
		fmt.Fprintln(out, strings.Repeat("-", 50))
		fmt.Fprintf(out, "Date: %v\n", metaStyle(task.Date))
		fmt.Fprintf(out, "Status: %v\n", colorDone(task.Done))
		fmt.Fprintf(out, "Created at: %v\n", metaStyle(task.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		fmt.Fprintf(out, "Updated at: %v\n", metaStyle(task.UpdatedAt.Local().Format("2006-01-02 15:04:05")))

		if !taskMeta {
			rendered, err := glamour.Render(task.Content, "dark")
			if err != nil {
				s.log.WithError(err).Warn("⚠️ Failed to render markdown content")
				fmt.Fprintln(out, task.Content)
			} else {
				fmt.Fprintln(out, rendered)
			}
		}

		if taskCopy {
			if err := clipboard.WriteAll(task.Content); err != nil {
				s.log.WithError(err).Warn("⚠️ Failed to copy content to clipboard")
			} else {
				fmt.Fprintln(out, "📋 Content copied to clipboard")
			}
		}
		return nil
	},
}

var updateTaskCmd = &cobra.Command{
	Use:     "update [Task ID]",
	Short:   "Change a task's title, content or date",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"u", "edit"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		task, err := s.svc.Get(cmd.Context(), args[0])
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			task.Title = taskTitle
		}
		if flags.Changed("content") {
			task.Content = updateTaskContent
		}
		if flags.Changed("date") {
			if task.Date, err = parseDateArg(updateTaskDate); err != nil {
				return fmt.Errorf("❌ %w", err)
			}
		}
		if taskEdit {
			if task.Content, err = util.EditText(task.Content, s.config); err != nil {
				return fmt.Errorf("❌ Failed to open editor: %w", err)
			}
		}

		updated, err := s.svc.Update(cmd.Context(), task.ID, task.Date,
			strings.TrimSpace(task.Title), strings.TrimSpace(task.Content), task.Done)
		if err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %s updated\n", updated.ID)
		return nil
	},
}

func setDoneCmd(use, short string, done bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [Task ID]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := s.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return reportErr(cmd.ErrOrStderr(), err)
			}
			if _, err := s.svc.Update(cmd.Context(), task.ID, task.Date, task.Title, task.Content, done); err != nil {
				return reportErr(cmd.ErrOrStderr(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %s marked %s\n", task.ID, doneLabel(done))
			return nil
		},
	}
}

var doneTaskCmd = setDoneCmd("done", "Mark a task as done", true)
var undoTaskCmd = setDoneCmd("undo", "Mark a task as not done", false)

var deleteTaskCmd = &cobra.Command{
	Use:     "remove [Task ID]",
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.svc.Delete(cmd.Context(), args[0]); err != nil {
			return reportErr(cmd.ErrOrStderr(), err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %s removed\n", args[0])
		return nil
	},
}

func init() {
	taskCmd.AddCommand(newTaskCmd)
	taskCmd.AddCommand(listTaskCmd)
	taskCmd.AddCommand(showTaskCmd)
	taskCmd.AddCommand(updateTaskCmd)
	taskCmd.AddCommand(doneTaskCmd)
	taskCmd.AddCommand(undoTaskCmd)
	taskCmd.AddCommand(deleteTaskCmd)
	rootCmd.AddCommand(taskCmd)

	newTaskCmd.Flags().StringVarP(&newTaskDate, "date", "d", "today", "Day of the task (YYYY-MM-DD, today, tomorrow, yesterday)")
	newTaskCmd.Flags().StringVarP(&newTaskContent, "content", "c", "", "Task content")
	newTaskCmd.Flags().BoolVarP(&taskEdit, "edit", "e", false, "Write the content in the editor")
	newTaskCmd.Flags().BoolVar(&taskDone, "done", false, "Create the task already done")

	listTaskCmd.Flags().StringVarP(&listTaskDate, "date", "d", "today", "Day to list")
	listTaskCmd.Flags().StringVar(&taskFrom, "from", "", "Filter by start date (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVar(&taskTo, "to", "", "Filter by end date (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVarP(&taskSearchQuery, "search", "q", "", "Search by title or content")
	listTaskCmd.Flags().BoolVarP(&taskAll, "all", "a", false, "List tasks of every day")
	listTaskCmd.Flags().BoolVar(&taskOpenOnly, "open", false, "Only tasks not done")
	listTaskCmd.Flags().IntVar(&taskPageSize, "limit", 50, "Maximum number of tasks to show (-1 for all)")

	showTaskCmd.Flags().BoolVar(&taskMeta, "meta", false, "Show only metadata without content")
	showTaskCmd.Flags().BoolVar(&taskCopy, "copy", false, "Copy the content to the clipboard")

	updateTaskCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	updateTaskCmd.Flags().StringVarP(&updateTaskContent, "content", "c", "", "New content")
	updateTaskCmd.Flags().StringVarP(&updateTaskDate, "date", "d", "", "Move the task to another day")
	updateTaskCmd.Flags().BoolVarP(&taskEdit, "edit", "e", false, "Edit the content in the editor")
}
