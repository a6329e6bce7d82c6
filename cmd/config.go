/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/spf13/cobra"
)

const saveAndExit = "Save & Exit"

type configModel struct {
	cursor    int
	fields    []string
	config    model.Config
	path      string
	textInput textinput.Model
	editMode  bool
	problems  []string
	saved     bool
	err       error
}

func newConfigModel(path string, config model.Config) *configModel {
	return &configModel{
		fields:    generateFieldList(),
		config:    config,
		path:      path,
		textInput: textinput.New(),
	}
}

func generateFieldList() []string {
	return []string{
		"DataDir", "Editor",
		"Storage.Driver", "Storage.SQLiteFile", "Storage.JsonFile",
		"Log.Level", "Log.Format", "Log.File",
		"Sync.Enable", "Sync.Bucket", "Sync.Prefix", "Sync.AWSProfile", "Sync.AWSRegion", "Sync.Exclude",
		saveAndExit,
	}
}

func (m *configModel) Init() tea.Cmd {
	return nil
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editMode {
		switch key.String() {
		case "enter":
			m.setFieldValue(m.fields[m.cursor], strings.TrimSpace(m.textInput.Value()))
			m.editMode = false
			m.textInput.Blur()
		case "esc":
			m.editMode = false
			m.textInput.Blur()
		default:
			m.textInput, _ = m.textInput.Update(msg)
		}
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter":
		if m.fields[m.cursor] == saveAndExit {
			m.problems = m.config.ValidationSummary()
			if len(m.problems) > 0 {
				return m, nil
			}
			if err := store.SaveConfig(m.path, m.config); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		}
		m.editMode = true
		m.textInput.SetValue(m.getFieldValue(m.fields[m.cursor]))
		m.textInput.CursorEnd()
		m.textInput.Focus()
	}
	return m, nil
}

func (m *configModel) View() string {
	var s strings.Builder
	s.WriteString("📄 Configure todocal\n")
	s.WriteString("   " + m.path + "\n\n")

	for i, field := range m.fields {
		cursor := "  "
		if m.cursor == i {
			cursor = "👉"
		}
		if field == saveAndExit {
			fmt.Fprintf(&s, "\n%s %s\n", cursor, field)
			continue
		}
		fmt.Fprintf(&s, "%s %s: %s\n", cursor, field, m.getFieldValue(field))
	}

	for _, p := range m.problems {
		s.WriteString("\n❌ " + p)
	}
	if m.err != nil {
		s.WriteString("\n⚠️ Failed to save config file: " + m.err.Error())
	}
	if len(m.problems) > 0 || m.err != nil {
		s.WriteString("\n")
	}

	if m.editMode {
		s.WriteString("\n✏️  Editing: " + m.fields[m.cursor] + "\n")
		s.WriteString(m.textInput.View() + "\n")
		s.WriteString("(Enter to apply, ESC to cancel)\n")
	} else {
		s.WriteString("\n↑/↓ to move, Enter to edit, q to quit without saving\n")
	}
	return s.String()
}

func (m *configModel) getFieldValue(field string) string {
	switch field {
	case "DataDir":
		return m.config.DataDir
	case "Editor":
		return m.config.Editor
	case "Storage.Driver":
		return m.config.Storage.Driver
	case "Storage.SQLiteFile":
		return m.config.Storage.SQLiteFile
	case "Storage.JsonFile":
		return m.config.Storage.JsonFile
	case "Log.Level":
		return m.config.Log.Level
	case "Log.Format":
		return m.config.Log.Format
	case "Log.File":
		return m.config.Log.File
	case "Sync.Enable":
		return strconv.FormatBool(m.config.Sync.Enable)
	case "Sync.Bucket":
		return m.config.Sync.Bucket
	case "Sync.Prefix":
		return m.config.Sync.Prefix
	case "Sync.AWSProfile":
		return m.config.Sync.AWSProfile
	case "Sync.AWSRegion":
		return m.config.Sync.AWSRegion
	case "Sync.Exclude":
		return strings.Join(m.config.Sync.Exclude, ", ")
	default:
		return "UNKNOWN"
	}
}

func (m *configModel) setFieldValue(field, value string) {
	switch field {
	case "DataDir":
		m.config.DataDir = value
	case "Editor":
		m.config.Editor = value
	case "Storage.Driver":
		m.config.Storage.Driver = value
	case "Storage.SQLiteFile":
		m.config.Storage.SQLiteFile = value
	case "Storage.JsonFile":
		m.config.Storage.JsonFile = value
	case "Log.Level":
		m.config.Log.Level = value
	case "Log.Format":
		m.config.Log.Format = value
	case "Log.File":
		m.config.Log.File = value
	case "Sync.Enable":
		// unparsable input keeps the previous value
		if b, err := strconv.ParseBool(value); err == nil {
			m.config.Sync.Enable = b
		}
	case "Sync.Bucket":
		m.config.Sync.Bucket = value
	case "Sync.Prefix":
		m.config.Sync.Prefix = value
	case "Sync.AWSProfile":
		m.config.Sync.AWSProfile = value
	case "Sync.AWSRegion":
		m.config.Sync.AWSRegion = value
	case "Sync.Exclude":
		var patterns []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		m.config.Sync.Exclude = patterns
	}
	m.problems = nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure config.yaml interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("❌ Failed to get config path: %w", err)
		}

		config, err := store.LoadConfigFrom(configPath)
		if errors.Is(err, store.ErrConfigNotFound) {
			defaults := model.DefaultConfig()
			config = &defaults
		} else if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		m := newConfigModel(configPath, *config)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			return fmt.Errorf("❌ Error running TUI: %w", err)
		}
		if m.saved {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Config saved to", configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
