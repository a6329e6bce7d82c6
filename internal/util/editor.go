package util

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// EditorCommand picks config.Editor, then $VISUAL, then $EDITOR, then vi.
func EditorCommand(config model.Config) string {
	for _, candidate := range []string{config.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func OpenEditor(filePath string, config model.Config) error {
	c := exec.Command(EditorCommand(config), filePath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor (%s): %w", filePath, err)
	}
	return nil
}

// EditText writes initial to a temporary markdown file, opens the editor on
// it and returns what was saved, without the trailing newline editors add.
func EditText(initial string, config model.Config) (string, error) {
	f, err := os.CreateTemp("", "todocal-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := OpenEditor(path, config); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return strings.TrimRight(string(edited), "\r\n"), nil
}
