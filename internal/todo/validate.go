package todo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// Validate checks a candidate task. Lengths are measured in runes on the
// trimmed text; the stored values are not modified.
func Validate(task model.Task) error {
	fields := make(map[string]string)

	if !task.Date.IsValid() {
		fields["date"] = "is required"
	}
	if msg := checkText(task.Title, model.TitleMaxLength); msg != "" {
		fields["title"] = msg
	}
	if msg := checkText(task.Content, model.ContentMaxLength); msg != "" {
		fields["content"] = msg
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func checkText(value string, max int) string {
	trimmed := strings.TrimSpace(value)
	if govalidator.IsNull(trimmed) {
		return "must not be blank"
	}
	if !govalidator.RuneLength(trimmed, "1", strconv.Itoa(max)) {
		return fmt.Sprintf("must be at most %d characters", max)
	}
	return ""
}
