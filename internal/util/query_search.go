package util

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// ParseDate accepts YYYY-MM-DD as well as "today", "tomorrow" and
// "yesterday", relative to now in the local zone.
func ParseDate(s string, now time.Time) (civil.Date, error) {
	today := civil.DateOf(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today, tomorrow or yesterday)", s)
	}
	return d, nil
}

func FullTextSearch(tasks []model.Task, query string) []model.Task {
	if query == "" {
		return tasks
	}

	query = strings.ToLower(query) // case-insensitive
	var filteredTasks []model.Task

	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), query) ||
			strings.Contains(strings.ToLower(task.Content), query) {
			filteredTasks = append(filteredTasks, task)
		}
	}

	return filteredTasks
}

// FilterTasks keeps tasks within [fromDate, toDate] and, when onlyOpen is
// set, only those not done. Empty bounds are open.
func FilterTasks(tasks []model.Task, fromDate, toDate string, onlyOpen bool) []model.Task {
	var filteredTasks []model.Task

	for _, task := range tasks {
		if onlyOpen && task.Done {
			continue
		}
		if !IsWithinDateRange(task.Date, fromDate, toDate) {
			continue
		}
		filteredTasks = append(filteredTasks, task)
	}

	return filteredTasks
}

func IsWithinDateRange(date civil.Date, fromDate, toDate string) bool {
	// No bounds, no filtering
	if fromDate == "" && toDate == "" {
		return true
	}

	if fromDate != "" {
		from, err := civil.ParseDate(fromDate)
		if err == nil && date.Before(from) {
			return false
		}
	}

	if toDate != "" {
		to, err := civil.ParseDate(toDate)
		if err == nil && date.After(to) {
			return false
		}
	}

	return true
}
