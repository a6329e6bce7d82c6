package todo

import (
	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// Classify maps a day's counts to a status. ok is false when the day has no
// tasks and must be left out of a summary.
func Classify(total, done int64) (status model.DayStatus, ok bool) {
	if total <= 0 {
		return model.StatusNone, false
	}
	if done >= total {
		return model.StatusAllDone, true
	}
	return model.StatusIncomplete, true
}

// StatusesFromCounts classifies grouped rows. Missing counts count as zero.
func StatusesFromCounts(rows []model.DayCount) map[civil.Date]model.DayStatus {
	result := make(map[civil.Date]model.DayStatus, len(rows))
	for _, row := range rows {
		status, ok := Classify(deref(row.Total), deref(row.Done))
		if !ok {
			continue
		}
		result[row.Date] = status
	}
	return result
}

func deref(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
