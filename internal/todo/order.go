package todo

import (
	"sort"

	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// SortForDisplay orders tasks undone first, then by creation time. Equal
// timestamps fall back to the id, which the stores assign in insertion order.
func SortForDisplay(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return displayLess(tasks[i], tasks[j])
	})
}

func displayLess(a, b model.Task) bool {
	if a.Done != b.Done {
		return !a.Done
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
