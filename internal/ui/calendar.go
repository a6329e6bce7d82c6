// Package ui renders the month calendar and runs the interactive task
// browser.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nakachan-ing/todocal-cli/internal/calendar"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

const (
	cellWidth = 5
	marker    = "●"
)

// RenderMonth draws the grid as text: a title, the weekday header and one
// line per week. Days with tasks carry a colored marker and the selected day
// is bracketed.
func RenderMonth(grid calendar.Grid) string {
	width := cellWidth * calendar.Columns
	lines := []string{
		lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(fmt.Sprintf("%s %d", grid.Month.Month, grid.Month.Year))),
		renderHeader(grid.Header),
	}

	for row := calendar.HeaderRow + 1; row < grid.Rows(); row++ {
		cols := make([]string, calendar.Columns)
		for col := range cols {
			cell, ok := grid.At(row, col)
			if !ok {
				cols[col] = cellStyle.Render("")
				continue
			}
			cols[col] = renderCell(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHeader(header []calendar.HeaderCell) string {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = headerStyle.Width(cellWidth).Align(lipgloss.Center).Render(h.Label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderCell(cell calendar.Cell) string {
	mark := " "
	switch cell.Status {
	case model.StatusIncomplete:
		mark = incompleteMarker.Render(marker)
	case model.StatusAllDone:
		mark = allDoneMarker.Render(marker)
	}

	day := fmt.Sprintf("%2d", cell.Date.Day)
	switch {
	case cell.Selected:
		return selectedStyle.Render("[" + day + mark + "]")
	case cell.Column >= 5:
		return weekendStyle.Render(day + mark)
	default:
		return cellStyle.Render(day + mark)
	}
}

// Legend explains the day markers.
func Legend() string {
	return strings.Join([]string{
		incompleteMarker.Render(marker) + " " + model.StatusIncomplete.String(),
		allDoneMarker.Render(marker) + " " + model.StatusAllDone.String(),
	}, "   ")
}
