// Package calendar lays out a month on a fixed 7-column, Monday-first grid.
package calendar

import (
	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

const Columns = 7

// HeaderRow is reserved for the weekday labels; day cells start at row 1.
const HeaderRow = 0

var weekdayLabels = [Columns]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayLabels returns the header labels, Monday first.
func WeekdayLabels() [Columns]string {
	return weekdayLabels
}

type HeaderCell struct {
	Column int
	Label  string
}

type Cell struct {
	Row      int
	Column   int
	Date     civil.Date
	Selected bool
	Status   model.DayStatus
}

type Grid struct {
	Month  Month
	Header []HeaderCell
	Cells  []Cell
}

// Build places every day of month on the grid and merges the selection and
// per-day statuses in. Dates missing from statuses get StatusNone.
func Build(month Month, selected civil.Date, statuses map[civil.Date]model.DayStatus) Grid {
	grid := Grid{
		Month:  month,
		Header: make([]HeaderCell, 0, Columns),
		Cells:  make([]Cell, 0, month.Days()),
	}

	for col, label := range weekdayLabels {
		grid.Header = append(grid.Header, HeaderCell{Column: col, Label: label})
	}

	offset := MondayIndex(month.First())
	for day := 1; day <= month.Days(); day++ {
		date := civil.Date{Year: month.Year, Month: month.Month, Day: day}
		index := offset + day - 1

		status, ok := statuses[date]
		if !ok {
			status = model.StatusNone
		}

		grid.Cells = append(grid.Cells, Cell{
			Row:      index/Columns + 1,
			Column:   index % Columns,
			Date:     date,
			Selected: date == selected,
			Status:   status,
		})
	}

	return grid
}

// Rows is the number of grid rows in use, header included.
func (g Grid) Rows() int {
	if len(g.Cells) == 0 {
		return 1
	}
	return g.Cells[len(g.Cells)-1].Row + 1
}

// At returns the cell at (row, col) if a day occupies it.
func (g Grid) At(row, col int) (Cell, bool) {
	if row <= HeaderRow || col < 0 || col >= Columns || len(g.Cells) == 0 {
		return Cell{}, false
	}
	index := (row-1)*Columns + col - g.Cells[0].Column
	if index < 0 || index >= len(g.Cells) {
		return Cell{}, false
	}
	return g.Cells[index], true
}

// Selected returns the selected cell, if the selection is in this month.
func (g Grid) Selected() (Cell, bool) {
	for _, c := range g.Cells {
		if c.Selected {
			return c, true
		}
	}
	return Cell{}, false
}
