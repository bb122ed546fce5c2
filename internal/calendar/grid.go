package calendar

import (
	"fmt"
	"time"
)

// GridWeeks and GridColumns fix the calendar layout at six Sunday-start
// weeks, enough to cover any month alignment.
const (
	GridWeeks   = 6
	GridColumns = 7
	GridCells   = GridWeeks * GridColumns
)

// Cell is one day slot in the month grid. Events are matched to cells by
// exact date-string equality, never by grid position.
type Cell struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	InMonth bool   `json:"in_month"`
	Today   bool   `json:"today"`
}

// Grid is the fixed 6x7 layout for one month.
type Grid struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Cells []Cell `json:"cells"`
}

// MonthGrid lays out the 42-cell grid for a month: trailing days of the
// previous month align day 1 to its weekday column, and leading days of the
// next month fill the remainder. The today parameter is the current date as
// "2006-01-02"; the matching cell, if any, is flagged.
func MonthGrid(year, month int, today string) Grid {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		day := start.AddDate(0, 0, i)
		date := fmt.Sprintf("%04d-%02d-%02d", day.Year(), int(day.Month()), day.Day())
		cells = append(cells, Cell{
			Date:    date,
			Day:     day.Day(),
			InMonth: day.Month() == first.Month() && day.Year() == first.Year(),
			Today:   date == today,
		})
	}

	return Grid{Year: year, Month: month, Cells: cells}
}
