package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const monthLayout = "2006-01"

// Month is a calendar month without a day component.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

func CurrentMonth() Month {
	return MonthOf(civil.DateOf(time.Now()))
}

// ParseMonth accepts "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) First() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month, Day: 1}
}

func (m Month) Last() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month, Day: m.Days()}
}

// Days is the number of days in the month.
func (m Month) Days() int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) Next() Month {
	return m.add(1)
}

func (m Month) Prev() Month {
	return m.add(-1)
}

func (m Month) add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d civil.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Clamp returns the date with the same day-of-month inside m, capped at the
// month's last day.
func (m Month) Clamp(day int) civil.Date {
	if day > m.Days() {
		day = m.Days()
	}
	if day < 1 {
		day = 1
	}
	return civil.Date{Year: m.Year, Month: m.Month, Day: day}
}

// MondayIndex is the weekday of d counted from Monday=0 to Sunday=6.
func MondayIndex(d civil.Date) int {
	wd := d.In(time.UTC).Weekday()
	return (int(wd) + 6) % 7
}
