package model

import (
	"time"

	"cloud.google.com/go/civil"
)

const (
	TitleMaxLength   = 100
	ContentMaxLength = 200
)

type Task struct {
	ID        string     `json:"id"` // ULID, assigned by the store
	Date      civil.Date `json:"date"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DayCount is one grouped row of a date-range aggregate. Total and Done are
// pointers because a backend may report a missing count.
type DayCount struct {
	Date  civil.Date
	Total *int64
	Done  *int64
}

type DayStatus int

const (
	StatusNone DayStatus = iota
	StatusIncomplete
	StatusAllDone
)

func (s DayStatus) String() string {
	switch s {
	case StatusIncomplete:
		return "Incomplete"
	case StatusAllDone:
		return "All done"
	default:
		return "None"
	}
}
