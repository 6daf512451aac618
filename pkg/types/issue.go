package types

import (
	"time"
)

type IssueStatus string

const (
	IssueStatusPending IssueStatus = "Pending"
)

type Issue struct {
	ID          int64       `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Type        string      `db:"type"`
	Latitude    float64     `db:"latitude"`
	Longitude   float64     `db:"longitude"`
	Location    *string     `db:"location"`
	Timestamp   time.Time   `db:"timestamp"`
	Image       *string     `db:"image"`
	Status      IssueStatus `db:"status"`
}

// NewIssue is the row written by a submission. ID, timestamp and status are
// assigned by the database.
type NewIssue struct {
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Type        string  `db:"type"`
	Latitude    float64 `db:"latitude"`
	Longitude   float64 `db:"longitude"`
	Location    string  `db:"location"`
	Image       *string `db:"image"`
}

// CreatedIssue carries the values the database assigned on insert.
type CreatedIssue struct {
	ID        int64     `db:"id"`
	Timestamp time.Time `db:"timestamp"`
}

type IssueFilter struct {
	Type    string
	Status  string
	Page    uint64
	PerPage uint64
}

func (f IssueFilter) Offset() uint64 {
	if f.Page == 0 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}
