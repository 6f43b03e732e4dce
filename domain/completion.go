package domain

import "time"

// DateLayout is the calendar-date key used to scope completion records.
const DateLayout = "2006-01-02"

// CompletionRecord marks a recurring task as done on a specific date by a
// specific member. The store enforces no uniqueness on (TaskID, Date); the
// toggle protocol keeps at most one record per pair and repairs duplicates
// by deleting every match on uncheck.
type CompletionRecord struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Date      string    `json:"date"`
	Member    string    `json:"member"`
	CreatedAt time.Time `json:"created_at"`
}

// DateKey formats t as a completion-record date in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
