package domain

import "time"

// Activity is a one-off calendar entry with a single absolute occurrence.
// Activities are created and deleted, never mutated in place.
type Activity struct {
	ID        string    `json:"id"`
	Member    string    `json:"member"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// FixedActivity is a daily recurring entry. Time holds the time of day as
// "HH:MM"; an empty Time means the activity never produces reminders.
type FixedActivity struct {
	ID        string    `json:"id"`
	Member    string    `json:"member"`
	Text      string    `json:"text"`
	Time      string    `json:"time,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *FixedActivity) HasTime() bool {
	return a != nil && a.Time != ""
}
