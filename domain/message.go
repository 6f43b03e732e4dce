package domain

import "time"

// ChatMessage is a family chat entry. Timestamp is used only for ordering.
type ChatMessage struct {
	ID        string    `json:"id"`
	Member    string    `json:"member"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
