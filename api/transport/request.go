package transport

type AuthLoginRequest struct {
	Member string `json:"member"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type ActivityRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type FixedActivityRequest struct {
	Text string `json:"text"`
	Time string `json:"time,omitempty"`
}

type ToggleRequest struct {
	// Checked is the state the caller currently observes; the toggle flips
	// it. Unchecked inserts a completion record, checked clears all matches.
	Checked bool `json:"checked"`
}

type MessageRequest struct {
	Text string `json:"text"`
}
