package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityActivity      = "activity"
	EntityFixedActivity = "fixed_activity"
	EntityCompletion    = "completion"
	EntityMessage       = "message"

	OperationCreate = "create"
	OperationDelete = "delete"
	// OperationClear removes every completion record matching (task, date),
	// the uncheck half of the toggle protocol.
	OperationClear = "clear"
)

// Item represents a calendar write that should be replayed once primary
// storage is reachable again.
type Item struct {
	ID        string          `json:"id"`
	Member    string          `json:"member"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
