package notify

import "context"

// Notifier is the delivery sink for reminders. Delivery is best effort: the
// caller logs failures and never retries a fired reminder.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Disabled is the sink used when notifications are turned off; every call is
// a silent no-op.
type Disabled struct{}

func (Disabled) Notify(ctx context.Context, title, body string) error {
	return nil
}
