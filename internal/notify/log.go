package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes reminders to the application log. It doubles as the
// default sink in environments without a configured delivery channel.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, title, body string) error {
	n.logger.Info("reminder",
		zap.String("title", title),
		zap.String("body", body))
	return nil
}
