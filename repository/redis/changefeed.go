package redis

import (
	"context"
	"fmt"
	"strings"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/famcal/backend/repository"
)

type changeFeed struct {
	client *redislib.Client
	prefix string
	logger *zap.Logger
}

// NewChangeFeed creates a Redis pub/sub change feed. Each collection maps to
// one channel; a published message carries no payload beyond the collection
// name, so subscribers always re-read the full snapshot.
func NewChangeFeed(client *redislib.Client, logger *zap.Logger) repository.ChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &changeFeed{
		client: client,
		prefix: "feed:",
		logger: logger,
	}
}

func (f *changeFeed) Publish(ctx context.Context, collection string) error {
	return f.client.Publish(ctx, f.channel(collection), collection).Err()
}

func (f *changeFeed) Subscribe(ctx context.Context, collections []string, fn func(collection string)) (func() error, error) {
	channels := make([]string, 0, len(collections))
	for _, c := range collections {
		channels = append(channels, f.channel(c))
	}

	sub := f.client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	go func() {
		for msg := range sub.Channel() {
			fn(strings.TrimPrefix(msg.Channel, f.prefix))
		}
		f.logger.Debug("change feed subscription closed")
	}()

	return sub.Close, nil
}

func (f *changeFeed) channel(collection string) string {
	return fmt.Sprintf("%s%s", f.prefix, collection)
}
