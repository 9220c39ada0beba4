package sink

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/tradierkit/tradier/stream"
)

// Redis publishes each event on the pub/sub channel <channel>.<kind>.
type Redis struct {
	client  *redis.Client
	channel string
}

// NewRedis connects using a redis:// URL.
func NewRedis(url, channel string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid redis url %s", url)
	}
	return &Redis{client: redis.NewClient(opts), channel: channel}, nil
}

func (s *Redis) Publish(ctx context.Context, ev stream.Event) error {
	b, err := Encode(ev)
	if err != nil {
		return err
	}
	err = s.client.Publish(ctx, s.channel+"."+string(ev.Kind()), b).Err()
	observe("redis", err)
	return errors.Wrap(err, "failed to publish to redis")
}

func (s *Redis) Close() error {
	return s.client.Close()
}
