package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/saulo-duarte/quizzical/internal/config"
)

type redisNotifier struct {
	rdb     *goredis.Client
	channel string
}

// NewRedisNotifier shares change notifications between replicas over a redis
// pub/sub channel.
func NewRedisNotifier(ctx context.Context, addr, channel string) (Notifier, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}
	if channel == "" {
		channel = "quizzical:changes"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisNotifier{rdb: rdb, channel: channel}, nil
}

func (n *redisNotifier) Publish(ctx context.Context, c Change) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, n.channel, raw).Err()
}

func (n *redisNotifier) Listen(ctx context.Context, onChange func(Change)) error {
	if onChange == nil {
		return errors.New("onChange callback required")
	}

	sub := n.rdb.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var c Change
				if err := json.Unmarshal([]byte(m.Payload), &c); err != nil {
					config.Log.WithError(err).Warn("Dropping malformed change notification")
					continue
				}
				onChange(c)
			}
		}
	}()

	return nil
}

func (n *redisNotifier) Close() error {
	return n.rdb.Close()
}
