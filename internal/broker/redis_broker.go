package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const EventsChannel = "skillswap:events"

// RedisEventBroker implements EventBroker using Redis pub/sub
type RedisEventBroker struct {
	client *redis.Client
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func NewRedisEventBroker(client *redis.Client) *RedisEventBroker {
	return &RedisEventBroker{client: client}
}

func (r *RedisEventBroker) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, EventsChannel, data).Err()
}

// Subscribe returns a channel of events that closes when ctx is done.
func (r *RedisEventBroker) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := r.client.Subscribe(ctx, EventsChannel)
	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan Event, 100)

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case redisMsg, ok := <-ch:
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(redisMsg.Payload), &evt); err != nil {
					logger.Log.Warn("Dropping malformed event", zap.Error(err))
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (r *RedisEventBroker) Close() error {
	return r.client.Close()
}

// RedisInbox implements Notifier by pushing onto a capped per-user list.
type RedisInbox struct {
	client *redis.Client
	limit  int64
}

func NewRedisInbox(client *redis.Client, limit int) *RedisInbox {
	if limit <= 0 {
		limit = 100
	}
	return &RedisInbox{client: client, limit: int64(limit)}
}

func InboxKey(userID string) string {
	return fmt.Sprintf("inbox:%s", userID)
}

func (n *RedisInbox) Notify(ctx context.Context, userID string, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	key := InboxKey(userID)
	pipe := n.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, n.limit-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Inbox returns up to limit announcements for userID, newest first.
func (n *RedisInbox) Inbox(ctx context.Context, userID string, limit int64) ([]Event, error) {
	if limit <= 0 || limit > n.limit {
		limit = n.limit
	}
	raw, err := n.client.LRange(ctx, InboxKey(userID), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(raw))
	for _, item := range raw {
		var evt Event
		if err := json.Unmarshal([]byte(item), &evt); err != nil {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}
