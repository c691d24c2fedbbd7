package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker checks a database pool.
func PingChecker(p Pinger) Checker {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}

// RedisChecker pings a redis client.
func RedisChecker(client redis.UniversalClient) Checker {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// KafkaChecker dials the first reachable broker and reads cluster metadata.
func KafkaChecker(brokers []string) Checker {
	return func(ctx context.Context) error {
		var lastErr error
		for _, broker := range brokers {
			conn, err := kafka.DialContext(ctx, "tcp", broker)
			if err != nil {
				lastErr = err
				continue
			}
			_, err = conn.Brokers()
			_ = conn.Close()
			if err == nil {
				return nil
			}
			lastErr = err
		}
		if lastErr == nil {
			return fmt.Errorf("no kafka brokers configured")
		}
		return fmt.Errorf("kafka unreachable: %w", lastErr)
	}
}
