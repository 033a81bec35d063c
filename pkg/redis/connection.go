package redis

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Connect creates a client, verifies it with a ping and starts the health monitor.
// The monitor stops when ctx is cancelled.
func Connect(ctx context.Context, config *Config, log logrus.FieldLogger) (*Client, error) {
	client := New(config)

	pingCtx, cancel := context.WithTimeout(ctx, config.ConnTimeout+config.ReadTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, err
	}

	go monitorConnection(ctx, client, log)

	return client, nil
}

// monitorConnection periodically checks the Redis connection and logs issues
func monitorConnection(ctx context.Context, client *Client, log logrus.FieldLogger) {
	interval := client.config.HealthCheckInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := client.Ping(pingCtx)
			cancel()

			if err != nil {
				log.WithError(err).Warn("Redis health check failed")
			}
		}
	}
}

// Store is the subset of Client used by the cache layer.
// Useful for substituting in tests.
type Store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	GetJSON(ctx context.Context, key string, result any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Ensure Client implements Store
var _ Store = (*Client)(nil)
