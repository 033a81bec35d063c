package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by GetJSON when the key does not exist
var ErrNotFound = errors.New("redis: key not found")

// Client represents a Redis client with connection error tracking
type Client struct {
	client        *redis.Client
	errorCount    int32
	lastErrorTime int64
	mu            sync.RWMutex
	config        *Config
}

// Config holds Redis client configuration
type Config struct {
	Host                string
	Port                int
	DB                  int
	Password            string
	MaxConnections      int
	ConnTimeout         time.Duration
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	HealthCheckInterval time.Duration
}

// DefaultConfig returns default Redis configuration
func DefaultConfig() *Config {
	return &Config{
		Host:                "localhost",
		Port:                6379,
		DB:                  0,
		Password:            "",
		MaxConnections:      100,
		ConnTimeout:         2 * time.Second,
		ReadTimeout:         3 * time.Second,
		WriteTimeout:        3 * time.Second,
		HealthCheckInterval: 30 * time.Second,
	}
}

// Addr returns the host:port pair for the configured server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// New creates a new Redis client with the given configuration
func New(config *Config) *Client {
	client := &Client{config: config}
	client.initClient()
	return client
}

// initClient initializes the underlying go-redis client
func (c *Client) initClient() {
	c.client = redis.NewClient(&redis.Options{
		Addr:            c.config.Addr(),
		Password:        c.config.Password,
		DB:              c.config.DB,
		PoolSize:        c.config.MaxConnections,
		DialTimeout:     c.config.ConnTimeout,
		ReadTimeout:     c.config.ReadTimeout,
		WriteTimeout:    c.config.WriteTimeout,
		PoolTimeout:     c.config.ConnTimeout + c.config.ReadTimeout,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      1,
	})
}

// rdb returns the current go-redis client under the read lock
func (c *Client) rdb() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// checkAndResetClient rebuilds the connection pool after a burst of errors
func (c *Client) checkAndResetClient() {
	currentTime := time.Now().Unix()
	errorCount := atomic.LoadInt32(&c.errorCount)
	lastErrorTime := atomic.LoadInt64(&c.lastErrorTime)

	if errorCount > 5 && (currentTime-lastErrorTime) < 60 {
		c.mu.Lock()
		defer c.mu.Unlock()

		// Another goroutine may have reset it while we waited
		if atomic.LoadInt32(&c.errorCount) <= 5 {
			return
		}

		if c.client != nil {
			_ = c.client.Close()
		}
		c.initClient()

		atomic.StoreInt32(&c.errorCount, 0)
	}
}

// recordError records an error occurrence for monitoring purposes
func (c *Client) recordError() {
	atomic.StoreInt64(&c.lastErrorTime, time.Now().Unix())
	atomic.AddInt32(&c.errorCount, 1)
}

// Ping checks if Redis is responding
func (c *Client) Ping(ctx context.Context) error {
	c.checkAndResetClient()

	if err := c.rdb().Ping(ctx).Err(); err != nil {
		c.recordError()
		return fmt.Errorf("redis ping error: %w", err)
	}

	return nil
}

// Get retrieves a value by key, returning "" when the key does not exist
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	c.checkAndResetClient()

	val, err := c.rdb().Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		c.recordError()
		return "", fmt.Errorf("redis get error: %w", err)
	}

	return val, nil
}

// GetJSON retrieves and parses a JSON value
func (c *Client) GetJSON(ctx context.Context, key string, result any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}

	if data == "" {
		return ErrNotFound
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return fmt.Errorf("json unmarshal error: %w", err)
	}

	return nil
}

// Set sets a value with expiration
func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	c.checkAndResetClient()

	if err := c.rdb().Set(ctx, key, value, expiration).Err(); err != nil {
		c.recordError()
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// SetJSON serializes and stores a JSON value
func (c *Client) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	return c.Set(ctx, key, data, expiration)
}

// SetNX stores value only when key does not exist yet and reports whether it did
func (c *Client) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	c.checkAndResetClient()

	ok, err := c.rdb().SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		c.recordError()
		return false, fmt.Errorf("redis setnx error: %w", err)
	}

	return ok, nil
}

// Exists reports whether the key is present
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	c.checkAndResetClient()

	n, err := c.rdb().Exists(ctx, key).Result()
	if err != nil {
		c.recordError()
		return false, fmt.Errorf("redis exists error: %w", err)
	}

	return n > 0, nil
}

// Delete removes a key
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	c.checkAndResetClient()

	result, err := c.rdb().Del(ctx, key).Result()
	if err != nil {
		c.recordError()
		return false, fmt.Errorf("redis delete error: %w", err)
	}

	return result > 0, nil
}

// TTL gets the remaining time to live of a key
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.checkAndResetClient()

	ttl, err := c.rdb().TTL(ctx, key).Result()
	if err != nil {
		c.recordError()
		return 0, fmt.Errorf("redis ttl error: %w", err)
	}

	return ttl, nil
}

// Close closes the Redis client
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
