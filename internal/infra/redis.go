package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the client shared by the dashboard cache and the job queue.
// A dead Redis fails boot here rather than on the first cached request.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	// BRPOP in the worker pool blocks up to 5s; the read timeout must sit
	// above that or every idle poll surfaces as an i/o timeout.
	opts.ReadTimeout = 10 * time.Second

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
