package worker

// Failed jobs are parked in a per-queue Redis list ("dlq:" + source queue)
// instead of being dropped. Entries keep the payload plus failure metadata,
// so a stuck receipt email stays inspectable with LRANGE and can be
// re-enqueued by hand once SMTP recovers.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const parkedPrefix = "dlq:"

// ParkedJob is a failed job with the context needed to diagnose or replay it.
type ParkedJob struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// parkJob moves a failed job onto the queue's dead-letter list. Best effort:
// parking failures are logged, never propagated to the worker loop.
func parkJob(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := ParkedJob{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
		Attempts: attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal parked job")
		return
	}

	key := parkedPrefix + queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to park job")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked in dead letter queue")
}

// ParkedCount reports how many jobs sit in a queue's dead-letter list.
func ParkedCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, parkedPrefix+queue).Result()
}
