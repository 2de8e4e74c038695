package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newsai/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig configures the list-based queue
type RedisConfig struct {
	RequestList    string
	ReplyKeyPrefix string
	ReplyTTL       time.Duration
	PopTimeout     time.Duration
}

func (c RedisConfig) withDefaults() RedisConfig {
	if c.RequestList == "" {
		c.RequestList = config.DefaultRequestList
	}
	if c.ReplyKeyPrefix == "" {
		c.ReplyKeyPrefix = config.DefaultReplyKeyPrefix
	}
	if c.ReplyTTL <= 0 {
		c.ReplyTTL = config.ReplyTTL
	}
	if c.PopTimeout <= 0 {
		c.PopTimeout = config.PopTimeout
	}
	return c
}

// RedisWorker pops jobs from a list with BLPOP and hands them to a MessageHandler
type RedisWorker struct {
	rdb     redis.UniversalClient
	cfg     RedisConfig
	handler MessageHandler
	logger  zerolog.Logger
}

func NewRedisWorker(rdb redis.UniversalClient, cfg RedisConfig, handler MessageHandler, logger zerolog.Logger) *RedisWorker {
	return &RedisWorker{rdb: rdb, cfg: cfg.withDefaults(), handler: handler, logger: logger}
}

// Run blocks until ctx is cancelled. Jobs whose result could not be published are pushed back.
func (w *RedisWorker) Run(ctx context.Context) error {
	w.logger.Info().Str("list", w.cfg.RequestList).Msg("redis worker started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		vals, err := w.rdb.BLPop(ctx, w.cfg.PopTimeout, w.cfg.RequestList).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error().Err(err).Msg("blpop failed")
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
			continue
		}
		if len(vals) != 2 {
			continue
		}

		payload := vals[1]
		shouldMark, err := w.handler.HandleMessage(ctx, []byte(payload))
		if err != nil {
			w.logger.Error().Err(err).Msg("job failed")
		}
		if !shouldMark {
			if err := w.rdb.RPush(context.WithoutCancel(ctx), w.cfg.RequestList, payload).Err(); err != nil {
				w.logger.Error().Err(err).Msg("requeue failed")
			}
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
		}
	}
}

// RedisPublisher stores each result in its own short-lived reply list
type RedisPublisher struct {
	rdb redis.UniversalClient
	cfg RedisConfig
}

func NewRedisPublisher(rdb redis.UniversalClient, cfg RedisConfig) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, cfg: cfg.withDefaults()}
}

func (p *RedisPublisher) Publish(ctx context.Context, res Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	key := p.cfg.ReplyKeyPrefix + res.ID
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, p.cfg.ReplyTTL)
		return nil
	})
	return err
}

// RedisSubmitter enqueues jobs and waits for their replies
type RedisSubmitter struct {
	rdb redis.UniversalClient
	cfg RedisConfig
}

func NewRedisSubmitter(rdb redis.UniversalClient, cfg RedisConfig) *RedisSubmitter {
	return &RedisSubmitter{rdb: rdb, cfg: cfg.withDefaults()}
}

// Submit pushes a job onto the request list
func (s *RedisSubmitter) Submit(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return s.rdb.RPush(ctx, s.cfg.RequestList, payload).Err()
}

// Await blocks until the result for id arrives or timeout passes
func (s *RedisSubmitter) Await(ctx context.Context, id string, timeout time.Duration) (Result, error) {
	vals, err := s.rdb.BLPop(ctx, timeout, s.cfg.ReplyKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Result{}, fmt.Errorf("no result for %s within %s", id, timeout)
		}
		return Result{}, err
	}

	var res Result
	if err := json.Unmarshal([]byte(vals[1]), &res); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
