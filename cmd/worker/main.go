package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"newsai/config"
	"newsai/logging"
	"newsai/pipeline"
	"newsai/queue"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Setup(config.DefaultLogLevel, true)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, provider, err := pipeline.Build(ctx, cfg, logging.Component("pipeline"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}
	logger.Info().Str("backend", cfg.Queue.Backend).Str("provider", provider.Name()).Msg("analysis worker starting")

	switch cfg.Queue.Backend {
	case config.QueueKafka:
		err = runKafka(ctx, cfg.Queue.Kafka, p, logging.Component("kafka"))
	default:
		err = runRedis(ctx, cfg.Queue.Redis, p, logging.Component("redis"))
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
	logger.Info().Msg("worker stopped")
}

func runKafka(ctx context.Context, cfg config.KafkaConfig, a queue.Analyzer, logger zerolog.Logger) error {
	publisher, err := queue.NewKafkaPublisher(cfg.Brokers, cfg.ResultTopic)
	if err != nil {
		return err
	}
	defer publisher.Close()

	consumer, err := queue.NewKafkaConsumer(queue.KafkaConsumerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.RequestTopic,
		GroupID: cfg.ConsumerGroup,
		Handler: queue.NewProcessor(a, publisher, logger),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func runRedis(ctx context.Context, cfg config.RedisConfig, a queue.Analyzer, logger zerolog.Logger) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	qcfg := queue.RedisConfig{
		RequestList:    cfg.RequestList,
		ReplyKeyPrefix: cfg.ReplyKeyPrefix,
		ReplyTTL:       cfg.ReplyTTL,
	}
	processor := queue.NewProcessor(a, queue.NewRedisPublisher(rdb, qcfg), logger)
	return queue.NewRedisWorker(rdb, qcfg, processor, logger).Run(ctx)
}
