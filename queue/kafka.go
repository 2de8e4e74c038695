package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
	Logger  zerolog.Logger
}

// KafkaConsumer feeds a consumer group's messages to a MessageHandler
type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
	groupID string
	logger  zerolog.Logger
	ready   chan bool
}

// NewKafkaConsumer creates a consumer group member
func NewKafkaConsumer(cfg KafkaConsumerConfig) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &KafkaConsumer{
		group:   group,
		handler: cfg.Handler,
		topic:   cfg.Topic,
		groupID: cfg.GroupID,
		logger:  cfg.Logger,
		ready:   make(chan bool),
	}, nil
}

// Start begins consuming in the background and returns once the first session is set up
func (c *KafkaConsumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{handler: c.handler, logger: c.logger, ready: c.ready}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.logger.Error().Err(err).Msg("kafka consume failed")
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			c.logger.Error().Err(err).Msg("kafka consumer error")
		}
	}()

	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.logger.Info().Str("group", c.groupID).Str("topic", c.topic).Msg("kafka consumer started")
	return nil
}

// Close leaves the group
func (c *KafkaConsumer) Close() error {
	return c.group.Close()
}

// Retry backoff for jobs whose result could not be published
const (
	retryBackoffInitial = time.Second
	retryBackoffMax     = 30 * time.Second
)

// consumerGroupHandler implements sarama.ConsumerGroupHandler.
// A message is only marked once its handler agrees, so offsets never move past an unfinished job.
type consumerGroupHandler struct {
	handler MessageHandler
	logger  zerolog.Logger
	ready   chan bool
	backoff time.Duration
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			h.logger.Debug().
				Int32("partition", message.Partition).
				Int64("offset", message.Offset).
				Str("key", string(message.Key)).
				Msg("job received")

			if !h.handle(session.Context(), message) {
				// session is ending; the unmarked message is redelivered to the next owner
				return nil
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// handle retries the message until the handler lets it be marked.
// It returns false only when ctx ends first.
func (h *consumerGroupHandler) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	backoff := h.backoff
	if backoff <= 0 {
		backoff = retryBackoffInitial
	}

	for {
		shouldMark, err := h.handler.HandleMessage(ctx, message.Value)
		if shouldMark {
			return true
		}
		h.logger.Error().
			Err(err).
			Int64("offset", message.Offset).
			Dur("retry_in", backoff).
			Msg("job failed, retrying")

		if !sleepCtx(ctx, backoff) {
			return false
		}
		backoff = min(backoff*2, retryBackoffMax)
	}
}

// KafkaPublisher writes results to a topic keyed by job id
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(_ context.Context, res Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(res.ID),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
