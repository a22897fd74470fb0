package eventlog

import (
	"context"
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/brightpath/platform/pkg/circuitbreaker"
	"github.com/brightpath/platform/pkg/platformerr"
	"github.com/brightpath/platform/pkg/platformlog"
)

// KafkaConfig configures the underlying franz-go client.
type KafkaConfig struct {
	Brokers  []string
	ClientID string
}

// KafkaPublisher implements Publisher over a Kafka-compatible broker via franz-go, guarded by a
// circuit breaker so a degraded broker fails fast instead of queuing producer calls forever.
type KafkaPublisher struct {
	client  *kgo.Client
	breaker *circuitbreaker.Breaker
	logger  platformlog.Logger
}

// NewKafkaPublisher dials cfg.Brokers and returns a ready Publisher.
func NewKafkaPublisher(cfg KafkaConfig, logger platformlog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("eventlog: dial kafka: %w", err)
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{
		ServiceName:         "eventlog-producer",
		ConsecutiveFailures: 5,
		MinRequests:         10,
		FailureRatio:        0.5,
	})

	return &KafkaPublisher{client: client, breaker: breaker, logger: logger}, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any, envelope Envelope) error {
	value, err := Encode(payload, envelope)
	if err != nil {
		return platformerr.InvalidEvent{Reason: fmt.Sprintf("encode payload: %v", err)}
	}

	record := &kgo.Record{Topic: topic, Key: []byte(key), Value: value}

	err = p.breaker.Execute(ctx, func(ctx context.Context) error {
		res := p.client.ProduceSync(ctx, record)
		return res.FirstErr()
	})
	if err != nil {
		return platformerr.TransientDependencyError{Dependency: "kafka", Cause: err}
	}

	return nil
}

// Close releases the underlying client.
func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}

// KafkaSubscriber implements Subscriber over franz-go consumer groups, one client per
// Subscribe call so each logical consumer owns its own group membership and offset commits.
type KafkaSubscriber struct {
	cfg    KafkaConfig
	logger platformlog.Logger
}

// NewKafkaSubscriber returns a Subscriber bound to cfg.
func NewKafkaSubscriber(cfg KafkaConfig, logger platformlog.Logger) *KafkaSubscriber {
	return &KafkaSubscriber{cfg: cfg, logger: logger}
}

// Subscribe implements Subscriber. Offsets are committed manually, only after handler returns
// nil, per spec §4.1 "Consumers commit offsets only after handler success".
func (s *KafkaSubscriber) Subscribe(ctx context.Context, group, topic string, handler Handler) (Runner, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.cfg.Brokers...),
		kgo.ClientID(s.cfg.ClientID),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
		kgo.OnPartitionsRevoked(func(ctx context.Context, c *kgo.Client, _ map[string][]int32) {
			c.CommitMarkedOffsets(ctx)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("eventlog: dial kafka consumer: %w", err)
	}

	return &kafkaRunner{client: client, topic: topic, handler: handler, logger: s.logger, stopCh: make(chan struct{})}, nil
}

// Close is a no-op at the Subscriber level; each Runner owns and closes its own client.
func (s *KafkaSubscriber) Close() error { return nil }

type kafkaRunner struct {
	client  *kgo.Client
	topic   string
	handler Handler
	logger  platformlog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Run polls for fetches and processes records from the same partition serially, in offset order,
// per spec §5 "within a partition, records are processed serially". All partitions assigned to
// this runner are handled on this one goroutine, one partition after another; partitions are not
// processed in parallel. Stop is driven entirely
// through context cancellation: PollFetches(ctx) already unblocks when ctx is done, so Stop just
// cancels a context derived from ctx rather than setting a flag Run polls unsynchronized.
func (r *kafkaRunner) Run(ctx context.Context) error {
	defer r.client.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-r.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		fetches := r.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}

		for _, fetchErr := range fetches.Errors() {
			r.logger.Errorf("eventlog: fetch error topic=%s partition=%d: %v", fetchErr.Topic, fetchErr.Partition, fetchErr.Err)
		}

		fetches.EachPartition(func(part kgo.FetchTopicPartition) {
			for _, rec := range part.Records {
				raw := RawRecord{
					Topic:     rec.Topic,
					Partition: rec.Partition,
					Offset:    rec.Offset,
					Key:       rec.Key,
					Value:     rec.Value,
				}

				if err := r.handler(ctx, raw); err != nil {
					r.logger.Errorf("eventlog: handler failed topic=%s partition=%d offset=%d: %v", raw.Topic, raw.Partition, raw.Offset, err)
					continue
				}

				r.client.MarkCommitRecords(rec)
			}
		})

		if err := r.client.CommitMarkedOffsets(ctx); err != nil {
			r.logger.Errorf("eventlog: commit offsets failed: %v", err)
		}
	}
}

// Stop cancels Run's context, unblocking PollFetches and ending the loop.
func (r *kafkaRunner) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}
