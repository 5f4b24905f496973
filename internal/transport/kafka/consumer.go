// Package kafka consumes record change events and applies them through the
// index gateway in batches.
package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/recdex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	logpkg "github.com/kailas-cloud/recdex/internal/logger"
)

const (
	fetchBackoff        = 500 * time.Millisecond
	defaultRetryBackoff = time.Second
)

// fetcher is the consumer interface over kafka.Reader (ISP).
type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BulkIndexer indexes many records with one commit.
type BulkIndexer interface {
	Index(ctx context.Context, items []domdoc.Source) []dombatch.Result
}

// Deleter removes a record document and commits.
type Deleter interface {
	Delete(ctx context.Context, id domidx.Identity) error
}

// Config holds consumer settings.
type Config struct {
	Brokers       []string
	Topic         string
	GroupID       string
	BatchSize     int
	FlushInterval time.Duration
	RetryBackoff  time.Duration // pause before a failed batch is applied again
}

// Consumer buffers events up to BatchSize or FlushInterval, applies them
// in order and commits offsets once the whole batch succeeded. A failed
// batch is applied again before anything else is fetched, so no later
// offset is committed past it.
type Consumer struct {
	reader        fetcher
	bulk          BulkIndexer
	del           Deleter
	batchSize     int
	flushInterval time.Duration
	retryBackoff  time.Duration
	logger        *zap.Logger
}

// NewConsumer creates a consumer reading cfg.Topic as part of cfg.GroupID.
func NewConsumer(cfg Config, bulk BulkIndexer, del Deleter, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return newConsumer(r, cfg, bulk, del, logger.With(zap.String("topic", cfg.Topic)))
}

func newConsumer(r fetcher, cfg Config, bulk BulkIndexer, del Deleter, logger *zap.Logger) *Consumer {
	c := &Consumer{
		reader:        r,
		bulk:          bulk,
		del:           del,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		retryBackoff:  cfg.RetryBackoff,
		logger:        logger,
	}
	if c.batchSize <= 0 {
		c.batchSize = 100
	}
	if c.flushInterval <= 0 {
		c.flushInterval = time.Second
	}
	if c.retryBackoff <= 0 {
		c.retryBackoff = defaultRetryBackoff
	}
	return c
}

// Run consumes until ctx is cancelled. Buffered events that were not yet
// applied are left uncommitted and will be redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	ctx = logpkg.ContextWithLogger(ctx, c.logger)
	c.logger.Info("Kafka consumer started",
		zap.Int("batch_size", c.batchSize),
		zap.Duration("flush_interval", c.flushInterval),
	)

	var pending []kafka.Message
	var deadline time.Time
	for {
		if ctx.Err() != nil {
			c.logger.Info("Kafka consumer stopping", zap.Int("unflushed", len(pending)))
			return nil
		}

		msg, err := c.fetch(ctx, pending, deadline)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			if errors.Is(err, context.DeadlineExceeded) {
				if c.apply(ctx, pending) {
					pending = nil
				}
				continue
			}
			c.logger.Error("Failed to fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(fetchBackoff):
			}
			continue
		}

		if len(pending) == 0 {
			deadline = time.Now().Add(c.flushInterval)
		}
		pending = append(pending, msg)
		if len(pending) >= c.batchSize && c.apply(ctx, pending) {
			pending = nil
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close() //nolint:wrapcheck // delegating to reader
}

func (c *Consumer) fetch(ctx context.Context, pending []kafka.Message, deadline time.Time) (kafka.Message, error) {
	if len(pending) == 0 {
		return c.reader.FetchMessage(ctx) //nolint:wrapcheck // inspected by caller
	}
	fetchCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	return c.reader.FetchMessage(fetchCtx) //nolint:wrapcheck // inspected by caller
}

// apply flushes msgs until their offsets are committed. It returns false
// only when ctx is cancelled first.
func (c *Consumer) apply(ctx context.Context, msgs []kafka.Message) bool {
	for attempt := 1; !c.flush(ctx, msgs); attempt++ {
		c.logger.Warn("Retrying batch",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", c.retryBackoff),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.retryBackoff):
		}
	}
	return true
}

// flush applies msgs in order and commits their offsets when no item failed.
// Malformed events are logged and dropped. It reports whether offsets were
// committed.
func (c *Consumer) flush(ctx context.Context, msgs []kafka.Message) bool {
	if len(msgs) == 0 {
		return true
	}
	ctx, log := logpkg.With(ctx, zap.Int("batch_events", len(msgs)))

	failed := 0
	var sources []domdoc.Source
	applyIndex := func() {
		if len(sources) == 0 {
			return
		}
		for _, r := range c.bulk.Index(ctx, sources) {
			if r.Failed() {
				failed++
				log.Warn("Index event failed",
					zap.String("type", r.Identity().Type()),
					zap.String("id", r.Identity().ID()),
					zap.Error(r.Err()),
				)
			}
		}
		sources = nil
	}

	for _, m := range msgs {
		e, err := DecodeEvent(m.Value)
		if err != nil {
			log.Warn("Dropping malformed event",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			continue
		}
		switch e.Op {
		case OpIndex:
			src, err := e.Source()
			if err != nil {
				log.Warn("Dropping malformed event",
					zap.Int("partition", m.Partition),
					zap.Int64("offset", m.Offset),
					zap.Error(err),
				)
				continue
			}
			sources = append(sources, src)
		case OpDelete:
			applyIndex()
			if err := c.del.Delete(ctx, e.Identity()); err != nil {
				failed++
				log.Warn("Delete event failed", zap.Error(err))
			}
		}
	}
	applyIndex()

	if failed > 0 {
		log.Warn("Batch not committed", zap.Int("failed", failed))
		return false
	}
	if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
		log.Error("Failed to commit offsets", zap.Error(err))
		return false
	}
	log.Debug("Batch applied")
	return true
}
