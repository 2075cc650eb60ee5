package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/fern/pkg/tracing"
)

// CompanyEnrichedEvent is published after a partner registration has been
// run through the enrichment pipeline. Downstream consumers use it to know
// that reference data for the company is (as far as possible) in place.
type CompanyEnrichedEvent struct {
	PartnerID     string    `json:"partner_id"`
	CorpCode      string    `json:"corp_code"`
	ProfileSource string    `json:"profile_source"`
	Disclosures   int       `json:"disclosures_synced"`
	Statements    int       `json:"statements_synced"`
	Timestamp     time.Time `json:"timestamp"`
}

// Producer publishes events to Kafka
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
	}

	switch cfg.Compression {
	case "gzip":
		writer.Compression = kafka.Gzip
	case "snappy":
		writer.Compression = kafka.Snappy
	case "lz4":
		writer.Compression = kafka.Lz4
	case "zstd":
		writer.Compression = kafka.Zstd
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// PublishEnriched publishes a company-enriched event keyed by corp code
func (p *Producer) PublishEnriched(ctx context.Context, event *CompanyEnrichedEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishEnriched")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal enriched event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.CorpCode),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"corp_code":  event.CorpCode,
			"partner_id": event.PartnerID,
		}).Error("Failed to publish enriched event")
		return fmt.Errorf("failed to publish enriched event: %w", err)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"corp_code":  event.CorpCode,
		"partner_id": event.PartnerID,
	}).Debug("Published enriched event")
	return nil
}

// Close closes the underlying writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
