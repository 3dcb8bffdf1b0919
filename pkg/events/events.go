// Package events publishes best-effort lifecycle events for index builds
// and query evaluations to Kafka. Publishing is fire-and-forget: a broker
// outage is logged and never fails the calling CLI command.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/sidx-engine/sidx/pkg/config"
	"github.com/sidx-engine/sidx/pkg/kafka"
)

// BuildCompleted is published once by index_builder after a successful run.
type BuildCompleted struct {
	IndexDir      string    `json:"index_dir"`
	DocsIndexed   uint64    `json:"docs_indexed"`
	UniqueTerms   uint64    `json:"unique_terms"`
	TotalPostings uint64    `json:"total_postings"`
	DurationMS    int64     `json:"duration_ms"`
	FinishedAt    time.Time `json:"finished_at"`
}

// QueryExecuted is published once per evaluated query by search_cli.
type QueryExecuted struct {
	Query       string    `json:"query"`
	TermCount   int       `json:"term_count"`
	ResultCount int       `json:"result_count"`
	LatencyMS   int64     `json:"latency_ms"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Publisher emits BuildCompleted and QueryExecuted events. A nil Publisher
// (returned by New when Kafka is disabled) makes every publish a no-op, so
// callers don't need to check for an enabled flag themselves.
type Publisher struct {
	buildTopic *kafka.Producer
	queryTopic *kafka.Producer
	logger     *slog.Logger
}

// New returns a Publisher backed by cfg, or nil if Kafka is disabled.
func New(cfg config.KafkaConfig) *Publisher {
	if !cfg.Enabled {
		return nil
	}
	return &Publisher{
		buildTopic: kafka.NewProducer(cfg, cfg.Topics.BuildCompleted),
		queryTopic: kafka.NewProducer(cfg, cfg.Topics.QueryExecuted),
		logger:     slog.Default().With("component", "events"),
	}
}

// PublishBuildCompleted sends one index.build.completed event, keyed by
// index directory so repeated builds of the same index land on one
// partition.
func (p *Publisher) PublishBuildCompleted(ctx context.Context, evt BuildCompleted) {
	if p == nil {
		return
	}
	if err := p.buildTopic.Publish(ctx, kafka.Event{Key: evt.IndexDir, Value: evt}); err != nil {
		p.logger.Warn("build event publish failed", "error", err)
	}
}

// PublishQueryExecuted sends one search.query.executed event, keyed by
// the query text.
func (p *Publisher) PublishQueryExecuted(ctx context.Context, evt QueryExecuted) {
	if p == nil {
		return
	}
	if err := p.queryTopic.Publish(ctx, kafka.Event{Key: evt.Query, Value: evt}); err != nil {
		p.logger.Warn("query event publish failed", "error", err)
	}
}

// Close releases the underlying Kafka writers. Safe to call on a nil
// Publisher.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.buildTopic.Close(); err != nil {
		return err
	}
	return p.queryTopic.Close()
}
