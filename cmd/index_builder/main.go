// Command index_builder reads stemmed.txt and raw_text.tsv and writes
// postings.bin, lexicon.bin, and forward.bin to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/sidx-engine/sidx/internal/build"
	"github.com/sidx-engine/sidx/pkg/config"
	"github.com/sidx-engine/sidx/pkg/events"
	"github.com/sidx-engine/sidx/pkg/health"
	"github.com/sidx-engine/sidx/pkg/ledger"
	"github.com/sidx-engine/sidx/pkg/logger"
	"github.com/sidx-engine/sidx/pkg/metrics"
	"github.com/sidx-engine/sidx/pkg/postgres"
	"github.com/sidx-engine/sidx/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")
	postgresDSN := flag.String("postgres-dsn", "", "optional Postgres DSN to record this build in the build_runs ledger")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "json", "log format (json, text)")
	flag.Parse()

	logger.Setup(*logLevel, *logFormat)
	log := logger.WithComponent("index_builder")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *metricsAddr
	}
	if *postgresDSN != "" {
		cfg.Postgres.Enabled = true
	}

	args := flag.Args()
	if len(args) < 3 || len(args) > 4 {
		fmt.Fprintln(os.Stderr, "usage: index_builder <stemmed.txt> <raw_text.tsv> <index_dir> [hash_capacity]")
		os.Exit(1)
	}
	stemmedPath, rawTextPath, indexDir := args[0], args[1], args[2]

	hashCapacity := cfg.Build.HashCapacity
	if len(args) == 4 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "invalid hash_capacity %q\n", args[3])
			os.Exit(1)
		}
		hashCapacity = n
	}

	var m *metrics.Metrics
	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		checker := health.NewChecker()
		checker.Register("builder", func(ctx context.Context) health.ComponentHealth {
			return health.ComponentHealth{Status: health.StatusUp}
		})
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Addr, checker)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownMetrics(ctx)
		}()
	}

	var pgClient *postgres.Client
	if cfg.Postgres.Enabled {
		dsn := *postgresDSN
		if dsn == "" {
			dsn = cfg.Postgres.DSN()
		}
		err := resilience.Retry(context.Background(), "postgres-connect", resilience.RetryConfig{MaxAttempts: 3}, func() error {
			var cerr error
			pgClient, cerr = postgres.NewFromDSN(dsn, cfg.Postgres)
			return cerr
		})
		if err != nil {
			log.Warn("postgres unavailable, build ledger disabled", "error", err)
			pgClient = nil
		} else {
			defer pgClient.Close()
		}
	}

	publisher := events.New(cfg.Kafka)
	defer publisher.Close()

	start := time.Now()
	log.Info("building index", "stemmed", stemmedPath, "raw_text", rawTextPath, "index_dir", indexDir, "hash_capacity", hashCapacity)

	stats, err := build.Build(build.Options{
		StemmedPath:  stemmedPath,
		RawTextPath:  rawTextPath,
		IndexDir:     indexDir,
		HashCapacity: hashCapacity,
		Logger:       log,
	})
	status := "success"
	if err != nil {
		log.Error("build failed", "error", err)
		status = "failed"
	}

	if pgClient != nil {
		led := ledger.New(pgClient)
		if serr := led.EnsureSchema(context.Background()); serr != nil {
			log.Warn("ledger schema setup failed", "error", serr)
		} else {
			run := ledger.Run{StartedAt: start, FinishedAt: time.Now(), Status: status}
			if stats != nil {
				run.DocsIndexed = stats.DocsIndexed
				run.UniqueTerms = stats.UniqueTerms
				run.TotalPostings = stats.TotalPostings
				run.HashCapacity = hashCapacity
			}
			if _, rerr := led.Record(context.Background(), run); rerr != nil {
				log.Warn("recording build run failed", "error", rerr)
			}
		}
	}

	if err != nil {
		os.Exit(1)
	}

	fmt.Printf("documents_indexed=%d\n", stats.DocsIndexed)
	fmt.Printf("tokens_seen=%d\n", stats.TokensSeen)
	fmt.Printf("unique_terms=%d\n", stats.UniqueTerms)
	fmt.Printf("total_postings=%d\n", stats.TotalPostings)
	fmt.Printf("docs_with_meta=%d\n", stats.DocsWithMeta)

	if m != nil {
		m.DocsIndexedTotal.Add(float64(stats.DocsIndexed))
		m.TermsIndexedTotal.Add(float64(stats.UniqueTerms))
		m.PostingsWrittenTotal.Add(float64(stats.TotalPostings))
		m.BuildDuration.Observe(stats.Duration.Seconds())
	}

	publisher.PublishBuildCompleted(context.Background(), events.BuildCompleted{
		IndexDir:      indexDir,
		DocsIndexed:   stats.DocsIndexed,
		UniqueTerms:   stats.UniqueTerms,
		TotalPostings: stats.TotalPostings,
		DurationMS:    stats.Duration.Milliseconds(),
		FinishedAt:    time.Now(),
	})

	log.Info("build complete",
		slog.Uint64("documents_indexed", stats.DocsIndexed),
		slog.Uint64("unique_terms", stats.UniqueTerms),
		slog.Duration("elapsed", stats.Duration),
	)
}
