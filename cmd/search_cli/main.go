// Command search_cli evaluates boolean queries against an index built
// by index_builder. With --query it answers one query and exits;
// without it, it reads one query per line from standard input until
// EOF.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	idx "github.com/sidx-engine/sidx/internal/index"
	"github.com/sidx-engine/sidx/internal/search/cache"
	"github.com/sidx-engine/sidx/internal/search/engine"
	"github.com/sidx-engine/sidx/internal/search/lexer"
	"github.com/sidx-engine/sidx/pkg/config"
	"github.com/sidx-engine/sidx/pkg/events"
	"github.com/sidx-engine/sidx/pkg/health"
	"github.com/sidx-engine/sidx/pkg/logger"
	"github.com/sidx-engine/sidx/pkg/metrics"
	pkgredis "github.com/sidx-engine/sidx/pkg/redis"
	"github.com/sidx-engine/sidx/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	indexDir := flag.String("index-dir", "", "directory containing postings.bin, lexicon.bin, forward.bin")
	query := flag.String("query", "", "evaluate a single query and exit instead of reading from stdin")
	offset := flag.Int("offset", 0, "result offset")
	limit := flag.Int("limit", -1, "result limit (defaults to the configured search limit)")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "json", "log format (json, text)")
	flag.Parse()

	logger.Setup(*logLevel, *logFormat)
	log := logger.WithComponent("search_cli")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *metricsAddr
	}
	dir := cfg.Search.IndexDir
	if *indexDir != "" {
		dir = *indexDir
	}
	if *limit < 0 {
		*limit = cfg.Search.DefaultLimit
	}
	if *limit > cfg.Search.MaxLimit {
		*limit = cfg.Search.MaxLimit
	}

	eng, err := engine.Open(dir)
	if err != nil {
		log.Error("failed to open index", "index_dir", dir, "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		eng.SetMetrics(m)
		checker := health.NewChecker()
		checker.Register("index", func(ctx context.Context) health.ComponentHealth {
			return health.ComponentHealth{Status: health.StatusUp}
		})
		shutdown := metrics.StartServer(cfg.Metrics.Addr, checker)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		var redisClient *pkgredis.Client
		err := resilience.Retry(context.Background(), "redis-connect", resilience.RetryConfig{MaxAttempts: 3}, func() error {
			var cerr error
			redisClient, cerr = pkgredis.NewClient(cfg.Redis)
			return cerr
		})
		if err != nil {
			log.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis)
		}
	}

	publisher := events.New(cfg.Kafka)
	defer publisher.Close()

	cli := &runner{
		engine:    eng,
		cache:     queryCache,
		metrics:   m,
		publisher: publisher,
		log:       log,
	}

	if *query != "" {
		if _, err := cli.run(*query, *offset, *limit, os.Stdout); err != nil {
			log.Error("query failed", "query", *query, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := cli.loop(os.Stdin, os.Stdout, *offset, *limit); err != nil {
		log.Error("interactive query loop aborted", "error", err)
		os.Exit(1)
	}
}

type runner struct {
	engine    *engine.Engine
	cache     *cache.QueryCache
	metrics   *metrics.Metrics
	publisher *events.Publisher
	log       *slog.Logger
}

// run evaluates one query, writes its TOTAL/DOC result block to w, and
// returns the result for metrics/event purposes.
func (r *runner) run(query string, offset, limit int, w io.Writer) (*engine.Result, error) {
	start := time.Now()

	matches, cacheHit, err := r.evaluate(query)
	latency := time.Since(start)
	if err != nil {
		r.observe("error", 0, latency, false)
		return nil, err
	}

	result := r.engine.Paginate(matches, offset, limit)

	resultClass := "hit"
	if result.Total == 0 {
		resultClass = "zero"
	}
	r.observe(resultClass, result.Total, latency, cacheHit)
	r.log.Debug("query evaluated", "query", query, "total", result.Total, "cache_hit", cacheHit, "latency", latency)

	r.publisher.PublishQueryExecuted(context.Background(), events.QueryExecuted{
		Query:       query,
		TermCount:   termCount(query),
		ResultCount: result.Total,
		LatencyMS:   latency.Milliseconds(),
		ExecutedAt:  time.Now(),
	})

	if _, err := fmt.Fprintf(w, "TOTAL\t%d\n", result.Total); err != nil {
		return nil, err
	}
	for _, doc := range result.Docs {
		if _, err := fmt.Fprintf(w, "DOC\t%d\t%s\t%s\n", doc.DocID, doc.Title, doc.URL); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// termCount returns the number of TERM tokens a query lexes to, for
// the query-executed event's term_count field.
func termCount(query string) int {
	n := 0
	for _, t := range lexer.Tokenize(query) {
		if t.Kind == lexer.Term {
			n++
		}
	}
	return n
}

// evaluate returns the full match set for query and whether it was
// served from the query cache, consulting the optional cache before
// falling back to the engine.
func (r *runner) evaluate(query string) (idx.PostingList, bool, error) {
	if r.cache == nil {
		pl, err := r.engine.Evaluate(query)
		return pl, false, err
	}
	pl, hit, err := r.cache.GetOrCompute(context.Background(), query, func() (idx.PostingList, error) {
		return r.engine.Evaluate(query)
	})
	return pl, hit, err
}

func (r *runner) observe(resultClass string, resultCount int, latency time.Duration, cacheHit bool) {
	if r.metrics == nil {
		return
	}
	r.metrics.QueriesTotal.WithLabelValues(resultClass).Inc()
	r.metrics.QueryLatency.Observe(latency.Seconds())
	r.metrics.QueryResultCount.Observe(float64(resultCount))
	if cacheHit {
		r.metrics.CacheHitsTotal.Inc()
	} else if r.cache != nil {
		r.metrics.CacheMissesTotal.Inc()
	}
}

// loop reads one query per line from r until EOF, printing a
// QUERY\t<q>\n header before each result block and a blank line
// between blocks. A malformed query aborts the loop with an error.
func (r *runner) loop(in io.Reader, out io.Writer, offset, limit int) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		q := scanner.Text()
		if !first {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintf(out, "QUERY\t%s\n", q); err != nil {
			return err
		}
		if _, err := r.run(q, offset, limit, out); err != nil {
			return fmt.Errorf("query %q: %w", q, err)
		}
	}
	return scanner.Err()
}
