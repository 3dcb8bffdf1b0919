// Package cache provides an optional Redis-backed cache of evaluated
// boolean-query results, keyed on the query's RPN shape rather than
// its raw text so that equivalent queries (different whitespace,
// operator spelling) share a cache entry.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	idx "github.com/sidx-engine/sidx/internal/index"
	"github.com/sidx-engine/sidx/internal/search/lexer"
	"github.com/sidx-engine/sidx/internal/search/parser"
	"github.com/sidx-engine/sidx/pkg/config"
	pkgredis "github.com/sidx-engine/sidx/pkg/redis"
	"github.com/sidx-engine/sidx/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "sidx:query:"

// cachedResult is the JSON shape stored in Redis: the full match set
// before pagination, so different offset/limit requests against the
// same query share one cache entry.
type cachedResult struct {
	Matches idx.PostingList `json:"matches"`
}

// QueryCache wraps a Redis client with singleflight-deduplicated
// fetch-or-compute semantics for boolean query evaluation results.
type QueryCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	group   singleflight.Group
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("query-cache-redis", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Get returns a cached match set for query, if present. A tripped circuit
// breaker (too many recent Redis failures) counts as a miss without
// touching the network, so a flaky cache degrades search_cli to
// uncached evaluation rather than stalling every query on dial timeouts.
func (c *QueryCache) Get(ctx context.Context, query string) (idx.PostingList, bool) {
	key := c.buildKey(query)
	var data string
	err := c.breaker.Execute(func() error {
		var innerErr error
		data, innerErr = c.client.Get(ctx, key)
		return innerErr
	})
	if err != nil {
		if !pkgredis.IsNilError(err) && !errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var cr cachedResult
	if err := json.Unmarshal([]byte(data), &cr); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return cr.Matches, true
}

// Set stores matches for query.
func (c *QueryCache) Set(ctx context.Context, query string, matches idx.PostingList) {
	key := c.buildKey(query)
	data, err := json.Marshal(cachedResult{Matches: matches})
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, c.cfg.CacheTTL)
	}); err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached match set for query, or computes it
// via computeFn, caches it, and returns it. Concurrent callers for the
// same query share one computeFn invocation via singleflight; this
// only matters to a hypothetical concurrent caller, since search_cli
// itself evaluates queries one at a time, but the dedup path is still
// exercised and correct.
func (c *QueryCache) GetOrCompute(ctx context.Context, query string, computeFn func() (idx.PostingList, error)) (idx.PostingList, bool, error) {
	if matches, ok := c.Get(ctx, query); ok {
		return matches, true, nil
	}
	key := c.buildKey(query)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if matches, ok := c.Get(ctx, query); ok {
			return matches, nil
		}
		matches, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, matches)
		return matches, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(idx.PostingList), false, nil
}

func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey normalizes query to its RPN token-kind/text shape before
// hashing, so "fox && jump" and "fox  &&  jump" share a cache entry
// (and so do the same tokens typed with "AND" inserted implicitly).
func (c *QueryCache) buildKey(query string) string {
	tokens := lexer.Tokenize(query)
	rpn, err := parser.ToRPN(tokens)
	normalized := ""
	if err != nil {
		// An unparseable query can't be usefully normalized; fall back
		// to hashing the raw text so the lookup still misses cleanly
		// rather than colliding with a valid query's key.
		normalized = "raw:" + query
	} else {
		for _, t := range rpn {
			normalized += fmt.Sprintf("%d:%s|", t.Kind, t.Text)
		}
	}
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
