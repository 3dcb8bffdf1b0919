// Command tokenizer reads a raw_text.tsv corpus and writes
// tokenized.txt: one line per accepted document, doc_id followed by
// its space-separated tokens.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sidx-engine/sidx/internal/pipeline"
	"github.com/sidx-engine/sidx/pkg/logger"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "json", "log format (json, text)")
	flag.Parse()

	logger.Setup(*logLevel, *logFormat)
	log := logger.WithComponent("tokenizer")

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tokenizer <raw_text.tsv> <tokenized.txt>")
		os.Exit(1)
	}
	rawTextPath, tokenizedPath := args[0], args[1]

	log.Info("tokenizing", "input", rawTextPath, "output", tokenizedPath)
	stats, err := pipeline.TokenizeFile(rawTextPath, tokenizedPath)
	if err != nil {
		log.Error("tokenize failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("documents_accepted=%d\n", stats.DocsAccepted)
	fmt.Printf("documents_skipped=%d\n", stats.DocsSkipped)
	fmt.Printf("tokens_emitted=%d\n", stats.TokensEmitted)
	fmt.Printf("avg_token_length=%.2f\n", stats.AvgTokenLength)
	fmt.Printf("elapsed_seconds=%.3f\n", stats.Elapsed.Seconds())
	fmt.Printf("seconds_per_kb=%.6f\n", stats.SecondsPerKB)

	log.Info("tokenize complete",
		slog.Uint64("documents_accepted", stats.DocsAccepted),
		slog.Uint64("tokens_emitted", stats.TokensEmitted),
		slog.Duration("elapsed", stats.Elapsed),
	)
}
