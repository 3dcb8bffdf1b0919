// Command stemmer reads tokenized.txt and writes stemmed.txt, passing
// every token through the shared suffix-stripping rule table so
// index builder and search_cli collapse terms identically.
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
	log := logger.WithComponent("stemmer")

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: stemmer <tokenized.txt> <stemmed.txt>")
		os.Exit(1)
	}
	tokenizedPath, stemmedPath := args[0], args[1]

	log.Info("stemming", "input", tokenizedPath, "output", stemmedPath)
	stats, err := pipeline.StemFile(tokenizedPath, stemmedPath)
	if err != nil {
		log.Error("stem failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("documents=%d\n", stats.Documents)
	fmt.Printf("tokens=%d\n", stats.Tokens)
	fmt.Printf("elapsed_seconds=%.3f\n", stats.Elapsed.Seconds())

	log.Info("stem complete",
		slog.Uint64("documents", stats.Documents),
		slog.Uint64("tokens", stats.Tokens),
		slog.Duration("elapsed", stats.Elapsed),
	)
}
