// Package pipeline implements the tokenizer and stemmer CLI stages:
// reading one text format, transforming it line by line, and writing
// the next. The index builder stage lives separately in
// internal/build because it reads two inputs and writes binary
// output rather than one text file to another.
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sidx-engine/sidx/internal/textproc/tokenize"
)

// TokenizeStats mirrors the original tokenizer's printed summary:
// document and token counts, average token length, elapsed time, and
// throughput.
type TokenizeStats struct {
	DocsAccepted   uint64
	DocsSkipped    uint64
	TokensEmitted  uint64
	BytesRead      int64
	Elapsed        time.Duration
	AvgTokenLength float64
	SecondsPerKB   float64
}

// TokenizeFile reads rawTextPath (doc_id \t source \t url \t title \t
// text per line) and writes tokenizedPath (doc_id \t tok1 SP tok2 SP
// … per line). A record is skipped silently if any of the first four
// tab separators is missing, doc_id is empty, text is empty, or
// tokenization yields zero tokens.
func TokenizeFile(rawTextPath, tokenizedPath string) (*TokenizeStats, error) {
	start := time.Now()

	in, err := os.Open(rawTextPath)
	if err != nil {
		return nil, fmt.Errorf("opening raw text file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(tokenizedPath)
	if err != nil {
		return nil, fmt.Errorf("creating tokenized output: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriterSize(out, 64*1024)
	stats := &TokenizeStats{}
	var totalTokenBytes uint64

	r := bufio.NewReaderSize(in, 64*1024)
	for {
		line, rerr := readLine(r)
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading raw text file: %w", rerr)
		}
		stats.BytesRead += int64(len(line)) + 1

		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 5 || fields[0] == "" || fields[4] == "" {
			stats.DocsSkipped++
			continue
		}
		docID := fields[0]
		text := fields[4]

		tokens := tokenize.Text(text)
		if len(tokens) == 0 {
			stats.DocsSkipped++
			continue
		}

		if _, err := w.WriteString(docID); err != nil {
			return nil, fmt.Errorf("writing tokenized output: %w", err)
		}
		if err := w.WriteByte('\t'); err != nil {
			return nil, fmt.Errorf("writing tokenized output: %w", err)
		}
		for i, tok := range tokens {
			if i > 0 {
				if err := w.WriteByte(' '); err != nil {
					return nil, fmt.Errorf("writing tokenized output: %w", err)
				}
			}
			if _, err := w.WriteString(tok); err != nil {
				return nil, fmt.Errorf("writing tokenized output: %w", err)
			}
			totalTokenBytes += uint64(len(tok))
		}
		if err := w.WriteByte('\n'); err != nil {
			return nil, fmt.Errorf("writing tokenized output: %w", err)
		}

		stats.DocsAccepted++
		stats.TokensEmitted += uint64(len(tokens))
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flushing tokenized output: %w", err)
	}

	stats.Elapsed = time.Since(start)
	if stats.TokensEmitted > 0 {
		stats.AvgTokenLength = float64(totalTokenBytes) / float64(stats.TokensEmitted)
	}
	kb := float64(stats.BytesRead) / 1024
	if kb > 0 {
		stats.SecondsPerKB = stats.Elapsed.Seconds() / kb
	}
	return stats, nil
}

// readLine reads one line, stripping a trailing newline and an
// optional preceding carriage return. bufio.Reader's ReadString grows
// its buffer as needed rather than capping at bufio.Scanner's default
// 64KB token size, which matters for long "text" fields.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if len(line) == 0 && err == io.EOF {
		return "", io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
