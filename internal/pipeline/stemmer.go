package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sidx-engine/sidx/internal/textproc/stem"
)

// StemStats mirrors the original stemmer's printed summary: documents
// and tokens processed.
type StemStats struct {
	Documents uint64
	Tokens    uint64
	Elapsed   time.Duration
}

// StemFile reads tokenizedPath (doc_id \t tok1 SP tok2 SP … per line)
// and writes stemmedPath with the same shape, each token passed
// through stem.Word. A line with no tab, or whose token list stems to
// entirely empty, is dropped.
func StemFile(tokenizedPath, stemmedPath string) (*StemStats, error) {
	start := time.Now()

	in, err := os.Open(tokenizedPath)
	if err != nil {
		return nil, fmt.Errorf("opening tokenized file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(stemmedPath)
	if err != nil {
		return nil, fmt.Errorf("creating stemmed output: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriterSize(out, 64*1024)
	stats := &StemStats{}

	r := bufio.NewReaderSize(in, 64*1024)
	for {
		line, rerr := readLine(r)
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading tokenized file: %w", rerr)
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		docID := line[:tab]
		stemmed := stem.Line(line[tab+1:])
		if stemmed == "" {
			continue
		}

		if _, err := w.WriteString(docID); err != nil {
			return nil, fmt.Errorf("writing stemmed output: %w", err)
		}
		if err := w.WriteByte('\t'); err != nil {
			return nil, fmt.Errorf("writing stemmed output: %w", err)
		}
		if _, err := w.WriteString(stemmed); err != nil {
			return nil, fmt.Errorf("writing stemmed output: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return nil, fmt.Errorf("writing stemmed output: %w", err)
		}

		stats.Documents++
		stats.Tokens += uint64(len(strings.Fields(stemmed)))
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flushing stemmed output: %w", err)
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}
