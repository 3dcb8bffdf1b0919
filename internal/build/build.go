// Package build implements the index builder stage: it reads
// stemmed.txt and raw_text.tsv and writes postings.bin, lexicon.bin,
// and forward.bin to an output directory.
package build

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sidx-engine/sidx/internal/index"
)

// Stats summarizes one build run, mirroring the original index
// builder's printed summary line (documents_indexed=, tokens_seen=,
// unique_terms=, total_postings=, docs_with_meta=).
type Stats struct {
	DocsIndexed   uint64
	TokensSeen    uint64
	UniqueTerms   uint64
	TotalPostings uint64
	DocsWithMeta  uint32
	Duration      time.Duration
}

// Options controls one Build invocation.
type Options struct {
	StemmedPath  string
	RawTextPath  string
	IndexDir     string
	HashCapacity int
	Logger       *slog.Logger
}

// Build runs the full index-builder pipeline: scan stemmed.txt into a
// term table, sort terms, write postings.bin and lexicon.bin, then
// re-scan raw_text.tsv to build forward.bin.
func Build(opts Options) (*Stats, error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(opts.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index dir %s: %w", opts.IndexDir, err)
	}

	table := newTermTable(opts.HashCapacity)
	docsIndexed, tokensSeen, err := scanStemmed(opts.StemmedPath, table)
	if err != nil {
		return nil, fmt.Errorf("scanning stemmed file: %w", err)
	}

	entries := table.entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].term < entries[j].term })

	postingsPath := filepath.Join(opts.IndexDir, "postings.bin")
	lexiconPath := filepath.Join(opts.IndexDir, "lexicon.bin")
	forwardPath := filepath.Join(opts.IndexDir, "forward.bin")

	pw, err := index.CreatePostingsWriter(postingsPath)
	if err != nil {
		return nil, fmt.Errorf("opening postings output: %w", err)
	}
	lexEntries := make([]index.LexiconEntry, 0, len(entries))
	for _, e := range entries {
		ids := dedupeSorted(e.postings)
		off, err := pw.Append(index.PostingList(ids))
		if err != nil {
			return nil, fmt.Errorf("writing postings for term %q: %w", e.term, err)
		}
		lexEntries = append(lexEntries, index.LexiconEntry{
			Term:           e.term,
			PostingsOffset: off,
			PostingsCount:  uint32(len(ids)),
		})
	}
	if err := pw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing postings output: %w", err)
	}

	var totalPostings uint64
	for _, e := range lexEntries {
		totalPostings += uint64(e.PostingsCount)
	}

	if err := index.WriteLexicon(lexiconPath, lexEntries); err != nil {
		return nil, fmt.Errorf("writing lexicon output: %w", err)
	}

	metas, maxDocID, docsWithMeta, err := scanRawText(opts.RawTextPath, log)
	if err != nil {
		return nil, fmt.Errorf("scanning raw text file: %w", err)
	}

	if err := index.WriteForward(forwardPath, metas, maxDocID); err != nil {
		return nil, fmt.Errorf("writing forward output: %w", err)
	}

	return &Stats{
		DocsIndexed:   docsIndexed,
		TokensSeen:    tokensSeen,
		UniqueTerms:   uint64(len(entries)),
		TotalPostings: totalPostings,
		DocsWithMeta:  docsWithMeta,
		Duration:      time.Since(start),
	}, nil
}

// dedupeSorted sorts ids ascending and removes duplicates. The term
// table already collapses consecutive same-document tokens via
// last_doc_id, but input whose doc_ids are not in ascending order
// would otherwise leave a list unsorted or with repeats; this pass
// guarantees the strictly-ascending, duplicate-free invariant
// postings.bin requires.
func dedupeSorted(ids []uint32) []uint32 {
	if len(ids) == 0 {
		return ids
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func scanStemmed(path string, table *termTable) (docsIndexed, tokensSeen uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening stemmed file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := readLine(r)
		if err != nil {
			if err == io.EOF {
				break
			}
			return docsIndexed, tokensSeen, err
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		docID64, err := strconv.ParseUint(line[:tab], 10, 32)
		if err != nil {
			continue
		}
		docID := uint32(docID64)
		body := line[tab+1:]
		for _, tok := range strings.Fields(body) {
			table.addDoc(tok, docID)
			tokensSeen++
		}
		docsIndexed++
	}
	return docsIndexed, tokensSeen, nil
}

func scanRawText(path string, log *slog.Logger) (metas []index.DocMeta, maxDocID uint32, docsWithMeta uint32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening raw text file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	warnedDup := false
	for {
		line, err := readLine(r)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, 0, err
		}
		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 5 {
			continue
		}
		docID64, perr := strconv.ParseUint(fields[0], 10, 32)
		if perr != nil || docID64 == 0 {
			continue
		}
		docID := uint32(docID64)
		url := fields[2]
		title := fields[3]

		if int(docID) >= len(metas) {
			grown := make([]index.DocMeta, docID+1024)
			copy(grown, metas)
			metas = grown
		}
		if metas[docID].DocID != 0 {
			if !warnedDup {
				log.Warn("duplicate doc_id in raw text file, first occurrence wins", "doc_id", docID)
				warnedDup = true
			}
			continue
		}
		meta := index.DocMeta{DocID: docID, Title: title, URL: url}
		if verr := validateDocMeta(meta); verr != nil {
			log.Warn("dropping doc metadata that fails validation", "error", verr)
			continue
		}
		metas[docID] = meta
		docsWithMeta++
		if docID > maxDocID {
			maxDocID = docID
		}
	}
	return metas, maxDocID, docsWithMeta, nil
}

// readLine reads one line, stripping a trailing newline (and a
// preceding carriage return, for CRLF inputs), growing bufio's
// internal buffer as needed via ReadString rather than capping at a
// fixed token size the way bufio.Scanner does by default.
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
	if err == io.EOF {
		return line, nil
	}
	return line, nil
}
