package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// LexiconMagic and LexiconVersion identify a valid lexicon.bin file.
const (
	LexiconMagic   uint32 = 0x4C455849 // "LEXI"
	LexiconVersion uint32 = 1
)

// WriteLexicon writes lexicon.bin. entries must already be sorted by
// Term ascending; WriteLexicon does not re-sort, since the builder
// needs to write lexicon.bin and postings.bin in matching term order
// from a single pass over the same sorted slice.
func WriteLexicon(path string, entries []LexiconEntry) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating lexicon temp file: %w", err)
	}
	w := bufio.NewWriter(f)

	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], LexiconMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], LexiconVersion)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(entries)))
	if _, err := w.Write(hdr[:]); err != nil {
		f.Close()
		return fmt.Errorf("writing lexicon header: %w", err)
	}

	var fieldBuf [14]byte // u16 term_len + u64 offset + u32 count
	for _, e := range entries {
		termLen := len(e.Term)
		if termLen > maxTermLen {
			f.Close()
			return fmt.Errorf("term %q exceeds max length %d", e.Term, maxTermLen)
		}
		binary.LittleEndian.PutUint16(fieldBuf[0:2], uint16(termLen))
		if _, err := w.Write(fieldBuf[0:2]); err != nil {
			f.Close()
			return fmt.Errorf("writing term length: %w", err)
		}
		if _, err := w.WriteString(e.Term); err != nil {
			f.Close()
			return fmt.Errorf("writing term bytes: %w", err)
		}
		binary.LittleEndian.PutUint64(fieldBuf[0:8], e.PostingsOffset)
		binary.LittleEndian.PutUint32(fieldBuf[8:12], e.PostingsCount)
		if _, err := w.Write(fieldBuf[0:12]); err != nil {
			f.Close()
			return fmt.Errorf("writing lexicon entry tail: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing lexicon: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing lexicon file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing lexicon file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Lexicon is the fully-loaded, term-sorted lexicon, queryable by exact
// term via binary search.
type Lexicon struct {
	entries []LexiconEntry
	onFind  func(depth int)
}

// OnFind registers a callback invoked after every Find with the number
// of probes the binary search took, for the lexicon binary-search
// depth metric. Passing nil disables it.
func (l *Lexicon) OnFind(fn func(depth int)) {
	l.onFind = fn
}

// OpenLexicon reads and validates a lexicon.bin file wholesale into
// memory.
func OpenLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	if len(data) < 12 {
		return nil, fmt.Errorf("lexicon file too short: %d bytes", len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	version := binary.LittleEndian.Uint32(data[4:8])
	if magic != LexiconMagic {
		return nil, fmt.Errorf("bad lexicon magic: %#x", magic)
	}
	if version != LexiconVersion {
		return nil, fmt.Errorf("unsupported lexicon version: %d", version)
	}
	termCount := binary.LittleEndian.Uint32(data[8:12])
	entries := make([]LexiconEntry, termCount)
	off := 12
	for i := range entries {
		if off+2 > len(data) {
			return nil, fmt.Errorf("lexicon truncated reading term %d length", i)
		}
		termLen := int(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
		if off+termLen > len(data) {
			return nil, fmt.Errorf("lexicon truncated reading term %d bytes", i)
		}
		term := string(data[off : off+termLen])
		off += termLen
		if off+12 > len(data) {
			return nil, fmt.Errorf("lexicon truncated reading term %d tail", i)
		}
		postingsOffset := binary.LittleEndian.Uint64(data[off : off+8])
		postingsCount := binary.LittleEndian.Uint32(data[off+8 : off+12])
		off += 12
		entries[i] = LexiconEntry{Term: term, PostingsOffset: postingsOffset, PostingsCount: postingsCount}
	}
	return &Lexicon{entries: entries}, nil
}

// Find looks up term by exact match via binary search over the
// ascending, sorted entries and reports whether it was found. If
// OnFind is set, it's called with the number of probes the search
// took.
func (l *Lexicon) Find(term string) (LexiconEntry, bool) {
	depth := 0
	i := sort.Search(len(l.entries), func(i int) bool {
		depth++
		return l.entries[i].Term >= term
	})
	if l.onFind != nil {
		l.onFind(depth)
	}
	if i < len(l.entries) && l.entries[i].Term == term {
		return l.entries[i], true
	}
	return LexiconEntry{}, false
}

// Len returns the number of terms in the lexicon.
func (l *Lexicon) Len() int {
	return len(l.entries)
}
