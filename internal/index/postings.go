package index

import (
	"encoding/binary"
	"fmt"
	"os"
)

// PostingsMagic and PostingsVersion identify a valid postings.bin file.
const (
	PostingsMagic   uint32 = 0x504F5354 // "POST" little-endian of ASCII codes
	PostingsVersion uint32 = 1
	postingsHeaderSize      = 4 + 4 + 8 // magic, version, total_postings
)

// PostingsWriter writes postings.bin: a fixed header followed by the
// concatenation of every term's posting list, in the order Append is
// called. Callers are expected to call Append once per term in
// ascending term order (the builder guarantees this); the offset
// returned by Append is the lexicon's postings_offset_bytes for that
// term.
type PostingsWriter struct {
	f       *os.File
	tmpPath string
	path    string
	offset  uint64 // bytes written into the payload region so far
	total   uint64 // total u32 ids written so far
}

// CreatePostingsWriter opens a temp file in dir and writes the header
// placeholder. The caller must call Close to finalize and rename it
// into place.
func CreatePostingsWriter(path string) (*PostingsWriter, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("creating postings temp file: %w", err)
	}
	hdr := make([]byte, postingsHeaderSize)
	binary.LittleEndian.PutUint32(hdr[0:4], PostingsMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], PostingsVersion)
	// total_postings is patched in on Close.
	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing postings header: %w", err)
	}
	return &PostingsWriter{f: f, tmpPath: tmpPath, path: path}, nil
}

// Append writes a term's posting list (assumed already sorted and
// duplicate-free) and returns its byte offset within the payload
// region, for use as a lexicon entry's postings_offset_bytes.
func (w *PostingsWriter) Append(ids PostingList) (offsetBytes uint64, err error) {
	offset := w.offset
	if len(ids) == 0 {
		return offset, nil
	}
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], id)
	}
	if _, err := w.f.Write(buf); err != nil {
		return 0, fmt.Errorf("writing posting list: %w", err)
	}
	w.offset += uint64(len(buf))
	w.total += uint64(len(ids))
	return offset, nil
}

// Close back-patches the total_postings count into the header, syncs,
// and atomically renames the temp file into place.
func (w *PostingsWriter) Close() error {
	var totalBuf [8]byte
	binary.LittleEndian.PutUint64(totalBuf[:], w.total)
	if _, err := w.f.WriteAt(totalBuf[:], 8); err != nil {
		w.f.Close()
		return fmt.Errorf("patching total_postings: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		return fmt.Errorf("syncing postings file: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("closing postings file: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("renaming postings file into place: %w", err)
	}
	return nil
}

// PostingsFile is the fully-loaded postings.bin payload: the raw u32
// ids, indexable by byte offset as lexicon entries describe them.
type PostingsFile struct {
	ids []DocID // the whole payload region, decoded
}

// OpenPostings reads and validates a postings.bin file wholesale into
// memory.
func OpenPostings(path string) (*PostingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading postings file: %w", err)
	}
	if len(data) < postingsHeaderSize {
		return nil, fmt.Errorf("postings file too short: %d bytes", len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	version := binary.LittleEndian.Uint32(data[4:8])
	if magic != PostingsMagic {
		return nil, fmt.Errorf("bad postings magic: %#x", magic)
	}
	if version != PostingsVersion {
		return nil, fmt.Errorf("unsupported postings version: %d", version)
	}
	total := binary.LittleEndian.Uint64(data[8:16])
	payload := data[postingsHeaderSize:]
	if uint64(len(payload)) != total*4 {
		return nil, fmt.Errorf("postings payload size mismatch: header says %d ids, file has %d bytes", total, len(payload))
	}
	ids := make([]DocID, total)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(payload[i*4:])
	}
	return &PostingsFile{ids: ids}, nil
}

// Slice returns the posting list of postingsCount ids starting at the
// given byte offset into the payload region. It errors if the range
// would run past the end of the loaded payload, which would indicate a
// corrupt or mismatched lexicon/postings pair.
func (p *PostingsFile) Slice(offsetBytes uint64, postingsCount uint32) (PostingList, error) {
	start := offsetBytes / 4
	end := start + uint64(postingsCount)
	if end > uint64(len(p.ids)) {
		return nil, fmt.Errorf("posting range [%d:%d) out of bounds (have %d ids)", start, end, len(p.ids))
	}
	out := make(PostingList, postingsCount)
	copy(out, p.ids[start:end])
	return out, nil
}
