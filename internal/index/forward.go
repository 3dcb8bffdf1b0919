package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// ForwardMagic and ForwardVersion identify a valid forward.bin file.
const (
	ForwardMagic   uint32 = 0x46575244 // "FWRD"
	ForwardVersion uint32 = 1
)

// WriteForward writes forward.bin. metas is indexed by DocID (a sparse
// array: metas[0] is always absent since DocID 0 is reserved, and gaps
// for doc_ids with no known metadata are represented by a zero-value
// DocMeta with DocID 0). maxDocID is stored as the header's max_doc_id
// and bounds which entries of metas are written: records with a DocID
// above it are skipped. internal/build passes the highest doc_id that
// has metadata. The reader's universe is built from the records
// themselves, not from max_doc_id.
func WriteForward(path string, metas []DocMeta, maxDocID DocID) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating forward temp file: %w", err)
	}
	w := bufio.NewWriter(f)

	docsWithMeta := uint32(0)
	for _, m := range metas {
		if m.DocID != 0 {
			docsWithMeta++
		}
	}

	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:4], ForwardMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], ForwardVersion)
	binary.LittleEndian.PutUint32(hdr[8:12], docsWithMeta)
	binary.LittleEndian.PutUint32(hdr[12:16], maxDocID)
	if _, err := w.Write(hdr[:]); err != nil {
		f.Close()
		return fmt.Errorf("writing forward header: %w", err)
	}

	var fieldBuf [8]byte // u32 doc_id + u16 title_len + u16 url_len
	for id := DocID(1); id <= maxDocID; id++ {
		if int(id) >= len(metas) || metas[id].DocID == 0 {
			continue
		}
		m := metas[id]
		if len(m.Title) > maxFieldLen {
			f.Close()
			return fmt.Errorf("doc %d title exceeds max length %d", id, maxFieldLen)
		}
		if len(m.URL) > maxFieldLen {
			f.Close()
			return fmt.Errorf("doc %d url exceeds max length %d", id, maxFieldLen)
		}
		binary.LittleEndian.PutUint32(fieldBuf[0:4], m.DocID)
		binary.LittleEndian.PutUint16(fieldBuf[4:6], uint16(len(m.Title)))
		binary.LittleEndian.PutUint16(fieldBuf[6:8], uint16(len(m.URL)))
		if _, err := w.Write(fieldBuf[:]); err != nil {
			f.Close()
			return fmt.Errorf("writing forward record header for doc %d: %w", id, err)
		}
		if _, err := w.WriteString(m.Title); err != nil {
			f.Close()
			return fmt.Errorf("writing title for doc %d: %w", id, err)
		}
		if _, err := w.WriteString(m.URL); err != nil {
			f.Close()
			return fmt.Errorf("writing url for doc %d: %w", id, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing forward file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing forward file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing forward file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Forward is the fully-loaded forward.bin: per-document metadata
// keyed by DocID, plus the ascending list of doc_ids that actually
// have a record — the universe NOT complements against.
//
// Universe membership is exactly the set of doc_ids forward.bin
// carries a record for. A doc_id that never made it into forward.bin
// (a gap inside [1, MaxDocID], whether from sparse external ids or a
// record the builder dropped during validation) is not a real
// document and must not appear in a NOT result.
type Forward struct {
	metas    map[DocID]DocMeta
	ids      PostingList // doc_ids with an actual forward.bin record, ascending
	MaxDocID DocID
}

// OpenForward reads and validates a forward.bin file wholesale into
// memory.
func OpenForward(path string) (*Forward, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading forward file: %w", err)
	}
	if len(data) < 16 {
		return nil, fmt.Errorf("forward file too short: %d bytes", len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	version := binary.LittleEndian.Uint32(data[4:8])
	if magic != ForwardMagic {
		return nil, fmt.Errorf("bad forward magic: %#x", magic)
	}
	if version != ForwardVersion {
		return nil, fmt.Errorf("unsupported forward version: %d", version)
	}
	docsWithMeta := binary.LittleEndian.Uint32(data[8:12])
	maxDocID := binary.LittleEndian.Uint32(data[12:16])

	metas := make(map[DocID]DocMeta, docsWithMeta)
	ids := make(PostingList, 0, docsWithMeta)
	off := 16
	for i := uint32(0); i < docsWithMeta; i++ {
		if off+8 > len(data) {
			return nil, fmt.Errorf("forward truncated reading record %d header", i)
		}
		docID := binary.LittleEndian.Uint32(data[off : off+4])
		titleLen := int(binary.LittleEndian.Uint16(data[off+4 : off+6]))
		urlLen := int(binary.LittleEndian.Uint16(data[off+6 : off+8]))
		off += 8
		if off+titleLen+urlLen > len(data) {
			return nil, fmt.Errorf("forward truncated reading record %d body", i)
		}
		title := string(data[off : off+titleLen])
		off += titleLen
		url := string(data[off : off+urlLen])
		off += urlLen
		metas[docID] = DocMeta{DocID: docID, Title: title, URL: url}
		ids = append(ids, docID)
	}
	return &Forward{metas: metas, ids: ids, MaxDocID: maxDocID}, nil
}

// Lookup returns the metadata for id, or a zero DocMeta with ok=false
// if id has none recorded (a valid state: the document was indexed
// but its raw_text.tsv row was missing or malformed).
func (fw *Forward) Lookup(id DocID) (DocMeta, bool) {
	m, ok := fw.metas[id]
	return m, ok
}

// Universe returns every doc_id that has an actual forward.bin record,
// ascending, for use as the complement set NOT operates against. A
// doc_id gap inside [1, MaxDocID] — a sparse external id, or a record
// the builder dropped during validation — is not part of the universe:
// it was never a real document, so NOT must not invent it.
func (fw *Forward) Universe() PostingList {
	return fw.ids
}

// DocsWithMeta returns the number of documents carrying title/url
// metadata.
func (fw *Forward) DocsWithMeta() int {
	return len(fw.metas)
}
