package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	idx "github.com/sidx-engine/sidx/internal/index"
	"github.com/sidx-engine/sidx/internal/search/engine"
)

func buildFixture(t *testing.T) *engine.Engine {
	t.Helper()
	dir := t.TempDir()

	pw, err := idx.CreatePostingsWriter(filepath.Join(dir, "postings.bin"))
	if err != nil {
		t.Fatalf("CreatePostingsWriter: %v", err)
	}
	var entries []idx.LexiconEntry
	for _, tc := range []struct {
		term string
		ids  idx.PostingList
	}{
		{"fox", idx.PostingList{1, 2}},
		{"jump", idx.PostingList{1}},
	} {
		off, err := pw.Append(tc.ids)
		if err != nil {
			t.Fatalf("Append %q: %v", tc.term, err)
		}
		entries = append(entries, idx.LexiconEntry{Term: tc.term, PostingsOffset: off, PostingsCount: uint32(len(tc.ids))})
	}
	if err := pw.Close(); err != nil {
		t.Fatalf("Close postings: %v", err)
	}
	if err := idx.WriteLexicon(filepath.Join(dir, "lexicon.bin"), entries); err != nil {
		t.Fatalf("WriteLexicon: %v", err)
	}
	metas := make([]idx.DocMeta, 3)
	metas[1] = idx.DocMeta{DocID: 1, Title: "Quick Fox", URL: "http://a"}
	metas[2] = idx.DocMeta{DocID: 2, Title: "Lazy Fox", URL: "http://b"}
	if err := idx.WriteForward(filepath.Join(dir, "forward.bin"), metas, 2); err != nil {
		t.Fatalf("WriteForward: %v", err)
	}
	e, err := engine.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return e
}

func newTestRunner(t *testing.T) *runner {
	return &runner{
		engine: buildFixture(t),
		log:    slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)),
	}
}

func TestRunWritesTotalAndDocLines(t *testing.T) {
	r := newTestRunner(t)
	var buf bytes.Buffer
	if _, err := r.run("fox", 0, 10, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "TOTAL\t2\n") {
		t.Errorf("output = %q, want TOTAL\\t2 prefix", got)
	}
	if !strings.Contains(got, "DOC\t1\tQuick Fox\thttp://a\n") {
		t.Errorf("output missing doc 1 line: %q", got)
	}
}

func TestRunSyntaxErrorPropagates(t *testing.T) {
	r := newTestRunner(t)
	var buf bytes.Buffer
	if _, err := r.run("fox)", 0, 10, &buf); err == nil {
		t.Fatal("expected parse error for unmatched parenthesis")
	}
}

func TestLoopPrintsQueryHeaderAndBlankSeparator(t *testing.T) {
	r := newTestRunner(t)
	in := strings.NewReader("fox\njump\n")
	var out bytes.Buffer
	if err := r.loop(in, &out, 0, 10); err != nil {
		t.Fatalf("loop: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "QUERY\tfox\nTOTAL\t2\n") {
		t.Errorf("output = %q, want QUERY\\tfox header first", got)
	}
	if !strings.Contains(got, "\n\nQUERY\tjump\n") {
		t.Errorf("output = %q, want blank line before second block", got)
	}
}

func TestLoopAbortsOnMalformedQuery(t *testing.T) {
	r := newTestRunner(t)
	in := strings.NewReader("fox)\n")
	var out bytes.Buffer
	if err := r.loop(in, &out, 0, 10); err == nil {
		t.Fatal("expected loop to abort on malformed query")
	}
}
