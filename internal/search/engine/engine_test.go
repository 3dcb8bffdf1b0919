package engine

import (
	"path/filepath"
	"testing"

	idx "github.com/sidx-engine/sidx/internal/index"
)

func buildFixture(t *testing.T) string {
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
		{"fox", idx.PostingList{1, 2, 3}},
		{"jump", idx.PostingList{2, 3, 4}},
		{"quick", idx.PostingList{1}},
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
	metas := make([]idx.DocMeta, 5)
	metas[1] = idx.DocMeta{DocID: 1, Title: "Alpha", URL: "http://a"}
	metas[2] = idx.DocMeta{DocID: 2, Title: "Beta", URL: "http://b"}
	metas[3] = idx.DocMeta{DocID: 3, Title: "Gamma", URL: "http://c"}
	if err := idx.WriteForward(filepath.Join(dir, "forward.bin"), metas, 4); err != nil {
		t.Fatalf("WriteForward: %v", err)
	}
	return dir
}

func TestEngineSearchAndOr(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	res, err := e.Search("fox jump", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("Total = %d, want 2", res.Total)
	}
	if res.Docs[0].DocID != 2 || res.Docs[1].DocID != 3 {
		t.Errorf("Docs = %+v", res.Docs)
	}
	if res.Docs[0].Title != "Beta" {
		t.Errorf("Docs[0].Title = %q, want Beta", res.Docs[0].Title)
	}
}

func TestEngineSearchNot(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Universe is {1,2,3} (doc 4 has no forward.bin record even though
	// it appears in jump's posting list), and fox covers all of it, so
	// !fox has no matches — doc 4 must never appear in a NOT result.
	res, err := e.Search("!fox", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("Search(!fox) = %+v, want Total 0", res)
	}
}

func TestEngineSearchNotExcludesDocsOutsideForward(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// !quick should be {2,3}: doc 4 has no forward.bin record, so it's
	// outside the universe despite appearing in jump's posting list.
	res, err := e.Search("!quick", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 || res.Docs[0].DocID != 2 || res.Docs[1].DocID != 3 {
		t.Errorf("Search(!quick) = %+v, want docs {2,3}", res)
	}
}

func TestEngineSearchEmptyQuery(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res, err := e.Search("   ", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("Search(whitespace) Total = %d, want 0", res.Total)
	}
}

func TestEngineSearchAbsentTerm(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res, err := e.Search("ghost", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("Search(ghost) Total = %d, want 0", res.Total)
	}
}

func TestEngineOffsetPastEndYieldsNoDocsButTotal(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res, err := e.Search("fox", 99, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if len(res.Docs) != 0 {
		t.Errorf("Docs = %+v, want empty", res.Docs)
	}
}

func TestEngineLimitClampsToResultCount(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	res, err := e.Search("fox", 1, 100)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Docs) != 2 {
		t.Errorf("Docs len = %d, want 2", len(res.Docs))
	}
}

func TestEngineQuerySyntaxError(t *testing.T) {
	dir := buildFixture(t)
	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := e.Search("fox)", 0, 10); err == nil {
		t.Error("expected parse error for unmatched paren")
	}
}
