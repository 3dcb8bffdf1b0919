// Package engine ties the on-disk index files to the query
// lexer/parser/evaluator and produces presentable search results.
package engine

import (
	"fmt"
	"path/filepath"

	idx "github.com/sidx-engine/sidx/internal/index"
	"github.com/sidx-engine/sidx/internal/search/eval"
	"github.com/sidx-engine/sidx/internal/search/lexer"
	"github.com/sidx-engine/sidx/internal/search/parser"
	"github.com/sidx-engine/sidx/pkg/metrics"
)

// Engine holds the three index files loaded eagerly into memory, and
// answers boolean queries against them.
type Engine struct {
	lexicon  *idx.Lexicon
	postings *idx.PostingsFile
	forward  *idx.Forward
	universe idx.PostingList
}

// Open loads postings.bin, lexicon.bin, and forward.bin from dir
// wholesale. All three files are mandatory; a missing or malformed
// one fails the whole open.
func Open(dir string) (*Engine, error) {
	postings, err := idx.OpenPostings(filepath.Join(dir, "postings.bin"))
	if err != nil {
		return nil, fmt.Errorf("loading postings: %w", err)
	}
	lexicon, err := idx.OpenLexicon(filepath.Join(dir, "lexicon.bin"))
	if err != nil {
		return nil, fmt.Errorf("loading lexicon: %w", err)
	}
	forward, err := idx.OpenForward(filepath.Join(dir, "forward.bin"))
	if err != nil {
		return nil, fmt.Errorf("loading forward index: %w", err)
	}
	return &Engine{
		lexicon:  lexicon,
		postings: postings,
		forward:  forward,
		universe: forward.Universe(),
	}, nil
}

// SetMetrics wires m.LexiconSearchDepth to observe every lexicon
// binary search this engine performs. Passing nil disables it.
func (e *Engine) SetMetrics(m *metrics.Metrics) {
	if m == nil {
		e.lexicon.OnFind(nil)
		return
	}
	e.lexicon.OnFind(func(depth int) {
		m.LexiconSearchDepth.Observe(float64(depth))
	})
}

// Lookup satisfies eval.Index: it resolves a stemmed query term to
// its posting list via the lexicon.
func (e *Engine) Lookup(term string) (idx.PostingList, bool) {
	entry, ok := e.lexicon.Find(term)
	if !ok {
		return nil, false
	}
	pl, err := e.postings.Slice(entry.PostingsOffset, entry.PostingsCount)
	if err != nil {
		return nil, false
	}
	return pl, true
}

// Universe satisfies eval.Index: the ascending set of every doc_id
// NOT can complement against.
func (e *Engine) Universe() idx.PostingList {
	return e.universe
}

// ResultDoc pairs a doc_id with the title/url it was stored with, if
// any, for display.
type ResultDoc struct {
	DocID idx.DocID
	Title string
	URL   string
}

// Result is the outcome of evaluating and paginating one query: the
// total number of matching documents before pagination, and the page
// of documents in [offset, offset+limit) (clamped to the result set).
type Result struct {
	Total int
	Docs  []ResultDoc
}

// Search lexes, parses, and evaluates query, then returns a
// paginated, presentation-ready Result. An empty or all-whitespace
// query, or one whose only terms are absent from the lexicon, yields
// Total == 0 with no error. Out-of-range offset yields Total > 0 but
// an empty Docs slice.
func (e *Engine) Search(query string, offset, limit int) (*Result, error) {
	matches, err := e.Evaluate(query)
	if err != nil {
		return nil, err
	}
	return e.Paginate(matches, offset, limit), nil
}

// Evaluate lexes, parses, and evaluates query against the loaded
// index, returning the full ascending match set before pagination.
// Callers that want to cache the match set (keyed on query) should
// call this directly and pass the result to Paginate themselves.
func (e *Engine) Evaluate(query string) (idx.PostingList, error) {
	tokens := lexer.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	rpn, err := parser.ToRPN(tokens)
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}
	matches, err := eval.Eval(e, rpn)
	if err != nil {
		return nil, fmt.Errorf("evaluating query: %w", err)
	}
	return matches, nil
}

// Paginate slices an already-evaluated match set into a presentable
// Result for the given offset/limit window.
func (e *Engine) Paginate(matches idx.PostingList, offset, limit int) *Result {
	total := len(matches)
	res := &Result{Total: total}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return res
	}
	end := offset + limit
	if end > total || limit < 0 {
		end = total
	}
	docs := make([]ResultDoc, 0, end-offset)
	for _, docID := range matches[offset:end] {
		meta, _ := e.forward.Lookup(docID)
		docs = append(docs, ResultDoc{DocID: docID, Title: meta.Title, URL: meta.URL})
	}
	res.Docs = docs
	return res
}
