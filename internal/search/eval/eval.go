// Package eval evaluates an RPN boolean query against a lexicon and
// postings file, via sorted dual-index-walk set operations.
package eval

import (
	"fmt"

	idx "github.com/sidx-engine/sidx/internal/index"
	"github.com/sidx-engine/sidx/internal/search/lexer"
)

// Index is the minimal read surface eval needs from a loaded index:
// term lookup, posting-list materialization, and the NOT complement
// universe. internal/search/engine's Engine satisfies this.
type Index interface {
	Lookup(term string) (idx.PostingList, bool)
	Universe() idx.PostingList
}

// And intersects two strictly ascending, duplicate-free posting lists
// via a dual-index walk, in O(len(a)+len(b)).
func And(a, b idx.PostingList) idx.PostingList {
	out := make(idx.PostingList, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Or unions two strictly ascending, duplicate-free posting lists via
// a dual-index walk, in O(len(a)+len(b)).
func Or(a, b idx.PostingList) idx.PostingList {
	out := make(idx.PostingList, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Not returns universe minus a: every id in universe absent from a,
// walked in lockstep since both are strictly ascending.
func Not(universe, a idx.PostingList) idx.PostingList {
	out := make(idx.PostingList, 0, len(universe))
	i, j := 0, 0
	for i < len(universe) {
		if j >= len(a) {
			out = append(out, universe[i])
			i++
			continue
		}
		switch {
		case universe[i] == a[j]:
			i++
			j++
		case universe[i] < a[j]:
			out = append(out, universe[i])
			i++
		default:
			j++
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Eval walks rpn with an operand stack: TERM pushes the term's
// posting list (or an empty list when the term is absent from the
// lexicon); NOT pops one operand; AND/OR pop two. Stack underflow, or
// anything other than exactly one operand left at the end, is a
// query-evaluation failure.
func Eval(index Index, rpn []lexer.Token) (idx.PostingList, error) {
	var stack []idx.PostingList
	for _, t := range rpn {
		switch t.Kind {
		case lexer.Term:
			pl, ok := index.Lookup(t.Text)
			if !ok {
				pl = nil
			}
			stack = append(stack, pl)
		case lexer.Not:
			if len(stack) < 1 {
				return nil, fmt.Errorf("operand stack underflow evaluating NOT")
			}
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, Not(index.Universe(), a))
		case lexer.And, lexer.Or:
			if len(stack) < 2 {
				return nil, fmt.Errorf("operand stack underflow evaluating AND/OR")
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if t.Kind == lexer.And {
				stack = append(stack, And(a, b))
			} else {
				stack = append(stack, Or(a, b))
			}
		default:
			return nil, fmt.Errorf("unexpected token kind %d in RPN stream", t.Kind)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("operand stack ended with %d items, want 1", len(stack))
	}
	return stack[0], nil
}
