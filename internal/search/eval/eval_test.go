package eval

import (
	"reflect"
	"testing"

	idx "github.com/sidx-engine/sidx/internal/index"
	"github.com/sidx-engine/sidx/internal/search/lexer"
)

func TestAndIntersectsSorted(t *testing.T) {
	a := idx.PostingList{1, 2, 4, 6, 8}
	b := idx.PostingList{2, 3, 4, 8, 9}
	got := And(a, b)
	want := idx.PostingList{2, 4, 8}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("And = %v, want %v", got, want)
	}
}

func TestOrUnionsSorted(t *testing.T) {
	a := idx.PostingList{1, 2, 4}
	b := idx.PostingList{2, 3, 4, 5}
	got := Or(a, b)
	want := idx.PostingList{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Or = %v, want %v", got, want)
	}
}

func TestNotIsExactComplement(t *testing.T) {
	universe := idx.PostingList{1, 2, 3, 4, 5}
	a := idx.PostingList{2, 4}
	got := Not(universe, a)
	want := idx.PostingList{1, 3, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Not = %v, want %v", got, want)
	}
}

func TestNotOfEmptyIsUniverse(t *testing.T) {
	universe := idx.PostingList{1, 2, 3}
	got := Not(universe, nil)
	if !reflect.DeepEqual(got, universe) {
		t.Errorf("Not(universe, nil) = %v, want %v", got, universe)
	}
}

func TestDeMorganAndOverOr(t *testing.T) {
	universe := idx.PostingList{1, 2, 3, 4, 5, 6}
	a := idx.PostingList{1, 2, 3}
	b := idx.PostingList{3, 4, 5}

	// NOT(a AND b) == NOT(a) OR NOT(b)
	lhs := Not(universe, And(a, b))
	rhs := Or(Not(universe, a), Not(universe, b))
	if !reflect.DeepEqual(lhs, rhs) {
		t.Errorf("De Morgan AND/OR failed: lhs=%v rhs=%v", lhs, rhs)
	}
}

func TestDeMorganOrOverAnd(t *testing.T) {
	universe := idx.PostingList{1, 2, 3, 4, 5, 6}
	a := idx.PostingList{1, 2, 3}
	b := idx.PostingList{3, 4, 5}

	// NOT(a OR b) == NOT(a) AND NOT(b)
	lhs := Not(universe, Or(a, b))
	rhs := And(Not(universe, a), Not(universe, b))
	if !reflect.DeepEqual(lhs, rhs) {
		t.Errorf("De Morgan OR/AND failed: lhs=%v rhs=%v", lhs, rhs)
	}
}

type fakeIndex struct {
	postings map[string]idx.PostingList
	universe idx.PostingList
}

func (f *fakeIndex) Lookup(term string) (idx.PostingList, bool) {
	pl, ok := f.postings[term]
	return pl, ok
}

func (f *fakeIndex) Universe() idx.PostingList {
	return f.universe
}

func TestEvalSingleTerm(t *testing.T) {
	fi := &fakeIndex{postings: map[string]idx.PostingList{"fox": {1, 3, 5}}, universe: idx.PostingList{1, 2, 3, 4, 5}}
	rpn := []lexer.Token{{Kind: lexer.Term, Text: "fox"}}
	got, err := Eval(fi, rpn)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !reflect.DeepEqual(got, idx.PostingList{1, 3, 5}) {
		t.Errorf("Eval = %v", got)
	}
}

func TestEvalMissingTermIsEmpty(t *testing.T) {
	fi := &fakeIndex{postings: map[string]idx.PostingList{}, universe: idx.PostingList{1, 2, 3}}
	rpn := []lexer.Token{{Kind: lexer.Term, Text: "ghost"}}
	got, err := Eval(fi, rpn)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Eval(missing term) = %v, want empty", got)
	}
}

func TestEvalAndOrNot(t *testing.T) {
	fi := &fakeIndex{
		postings: map[string]idx.PostingList{
			"fox":  {1, 2, 3},
			"jump": {2, 3, 4},
		},
		universe: idx.PostingList{1, 2, 3, 4, 5},
	}
	// fox AND jump
	rpn := []lexer.Token{{Kind: lexer.Term, Text: "fox"}, {Kind: lexer.Term, Text: "jump"}, {Kind: lexer.And}}
	got, err := Eval(fi, rpn)
	if err != nil {
		t.Fatalf("Eval AND: %v", err)
	}
	if !reflect.DeepEqual(got, idx.PostingList{2, 3}) {
		t.Errorf("Eval AND = %v", got)
	}

	// fox OR jump
	rpn = []lexer.Token{{Kind: lexer.Term, Text: "fox"}, {Kind: lexer.Term, Text: "jump"}, {Kind: lexer.Or}}
	got, err = Eval(fi, rpn)
	if err != nil {
		t.Fatalf("Eval OR: %v", err)
	}
	if !reflect.DeepEqual(got, idx.PostingList{1, 2, 3, 4}) {
		t.Errorf("Eval OR = %v", got)
	}

	// NOT fox
	rpn = []lexer.Token{{Kind: lexer.Term, Text: "fox"}, {Kind: lexer.Not}}
	got, err = Eval(fi, rpn)
	if err != nil {
		t.Fatalf("Eval NOT: %v", err)
	}
	if !reflect.DeepEqual(got, idx.PostingList{4, 5}) {
		t.Errorf("Eval NOT = %v", got)
	}
}

func TestEvalStackUnderflowErrors(t *testing.T) {
	fi := &fakeIndex{postings: map[string]idx.PostingList{}, universe: nil}
	rpn := []lexer.Token{{Kind: lexer.And}}
	if _, err := Eval(fi, rpn); err == nil {
		t.Error("Eval with insufficient operands should error")
	}
}

func TestEvalIdempotence(t *testing.T) {
	fi := &fakeIndex{postings: map[string]idx.PostingList{"fox": {1, 2, 3}}, universe: idx.PostingList{1, 2, 3}}
	rpn := []lexer.Token{{Kind: lexer.Term, Text: "fox"}, {Kind: lexer.Term, Text: "fox"}, {Kind: lexer.And}}
	got, err := Eval(fi, rpn)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !reflect.DeepEqual(got, idx.PostingList{1, 2, 3}) {
		t.Errorf("fox AND fox = %v, want idempotent fox", got)
	}
}
