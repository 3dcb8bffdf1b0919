package lexer

import (
	"reflect"
	"testing"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeOperators(t *testing.T) {
	got := Tokenize("fox && jump || !cat")
	want := []Kind{Term, And, Term, Or, Not, Term}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Errorf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestTokenizeStemsTerms(t *testing.T) {
	got := Tokenize("running foxes")
	// The two adjacent terms get an implicit And between them.
	if len(got) != 3 || got[0].Text != "runn" || got[2].Text != "fox" {
		t.Errorf("Tokenize stemming = %+v", got)
	}
}

func TestImplicitAndBetweenAdjacentTerms(t *testing.T) {
	got := Tokenize("fox jump")
	want := []Kind{Term, And, Term}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Errorf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestImplicitAndAroundParens(t *testing.T) {
	got := Tokenize("(fox) (jump)")
	want := []Kind{LParen, Term, RParen, And, LParen, Term, RParen}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Errorf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestImplicitAndBeforeNot(t *testing.T) {
	got := Tokenize("fox !jump")
	want := []Kind{Term, And, Not, Term}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Errorf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestNoImplicitAndAfterExplicitOperator(t *testing.T) {
	got := Tokenize("fox || jump")
	want := []Kind{Term, Or, Term}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Errorf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestTokenizeIgnoresUnknownBytes(t *testing.T) {
	got := Tokenize("fox @ jump")
	want := []Kind{Term, And, Term}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Errorf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestTokenizeEmptyQuery(t *testing.T) {
	got := Tokenize("   ")
	if len(got) != 0 {
		t.Errorf("Tokenize(whitespace) = %v, want empty", got)
	}
}
