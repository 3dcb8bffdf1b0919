// Package parser converts a lexed boolean-query token stream into
// reverse Polish notation via the Shunting-Yard algorithm.
package parser

import (
	"fmt"

	"github.com/sidx-engine/sidx/internal/search/lexer"
)

func precedence(k lexer.Kind) int {
	switch k {
	case lexer.Not:
		return 3
	case lexer.And:
		return 2
	case lexer.Or:
		return 1
	default:
		return 0
	}
}

func isRightAssoc(k lexer.Kind) bool {
	return k == lexer.Not
}

func isOperator(k lexer.Kind) bool {
	return k == lexer.And || k == lexer.Or || k == lexer.Not
}

// ToRPN runs the Shunting-Yard algorithm over tokens: TERM tokens pass
// straight to the output queue; operators pop higher-or-equal
// precedence operators off the stack first (equal precedence pops
// too, unless the incoming operator is right-associative); LParen
// pushes; RParen pops until a matching LParen, failing if none is
// found. A trailing operator stack containing a stray paren after the
// input is exhausted is also a failure.
func ToRPN(tokens []lexer.Token) ([]lexer.Token, error) {
	out := make([]lexer.Token, 0, len(tokens))
	var ops []lexer.Token

	for _, t := range tokens {
		switch {
		case t.Kind == lexer.Term:
			out = append(out, t)
		case isOperator(t.Kind):
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if !isOperator(top.Kind) {
					break
				}
				pTop, pCur := precedence(top.Kind), precedence(t.Kind)
				if pTop > pCur || (pTop == pCur && !isRightAssoc(t.Kind)) {
					out = append(out, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, t)
		case t.Kind == lexer.LParen:
			ops = append(ops, t)
		case t.Kind == lexer.RParen:
			foundLParen := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Kind == lexer.LParen {
					foundLParen = true
					break
				}
				out = append(out, top)
			}
			if !foundLParen {
				return nil, fmt.Errorf("unmatched closing parenthesis")
			}
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.Kind == lexer.LParen || top.Kind == lexer.RParen {
			return nil, fmt.Errorf("unmatched opening parenthesis")
		}
		out = append(out, top)
	}
	return out, nil
}
