// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filter

import (
	"strings"

	"github.com/zerojuls/search-api/errors"
)

// Parse parses a filter expression into a tree. NOT binds tighter than AND which binds tighter than OR,
// parentheses override the precedence.
//
//	Expr       := Term (OR Term)*
//	Term       := Factor (AND Factor)*
//	Factor     := NOT Factor | '(' Expr ')' | Comparison
//	Comparison := Field RelationalOperator Value
//
// Sequences of the same operator produce one group holding every operand in the order written. A group of
// a single operand is never produced by the parser except to carry a double negation.
func Parse(input string) (Node, error) {
	if len(strings.TrimSpace(input)) == 0 {
		return nil, errors.Syntax("filter is empty")
	}

	p := &parser{s: newScanner(input)}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}

	p.s.skipSpaces()
	if !p.s.eof() {
		if p.s.peek() == ')' {
			return nil, errors.Syntax("unbalanced parenthesis at offset %d", p.s.pos)
		}
		return nil, errors.Syntax("unexpected '%s' at offset %d", p.s.token(), p.s.pos)
	}

	return n, nil
}

type parser struct {
	s *scanner
}

// operator consumes the logical operator op if it is next in the input.
func (p *parser) operator(op LogicalOperator) bool {
	p.s.skipSpaces()

	a, ok := p.s.matchLogical()
	if !ok || LogicalOperator(a.op) != op {
		return false
	}
	p.s.advance(len(a.text))

	return true
}

func (p *parser) expr() (Node, error) {
	return p.sequence(Or, p.term)
}

func (p *parser) term() (Node, error) {
	return p.sequence(And, p.factor)
}

func (p *parser) sequence(op LogicalOperator, operand func() (Node, error)) (Node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}

	children := []Node{first}
	for p.operator(op) {
		n, err := operand()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}

	if len(children) == 1 {
		return first, nil
	}

	return &Group{Operator: op, Children: children}, nil
}

func (p *parser) factor() (Node, error) {
	if p.operator(Not) {
		n, err := p.factor()
		if err != nil {
			return nil, err
		}
		return negate(n), nil
	}

	p.s.skipSpaces()
	if p.s.peek() != '(' {
		return p.comparison()
	}

	open := p.s.pos
	p.s.advance(1)

	n, err := p.expr()
	if err != nil {
		return nil, err
	}

	p.s.skipSpaces()
	if p.s.peek() != ')' {
		if p.s.eof() {
			return nil, errors.Syntax("unbalanced parenthesis opened at offset %d", open)
		}
		return nil, errors.Syntax("expected ')' at offset %d, found '%s'", p.s.pos, p.s.token())
	}
	p.s.advance(1)

	return n, nil
}

func (p *parser) comparison() (Node, error) {
	if p.s.eof() {
		return nil, errors.Syntax("missing operand at offset %d", p.s.pos)
	}

	f, err := p.s.field()
	if err != nil {
		return nil, err
	}

	p.s.skipSpaces()
	a, ok := p.s.matchRelational()
	if !ok {
		if p.s.eof() {
			return nil, errors.Syntax("missing operator after field '%s' at offset %d", f.Name(), p.s.pos)
		}
		return nil, errors.Syntax("unknown operator '%s' at offset %d", p.s.token(), p.s.pos)
	}
	p.s.advance(len(a.text))

	p.s.skipSpaces()
	v, err := p.s.value()
	if err != nil {
		return nil, err
	}

	return NewComparison(f, RelationalOperator(a.op), v)
}
