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
	"fmt"
	"sort"

	"github.com/zerojuls/search-api/errors"
)

type LogicalOperator int

const (
	And LogicalOperator = iota + 1
	Or
	Not
)

var logicalNames = map[LogicalOperator]string{
	And: "AND",
	Or:  "OR",
	Not: "NOT",
}

var logicalAliases = map[LogicalOperator][]string{
	And: {"AND", "&&"},
	Or:  {"OR", "||"},
	Not: {"NOT", "!"},
}

func (o LogicalOperator) String() string {
	return logicalNames[o]
}

// Aliases returns the literals accepted for the operator, the canonical name first.
func (o LogicalOperator) Aliases() []string {
	return append([]string{}, logicalAliases[o]...)
}

type RelationalOperator int

const (
	Equal RelationalOperator = iota + 1
	Different
	Greater
	GreaterEqual
	Less
	LessEqual
	Like
	Range
	In
	Viewport
	Polygon
)

var relationalNames = map[RelationalOperator]string{
	Equal:        "EQUAL",
	Different:    "DIFFERENT",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Like:         "LIKE",
	Range:        "RANGE",
	In:           "IN",
	Viewport:     "VIEWPORT",
	Polygon:      "POLYGON",
}

var relationalAliases = map[RelationalOperator][]string{
	Equal:        {"EQUAL", "EQ", ":", "="},
	Different:    {"DIFFERENT", "NE", "<>", "!="},
	Greater:      {"GREATER", "GT", ">"},
	GreaterEqual: {"GREATER_EQUAL", "GTE", ">="},
	Less:         {"LESS", "LT", "<"},
	LessEqual:    {"LESS_EQUAL", "LTE", "<="},
	Like:         {"LIKE"},
	Range:        {"RANGE"},
	In:           {"IN"},
	Viewport:     {"VIEWPORT", "@"},
	Polygon:      {"POLYGON"},
}

func (o RelationalOperator) String() string {
	return relationalNames[o]
}

// Aliases returns the literals accepted for the operator, the canonical name first.
func (o RelationalOperator) Aliases() []string {
	return append([]string{}, relationalAliases[o]...)
}

var (
	logicalTable    = mustAliasTable(toAliases(logicalAliases))
	relationalTable = mustAliasTable(toAliases(relationalAliases))
)

// alias is one accepted literal of an operator.
type alias struct {
	text string
	op   int
	// word aliases only match when not followed by an identifier character.
	word bool
}

// aliasTable holds the aliases ordered longest first so that the first match at a position is the longest.
type aliasTable []alias

func toAliases[T ~int](m map[T][]string) map[int][]string {
	res := make(map[int][]string, len(m))
	for k, v := range m {
		res[int(k)] = v
	}

	return res
}

func newAliasTable(ops map[int][]string) (aliasTable, error) {
	seen := map[string]int{}

	var t aliasTable
	for op, aliases := range ops {
		for _, a := range aliases {
			if len(a) == 0 {
				return nil, fmt.Errorf("empty alias for operator %d", op)
			}
			if other, ok := seen[a]; ok {
				return nil, fmt.Errorf("alias '%s' is registered for operators %d and %d", a, other, op)
			}
			seen[a] = op
			t = append(t, alias{text: a, op: op, word: isIdentPart(a[len(a)-1])})
		}
	}

	sort.Slice(t, func(i, j int) bool {
		if len(t[i].text) != len(t[j].text) {
			return len(t[i].text) > len(t[j].text)
		}
		return t[i].text < t[j].text
	})

	return t, nil
}

func mustAliasTable(ops map[int][]string) aliasTable {
	t, err := newAliasTable(ops)
	if err != nil {
		panic(err)
	}

	return t
}

// match returns the longest alias found at the start of s.
func (t aliasTable) match(s string) (alias, bool) {
	for _, a := range t {
		if len(s) < len(a.text) || s[:len(a.text)] != a.text {
			continue
		}
		if a.word && len(s) > len(a.text) && isIdentPart(s[len(a.text)]) {
			continue
		}

		return a, true
	}

	return alias{}, false
}

// ParseLogicalOperator parses a single logical operator literal, surrounding spaces are ignored.
func ParseLogicalOperator(input string) (LogicalOperator, error) {
	s := newScanner(input)
	s.skipSpaces()

	a, ok := s.matchLogical()
	if !ok {
		return 0, errors.Syntax("unknown logical operator '%s' at offset %d", s.token(), s.pos)
	}
	s.advance(len(a.text))

	s.skipSpaces()
	if !s.eof() {
		return 0, errors.Syntax("unexpected '%s' after operator at offset %d", s.token(), s.pos)
	}

	return LogicalOperator(a.op), nil
}

// ParseRelationalOperator parses a single relational operator literal, surrounding spaces are ignored.
func ParseRelationalOperator(input string) (RelationalOperator, error) {
	s := newScanner(input)
	s.skipSpaces()

	a, ok := s.matchRelational()
	if !ok {
		return 0, errors.Syntax("unknown operator '%s' at offset %d", s.token(), s.pos)
	}
	s.advance(len(a.text))

	s.skipSpaces()
	if !s.eof() {
		return 0, errors.Syntax("unexpected '%s' after operator at offset %d", s.token(), s.pos)
	}

	return RelationalOperator(a.op), nil
}
