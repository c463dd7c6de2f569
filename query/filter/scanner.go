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
	"regexp"
	"strconv"
	"strings"

	"github.com/zerojuls/search-api/errors"
)

var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][-+]?\d+)?$`)

// scanner walks the filter text byte by byte. It holds no state beyond the current offset.
type scanner struct {
	input string
	pos   int
}

func newScanner(input string) *scanner {
	return &scanner{input: input}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) rest() string {
	return s.input[s.pos:]
}

func (s *scanner) advance(n int) {
	s.pos += n
}

func (s *scanner) skipSpaces() {
	for !s.eof() && isSpace(s.input[s.pos]) {
		s.pos++
	}
}

func (s *scanner) matchLogical() (alias, bool) {
	return logicalTable.match(s.rest())
}

func (s *scanner) matchRelational() (alias, bool) {
	return relationalTable.match(s.rest())
}

// token returns the text up to the next space, used to name the offending input in errors.
func (s *scanner) token() string {
	end := s.pos
	for end < len(s.input) && !isSpace(s.input[end]) {
		end++
	}
	if end == s.pos {
		return "<end of input>"
	}

	return s.input[s.pos:end]
}

// field scans a dotted path of identifiers.
func (s *scanner) field() (Field, error) {
	start := s.pos

	var path []string
	for {
		begin := s.pos
		if s.eof() || !isIdentStart(s.peek()) {
			if len(path) == 0 {
				return Field{}, errors.Syntax("expected field name at offset %d, found '%s'", s.pos, s.token())
			}
			return Field{}, errors.Syntax("empty path segment in field '%s' at offset %d", s.input[start:s.pos], s.pos)
		}
		for !s.eof() && isIdentPart(s.peek()) {
			s.pos++
		}
		path = append(path, s.input[begin:s.pos])

		if s.peek() != '.' {
			break
		}
		s.pos++
	}

	return NewField(path...)
}

// value scans a literal: a quoted string, a bracketed list or a bare word.
func (s *scanner) value() (Value, error) {
	switch s.peek() {
	case '"':
		return s.quoted()
	case '[':
		return s.list()
	}

	start := s.pos
	for !s.eof() && !s.atDelimiter() {
		s.pos++
	}
	if start == s.pos {
		return nil, errors.Syntax("missing value at offset %d", start)
	}

	word := s.input[start:s.pos]
	if isOperatorWord(word) {
		s.pos = start
		return nil, errors.Syntax("missing value at offset %d, found operator '%s'", start, word)
	}

	return classify(word, start)
}

func (s *scanner) quoted() (Value, error) {
	start := s.pos
	s.pos++

	var sb strings.Builder
	for !s.eof() {
		c := s.input[s.pos]
		switch {
		case c == '"':
			s.pos++
			return sb.String(), nil
		case c == '\\' && s.pos+1 < len(s.input) && (s.input[s.pos+1] == '"' || s.input[s.pos+1] == '\\'):
			sb.WriteByte(s.input[s.pos+1])
			s.pos += 2
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}

	return nil, errors.Syntax("unterminated string starting at offset %d", start)
}

func (s *scanner) list() (Value, error) {
	start := s.pos
	s.pos++

	list := []Value{}
	s.skipSpaces()
	if s.peek() == ']' {
		s.pos++
		return list, nil
	}

	for {
		s.skipSpaces()
		if s.eof() {
			return nil, errors.Syntax("unterminated list starting at offset %d", start)
		}

		v, err := s.value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)

		s.skipSpaces()
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return list, nil
		default:
			if s.eof() {
				return nil, errors.Syntax("unterminated list starting at offset %d", start)
			}
			return nil, errors.Syntax("expected ',' or ']' at offset %d, found '%s'", s.pos, s.token())
		}
	}
}

// atDelimiter reports whether a bare word ends at the current offset.
func (s *scanner) atDelimiter() bool {
	switch c := s.peek(); {
	case isSpace(c), c == '(', c == ')', c == '[', c == ']', c == ',', c == '"':
		return true
	}

	r := s.rest()
	return strings.HasPrefix(r, "&&") || strings.HasPrefix(r, "||")
}

// classify turns an unquoted word into a boolean, null, number or string value. Integers that don't fit in
// 64 bits are rejected rather than rounded to a float.
func classify(word string, offset int) (Value, error) {
	switch word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "NULL", "null":
		return nil, nil
	}

	if numberPattern.MatchString(word) {
		i, err := strconv.ParseInt(word, 10, 64)
		if err == nil {
			return i, nil
		}
		if !strings.ContainsAny(word, ".eE") {
			return nil, errors.Validation("integer '%s' at offset %d is out of range", word, offset)
		}
		if f, err := strconv.ParseFloat(word, 64); err == nil {
			return f, nil
		}
	}

	return word, nil
}

func isOperatorWord(word string) bool {
	for _, a := range logicalTable {
		if a.text == word {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
