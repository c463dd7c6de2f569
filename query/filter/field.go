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

// Field is a reference to a document field by its dotted path.
type Field struct {
	Path []string
	// Not is set when the reference is prefixed with a negation, i.e. "NOT a.b".
	Not bool
}

func NewField(path ...string) (Field, error) {
	if len(path) == 0 {
		return Field{}, errors.Syntax("field name is empty")
	}
	for _, p := range path {
		if len(p) == 0 {
			return Field{}, errors.Syntax("field '%s' has an empty path segment", strings.Join(path, "."))
		}
	}

	return Field{Path: path}, nil
}

// ParseField parses a dotted field path optionally prefixed with a negation operator.
func ParseField(input string) (Field, error) {
	s := newScanner(input)
	s.skipSpaces()

	not := false
	if a, ok := s.matchLogical(); ok && LogicalOperator(a.op) == Not {
		not = true
		s.advance(len(a.text))
		s.skipSpaces()
	}

	f, err := s.field()
	if err != nil {
		return Field{}, err
	}

	s.skipSpaces()
	if !s.eof() {
		return Field{}, errors.Syntax("unexpected '%s' after field at offset %d", s.token(), s.pos)
	}

	f.Not = not
	return f, nil
}

// Name returns the full dotted path.
func (f Field) Name() string {
	return strings.Join(f.Path, ".")
}

// FirstName returns the first path segment.
func (f Field) FirstName() string {
	return f.Path[0]
}

func (f Field) Equal(o Field) bool {
	if len(f.Path) != len(o.Path) {
		return false
	}
	for i := range f.Path {
		if f.Path[i] != o.Path[i] {
			return false
		}
	}

	return true
}

func (f Field) String() string {
	if f.Not {
		return "NOT " + f.Name()
	}

	return f.Name()
}
