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

package sort

import (
	"strings"

	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/query/filter"
)

const (
	ASC  = "ASC"
	DESC = "DESC"
)

type Ordering = []SortField

type SortField struct {
	Field filter.Field
	// Ascending is the default when the clause has no direction.
	Ascending bool
}

// Order returns the lower case direction name expected by the search backend.
func (s SortField) Order() string {
	if s.Ascending {
		return "asc"
	}
	return "desc"
}

// Parse expects a comma separated list of "field [ASC|DESC]" clauses. Examples:
//
//	price DESC, title
//	address.city ASC
//
// An empty input returns no ordering. Repeating a field is a validation error.
func Parse(input string) (Ordering, error) {
	if len(strings.TrimSpace(input)) == 0 {
		return nil, nil
	}

	var orders Ordering
	for _, clause := range strings.Split(input, ",") {
		f, err := newSortField(clause)
		if err != nil {
			return nil, err
		}

		for _, o := range orders {
			if o.Field.Equal(f.Field) {
				return nil, errors.Validation("sort field '%s' is repeated", f.Field.Name())
			}
		}
		orders = append(orders, f)
	}

	return orders, nil
}

func newSortField(clause string) (SortField, error) {
	parts := strings.Fields(clause)
	switch len(parts) {
	case 0:
		return SortField{}, errors.Syntax("empty sort clause")
	case 1, 2:
	default:
		return SortField{}, errors.Syntax("invalid sort clause '%s', expected 'field [%s|%s]'", strings.TrimSpace(clause), ASC, DESC)
	}

	s := SortField{Ascending: true}
	if len(parts) == 2 {
		switch parts[1] {
		case ASC:
		case DESC:
			s.Ascending = false
		default:
			return SortField{}, errors.Syntax("sort order can only be `%s` or `%s`, found '%s'", ASC, DESC, parts[1])
		}
	}

	f, err := filter.ParseField(parts[0])
	if err != nil {
		return SortField{}, err
	}
	if f.Not {
		return SortField{}, errors.Syntax("sort field '%s' can't be negated", f.Name())
	}
	s.Field = f

	return s, nil
}
