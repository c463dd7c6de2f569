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

package search

import (
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/lib/container"
	"github.com/zerojuls/search-api/schema"
)

// sourceFilter merges the index default source fields with the requested ones. An included field is never
// excluded, whichever side asked for it.
func sourceFilter(includes, excludes []string, meta *schema.IndexMetadata) (*SourceFilter, error) {
	inc := container.NewHashSet(meta.SourceIncludes...)
	inc.Insert(splitList(includes)...)

	exc := container.NewHashSet(splitList(excludes)...)
	exc.Insert(meta.SourceExcludes...)

	for _, set := range []container.HashSet{inc, exc} {
		for _, f := range set.ToSortedList() {
			if !meta.HasField(f) {
				return nil, errors.NotFound("field '%s' not found in index '%s'", f, meta.Name)
			}
		}
	}

	exc.Remove(inc.ToSortedList()...)

	s := &SourceFilter{}
	if inc.Length() > 0 {
		s.Includes = inc.ToSortedList()
	}
	if exc.Length() > 0 {
		s.Excludes = exc.ToSortedList()
	}

	return s, nil
}
