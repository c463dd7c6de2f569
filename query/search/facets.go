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
	"sort"

	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/query/filter"
	"github.com/zerojuls/search-api/schema"
)

// facets builds one aggregation per first path segment of the requested facet fields. The sub-fields of a nested
// field share a nested aggregation holding one terms aggregation each.
func facets(req *api.SearchRequest, meta *schema.IndexMetadata) ([]NamedAggregation, error) {
	size := req.FacetSize
	if size == 0 {
		size = meta.FacetSize
	}

	var parents []string
	fields := map[string][]string{}
	for _, name := range splitList(req.Facets) {
		f, err := filter.ParseField(name)
		if err != nil {
			return nil, err
		}

		name = f.Name()
		if !meta.HasField(name) {
			return nil, errors.NotFound("facet field '%s' not found in index '%s'", name, meta.Name)
		}

		parent := f.FirstName()
		if meta.IsNested(name) && len(f.Path) == 1 {
			return nil, errors.Validation("facet on nested field '%s' requires a sub-field", name)
		}

		existing, ok := fields[parent]
		if !ok {
			parents = append(parents, parent)
		}
		if contains(existing, name) {
			continue
		}
		if ok && !meta.IsNested(name) {
			return nil, errors.Validation("facet fields '%s' and '%s' share the aggregation name '%s'", existing[0],
				name, parent)
		}
		fields[parent] = append(existing, name)
	}

	sort.Strings(parents)

	aggs := make([]NamedAggregation, 0, len(parents))
	for _, parent := range parents {
		names := fields[parent]
		if !meta.IsNested(parent) {
			aggs = append(aggs, NamedAggregation{
				Name:        parent,
				Aggregation: &TermsAggregation{Field: names[0], Size: size, ShardSize: meta.Shards},
			})
			continue
		}

		nested := &NestedAggregation{Path: parent}
		for _, name := range names {
			nested.Aggs = append(nested.Aggs, NamedAggregation{
				Name:        name,
				Aggregation: &TermsAggregation{Field: name, Size: size, ShardSize: meta.Shards},
			})
		}
		aggs = append(aggs, NamedAggregation{Name: parent, Aggregation: nested})
	}

	return aggs, nil
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
