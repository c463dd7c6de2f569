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
	"github.com/buger/jsonparser"
	api "github.com/zerojuls/search-api/api/server/v1"
	qsearch "github.com/zerojuls/search-api/query/search"
)

// FacetResponse is a builder utility to convert the aggregations returned by the search backend to facets.
type FacetResponse struct {
	// aggregation path of every facet field
	paths map[string][]string
}

func NewFacetResponse(aggs []qsearch.NamedAggregation) *FacetResponse {
	paths := map[string][]string{}
	for _, a := range aggs {
		switch agg := a.Aggregation.(type) {
		case *qsearch.TermsAggregation:
			paths[agg.Field] = []string{a.Name}
		case *qsearch.NestedAggregation:
			for _, sub := range agg.Aggs {
				if terms, ok := sub.Aggregation.(*qsearch.TermsAggregation); ok {
					paths[terms.Field] = []string{a.Name, sub.Name}
				}
			}
		}
	}

	return &FacetResponse{paths: paths}
}

// Build converts the aggregations of a search response to facets keyed by field name. Fields missing from the
// response get an empty facet.
func (fb *FacetResponse) Build(aggregations []byte) map[string]*api.SearchFacet {
	result := make(map[string]*api.SearchFacet, len(fb.paths))

	for field, path := range fb.paths {
		facet := &api.SearchFacet{Counts: []*api.FacetCount{}}
		result[field] = facet

		if len(aggregations) == 0 {
			continue
		}

		keys := append(append([]string{}, path...), "buckets")
		_, _ = jsonparser.ArrayEach(aggregations, func(bucket []byte, _ jsonparser.ValueType, _ int, _ error) {
			if fc := facetCount(bucket); fc != nil {
				facet.Counts = append(facet.Counts, fc)
			}
		}, keys...)
	}

	return result
}

func facetCount(bucket []byte) *api.FacetCount {
	count, err := jsonparser.GetInt(bucket, "doc_count")
	if err != nil {
		return nil
	}

	// dates and booleans carry a readable form of the key
	if value, err := jsonparser.GetString(bucket, "key_as_string"); err == nil {
		return &api.FacetCount{Value: value, Count: count}
	}

	key, dataType, _, err := jsonparser.Get(bucket, "key")
	if err != nil || dataType == jsonparser.Null {
		return nil
	}
	if dataType == jsonparser.String {
		if s, err := jsonparser.ParseString(key); err == nil {
			return &api.FacetCount{Value: s, Count: count}
		}
	}

	return &api.FacetCount{Value: string(key), Count: count}
}
