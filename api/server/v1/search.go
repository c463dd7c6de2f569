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

package api

import (
	"strings"
)

// SearchRequest carries everything a caller can ask of a search. Only Index is required; the remaining fields are
// optional and are inspected through the Has* methods instead of type assertions on capability interfaces.
type SearchRequest struct {
	Index         string   `json:"index"`
	IncludeFields []string `json:"include_fields,omitempty"`
	ExcludeFields []string `json:"exclude_fields,omitempty"`
	// Filter is the boolean filter DSL, i.e. `a:1 AND (b > 2 OR NOT c IN [1, 2])`.
	Filter string `json:"filter,omitempty"`
	// Q is the free text query.
	Q string `json:"q,omitempty"`
	// MM is the minimum should match of the free text query, "75%" or "-2".
	MM string `json:"mm,omitempty"`
	// Fields is the weighted field list of the free text query, "title:2.0".
	Fields []string `json:"fields,omitempty"`
	// Sort is a list of comma separated sort clauses, "price DESC, id".
	Sort      []string `json:"sort,omitempty"`
	Facets    []string `json:"facets,omitempty"`
	FacetSize int      `json:"facet_size,omitempty"`
	From      int      `json:"from,omitempty"`
	// Size is the page size, zero means the index default.
	Size int `json:"size,omitempty"`
}

func (x *SearchRequest) HasFilter() bool {
	return len(strings.TrimSpace(x.Filter)) > 0
}

func (x *SearchRequest) HasQuery() bool {
	return len(strings.TrimSpace(x.Q)) > 0
}

func (x *SearchRequest) HasSort() bool {
	for _, s := range x.Sort {
		if len(strings.TrimSpace(s)) > 0 {
			return true
		}
	}
	return false
}

func (x *SearchRequest) HasFacets() bool {
	return len(x.Facets) > 0
}

func (x *SearchRequest) HasFields() bool {
	return len(x.Fields) > 0
}

// GetRequest is a lookup of a single document by id.
type GetRequest struct {
	Index         string   `json:"index"`
	ID            string   `json:"id"`
	IncludeFields []string `json:"include_fields,omitempty"`
	ExcludeFields []string `json:"exclude_fields,omitempty"`
}

// SearchFacet holds the most frequent values of a faceted field.
type SearchFacet struct {
	Counts []*FacetCount `json:"counts"`
}

// FacetCount is a facet value and the number of matching documents holding it. Numeric and boolean values are
// reported in their textual form.
type FacetCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}
