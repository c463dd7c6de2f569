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
	"strings"

	"github.com/rs/zerolog/log"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/query/filter"
	"github.com/zerojuls/search-api/query/sort"
	"github.com/zerojuls/search-api/schema"
)

// Compiler turns search requests into backend requests using the metadata of the requested index. It holds no
// per request state and is safe for concurrent use.
type Compiler struct {
	provider schema.Provider
}

func NewCompiler(provider schema.Provider) *Compiler {
	return &Compiler{provider: provider}
}

// Compile validates the request and builds the backend request. Nothing is returned unless every part of the
// request is valid.
func (c *Compiler) Compile(req *api.SearchRequest) (*Request, error) {
	r, err := c.compile(req)
	if err != nil {
		log.Debug().Err(err).Str("index", req.Index).Str("filter", req.Filter).Msg("search compilation failed")
		return nil, err
	}

	return r, nil
}

func (c *Compiler) compile(req *api.SearchRequest) (*Request, error) {
	meta, err := c.provider.Index(req.Index)
	if err != nil {
		return nil, err
	}

	from, size, err := pagination(req, meta)
	if err != nil {
		return nil, err
	}

	mm, err := minimumShouldMatch(req, meta)
	if err != nil {
		return nil, err
	}

	query := &BoolQuery{}
	if req.HasFilter() {
		tree, err := filter.Parse(req.Filter)
		if err != nil {
			return nil, err
		}

		l := &lowering{meta: meta}
		if query, err = l.root(tree); err != nil {
			return nil, err
		}
	}

	if req.HasQuery() {
		qs, err := queryString(req, meta, mm)
		if err != nil {
			return nil, err
		}
		query.Should = append([]Query{qs}, query.Should...)
	}

	sortClauses, err := sortOrder(req, meta)
	if err != nil {
		return nil, err
	}

	aggs, err := facets(req, meta)
	if err != nil {
		return nil, err
	}

	source, err := sourceFilter(req.IncludeFields, req.ExcludeFields, meta)
	if err != nil {
		return nil, err
	}

	return &Request{
		Index:        meta.Name,
		Query:        query,
		From:         from,
		Size:         size,
		Sort:         sortClauses,
		Aggregations: aggs,
		Source:       source,
		QueryTimeout: meta.QueryTimeout,
	}, nil
}

// CompileGet validates a lookup by id and builds its source filter with the same rules as a search.
func (c *Compiler) CompileGet(req *api.GetRequest) (*GetRequest, error) {
	meta, err := c.provider.Index(req.Index)
	if err != nil {
		return nil, err
	}

	if err = req.Validate(); err != nil {
		return nil, err
	}

	source, err := sourceFilter(req.IncludeFields, req.ExcludeFields, meta)
	if err != nil {
		return nil, err
	}

	return &GetRequest{
		Index:  meta.Name,
		ID:     strings.TrimSpace(req.ID),
		Source: source,
	}, nil
}

func pagination(req *api.SearchRequest, meta *schema.IndexMetadata) (int, int, error) {
	if err := req.Validate(); err != nil {
		return 0, 0, err
	}

	size := req.Size
	if size == 0 {
		size = meta.DefaultSize
	}
	if size > meta.MaxSize {
		return 0, 0, errors.Validation("size %d is over the maximum of %d for index '%s'", size, meta.MaxSize,
			meta.Name)
	}

	return req.From, size, nil
}

func sortOrder(req *api.SearchRequest, meta *schema.IndexMetadata) ([]SortClause, error) {
	if !req.HasSort() {
		return nil, nil
	}

	var clauses []string
	for _, s := range req.Sort {
		if len(strings.TrimSpace(s)) > 0 {
			clauses = append(clauses, s)
		}
	}

	ordering, err := sort.Parse(strings.Join(clauses, ","))
	if err != nil {
		return nil, err
	}

	res := make([]SortClause, 0, len(ordering))
	for _, o := range ordering {
		name := o.Field.Name()
		if !meta.HasField(name) {
			return nil, errors.NotFound("sort field '%s' not found in index '%s'", name, meta.Name)
		}

		s := SortClause{Field: name, Order: o.Order()}
		if meta.IsNested(name) {
			s.NestedPath = o.Field.FirstName()
		}
		res = append(res, s)
	}

	return res, nil
}
