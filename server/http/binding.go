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

package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
)

// Query parameters of the search endpoints. List parameters are accepted repeated, comma separated or both.
const (
	paramFilter        = "filter"
	paramQ             = "q"
	paramMM            = "mm"
	paramFields        = "fields"
	paramSort          = "sort"
	paramFacets        = "facets"
	paramFacetSize     = "facetSize"
	paramFrom          = "from"
	paramSize          = "size"
	paramIncludeFields = "includeFields"
	paramExcludeFields = "excludeFields"
)

func bindSearchRequest(r *http.Request) (*api.SearchRequest, error) {
	q := r.URL.Query()

	req := &api.SearchRequest{
		Index:         chi.URLParam(r, "index"),
		Filter:        q.Get(paramFilter),
		Q:             q.Get(paramQ),
		MM:            q.Get(paramMM),
		Fields:        listParam(q, paramFields),
		Sort:          listParam(q, paramSort),
		Facets:        listParam(q, paramFacets),
		IncludeFields: listParam(q, paramIncludeFields),
		ExcludeFields: listParam(q, paramExcludeFields),
	}

	var err error
	if req.From, err = intParam(q, paramFrom); err != nil {
		return nil, err
	}
	if req.Size, err = intParam(q, paramSize); err != nil {
		return nil, err
	}
	if req.FacetSize, err = intParam(q, paramFacetSize); err != nil {
		return nil, err
	}

	return req, nil
}

func bindGetRequest(r *http.Request) *api.GetRequest {
	q := r.URL.Query()

	return &api.GetRequest{
		Index:         chi.URLParam(r, "index"),
		ID:            chi.URLParam(r, "id"),
		IncludeFields: listParam(q, paramIncludeFields),
		ExcludeFields: listParam(q, paramExcludeFields),
	}
}

func listParam(q url.Values, name string) []string {
	var res []string
	for _, v := range q[name] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				res = append(res, item)
			}
		}
	}

	return res
}

func intParam(q url.Values, name string) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return 0, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Validation("parameter '%s' must be an integer, got '%s'", name, v)
	}

	return i, nil
}
