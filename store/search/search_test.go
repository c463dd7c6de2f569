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
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/require"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	qsearch "github.com/zerojuls/search-api/query/search"
	"github.com/zerojuls/search-api/server/config"
	"google.golang.org/grpc/codes"
)

const backendURL = "http://localhost:9200"

func newTestStore(t *testing.T) Store {
	t.Helper()

	cfg := config.DefaultConfig.Search
	cfg.Host = "localhost"
	cfg.Port = 9200

	s, err := NewStoreWithMetrics(&cfg)
	require.NoError(t, err)

	return s
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(&config.SearchConfig{})
	require.Error(t, err)
	require.Equal(t, api.InternalError, errors.KindOf(err))
}

func TestStoreSearch(t *testing.T) {
	defer gock.Off()
	s := newTestStore(t)
	ctx := context.TODO()

	t.Run("hits and aggregations", func(t *testing.T) {
		gock.New(backendURL).
			Post("/products/_search").
			MatchType("json").
			Reply(200).
			BodyString(`{
				"took": 3,
				"hits": {
					"total": {"value": 12, "relation": "eq"},
					"hits": [
						{"_id": "1", "_score": 1.5, "_source": {"name": "shoe", "price": 10}},
						{"_id": "2", "_score": null, "_source": {"name": "boot"}}
					]
				},
				"aggregations": {"brand": {"buckets": []}}
			}`)

		res, err := s.Search(ctx, &qsearch.Request{Index: "products", Query: &qsearch.BoolQuery{}, Size: 2})
		require.NoError(t, err)
		require.Equal(t, int64(12), res.Total)
		require.Len(t, res.Hits, 2)
		require.Equal(t, "1", res.Hits[0].ID)
		require.Equal(t, 1.5, res.Hits[0].Score)
		require.JSONEq(t, `{"name": "shoe", "price": 10}`, string(res.Hits[0].Source))
		require.Equal(t, float64(0), res.Hits[1].Score)
		require.JSONEq(t, `{"brand": {"buckets": []}}`, string(res.Aggregations))
		require.True(t, gock.IsDone())
	})

	t.Run("legacy total", func(t *testing.T) {
		gock.New(backendURL).
			Post("/products/_search").
			Reply(200).
			BodyString(`{"hits": {"total": 4, "hits": []}}`)

		res, err := s.Search(ctx, &qsearch.Request{Index: "products", Size: 2})
		require.NoError(t, err)
		require.Equal(t, int64(4), res.Total)
		require.Empty(t, res.Hits)
		require.Nil(t, res.Aggregations)
		require.True(t, gock.IsDone())
	})

	t.Run("backend rejects the query", func(t *testing.T) {
		gock.New(backendURL).
			Post("/products/_search").
			Reply(400).
			BodyString(`{"error": {"type": "parsing_exception", "reason": "unknown query [foo]"}, "status": 400}`)

		_, err := s.Search(ctx, &qsearch.Request{Index: "products", Size: 2})
		require.Error(t, err)

		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, codes.Internal, apiErr.Code)
		require.Contains(t, apiErr.Message, "unknown query [foo]")
		require.True(t, gock.IsDone())
	})

	t.Run("backend overloaded", func(t *testing.T) {
		gock.New(backendURL).
			Post("/products/_search").
			Reply(429).
			BodyString(`{"error": "too many requests"}`)

		_, err := s.Search(ctx, &qsearch.Request{Index: "products", Size: 2})

		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, codes.Unavailable, apiErr.Code)
		require.Equal(t, "search backend: too many requests", apiErr.Message)
		require.True(t, gock.IsDone())
	})
}

func TestStoreGet(t *testing.T) {
	defer gock.Off()
	s := newTestStore(t)
	ctx := context.TODO()

	t.Run("found", func(t *testing.T) {
		gock.New(backendURL).
			Get("/products/_doc/42").
			MatchParam("_source_includes", "name,price").
			MatchParam("_source_excludes", "secret").
			Reply(200).
			BodyString(`{"_index": "products", "_id": "42", "found": true, "_source": {"name": "shoe"}}`)

		hit, err := s.Get(ctx, &qsearch.GetRequest{
			Index:  "products",
			ID:     "42",
			Source: &qsearch.SourceFilter{Includes: []string{"name", "price"}, Excludes: []string{"secret"}},
		})
		require.NoError(t, err)
		require.Equal(t, "42", hit.ID)
		require.JSONEq(t, `{"name": "shoe"}`, string(hit.Source))
		require.True(t, gock.IsDone())
	})

	t.Run("missing", func(t *testing.T) {
		gock.New(backendURL).
			Get("/products/_doc/43").
			Reply(404).
			BodyString(`{"_index": "products", "_id": "43", "found": false}`)

		_, err := s.Get(ctx, &qsearch.GetRequest{Index: "products", ID: "43"})
		require.Error(t, err)
		require.Equal(t, api.MetadataLookupFailure, errors.KindOf(err))
		require.Equal(t, "document '43' not found in index 'products'", err.Error())
		require.True(t, gock.IsDone())
	})
}

func TestStoreScroll(t *testing.T) {
	defer gock.Off()
	s := newTestStore(t)
	ctx := context.TODO()

	gock.New(backendURL).
		Post("/products/_search").
		MatchParam("scroll", "1m").
		Reply(200).
		BodyString(`{"_scroll_id": "c2Nyb2xs", "hits": {"total": {"value": 3}, "hits": [{"_id": "1", "_source": {}}, {"_id": "2", "_source": {}}]}}`)
	gock.New(backendURL).
		Post("/_search/scroll").
		Reply(200).
		BodyString(`{"_scroll_id": "c2Nyb2xs", "hits": {"total": {"value": 3}, "hits": [{"_id": "3", "_source": {}}]}}`)
	gock.New(backendURL).
		Post("/_search/scroll").
		Reply(200).
		BodyString(`{"_scroll_id": "c2Nyb2xs", "hits": {"total": {"value": 3}, "hits": []}}`)
	gock.New(backendURL).
		Delete("/_search/scroll").
		Reply(200).
		BodyString(`{"succeeded": true, "num_freed": 1}`)

	it, err := s.Scroll(ctx, &qsearch.Request{Index: "products", From: 10, Size: 2})
	require.NoError(t, err)

	var (
		ids   []string
		batch []Hit
	)
	for it.Next(ctx, &batch) {
		for _, h := range batch {
			ids = append(ids, h.ID)
		}
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{"1", "2", "3"}, ids)
	require.NoError(t, it.Close(ctx))
	require.True(t, gock.IsDone())
}

func TestConvertResponseError(t *testing.T) {
	cases := []struct {
		status int
		body   string
		code   codes.Code
		msg    string
	}{
		{http.StatusNotFound, `{"error": {"reason": "no such index [x]"}}`, codes.NotFound, "search backend: no such index [x]"},
		{http.StatusServiceUnavailable, ``, codes.Unavailable, "search backend: Service Unavailable"},
		{http.StatusBadRequest, `{"error": {"reason": "bad"}}`, codes.Internal, "search backend returned 400: bad"},
		{http.StatusInternalServerError, `not json`, codes.Internal, "search backend returned 500: Internal Server Error"},
	}

	for _, c := range cases {
		t.Run(http.StatusText(c.status), func(t *testing.T) {
			var apiErr *api.Error
			require.True(t, errors.As(convertResponseError(c.status, []byte(c.body)), &apiErr))
			require.Equal(t, c.code, apiErr.Code)
			require.Equal(t, c.msg, apiErr.Message)
		})
	}
}

func TestNoopStore(t *testing.T) {
	s := &NoopStore{}
	ctx := context.TODO()

	res, err := s.Search(ctx, &qsearch.Request{Index: "products"})
	require.NoError(t, err)
	require.Zero(t, res.Total)

	_, err = s.Get(ctx, &qsearch.GetRequest{Index: "products", ID: "1"})
	require.Equal(t, api.MetadataLookupFailure, errors.KindOf(err))

	it, err := s.Scroll(ctx, &qsearch.Request{Index: "products"})
	require.NoError(t, err)
	var hits []Hit
	require.False(t, it.Next(ctx, &hits))
	require.NoError(t, it.Err())
	require.NoError(t, it.Close(ctx))
}
