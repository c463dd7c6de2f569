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

//go:build integration

package server

import (
	"bufio"
	"net/http"
	"strings"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/require"
	"github.com/zerojuls/search-api/test/config"
	"gopkg.in/gavv/httpexpect.v1"
)

// The index is declared in config/search-api.test.yaml.
const testIndex = "listings"

var testDocs = []map[string]any{
	{"id": "1", "title": "house with garden", "status": "active", "price": 100, "geo": map[string]any{"lat": -23.5, "lon": -46.6}},
	{"id": "2", "title": "flat downtown", "status": "active", "price": 250, "geo": map[string]any{"lat": -22.9, "lon": -43.2}},
	{"id": "3", "title": "house by the sea", "status": "sold", "price": 400, "geo": map[string]any{"lat": -8.0, "lon": -34.9}},
}

func setupIndex(t *testing.T) {
	e := httpexpect.New(t, config.GetSearchURL())

	e.DELETE("/{index}", testIndex).Expect()
	e.PUT("/{index}", testIndex).
		WithJSON(map[string]any{
			"mappings": map[string]any{
				"properties": map[string]any{
					"id":     map[string]any{"type": "keyword"},
					"title":  map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]any{"type": "keyword"}}},
					"status": map[string]any{"type": "keyword"},
					"price":  map[string]any{"type": "long"},
					"geo":    map[string]any{"type": "geo_point"},
				},
			},
		}).
		Expect().
		Status(http.StatusOK)

	for _, doc := range testDocs {
		e.PUT("/{index}/_doc/{id}", testIndex, doc["id"]).
			WithQuery("refresh", "true").
			WithJSON(doc).
			Expect().
			Status(http.StatusCreated)
	}
}

func TestSearch(t *testing.T) {
	setupIndex(t)
	e := httpexpect.New(t, config.GetBaseURL())

	t.Run("filter and sort", func(t *testing.T) {
		obj := e.GET("/v2/{index}", testIndex).
			WithQuery("filter", "status:active AND price >= 100").
			WithQuery("sort", "price DESC").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		obj.ValueEqual("total", 2)
		hits := obj.Value("hits").Array()
		hits.Length().Equal(2)
		hits.Element(0).Object().ValueEqual("id", "2")
		hits.Element(1).Object().ValueEqual("id", "1")
	})

	t.Run("negation and IN", func(t *testing.T) {
		e.GET("/v2/{index}", testIndex).
			WithQuery("filter", "NOT id IN [\"1\",\"2\"]").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			ValueEqual("total", 1)
	})

	t.Run("viewport", func(t *testing.T) {
		e.GET("/v2/{index}", testIndex).
			WithQuery("filter", "geo VIEWPORT [[-43.0,-22.0],[-47.0,-24.0]]").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			ValueEqual("total", 2)
	})

	t.Run("facets", func(t *testing.T) {
		counts := e.GET("/v2/{index}", testIndex).
			WithQuery("facets", "status").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("facets").Object().
			Value("status").Object().
			Value("counts").Array()

		counts.Length().Equal(2)
		counts.Element(0).Object().ValueEqual("value", "active").ValueEqual("count", 2)
	})

	t.Run("free text", func(t *testing.T) {
		e.GET("/v2/{index}", testIndex).
			WithQuery("q", "house").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("total").Number().Gt(0)
	})

	t.Run("invalid filter", func(t *testing.T) {
		e.GET("/v2/{index}", testIndex).
			WithQuery("filter", "price >").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().Value("error").Object().
			ValueEqual("kind", "syntax_error")
	})
}

func TestGetByID(t *testing.T) {
	setupIndex(t)
	e := httpexpect.New(t, config.GetBaseURL())

	e.GET("/v2/{index}/{id}", testIndex, "3").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		ValueEqual("id", "3").
		Value("source").Object().ValueEqual("status", "sold")

	e.GET("/v2/{index}/{id}", testIndex, "404").
		Expect().
		Status(http.StatusNotFound)
}

func TestStream(t *testing.T) {
	setupIndex(t)
	e := httpexpect.New(t, config.GetBaseURL())

	body := e.GET("/v2/{index}/stream", testIndex).
		WithQuery("size", "1").
		Expect().
		Status(http.StatusOK).
		Body().Raw()

	var ids []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		id, err := jsonparser.GetString(scanner.Bytes(), "id")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.ElementsMatch(t, []string{"1", "2", "3"}, ids)
}
