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

	qsearch "github.com/zerojuls/search-api/query/search"
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/server/metrics"
)

type storeImplWithMetrics struct {
	s Store
}

// NewStoreWithMetrics returns the backend store with every call traced and counted in the search scope.
func NewStoreWithMetrics(config *config.SearchConfig) (Store, error) {
	s, err := NewStore(config)
	if err != nil {
		return nil, err
	}

	return WithMetrics(s), nil
}

func WithMetrics(s Store) Store {
	return &storeImplWithMetrics{s: s}
}

func (m *storeImplWithMetrics) Search(ctx context.Context, req *qsearch.Request) (res *Result, err error) {
	err = metrics.MeasureSearch(ctx, req.Index, "search", func(ctx context.Context) error {
		res, err = m.s.Search(ctx, req)
		return err
	})
	return
}

func (m *storeImplWithMetrics) Get(ctx context.Context, req *qsearch.GetRequest) (hit *Hit, err error) {
	err = metrics.MeasureSearch(ctx, req.Index, "get", func(ctx context.Context) error {
		hit, err = m.s.Get(ctx, req)
		return err
	})
	return
}

func (m *storeImplWithMetrics) Scroll(ctx context.Context, req *qsearch.Request) (Iterator, error) {
	it, err := m.s.Scroll(ctx, req)
	if err != nil {
		return nil, err
	}

	return &iteratorWithMetrics{it: it, index: req.Index}, nil
}

type iteratorWithMetrics struct {
	it    Iterator
	index string
}

func (m *iteratorWithMetrics) Next(ctx context.Context, hits *[]Hit) bool {
	var more bool
	_ = metrics.MeasureSearch(ctx, m.index, "scroll_next", func(ctx context.Context) error {
		more = m.it.Next(ctx, hits)
		return m.it.Err()
	})

	return more
}

func (m *iteratorWithMetrics) Err() error {
	return m.it.Err()
}

func (m *iteratorWithMetrics) Close(ctx context.Context) error {
	return metrics.MeasureSearch(ctx, m.index, "scroll_close", func(ctx context.Context) error {
		return m.it.Close(ctx)
	})
}
