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
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/zerojuls/search-api/errors"
	qsearch "github.com/zerojuls/search-api/query/search"
	"github.com/zerojuls/search-api/server/config"
)

// Store executes compiled requests against the search backend.
type Store interface {
	Search(ctx context.Context, req *qsearch.Request) (*Result, error)
	Get(ctx context.Context, req *qsearch.GetRequest) (*Hit, error)
	// Scroll returns an iterator over every document matching req, req.Size documents per batch.
	Scroll(ctx context.Context, req *qsearch.Request) (Iterator, error)
}

// Iterator walks the batches of a scrolled search. Next returns false when the results are exhausted or on
// failure, Err tells the two apart.
type Iterator interface {
	Next(ctx context.Context, hits *[]Hit) bool
	Err() error
	Close(ctx context.Context) error
}

func NewStore(config *config.SearchConfig) (Store, error) {
	if config.Host == "" {
		return nil, errors.Internal("search backend host is not configured")
	}

	baseURL := fmt.Sprintf("http://%s", net.JoinHostPort(config.Host, strconv.Itoa(int(config.Port))))
	log.Info().Str("host", config.Host).Int16("port", config.Port).Msg("initialized search store")

	return &storeImpl{
		baseURL: baseURL,
		client:  &http.Client{Timeout: config.Timeout},
	}, nil
}

// NoopStore matches nothing. It backs the server when no search backend is configured.
type NoopStore struct{}

func (n *NoopStore) Search(context.Context, *qsearch.Request) (*Result, error) {
	return &Result{}, nil
}

func (n *NoopStore) Get(_ context.Context, req *qsearch.GetRequest) (*Hit, error) {
	return nil, errors.NotFound("document '%s' not found in index '%s'", req.ID, req.Index)
}

func (n *NoopStore) Scroll(context.Context, *qsearch.Request) (Iterator, error) {
	return &emptyIterator{}, nil
}

type emptyIterator struct{}

func (*emptyIterator) Next(context.Context, *[]Hit) bool { return false }
func (*emptyIterator) Err() error                         { return nil }
func (*emptyIterator) Close(context.Context) error        { return nil }
