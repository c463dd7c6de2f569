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
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	qsearch "github.com/zerojuls/search-api/query/search"
	ulog "github.com/zerojuls/search-api/util/log"
)

const scrollKeepAlive = "1m"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type storeImpl struct {
	baseURL string
	client  *http.Client
}

func (s *storeImpl) do(ctx context.Context, method string, path string, params url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Internal("encoding search request: %s", err.Error())
		}
		reader = bytes.NewReader(data)
	}

	target := s.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Internal("building search request: %s", err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, convertTransportError(ctx, err)
	}
	defer func() { ulog.E(resp.Body.Close()) }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, convertTransportError(ctx, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, convertResponseError(resp.StatusCode, data)
	}

	return data, nil
}

func (s *storeImpl) Search(ctx context.Context, req *qsearch.Request) (*Result, error) {
	data, err := s.do(ctx, http.MethodPost, "/"+url.PathEscape(req.Index)+"/_search", nil, req)
	if err != nil {
		return nil, err
	}

	res, _, err := parseSearchResponse(data)
	if err != nil {
		return nil, errors.Internal("decoding search response: %s", err.Error())
	}

	return res, nil
}

func (s *storeImpl) Get(ctx context.Context, req *qsearch.GetRequest) (*Hit, error) {
	params := url.Values{}
	if !req.Source.IsEmpty() {
		if len(req.Source.Includes) > 0 {
			params.Set("_source_includes", strings.Join(req.Source.Includes, ","))
		}
		if len(req.Source.Excludes) > 0 {
			params.Set("_source_excludes", strings.Join(req.Source.Excludes, ","))
		}
	}

	path := "/" + url.PathEscape(req.Index) + "/_doc/" + url.PathEscape(req.ID)
	data, err := s.do(ctx, http.MethodGet, path, params, nil)

	if err != nil && errors.KindOf(err) == api.MetadataLookupFailure {
		// a missing document comes back as a 404 carrying found: false
		return nil, errors.NotFound("document '%s' not found in index '%s'", req.ID, req.Index)
	}
	if err != nil {
		return nil, err
	}

	hit, err := parseGetResponse(data)
	if err != nil {
		return nil, errors.Internal("decoding get response: %s", err.Error())
	}
	if hit == nil {
		return nil, errors.NotFound("document '%s' not found in index '%s'", req.ID, req.Index)
	}

	return hit, nil
}

func (s *storeImpl) Scroll(_ context.Context, req *qsearch.Request) (Iterator, error) {
	scrolled := *req
	// the backend rejects an offset in a scroll context
	scrolled.From = 0

	return &scrollIterator{store: s, req: &scrolled}, nil
}

type scrollIterator struct {
	store    *storeImpl
	req      *qsearch.Request
	scrollID string
	done     bool
	err      error
}

func (it *scrollIterator) Next(ctx context.Context, hits *[]Hit) bool {
	if it.done || it.err != nil {
		return false
	}

	var (
		data []byte
		err  error
	)
	if it.scrollID == "" {
		params := url.Values{"scroll": []string{scrollKeepAlive}}
		data, err = it.store.do(ctx, http.MethodPost, "/"+url.PathEscape(it.req.Index)+"/_search", params, it.req)
	} else {
		body := map[string]string{"scroll": scrollKeepAlive, "scroll_id": it.scrollID}
		data, err = it.store.do(ctx, http.MethodPost, "/_search/scroll", nil, body)
	}
	if err != nil {
		it.err = err
		return false
	}

	res, scrollID, err := parseSearchResponse(data)
	if err != nil {
		it.err = errors.Internal("decoding scroll response: %s", err.Error())
		return false
	}
	if scrollID != "" {
		it.scrollID = scrollID
	}
	if len(res.Hits) == 0 {
		it.done = true
		return false
	}

	*hits = res.Hits

	return true
}

func (it *scrollIterator) Err() error {
	return it.err
}

// Close releases the backend scroll context, if one was opened.
func (it *scrollIterator) Close(ctx context.Context) error {
	if it.scrollID == "" {
		return nil
	}

	body := map[string][]string{"scroll_id": {it.scrollID}}
	_, err := it.store.do(ctx, http.MethodDelete, "/_search/scroll", nil, body)
	it.scrollID = ""
	it.done = true

	return err
}
