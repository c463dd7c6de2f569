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
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	api "github.com/zerojuls/search-api/api/server/v1"
	"github.com/zerojuls/search-api/errors"
	qsearch "github.com/zerojuls/search-api/query/search"
	"github.com/zerojuls/search-api/server/metrics"
	ssearch "github.com/zerojuls/search-api/server/search"
	"github.com/zerojuls/search-api/server/stream"
	"github.com/zerojuls/search-api/store/search"
	"google.golang.org/grpc/codes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// scrollCloseTimeout bounds the release of a scroll, which also runs once the client went away.
const scrollCloseTimeout = 5 * time.Second

type hitResponse struct {
	ID     string              `json:"id"`
	Score  float64             `json:"score,omitempty"`
	Source jsoniter.RawMessage `json:"source,omitempty"`
}

type searchResponse struct {
	Total  int64                       `json:"total"`
	Hits   []hitResponse               `json:"hits"`
	Facets map[string]*api.SearchFacet `json:"facets,omitempty"`
}

func newHitResponse(hit *search.Hit) hitResponse {
	return hitResponse{ID: hit.ID, Score: hit.Score, Source: hit.Source}
}

func newSearchResponse(req *qsearch.Request, res *search.Result) *searchResponse {
	resp := &searchResponse{
		Total: res.Total,
		Hits:  make([]hitResponse, 0, len(res.Hits)),
	}
	if len(req.Aggregations) > 0 {
		resp.Facets = ssearch.NewFacetResponse(req.Aggregations).Build(res.Aggregations)
	}
	for i := range res.Hits {
		resp.Hits = append(resp.Hits, newHitResponse(&res.Hits[i]))
	}

	return resp
}

type handler struct {
	compiler *qsearch.Compiler
	store    search.Store
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) compile(r *http.Request) (*qsearch.Request, error) {
	req, err := bindSearchRequest(r)
	if err != nil {
		return nil, err
	}

	var compiled *qsearch.Request
	err = metrics.MeasureCompile(r.Context(), req.Index, "search", func() error {
		compiled, err = h.compiler.Compile(req)
		return err
	})

	return compiled, err
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	compiled, err := h.compile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.store.Search(r.Context(), compiled)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSearchResponse(compiled, res))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	req := bindGetRequest(r)

	var compiled *qsearch.GetRequest
	err := metrics.MeasureCompile(r.Context(), req.Index, "get", func() (err error) {
		compiled, err = h.compiler.CompileGet(req)
		return
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	hit, err := h.store.Get(r.Context(), compiled)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newHitResponse(hit))
}

func (h *handler) stream(w http.ResponseWriter, r *http.Request) {
	compiled, err := h.compile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.store.Scroll(r.Context(), compiled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), scrollCloseTimeout)
		defer cancel()

		if err := it.Close(ctx); err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("closing result stream")
		}
	}()

	lw := &lazyWriter{w: w}
	n, err := stream.Write(r.Context(), lw, it)
	if err != nil {
		if !lw.started {
			writeError(w, r, err)
			return
		}
		// the status is already sent, the client sees a truncated stream
		setOutcome(r.Context(), err)
		log.Ctx(r.Context()).Error().Err(err).Int("records", n).Msg("result stream interrupted")
		return
	}

	if !lw.started {
		w.Header().Set("Content-Type", stream.ContentType)
		w.WriteHeader(http.StatusOK)
	}
}

// lazyWriter sends the stream headers on the first write so that a failure before any result is reported with a
// proper error status.
type lazyWriter struct {
	w       http.ResponseWriter
	started bool
}

func (l *lazyWriter) Write(p []byte) (int, error) {
	if !l.started {
		l.started = true
		l.w.Header().Set("Content-Type", stream.ContentType)
		l.w.WriteHeader(http.StatusOK)
	}

	return l.w.Write(p)
}

func (l *lazyWriter) Flush() {
	if f, ok := l.w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("writing response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		log.Ctx(r.Context()).Error().Err(err).Msg("unexpected error")
		apiErr = api.Errorf(codes.Internal, api.InternalError, "%s", err.Error())
	}

	setOutcome(r.Context(), apiErr)
	writeJSON(w, apiErr.HTTPStatus(), apiErr)
}
