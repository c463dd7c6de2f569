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
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/zerojuls/search-api/errors"
	qsearch "github.com/zerojuls/search-api/query/search"
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/server/metrics"
	"github.com/zerojuls/search-api/store/search"
)

type Server struct {
	Router chi.Router
	httpS  *http.Server
}

// NewServer returns the search API server. Compiled requests are executed against store.
func NewServer(cfg *config.Config, compiler *qsearch.Compiler, store search.Store) *Server {
	r := chi.NewRouter()
	s := &Server{
		Router: r,
		httpS: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(int(cfg.Server.Port))),
			Handler:           r,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		},
	}

	h := &handler{compiler: compiler, store: store}

	r.Use(chi_middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(RequestIDMiddleware)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(&cfg.Server))
		r.Use(MeasureMiddleware)
		r.Use(CompressMiddleware)

		r.Get("/v2/{index}", h.search)
		r.Get("/v2/{index}/stream", h.stream)
		r.Get("/v2/{index}/{id}", h.get)
	})

	return s
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpS.Addr).Msg("starting http server")

	if err := s.httpS.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpS.Shutdown(ctx)
}
