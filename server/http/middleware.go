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

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/server/metrics"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

type outcomeKey struct{}

// outcome carries the error written to the client back to the middlewares.
type outcome struct {
	err error
}

func setOutcome(ctx context.Context, err error) {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		o.err = err
	}
}

// RequestIDMiddleware propagates the request id of the caller, generating one when missing, and attaches a
// logger carrying it to the request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	}

	return http.HandlerFunc(fn)
}

// RateLimitMiddleware rejects requests over the configured rate of the server. A zero rate disables limiting.
func RateLimitMiddleware(cfg *config.ServerConfig) func(http.Handler) http.Handler {
	if cfg.RateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := cfg.RateBurst
	if burst < cfg.RateLimit {
		burst = cfg.RateLimit
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, r, errors.ResourceExhausted("request rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// MeasureMiddleware traces the request and counts it by route and response status.
func MeasureMiddleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m := metrics.NewRequestMeasurement(r.Method, route)
		o := &outcome{}
		ctx := context.WithValue(m.Start(r.Context()), outcomeKey{}, o)

		ww := chi_middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Done(status, o.err)

		log.Ctx(r.Context()).Debug().
			Str("route", route).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Err(o.err).
			Msg("request served")
	}

	return http.HandlerFunc(fn)
}

// CompressMiddleware gzips the responses of clients accepting it. Bodies under the gzhttp minimum size are sent
// uncompressed.
func CompressMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
