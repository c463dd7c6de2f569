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

package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	qsearch "github.com/zerojuls/search-api/query/search"
	"github.com/zerojuls/search-api/schema"
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/server/http"
	"github.com/zerojuls/search-api/server/metrics"
	"github.com/zerojuls/search-api/server/tracing"
	"github.com/zerojuls/search-api/store/search"
	"github.com/zerojuls/search-api/util"
	ulog "github.com/zerojuls/search-api/util/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(mainWithCode())
}

func mainWithCode() int {
	config.LoadConfig("search-api", &config.DefaultConfig)
	ulog.Configure(config.DefaultConfig.Log)

	log.Info().Msgf("Environment: '%v'", config.GetEnvironment())
	log.Info().Msgf("Number of CPUs: %v", runtime.NumCPU())

	closerFunc, err := tracing.InitTracer(&config.DefaultConfig)
	if err != nil {
		ulog.E(err)
	}
	defer closerFunc()

	// Initialize metrics once
	closer := metrics.InitializeMetrics(config.DefaultConfig.Metrics)
	defer func() { ulog.E(closer.Close()) }()

	log.Info().Str("version", util.Version).Msgf("Starting server")

	registry, err := schema.NewRegistry(config.DefaultConfig.Indexes)
	if err != nil {
		log.Error().Err(err).Msg("error loading index configuration")
		return 1
	}

	config.WatchConfig(func(cfg *config.Config) {
		if err := registry.Refresh(cfg.Indexes); err != nil {
			log.Error().Err(err).Msg("index configuration rejected, keeping the previous one")
		}
	})

	var searchStore search.Store
	switch {
	case config.DefaultConfig.Search.Host == "":
		log.Warn().Msg("no search backend configured, every search returns no results")
		searchStore = &search.NoopStore{}
	case config.DefaultConfig.Tracing.Enabled || config.DefaultConfig.Metrics.Enabled:
		searchStore, err = search.NewStoreWithMetrics(&config.DefaultConfig.Search)
	default:
		searchStore, err = search.NewStore(&config.DefaultConfig.Search)
	}
	if err != nil {
		log.Error().Err(err).Msg("error initializing search store")
		return 1
	}

	srv := http.NewServer(&config.DefaultConfig, qsearch.NewCompiler(registry), searchStore)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		ulog.E(srv.Shutdown(ctx))
	}()

	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("error starting http server")
		return 1
	}

	log.Info().Msg("Shutdown")
	return 0
}
