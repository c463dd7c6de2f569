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

package metrics

import (
	"io"
	"net/http"
	"time"

	prom "github.com/m3db/prometheus_client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/uber-go/tally"
	promreporter "github.com/uber-go/tally/prometheus"
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/util"
)

var (
	root     tally.Scope = tally.NoopScope
	Reporter promreporter.Reporter
	// HTTP related metric scopes
	Requests tally.Scope = tally.NoopScope
	// Filter and query compilation metric scopes
	CompilerMetrics tally.Scope = tally.NoopScope
	// Search backend metric scopes
	SearchMetrics tally.Scope = tally.NoopScope
)

func GetGlobalTags() map[string]string {
	res := map[string]string{
		"service": util.Service,
		"env":     config.GetEnvironment(),
	}
	if res["version"] = util.Version; res["version"] == "" {
		res["version"] = "dev"
	}
	if res["env"] == "" {
		res["env"] = "unknown"
	}
	return res
}

// InitializeMetrics creates the root scope reported through Prometheus. When metrics are disabled every scope stays
// a no-op scope so that callers never check for it.
func InitializeMetrics(cfg config.MetricsConfig) io.Closer {
	if !cfg.Enabled {
		log.Debug().Msg("metrics are disabled")
		return noopCloser{}
	}

	var closer io.Closer
	log.Debug().Msg("Initializing metrics")
	registry := prom.NewRegistry()
	Reporter = promreporter.NewReporter(promreporter.Options{Registerer: registry})
	root, closer = tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "search_api",
		Tags:           GetGlobalTags(),
		CachedReporter: Reporter,
		// Panics with .
		Separator: promreporter.DefaultSeparator,
	}, 1*time.Second)

	Requests = root.SubScope("requests")
	CompilerMetrics = root.SubScope("compiler")
	SearchMetrics = root.SubScope("search")

	return closer
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// Handler exposes the collected metrics, it answers 404 when metrics are disabled.
func Handler() http.Handler {
	if Reporter == nil {
		return http.NotFoundHandler()
	}

	return Reporter.HTTPHandler()
}
