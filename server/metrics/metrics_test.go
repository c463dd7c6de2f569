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
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/server/config"
	ulog "github.com/zerojuls/search-api/util/log"
)

func counterValue(t *testing.T, scope tally.TestScope, name string, tags map[string]string) int64 {
	t.Helper()

	for _, c := range scope.Snapshot().Counters() {
		if c.Name() != name {
			continue
		}
		match := true
		for k, v := range tags {
			if c.Tags()[k] != v {
				match = false
				break
			}
		}
		if match {
			return c.Value()
		}
	}

	return 0
}

func TestInitializeMetrics(t *testing.T) {
	t.Run("global tags", func(t *testing.T) {
		globalTags := GetGlobalTags()
		for _, key := range []string{"service", "env", "version"} {
			require.Contains(t, globalTags, key)
			require.NotEmpty(t, globalTags[key])
		}
	})

	t.Run("disabled", func(t *testing.T) {
		closer := InitializeMetrics(config.MetricsConfig{Enabled: false})
		require.NoError(t, closer.Close())
	})

	t.Run("enabled", func(t *testing.T) {
		closer := InitializeMetrics(config.MetricsConfig{Enabled: true})
		defer func() { _ = closer.Close() }()

		require.NotNil(t, Reporter)
		require.NotNil(t, Handler())
		require.NoError(t, MeasureCompile(context.Background(), "products", "search", func() error { return nil }))
	})
}

func TestStandardizeTags(t *testing.T) {
	res := standardizeTags(map[string]string{"env": "test", "index": "", "extra": "x"}, []string{"env", "index", "route"})
	require.Equal(t, map[string]string{"env": "test", "index": unknownTagValue, "route": unknownTagValue}, res)
}

func TestMergeTags(t *testing.T) {
	res := mergeTags(
		map[string]string{"a": "1", "b": unknownTagValue},
		map[string]string{"a": "2", "b": "3", "c": "4"},
	)
	require.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, res)
}

func TestGetErrorTags(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind string
		code string
	}{
		{"syntax", errors.Syntax("bad"), "syntax_error", "INVALID_ARGUMENT"},
		{"not found", errors.NotFound("missing"), "metadata_lookup_failure", "NOT_FOUND"},
		{"plain", os.ErrClosed, "internal_error", unknownTagValue},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tags := getErrorTags(c.err)
			require.Equal(t, c.kind, tags["error_kind"])
			require.Equal(t, c.code, tags["error_code"])
		})
	}
}

func TestMeasureSearch(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	saved := SearchMetrics
	SearchMetrics = scope
	defer func() { SearchMetrics = saved }()

	require.NoError(t, MeasureSearch(context.Background(), "products", "search", func(ctx context.Context) error {
		require.NotNil(t, ctx)
		return nil
	}))
	require.Error(t, MeasureSearch(context.Background(), "products", "get", func(context.Context) error {
		return errors.NotFound("document not found")
	}))

	require.Equal(t, int64(1), counterValue(t, scope, "ok", map[string]string{"index": "products", "search_method": "search"}))
	require.Equal(t, int64(1), counterValue(t, scope, "error", map[string]string{
		"index":         "products",
		"search_method": "get",
		"error_kind":    "metadata_lookup_failure",
	}))
	require.Equal(t, int64(0), counterValue(t, scope, "error", map[string]string{"search_method": "search"}))
}

func TestMeasurement(t *testing.T) {
	m := NewMeasurement(TraceServiceName, "Compile", CompilerSpanType, GetIndexTags("products"))
	require.Equal(t, TraceServiceName, m.GetServiceName())
	require.Equal(t, "Compile", m.GetResourceName())
	require.Len(t, m.GetSpanOptions(), 4)

	ctx := m.StartTracing(context.Background())
	require.NotNil(t, ctx)
	m.AddTags(map[string]string{"compile_method": "search"})
	require.Equal(t, map[string]string{"index": "products", "compile_method": "search"}, m.GetTags())
	m.FinishTracing(nil)
}

func TestRequestMeasurement(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	saved := Requests
	Requests = scope
	defer func() { Requests = saved }()

	m := NewRequestMeasurement("GET", "/v2/{index}")
	_ = m.Start(context.Background())
	m.Done(200, nil)

	m = NewRequestMeasurement("GET", "/v2/{index}")
	_ = m.Start(context.Background())
	m.Done(400, errors.Syntax("unexpected ')'"))

	require.Equal(t, int64(1), counterValue(t, scope, "ok", map[string]string{"route": "/v2/{index}", "status": "200"}))
	require.Equal(t, int64(1), counterValue(t, scope, "error", map[string]string{"status": "400", "error_kind": "syntax_error"}))
}

func TestMain(m *testing.M) {
	ulog.Configure(ulog.LogConfig{Level: "disabled", Format: "console"})

	os.Exit(m.Run())
}
