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

package tracing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zerojuls/search-api/server/config"
)

func TestInitTracer(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := config.DefaultConfig
		cfg.Tracing.Enabled = false

		stop, err := InitTracer(&cfg)
		require.NoError(t, err)
		require.NotNil(t, stop)
		stop()
	})

	t.Run("options", func(t *testing.T) {
		cfg := config.DefaultConfig
		cfg.Tracing.Enabled = true
		cfg.Tracing.AgentAddr = "localhost:8126"

		require.Len(t, getTracingOptions(&cfg), 7)

		cfg.Tracing.AgentAddr = ""
		require.Len(t, getTracingOptions(&cfg), 6)
	})
}
