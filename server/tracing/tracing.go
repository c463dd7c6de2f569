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
	"github.com/zerojuls/search-api/server/config"
	"github.com/zerojuls/search-api/util"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func getTracingOptions(c *config.Config) []tracer.StartOption {
	var opts []tracer.StartOption
	rules := []tracer.SamplingRule{tracer.ServiceRule(util.Service, c.Tracing.SampleRate)}
	opts = append(opts, tracer.WithTraceEnabled(c.Tracing.Enabled))
	opts = append(opts, tracer.WithSamplingRules(rules))
	opts = append(opts, tracer.WithService(util.Service))
	opts = append(opts, tracer.WithEnv(config.GetEnvironment()))
	opts = append(opts, tracer.WithServiceVersion(util.Version))
	opts = append(opts, tracer.WithLogStartup(false))
	if c.Tracing.AgentAddr != "" {
		opts = append(opts, tracer.WithAgentAddr(c.Tracing.AgentAddr))
	}

	return opts
}

// InitTracer starts the global tracer when tracing is enabled. The returned function stops it.
func InitTracer(config *config.Config) (func(), error) {
	if !config.Tracing.Enabled {
		return func() {}, nil
	}

	tracer.Start(getTracingOptions(config)...)

	return tracer.Stop, nil
}
