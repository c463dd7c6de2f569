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
)

func getCompilerOkTagKeys() []string {
	return []string{
		"env",
		"index",
		"compile_method",
	}
}

func getCompilerErrorTagKeys() []string {
	return []string{
		"env",
		"index",
		"compile_method",
		"error_kind",
		"error_code",
	}
}

// MeasureCompile runs a query compilation inside a span and counts compiled and failed requests by index and
// error kind.
func MeasureCompile(ctx context.Context, index string, method string, f func() error) error {
	tags := mergeTags(GetIndexTags(index), map[string]string{"compile_method": method}, GetGlobalTags())

	m := NewMeasurement(TraceServiceName, method, CompilerSpanType, tags)
	_ = m.StartTracing(ctx)
	err := f()
	m.Finish(CompilerMetrics, getCompilerOkTagKeys(), getCompilerErrorTagKeys(), err)

	return err
}
