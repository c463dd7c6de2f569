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

func getSearchOkTagKeys() []string {
	return []string{
		"env",
		"index",
		"search_method",
	}
}

func getSearchErrorTagKeys() []string {
	return []string{
		"env",
		"index",
		"search_method",
		"error_kind",
		"error_code",
	}
}

func GetSearchTags(index string, method string) map[string]string {
	return map[string]string{
		"index":         index,
		"search_method": method,
	}
}

// MeasureSearch runs a call to the search backend inside a span and records its outcome.
func MeasureSearch(ctx context.Context, index string, method string, f func(ctx context.Context) error) error {
	m := NewMeasurement(TraceServiceName, method, SearchSpanType, mergeTags(GetSearchTags(index, method), GetGlobalTags()))
	ctx = m.StartTracing(ctx)
	err := f(ctx)
	m.Finish(SearchMetrics, getSearchOkTagKeys(), getSearchErrorTagKeys(), err)

	return err
}
