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
	"strconv"
)

func getRequestOkTagKeys() []string {
	return []string{
		"env",
		"route",
		"method",
		"status",
	}
}

func getRequestErrorTagKeys() []string {
	return []string{
		"env",
		"route",
		"method",
		"status",
		"error_kind",
		"error_code",
	}
}

// RequestMeasurement follows one HTTP request.
type RequestMeasurement struct {
	*Measurement
}

func NewRequestMeasurement(method string, route string) *RequestMeasurement {
	tags := mergeTags(map[string]string{"route": route, "method": method}, GetGlobalTags())
	return &RequestMeasurement{NewMeasurement(TraceServiceName, method+" "+route, HTTPSpanType, tags)}
}

func (r *RequestMeasurement) Start(ctx context.Context) context.Context {
	return r.StartTracing(ctx)
}

// Done records the request outcome. err is the error written to the client, if any.
func (r *RequestMeasurement) Done(status int, err error) {
	r.AddTags(map[string]string{"status": strconv.Itoa(status)})
	r.Finish(Requests, getRequestOkTagKeys(), getRequestErrorTagKeys(), err)
}
